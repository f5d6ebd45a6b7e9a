package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/glebarez/go-sqlite" // registers the "sqlite" driver
	_ "github.com/lib/pq"             // registers the "postgres" driver
)

// Both Postgres and SQLite accept $N placeholders and ON CONFLICT upserts.
const (
	sqlCreateTable = `CREATE TABLE IF NOT EXISTS dtr_kv (name TEXT PRIMARY KEY, data TEXT NOT NULL)`
	sqlSelect      = `SELECT data FROM dtr_kv WHERE name = $1`
	sqlUpsert      = `INSERT INTO dtr_kv (name, data) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET data = excluded.data`
)

// SQL stores values in the dtr_kv table of a database/sql database.
type SQL struct {
	db *sql.DB
}

// NewSQL makes sure the table exists.
func NewSQL(ctx context.Context, db *sql.DB) (*SQL, error) {
	if _, err := db.ExecContext(ctx, sqlCreateTable); err != nil {
		return nil, fmt.Errorf("cannot create table dtr_kv: %w", err)
	}
	return &SQL{db: db}, nil
}

// OpenSQL opens a database with the given driver name and data source.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s database: %w", driver, err)
	}
	s, err := NewSQL(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, sqlSelect, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cannot read %q: %w", key, err)
	}
	return data, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, sqlUpsert, key, value); err != nil {
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	return nil
}

func (s *SQL) Close() error { return s.db.Close() }
