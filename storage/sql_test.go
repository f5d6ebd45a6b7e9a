package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQL(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(sqlCreateTable)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(sqlSelect)).WithArgs("budget").WillReturnRows(sqlmock.NewRows([]string{"data"}))
	mock.ExpectExec(regexp.QuoteMeta(sqlUpsert)).WithArgs("budget", "100").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(sqlSelect)).WithArgs("budget").WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow("100"))

	s, err := NewSQL(ctx, db)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "budget")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "budget", "100"))

	v, ok, err := s.Get(ctx, "budget")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "100", v)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLErrors(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(sqlCreateTable)).WillReturnError(errors.New("permission denied"))
	_, err = NewSQL(ctx, db)
	assert.ErrorContains(t, err, "permission denied")

	mock.ExpectExec(regexp.QuoteMeta(sqlCreateTable)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(sqlUpsert)).WithArgs("loans", "[]").WillReturnError(errors.New("disk full"))
	s, err := NewSQL(ctx, db)
	require.NoError(t, err)
	assert.ErrorContains(t, s.Set(ctx, "loans", "[]"), "disk full")

	assert.NoError(t, mock.ExpectationsWereMet())
}
