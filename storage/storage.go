// Package storage provides the key/value adapters the tracker persists into.
//
// A Storage holds string values by key, with no transaction and no expiry.
// Open selects a backend from a URI:
//
//	mem:                     volatile, for tests and dry runs
//	file://<dir>             one <key>.json file per key (default)
//	redis://[:pass@]host/db  Redis, optional ?prefix=<prefix>
//	postgres://...           Postgres, table dtr_kv
//	sqlite://<path>          SQLite file, table dtr_kv
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// Storage is the persistent key/value adapter.
type Storage interface {
	// Get returns the value stored under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
	Close() error
}

// ErrUnsupportedScheme is returned by Open for an unknown URI scheme.
var ErrUnsupportedScheme = errors.New("unsupported storage scheme")

// Open opens the backend described by uri.
func Open(ctx context.Context, uri string) (Storage, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid storage uri %q: %w", uri, err)
	}
	log.Debug().Str("scheme", u.Scheme).Msg("opening storage")

	switch strings.ToLower(u.Scheme) {
	case "mem", "memory":
		return NewMemory(), nil
	case "file", "":
		// file://.dtr parses ".dtr" as a host.
		dir := u.Host + u.Path
		if u.Opaque != "" {
			dir = u.Opaque
		}
		if u.Scheme == "" {
			dir = uri
		}
		return NewDir(dir)
	case "redis", "rediss":
		return OpenRedis(ctx, u)
	case "postgres", "postgresql":
		return OpenSQL(ctx, "postgres", uri)
	case "sqlite":
		path := u.Host + u.Path
		if u.Opaque != "" {
			path = u.Opaque
		}
		return OpenSQL(ctx, "sqlite", path)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedScheme, u.Scheme)
	}
}
