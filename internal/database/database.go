// Package database hides the two SQL engines the service can run on behind a
// single Querier. Callers write SQL with "?" placeholders and get rows back as
// normalised maps, whichever engine is active.
package database

import (
	"context"
	"errors"
)

// Dialect names the SQL engine behind a Querier.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Result is the outcome of a statement run for effect.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// Querier is the operation set shared by both engines.
type Querier interface {
	// Exec runs a mutating statement. For inserts LastInsertID holds the new id.
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	// Get returns the first matching row, or nil when nothing matches.
	Get(ctx context.Context, query string, args ...any) (Row, error)
	// All returns every matching row, materialised.
	All(ctx context.Context, query string, args ...any) ([]Row, error)
	Dialect() Dialect
	Ping(ctx context.Context) error
	Close() error
}

// Options selects the engine. A non-empty DatabaseURL is the handle injected
// by the hosting platform and wins over the local file.
type Options struct {
	Path        string
	DatabaseURL string
}

var ErrNoPath = errors.New("database: no file path or database url configured")

// Open picks the engine once, based on opts.
func Open(ctx context.Context, opts Options) (Querier, error) {
	if opts.DatabaseURL != "" {
		pg, err := OpenPostgres(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	}
	if opts.Path == "" {
		return nil, ErrNoPath
	}
	lite, err := OpenSQLite(opts.Path)
	if err != nil {
		return nil, err
	}
	return lite, nil
}
