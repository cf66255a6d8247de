// internal/content/queries/registry.go

// Package queries is the named-query registry for the PostgreSQL
// content source. Each query returns its raw rows plus execution time;
// the content loader owns resolution into engine types.
package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrUnknownQuery = errors.New("unknown content query")

// QueryFunc returns: rows (typed per query), rowCount, executionTime (ms), error
type QueryFunc func(ctx context.Context, db *sql.DB) (interface{}, int, int64, error)

var Registry = map[string]QueryFunc{
	"traits":     Traits,
	"candidates": Candidates,
	"posts":      Posts,
}

func Execute(ctx context.Context, db *sql.DB, name string) (interface{}, int, int64, error) {
	fn, exists := Registry[name]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQuery, name)
	}
	return fn(ctx, db)
}
