package storage

import (
	"context"

	"github.com/jonathan/jobswipe/internal/db"
)

// PostgresAdapter stores values in the kv_store table
type PostgresAdapter struct {
	db *db.DB
}

// NewPostgresAdapter wraps an open database handle
func NewPostgresAdapter(database *db.DB) *PostgresAdapter {
	return &PostgresAdapter{db: database}
}

// Get implements Adapter
func (p *PostgresAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := p.db.GetValue(ctx, key)
	if err != nil {
		return "", false, &Error{Op: "get", Key: key, Cause: err}
	}
	return value, ok, nil
}

// Set implements Adapter
func (p *PostgresAdapter) Set(ctx context.Context, key, value string) error {
	if err := p.db.SetValue(ctx, key, value); err != nil {
		return &Error{Op: "set", Key: key, Cause: err}
	}
	return nil
}
