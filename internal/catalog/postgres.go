package catalog

import (
	"context"

	"github.com/jonathan/jobswipe/internal/db"
	"github.com/jonathan/jobswipe/internal/types"
)

// PostgresLoader reads the active rows of the job_catalog table
type PostgresLoader struct {
	db *db.DB
}

// NewPostgresLoader wraps an open database handle
func NewPostgresLoader(database *db.DB) *PostgresLoader {
	return &PostgresLoader{db: database}
}

// FetchAll implements Loader
func (p *PostgresLoader) FetchAll(ctx context.Context) ([]types.Job, error) {
	jobs, err := p.db.ListCatalogJobs(ctx)
	if err != nil {
		return nil, &Error{Source: "postgres", Message: "query failed", Cause: err}
	}
	return jobs, nil
}

// Seed writes jobs into job_catalog in the given order
func Seed(ctx context.Context, database *db.DB, jobs []types.Job) error {
	for i, j := range jobs {
		if err := database.UpsertCatalogJob(ctx, i, j); err != nil {
			return &Error{Source: "postgres", Message: "seed failed", Cause: err}
		}
	}
	return nil
}
