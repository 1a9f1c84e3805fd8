// Package catalog supplies the ordered list of job postings shown to the user.
//
// Every Loader preserves the same three outcomes: a non-empty list, an empty
// list with a nil error, or an error.
package catalog

import (
	"context"
	"fmt"

	"github.com/jonathan/jobswipe/internal/types"
)

// Loader fetches the full job catalog. Implementations must be safe to call repeatedly.
type Loader interface {
	FetchAll(ctx context.Context) ([]types.Job, error)
}

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc func(ctx context.Context) ([]types.Job, error)

// FetchAll implements Loader
func (f LoaderFunc) FetchAll(ctx context.Context) ([]types.Job, error) {
	return f(ctx)
}

// Error represents a failure to obtain the catalog from a source
type Error struct {
	Source  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("catalog %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("catalog %s: %s", e.Source, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// cloneJobs copies the list so callers cannot mutate a loader's cached slice
func cloneJobs(jobs []types.Job) []types.Job {
	if jobs == nil {
		return nil
	}
	out := make([]types.Job, len(jobs))
	for i, j := range jobs {
		out[i] = j.Clone()
	}
	return out
}
