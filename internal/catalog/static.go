package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/jonathan/jobswipe/internal/types"
)

//go:embed jobs.json
var defaultJobsJSON []byte

// Static serves a fixed, in-memory catalog
type Static struct {
	jobs []types.Job
}

// NewStatic returns a loader over the given jobs
func NewStatic(jobs []types.Job) *Static {
	return &Static{jobs: cloneJobs(jobs)}
}

// Default returns the catalog bundled with the binary.
func Default() *Static {
	s, err := ParseStatic(defaultJobsJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded jobs.json is invalid: %v", err))
	}
	return s
}

// ParseStatic decodes a JSON array of jobs and checks each job type
func ParseStatic(data []byte) (*Static, error) {
	var jobs []types.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, &Error{Source: "static", Message: "invalid catalog JSON", Cause: err}
	}
	for i, j := range jobs {
		if j.ID == "" {
			return nil, &Error{Source: "static", Message: fmt.Sprintf("job %d has no id", i)}
		}
		if _, err := types.ParseJobType(string(j.Type)); err != nil {
			return nil, &Error{Source: "static", Message: fmt.Sprintf("job %s", j.ID), Cause: err}
		}
	}
	return &Static{jobs: jobs}, nil
}

// FetchAll implements Loader
func (s *Static) FetchAll(ctx context.Context) ([]types.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Source: "static", Message: "cancelled", Cause: err}
	}
	out := cloneJobs(s.jobs)
	if out == nil {
		out = []types.Job{}
	}
	return out, nil
}
