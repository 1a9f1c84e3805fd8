// Package types provides type definitions for structured data used throughout the jobswipe system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"time"
)

// JobType is the employment type of a job posting
type JobType string

// JobType constants mirror the values stored in catalogs and persisted saved jobs
const (
	JobTypeFullTime JobType = "Full-time"
	JobTypePartTime JobType = "Part-time"
	JobTypeContract JobType = "Contract"
	JobTypeRemote   JobType = "Remote"
)

// ParseJobType converts a raw string to a JobType, returning an error for unknown values.
func ParseJobType(s string) (JobType, error) {
	jt := JobType(s)
	switch jt {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeRemote:
		return jt, nil
	}
	return "", fmt.Errorf("unknown job type %q", s)
}

// Job represents an immutable catalog entry shown as a swipeable card
type Job struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Salary          string   `json:"salary"`
	Type            JobType  `json:"type"`
	Description     string   `json:"description"`
	Requirements    []string `json:"requirements"`
	Skills          []string `json:"skills"`
	Benefits        []string `json:"benefits"`
	MatchPercentage int      `json:"matchPercentage"`
	PostedDate      string   `json:"postedDate"`
	Deadline        string   `json:"deadline"`
	Logo            string   `json:"logo"`
}

// SavedJob is a snapshot of a Job taken when the user saved it.
// Applied is the only field that changes after creation.
type SavedJob struct {
	Job
	SavedDate time.Time `json:"savedDate"`
	Applied   bool      `json:"applied"`
}

// NewSavedJob snapshots job at the given save time
func NewSavedJob(job Job, savedAt time.Time) SavedJob {
	return SavedJob{
		Job:       job.Clone(),
		SavedDate: savedAt,
		Applied:   false,
	}
}

// Clone returns a copy of the job that shares no slices with the receiver
func (j Job) Clone() Job {
	c := j
	c.Requirements = cloneStrings(j.Requirements)
	c.Skills = cloneStrings(j.Skills)
	c.Benefits = cloneStrings(j.Benefits)
	return c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
