package state

import "github.com/jonathan/jobswipe/internal/types"

// Intent is a named, immutable request to change the state.
// Only the types in this package implement it.
type Intent interface {
	intent()
}

// SetUser replaces the profile wholesale
type SetUser struct {
	User *types.UserProfile
}

// SetJobs replaces the catalog, ends loading and clears the error.
// The cursor is reset to 0 only when Jobs is non-empty.
type SetJobs struct {
	Jobs []types.Job
}

// SaveJob appends a snapshot of Job to the saved list. Duplicates are kept.
type SaveJob struct {
	Job types.Job
}

// RemoveSavedJob drops every saved entry with the given id
type RemoveSavedJob struct {
	ID string
}

// NextJob advances the cursor by one. The cursor may pass the end of the catalog.
type NextJob struct{}

// ResetJobIndex moves the cursor back to 0 and clears the error
type ResetJobIndex struct{}

// SetLoading sets the loading flag
type SetLoading struct {
	Loading bool
}

// SetError sets the error message and ends loading. An empty message clears the error.
type SetError struct {
	Message string
}

// ApplyToJob marks every saved entry with the given id as applied
type ApplyToJob struct {
	ID string
}

// RetryFetch starts loading again and clears the error.
// The Store reacts by reloading the catalog.
type RetryFetch struct{}

// LoadPersistedData merges the fields that were found in durable storage.
// Nil fields are left untouched. A non-nil empty SavedJobs replaces the list.
type LoadPersistedData struct {
	User         *types.UserProfile
	SavedJobs    []types.SavedJob
	CurrentIndex *int
}

func (SetUser) intent()           {}
func (SetJobs) intent()           {}
func (SaveJob) intent()           {}
func (RemoveSavedJob) intent()    {}
func (NextJob) intent()           {}
func (ResetJobIndex) intent()     {}
func (SetLoading) intent()        {}
func (SetError) intent()          {}
func (ApplyToJob) intent()        {}
func (RetryFetch) intent()        {}
func (LoadPersistedData) intent() {}

// Empty reports whether no field was loaded
func (l LoadPersistedData) Empty() bool {
	return l.User == nil && l.SavedJobs == nil && l.CurrentIndex == nil
}
