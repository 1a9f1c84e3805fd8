// Package state holds the application state container: the AppState
// snapshot, the intents that change it, the pure reducer, and the Store that
// serializes dispatch, notifies subscribers and persists changed slices.
package state

import "github.com/jonathan/jobswipe/internal/types"

// Messages published in AppState.Error by the startup and reload lifecycle
const (
	MsgNoJobs     = "No jobs available at the moment."
	MsgLoadFailed = "Failed to load jobs. Please check your connection."
	MsgInitFailed = "Failed to initialize app. Please try again."
)

// AppState is an immutable snapshot of the application.
//
// Slices are shared between snapshots and must be treated as read-only.
// User is nil until a profile is first saved or loaded. Error is empty when
// there is no error.
type AppState struct {
	User         *types.UserProfile `json:"user"`
	Jobs         []types.Job        `json:"jobs"`
	SavedJobs    []types.SavedJob   `json:"savedJobs"`
	CurrentIndex int                `json:"currentJobIndex"`
	Loading      bool               `json:"loading"`
	Error        string             `json:"error,omitempty"`
}

// Initial returns the state of a freshly started application
func Initial() AppState {
	return AppState{
		Jobs:      []types.Job{},
		SavedJobs: []types.SavedJob{},
		Loading:   true,
	}
}

// CurrentJob returns the job under the cursor, or false when the cursor is past the end.
func (s AppState) CurrentJob() (types.Job, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Jobs) {
		return types.Job{}, false
	}
	return s.Jobs[s.CurrentIndex], true
}

// HasMoreJobs reports whether the cursor still points at an unseen job
func (s AppState) HasMoreJobs() bool {
	_, ok := s.CurrentJob()
	return ok
}

// Remaining is the number of jobs at or after the cursor
func (s AppState) Remaining() int {
	if s.CurrentIndex < 0 {
		return len(s.Jobs)
	}
	if n := len(s.Jobs) - s.CurrentIndex; n > 0 {
		return n
	}
	return 0
}

// IsSaved reports whether any saved entry has the given job id
func (s AppState) IsSaved(id string) bool {
	_, ok := s.SavedJob(id)
	return ok
}

// SavedJob returns the first saved entry with the given job id
func (s AppState) SavedJob(id string) (types.SavedJob, bool) {
	for _, sj := range s.SavedJobs {
		if sj.ID == id {
			return sj, true
		}
	}
	return types.SavedJob{}, false
}

// AppliedCount is the number of saved entries marked as applied
func (s AppState) AppliedCount() int {
	n := 0
	for _, sj := range s.SavedJobs {
		if sj.Applied {
			n++
		}
	}
	return n
}
