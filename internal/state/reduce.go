package state

import (
	"time"

	"github.com/jonathan/jobswipe/internal/types"
)

// Reduce computes the next state. It performs no I/O and reads no clock;
// now is the timestamp given to newly saved jobs. Unknown intents return s unchanged.
//
// Slices of s are never written to. A transition that changes a slice
// builds a new one.
func Reduce(s AppState, in Intent, now time.Time) AppState {
	switch in := in.(type) {
	case SetUser:
		s.User = in.User.Clone()

	case SetJobs:
		s.Jobs = copyJobs(in.Jobs)
		s.Loading = false
		s.Error = ""
		if len(in.Jobs) > 0 {
			s.CurrentIndex = 0
		}

	case SaveJob:
		saved := make([]types.SavedJob, len(s.SavedJobs), len(s.SavedJobs)+1)
		copy(saved, s.SavedJobs)
		s.SavedJobs = append(saved, types.NewSavedJob(in.Job, now))

	case RemoveSavedJob:
		if !containsSaved(s.SavedJobs, in.ID) {
			return s
		}
		kept := make([]types.SavedJob, 0, len(s.SavedJobs))
		for _, sj := range s.SavedJobs {
			if sj.ID != in.ID {
				kept = append(kept, sj)
			}
		}
		s.SavedJobs = kept

	case NextJob:
		s.CurrentIndex++

	case ResetJobIndex:
		s.CurrentIndex = 0
		s.Error = ""

	case SetLoading:
		s.Loading = in.Loading

	case SetError:
		s.Error = in.Message
		s.Loading = false

	case ApplyToJob:
		if !needsApply(s.SavedJobs, in.ID) {
			return s
		}
		updated := make([]types.SavedJob, len(s.SavedJobs))
		copy(updated, s.SavedJobs)
		for i := range updated {
			if updated[i].ID == in.ID {
				updated[i].Applied = true
			}
		}
		s.SavedJobs = updated

	case RetryFetch:
		s.Loading = true
		s.Error = ""

	case LoadPersistedData:
		if in.User != nil {
			s.User = in.User.Clone()
		}
		if in.SavedJobs != nil {
			s.SavedJobs = copySaved(in.SavedJobs)
		}
		if in.CurrentIndex != nil {
			s.CurrentIndex = *in.CurrentIndex
		}
	}
	return s
}

func containsSaved(saved []types.SavedJob, id string) bool {
	for _, sj := range saved {
		if sj.ID == id {
			return true
		}
	}
	return false
}

// needsApply reports whether some entry with id is not yet applied
func needsApply(saved []types.SavedJob, id string) bool {
	for _, sj := range saved {
		if sj.ID == id && !sj.Applied {
			return true
		}
	}
	return false
}

func copyJobs(in []types.Job) []types.Job {
	out := make([]types.Job, len(in))
	copy(out, in)
	return out
}

func copySaved(in []types.SavedJob) []types.SavedJob {
	out := make([]types.SavedJob, len(in))
	copy(out, in)
	return out
}
