// Package storage provides the durable key/value adapter that persists the
// user profile, saved jobs and browsing cursor between sessions.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/jobswipe/internal/types"
)

// Keys of the three independently persisted slices
const (
	KeyUser         = "user"
	KeySavedJobs    = "savedJobs"
	KeyCurrentIndex = "currentJobIndex"
)

// Adapter is a key-scoped text store.
//
// Get returns ok=false with a nil error when the key has never been written.
// Errors are reserved for failures of the underlying medium.
type Adapter interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Error represents a failure of the storage medium
type Error struct {
	Op    string
	Key   string
	Cause error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s %q failed: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// DecodeError represents a stored value that could not be decoded
type DecodeError struct {
	Key   string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("stored value for %q is malformed: %v", e.Key, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// -----------------------------------------------------------------------------
// Typed slice helpers
// -----------------------------------------------------------------------------

// absent reports whether a stored value is a JSON null, which reads the
// same as a missing key
func absent(raw string) bool {
	return strings.TrimSpace(raw) == "null"
}

// LoadUser reads the persisted profile. A missing key or a stored null
// returns nil, nil.
func LoadUser(ctx context.Context, a Adapter) (*types.UserProfile, error) {
	raw, ok, err := a.Get(ctx, KeyUser)
	if err != nil || !ok || absent(raw) {
		return nil, err
	}
	var user types.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, &DecodeError{Key: KeyUser, Cause: err}
	}
	return &user, nil
}

// SaveUser persists the profile as JSON
func SaveUser(ctx context.Context, a Adapter, user *types.UserProfile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	return a.Set(ctx, KeyUser, string(data))
}

// LoadSavedJobs reads the persisted saved-jobs list.
// A missing key or a stored null returns a nil slice; a stored empty list
// returns a non-nil empty slice.
func LoadSavedJobs(ctx context.Context, a Adapter) ([]types.SavedJob, error) {
	raw, ok, err := a.Get(ctx, KeySavedJobs)
	if err != nil || !ok || absent(raw) {
		return nil, err
	}
	jobs := []types.SavedJob{}
	if err := json.Unmarshal([]byte(raw), &jobs); err != nil {
		return nil, &DecodeError{Key: KeySavedJobs, Cause: err}
	}
	return jobs, nil
}

// SaveSavedJobs persists the saved-jobs list as a JSON array
func SaveSavedJobs(ctx context.Context, a Adapter, jobs []types.SavedJob) error {
	if jobs == nil {
		jobs = []types.SavedJob{}
	}
	data, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("failed to marshal saved jobs: %w", err)
	}
	return a.Set(ctx, KeySavedJobs, string(data))
}

// LoadCurrentIndex reads the persisted browsing cursor. A missing key or a
// stored null returns nil, nil.
func LoadCurrentIndex(ctx context.Context, a Adapter) (*int, error) {
	raw, ok, err := a.Get(ctx, KeyCurrentIndex)
	if err != nil || !ok || absent(raw) {
		return nil, err
	}
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, &DecodeError{Key: KeyCurrentIndex, Cause: err}
	}
	return &idx, nil
}

// SaveCurrentIndex persists the browsing cursor as decimal text
func SaveCurrentIndex(ctx context.Context, a Adapter, idx int) error {
	return a.Set(ctx, KeyCurrentIndex, strconv.Itoa(idx))
}
