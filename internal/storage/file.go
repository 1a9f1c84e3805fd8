package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileAdapter stores each key as a file inside a directory.
// Writes go to a temp file first and are renamed into place.
type FileAdapter struct {
	dir string
	mu  sync.Mutex
}

// NewFileAdapter creates the directory if needed and returns an adapter rooted at it
func NewFileAdapter(dir string) (*FileAdapter, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &Error{Op: "open", Cause: err}
	}
	return &FileAdapter{dir: dir}, nil
}

func (f *FileAdapter) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get implements Adapter
func (f *FileAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, &Error{Op: "get", Key: key, Cause: err}
	}
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, &Error{Op: "get", Key: key, Cause: err}
	}
	return string(data), true, nil
}

// Set implements Adapter
func (f *FileAdapter) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return &Error{Op: "set", Key: key, Cause: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return &Error{Op: "set", Key: key, Cause: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &Error{Op: "set", Key: key, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &Error{Op: "set", Key: key, Cause: err}
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return &Error{Op: "set", Key: key, Cause: err}
	}
	return nil
}
