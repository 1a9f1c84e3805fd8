package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobswipe/internal/types"
)

func TestDefault_EmbeddedCatalog(t *testing.T) {
	jobs, err := Default().FetchAll(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, jobs)

	seen := map[string]bool{}
	for _, j := range jobs {
		assert.NotEmpty(t, j.ID)
		assert.False(t, seen[j.ID], "duplicate id %s", j.ID)
		seen[j.ID] = true
		assert.GreaterOrEqual(t, j.MatchPercentage, 0)
		assert.LessOrEqual(t, j.MatchPercentage, 100)
	}
}

func TestStatic_ReturnsCopies(t *testing.T) {
	s := NewStatic([]types.Job{{ID: "1", Skills: []string{"Go"}}})

	first, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	first[0].Skills[0] = "mutated"
	first[0].Title = "mutated"

	second, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Go", second[0].Skills[0])
	assert.Empty(t, second[0].Title)
}

func TestStatic_EmptyIsNotAnError(t *testing.T) {
	jobs, err := NewStatic(nil).FetchAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestParseStatic(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr string
	}{
		{name: "valid", input: `[{"id":"1","type":"Remote"}]`, wantLen: 1},
		{name: "empty", input: `[]`, wantLen: 0},
		{name: "bad json", input: `{`, wantErr: "invalid catalog JSON"},
		{name: "missing id", input: `[{"type":"Remote"}]`, wantErr: "has no id"},
		{name: "bad type", input: `[{"id":"1","type":"Gig"}]`, wantErr: "unknown job type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseStatic([]byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			jobs, _ := s.FetchAll(context.Background())
			assert.Len(t, jobs, tt.wantLen)
		})
	}
}

func TestHTTPLoader(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/jobs", r.URL.Path)
			assert.Equal(t, http.MethodGet, r.Method)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"a","title":"Engineer","type":"Full-time","matchPercentage":90}]`))
		}))
		defer srv.Close()

		h, err := NewHTTPLoader(srv.URL+"/", nil)
		require.NoError(t, err)
		jobs, err := h.FetchAll(context.Background())
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, "Engineer", jobs[0].Title)
		assert.Equal(t, types.JobTypeFullTime, jobs[0].Type)
	})

	t.Run("empty list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`null`))
		}))
		defer srv.Close()

		h, err := NewHTTPLoader(srv.URL, nil)
		require.NoError(t, err)
		jobs, err := h.FetchAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, jobs)
		assert.Empty(t, jobs)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		h, err := NewHTTPLoader(srv.URL, nil)
		require.NoError(t, err)
		_, err = h.FetchAll(context.Background())
		var catErr *Error
		require.True(t, errors.As(err, &catErr))
		assert.Equal(t, "http", catErr.Source)
		assert.Contains(t, catErr.Message, "503")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}))
		defer srv.Close()

		h, err := NewHTTPLoader(srv.URL, nil)
		require.NoError(t, err)
		_, err = h.FetchAll(context.Background())
		assert.Error(t, err)
	})

	t.Run("invalid base URL", func(t *testing.T) {
		_, err := NewHTTPLoader("not a url", nil)
		assert.Error(t, err)
	})
}

func TestCached(t *testing.T) {
	var calls atomic.Int32
	var fail atomic.Bool
	jobs := []types.Job{{ID: "1"}, {ID: "2"}}

	source := LoaderFunc(func(context.Context) ([]types.Job, error) {
		calls.Add(1)
		if fail.Load() {
			return nil, errors.New("upstream down")
		}
		return jobs, nil
	})

	c := NewCached(source, nil)
	ctx := context.Background()
	assert.True(t, c.FetchedAt().IsZero())

	got, err := c.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, c.FetchedAt().IsZero())

	_, err = c.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "second fetch served from memory")

	fail.Store(true)
	require.Error(t, c.Refresh(ctx))
	got, err = c.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2, "failed refresh keeps previous snapshot")

	fail.Store(false)
	jobs = []types.Job{}
	require.NoError(t, c.Refresh(ctx))
	got, err = c.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "empty result replaces snapshot")
}

func TestCached_FirstFetchFailure(t *testing.T) {
	c := NewCached(LoaderFunc(func(context.Context) ([]types.Job, error) {
		return nil, errors.New("boom")
	}), nil)

	_, err := c.FetchAll(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestRefresher_RunsOnSchedule(t *testing.T) {
	var calls atomic.Int32
	c := NewCached(LoaderFunc(func(context.Context) ([]types.Job, error) {
		calls.Add(1)
		return []types.Job{{ID: "1"}}, nil
	}), nil)

	r := NewRefresher(c, time.Second, nil)
	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	loader, closeFn, err := Open(ctx, "", "")
	require.NoError(t, err)
	defer closeFn()
	_, isStatic := loader.(*Static)
	assert.True(t, isStatic)

	loader, closeFn, err = Open(ctx, "HTTP", "http://localhost:5000")
	require.NoError(t, err)
	defer closeFn()
	_, isHTTP := loader.(*HTTPLoader)
	assert.True(t, isHTTP)

	_, closeFn, err = Open(ctx, "ftp", "")
	require.Error(t, err)
	assert.NotNil(t, closeFn)
}
