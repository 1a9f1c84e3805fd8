package state

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/jobswipe/internal/catalog"
	"github.com/jonathan/jobswipe/internal/resume"
	"github.com/jonathan/jobswipe/internal/storage"
	"github.com/jonathan/jobswipe/internal/types"
)

// flakyAdapter wraps a MemoryAdapter and fails selected keys
type flakyAdapter struct {
	*storage.MemoryAdapter
	mu       sync.Mutex
	failGet  map[string]bool
	failSet  map[string]bool
	setCalls map[string]int
}

func newFlakyAdapter() *flakyAdapter {
	return &flakyAdapter{
		MemoryAdapter: storage.NewMemoryAdapter(),
		failGet:       map[string]bool{},
		failSet:       map[string]bool{},
		setCalls:      map[string]int{},
	}
}

func (f *flakyAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	fail := f.failGet[key]
	f.mu.Unlock()
	if fail {
		return "", false, &storage.Error{Op: "get", Key: key, Cause: errors.New("medium unavailable")}
	}
	return f.MemoryAdapter.Get(ctx, key)
}

func (f *flakyAdapter) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	f.setCalls[key]++
	fail := f.failSet[key]
	f.mu.Unlock()
	if fail {
		return &storage.Error{Op: "set", Key: key, Cause: errors.New("disk full")}
	}
	return f.MemoryAdapter.Set(ctx, key, value)
}

func (f *flakyAdapter) calls(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setCalls[key]
}

func staticLoader(jobs []types.Job) catalog.Loader {
	return catalog.LoaderFunc(func(context.Context) ([]types.Job, error) {
		return jobs, nil
	})
}

func failingLoader(calls *atomic.Int32) catalog.Loader {
	return catalog.LoaderFunc(func(context.Context) ([]types.Job, error) {
		calls.Add(1)
		return nil, errors.New("network down")
	})
}

func newTestStore(t *testing.T, adapter storage.Adapter, loader catalog.Loader, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	s := New(adapter, loader, opts...)
	t.Cleanup(s.Close)
	return s
}

func TestStore_StartLoadsCatalog(t *testing.T) {
	s := newTestStore(t, nil, staticLoader(threeJobs()))
	require.NoError(t, s.Start(context.Background()))

	st := s.GetState()
	assert.Len(t, st.Jobs, 3)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.Equal(t, 0, st.CurrentIndex)
}

func TestStore_StartEmptyCatalog(t *testing.T) {
	s := newTestStore(t, nil, staticLoader([]types.Job{}))
	require.NoError(t, s.Start(context.Background()))

	st := s.GetState()
	assert.False(t, st.Loading)
	assert.Equal(t, MsgNoJobs, st.Error)
	assert.Empty(t, st.Jobs)
}

func TestStore_StartCatalogFailure(t *testing.T) {
	var calls atomic.Int32
	s := newTestStore(t, nil, failingLoader(&calls))
	require.NoError(t, s.Start(context.Background()))

	st := s.GetState()
	assert.False(t, st.Loading)
	assert.Equal(t, MsgLoadFailed, st.Error)
	assert.Equal(t, int32(1), calls.Load())
}

func TestStore_StartLoaderPanicIsLoadFailure(t *testing.T) {
	s := newTestStore(t, nil, catalog.LoaderFunc(func(context.Context) ([]types.Job, error) {
		panic("loader bug")
	}))
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, MsgLoadFailed, s.GetState().Error)
}

func TestStore_StartPanicPublishesInitFailure(t *testing.T) {
	s := newTestStore(t, nil, staticLoader(threeJobs()))
	armed := true
	s.OnChange(func(st AppState) {
		if armed && st.Loading {
			armed = false
			panic("subscriber bug")
		}
	})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgInitFailed, s.GetState().Error)
	assert.False(t, s.GetState().Loading)
}

func TestStore_StartTwice(t *testing.T) {
	s := newTestStore(t, nil, staticLoader(threeJobs()))
	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)
}

func TestStore_StartRestoresPersistedData(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter()
	require.NoError(t, storage.SaveUser(ctx, adapter, &types.UserProfile{ID: "1", FullName: "Ada"}))
	require.NoError(t, storage.SaveSavedJobs(ctx, adapter, []types.SavedJob{
		types.NewSavedJob(types.Job{ID: "b"}, fixedNow),
	}))
	require.NoError(t, storage.SaveCurrentIndex(ctx, adapter, 2))

	// An empty catalog leaves the persisted cursor alone
	s := newTestStore(t, adapter, staticLoader([]types.Job{}))
	require.NoError(t, s.Start(ctx))

	st := s.GetState()
	require.NotNil(t, st.User)
	assert.Equal(t, "Ada", st.User.FullName)
	require.Len(t, st.SavedJobs, 1)
	assert.Equal(t, "b", st.SavedJobs[0].ID)
	assert.Equal(t, 2, st.CurrentIndex)
}

func TestStore_PersistedReadFailuresAreNotVisible(t *testing.T) {
	ctx := context.Background()
	adapter := newFlakyAdapter()
	require.NoError(t, storage.SaveCurrentIndex(ctx, adapter.MemoryAdapter, 1))
	require.NoError(t, adapter.MemoryAdapter.Set(ctx, storage.KeyUser, "{corrupt"))
	adapter.failGet[storage.KeySavedJobs] = true

	core, logs := observer.New(zapcore.WarnLevel)
	s := newTestStore(t, adapter, staticLoader([]types.Job{}), WithLogger(zap.New(core)))
	require.NoError(t, s.Start(ctx))

	st := s.GetState()
	assert.Nil(t, st.User)
	assert.Empty(t, st.SavedJobs)
	assert.Equal(t, 1, st.CurrentIndex)
	assert.Equal(t, MsgNoJobs, st.Error, "only the catalog outcome reaches the error field")
	assert.Equal(t, 1, logs.FilterMessage("failed to load persisted user").Len())
	assert.Equal(t, 1, logs.FilterMessage("failed to load persisted saved jobs").Len())
}

func TestStore_PersistsChangedSlices(t *testing.T) {
	ctx := context.Background()
	adapter := newFlakyAdapter()
	s := newTestStore(t, adapter, staticLoader(threeJobs()))
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Flush(ctx))
	assert.Equal(t, 0, adapter.calls(storage.KeyUser), "absent user is never written")
	assert.Equal(t, 0, adapter.calls(storage.KeySavedJobs))

	s.Dispatch(SaveJob{Job: threeJobs()[0]})
	s.Dispatch(NextJob{})
	s.Dispatch(SetUser{User: &types.UserProfile{ID: "1", FullName: "Ada"}})
	require.NoError(t, s.Flush(ctx))

	user, err := storage.LoadUser(ctx, adapter)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.FullName)

	saved, err := storage.LoadSavedJobs(ctx, adapter)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "a", saved[0].ID)
	assert.Equal(t, fixedNow, saved[0].SavedDate.UTC())

	idx, err := storage.LoadCurrentIndex(ctx, adapter)
	require.NoError(t, err)
	assert.Equal(t, 1, *idx)

	// Unchanged slices are not rewritten
	before := adapter.calls(storage.KeySavedJobs)
	s.Dispatch(RemoveSavedJob{ID: "missing"})
	s.Dispatch(SetLoading{Loading: false})
	require.NoError(t, s.Flush(ctx))
	assert.Equal(t, before, adapter.calls(storage.KeySavedJobs))
}

func TestStore_WriteFailuresAreLoggedNotSurfaced(t *testing.T) {
	ctx := context.Background()
	adapter := newFlakyAdapter()
	adapter.failSet[storage.KeySavedJobs] = true

	core, logs := observer.New(zapcore.WarnLevel)
	s := newTestStore(t, adapter, staticLoader(threeJobs()), WithLogger(zap.New(core)))
	require.NoError(t, s.Start(ctx))

	s.Dispatch(SaveJob{Job: threeJobs()[1]})
	s.Dispatch(NextJob{})
	require.NoError(t, s.Flush(ctx))

	assert.Empty(t, s.GetState().Error)
	assert.Len(t, s.GetState().SavedJobs, 1)
	assert.Equal(t, 1, logs.FilterMessage("failed to persist state").Len())

	idx, err := storage.LoadCurrentIndex(ctx, adapter)
	require.NoError(t, err)
	assert.Equal(t, 1, *idx, "other slices are still written")
}

func TestStore_OnChange(t *testing.T) {
	s := newTestStore(t, nil, staticLoader(threeJobs()))

	var seen []int
	unsubscribe := s.OnChange(func(st AppState) {
		seen = append(seen, st.CurrentIndex)
	})

	s.Dispatch(NextJob{})
	s.Dispatch(NextJob{})
	unsubscribe()
	unsubscribe()
	s.Dispatch(NextJob{})

	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 3, s.GetState().CurrentIndex)
}

func TestStore_SubscriberMayDispatch(t *testing.T) {
	s := newTestStore(t, nil, staticLoader(threeJobs()))

	s.OnChange(func(st AppState) {
		if st.CurrentIndex == 1 {
			s.Dispatch(NextJob{})
		}
	})
	s.Dispatch(NextJob{})
	assert.Equal(t, 2, s.GetState().CurrentIndex)
}

func TestStore_RetryReloadsCatalog(t *testing.T) {
	var calls atomic.Int32
	var healthy atomic.Bool
	loader := catalog.LoaderFunc(func(context.Context) ([]types.Job, error) {
		calls.Add(1)
		if !healthy.Load() {
			return nil, errors.New("offline")
		}
		return threeJobs(), nil
	})

	s := newTestStore(t, nil, loader)
	require.NoError(t, s.Start(context.Background()))
	require.Equal(t, MsgLoadFailed, s.GetState().Error)

	healthy.Store(true)
	st := s.Dispatch(RetryFetch{})
	assert.True(t, st.Loading)
	assert.Empty(t, st.Error)

	assert.Eventually(t, func() bool {
		return len(s.GetState().Jobs) == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())
	assert.False(t, s.GetState().Loading)
}

func TestStore_ReloadsAreCapped(t *testing.T) {
	var calls atomic.Int32
	s := newTestStore(t, nil, failingLoader(&calls), WithMaxReloads(2))
	require.NoError(t, s.Start(context.Background()))

	// A subscriber that clears the error and re-enters loading on failure
	var rounds atomic.Int32
	s.OnChange(func(st AppState) {
		if st.Error == MsgLoadFailed && rounds.Add(1) <= 10 {
			s.Dispatch(SetError{Message: ""})
			s.Dispatch(SetLoading{Loading: true})
		}
	})
	s.Dispatch(SetError{Message: MsgLoadFailed})

	assert.Eventually(t, func() bool {
		st := s.GetState()
		return rounds.Load() > 10 && !st.Loading && st.Error == MsgLoadFailed
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(3), calls.Load(), "startup plus two reloads")
}

func TestStore_RetryAfterRepeatedFailures(t *testing.T) {
	var (
		calls   atomic.Int32
		healthy atomic.Bool
	)
	loader := catalog.LoaderFunc(func(context.Context) ([]types.Job, error) {
		calls.Add(1)
		if !healthy.Load() {
			return nil, errors.New("network down")
		}
		return threeJobs(), nil
	})
	s := newTestStore(t, nil, loader, WithMaxReloads(2))
	require.NoError(t, s.Start(context.Background()))
	require.Equal(t, MsgLoadFailed, s.GetState().Error)

	settled := func() bool {
		st := s.GetState()
		return !st.Loading && st.Error != ""
	}
	for i := 0; i < 4; i++ {
		s.Dispatch(RetryFetch{})
		require.Eventually(t, settled, time.Second, 5*time.Millisecond)
		assert.Equal(t, MsgLoadFailed, s.GetState().Error)
	}
	assert.Equal(t, int32(5), calls.Load(), "every retry reaches the loader")

	healthy.Store(true)
	s.Dispatch(RetryFetch{})
	require.Eventually(t, func() bool {
		return len(s.GetState().Jobs) == 3
	}, time.Second, 5*time.Millisecond)

	st := s.GetState()
	assert.Empty(t, st.Error)
	assert.False(t, st.Loading)
	assert.Equal(t, int32(6), calls.Load())
}

func TestStore_SubscribersSeeStatesInOrder(t *testing.T) {
	s := newTestStore(t, nil, staticLoader(threeJobs()))

	var (
		mu   sync.Mutex
		seen []int
	)
	s.OnChange(func(st AppState) {
		mu.Lock()
		seen = append(seen, st.CurrentIndex)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.Dispatch(NextJob{})
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		assert.Less(t, seen[i-1], seen[i], "snapshot %d delivered out of order", i)
	}
	assert.Equal(t, 400, seen[len(seen)-1])
	assert.Equal(t, s.GetState().CurrentIndex, seen[len(seen)-1])
}

func TestStore_LastSnapshotMatchesStateAfterReload(t *testing.T) {
	var (
		calls   atomic.Int32
		healthy atomic.Bool
	)
	loader := catalog.LoaderFunc(func(context.Context) ([]types.Job, error) {
		calls.Add(1)
		if !healthy.Load() {
			return nil, errors.New("network down")
		}
		time.Sleep(5 * time.Millisecond)
		return threeJobs(), nil
	})
	s := newTestStore(t, nil, loader)
	require.NoError(t, s.Start(context.Background()))

	var (
		mu   sync.Mutex
		last AppState
	)
	s.OnChange(func(st AppState) {
		mu.Lock()
		last = st
		mu.Unlock()
	})

	healthy.Store(true)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				s.Dispatch(NextJob{})
			}
		}()
	}
	s.Dispatch(RetryFetch{})
	wg.Wait()

	require.Eventually(t, func() bool {
		return len(s.GetState().Jobs) == 3
	}, time.Second, 5*time.Millisecond)
	s.Close()

	mu.Lock()
	defer mu.Unlock()
	final := s.GetState()
	assert.Equal(t, final.CurrentIndex, last.CurrentIndex)
	assert.Equal(t, final.Loading, last.Loading)
	assert.Equal(t, final.Error, last.Error)
	assert.Len(t, last.Jobs, 3)
}

func TestStore_EmptyCatalogIsTerminal(t *testing.T) {
	var calls atomic.Int32
	loader := catalog.LoaderFunc(func(context.Context) ([]types.Job, error) {
		calls.Add(1)
		return []types.Job{}, nil
	})

	s := newTestStore(t, nil, loader)
	require.NoError(t, s.Start(context.Background()))

	s.Dispatch(SetJobs{Jobs: []types.Job{}})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, s.GetState().Loading)
}

func TestStore_NoReloadBeforeStart(t *testing.T) {
	var calls atomic.Int32
	s := newTestStore(t, nil, failingLoader(&calls))

	s.Dispatch(SetLoading{Loading: false})
	s.Dispatch(RetryFetch{})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestStore_ScenarioRetryThenError(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	var calls atomic.Int32
	loader := catalog.LoaderFunc(func(ctx context.Context) ([]types.Job, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("offline")
		}
		select {
		case <-block:
		case <-ctx.Done():
		}
		return nil, errors.New("cancelled")
	})

	s := newTestStore(t, nil, loader)
	require.NoError(t, s.Start(context.Background()))

	st := s.Dispatch(RetryFetch{})
	assert.True(t, st.Loading)
	assert.Empty(t, st.Error)

	st = s.Dispatch(SetError{Message: "x"})
	assert.False(t, st.Loading)
	assert.Equal(t, "x", st.Error)
}

func TestStore_ImportResume(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil, staticLoader(threeJobs()))
	require.NoError(t, s.Start(ctx))

	var userUpdates int
	s.OnChange(func(AppState) { userUpdates++ })

	data := &types.ParsedResumeData{
		PersonalInfo:        types.PersonalInfo{FullName: "Ada", Email: "ada@example.com"},
		ProfessionalSummary: "Analyst",
		Skills:              []types.SkillItem{{Name: "Math"}},
		Languages:           []types.LanguageItem{{Name: "French"}},
	}
	patch := resume.Merge(data, resume.DefaultToggles(), s.GetState().User)

	applied := s.ImportResume(patch)
	assert.Equal(t, 3, applied)
	assert.Equal(t, 3, userUpdates, "one SetUser per non-empty section")

	user := s.GetState().User
	require.NotNil(t, user)
	assert.NotEmpty(t, user.ID, "missing profile is created")
	assert.Equal(t, "Ada", user.FullName)
	assert.Equal(t, "Analyst", user.Bio)
	require.Len(t, user.Skills, 1)
	assert.Equal(t, types.SkillIntermediate, user.Skills[0].Level)
	assert.NotNil(t, user.WorkExperience)

	// A second import keeps the id
	id := user.ID
	s.ImportResume(resume.Merge(&types.ParsedResumeData{PersonalInfo: types.PersonalInfo{FullName: "Ada L."}},
		resume.DefaultToggles(), user))
	assert.Equal(t, id, s.GetState().User.ID)
	assert.Equal(t, "Ada L.", s.GetState().User.FullName)
}

func TestStore_DispatchFuncNilIntent(t *testing.T) {
	s := newTestStore(t, nil, staticLoader(threeJobs()))
	called := false
	s.OnChange(func(AppState) { called = true })

	st := s.DispatchFunc(func(AppState) Intent { return nil })
	assert.Equal(t, Initial(), st)
	assert.False(t, called)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter()
	s := newTestStore(t, adapter, staticLoader(threeJobs()))
	require.NoError(t, s.Start(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Dispatch(SaveJob{Job: types.Job{ID: strconv.Itoa(i)}})
			s.Dispatch(NextJob{})
		}(i)
	}
	wg.Wait()
	require.NoError(t, s.Flush(ctx))

	st := s.GetState()
	assert.Len(t, st.SavedJobs, 50)
	assert.Equal(t, 50, st.CurrentIndex)

	saved, err := storage.LoadSavedJobs(ctx, adapter)
	require.NoError(t, err)
	assert.Len(t, saved, 50, "last write wins with the final list")
	idx, err := storage.LoadCurrentIndex(ctx, adapter)
	require.NoError(t, err)
	assert.Equal(t, 50, *idx)
}

func TestStore_FlushHonoursContext(t *testing.T) {
	release := make(chan struct{})
	adapter := &blockingAdapter{MemoryAdapter: storage.NewMemoryAdapter(), release: release}
	s := New(adapter, staticLoader(threeJobs()))

	s.Dispatch(NextJob{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Flush(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, s.Flush(context.Background()))
	s.Close()
}

func TestStore_CloseDrainsWrites(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter()
	s := New(adapter, staticLoader(threeJobs()))

	s.Dispatch(NextJob{})
	s.Dispatch(NextJob{})
	s.Close()
	s.Close()

	idx, err := storage.LoadCurrentIndex(ctx, adapter)
	require.NoError(t, err)
	require.NotNil(t, idx)
	assert.Equal(t, 2, *idx)

	s.Dispatch(NextJob{})
	assert.Equal(t, 3, s.GetState().CurrentIndex, "dispatch still works after close")
	idx, _ = storage.LoadCurrentIndex(ctx, adapter)
	assert.Equal(t, 2, *idx)
}

type blockingAdapter struct {
	*storage.MemoryAdapter
	release chan struct{}
}

func (b *blockingAdapter) Set(ctx context.Context, key, value string) error {
	<-b.release
	return b.MemoryAdapter.Set(ctx, key, value)
}
