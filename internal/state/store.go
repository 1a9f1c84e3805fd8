package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobswipe/internal/catalog"
	"github.com/jonathan/jobswipe/internal/logging"
	"github.com/jonathan/jobswipe/internal/resume"
	"github.com/jonathan/jobswipe/internal/storage"
	"github.com/jonathan/jobswipe/internal/types"
)

// ErrAlreadyStarted is returned by a second call to Start
var ErrAlreadyStarted = errors.New("store already started")

// Store is the single owner of AppState.
//
// Dispatch is safe for concurrent use. Reduction is serialized under one
// mutex and subscribers are called after the mutex is released. Only one
// goroutine delivers at a time and it always hands out the newest snapshot,
// so subscribers see states in reducer order and the last one delivered
// matches GetState. A snapshot superseded before delivery is skipped.
// Subscribers must not block. Changed slices are persisted by a background
// writer; persistence failures are logged and never reach AppState.
type Store struct {
	adapter    storage.Adapter
	loader     catalog.Loader
	logger     *zap.Logger
	now        func() time.Time
	maxReloads int

	mu       sync.Mutex
	state    AppState
	subs     []subscriber
	nextSub  int
	started  bool
	closed   bool
	fetching bool
	reloads  int

	// version counts reductions; delivering is set while one goroutine
	// runs the notification loop.
	version    uint64
	delivering bool

	persist *persister
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

type subscriber struct {
	id int
	fn func(AppState)
}

// New creates a Store in the initial state. A nil adapter keeps state in
// memory only; a nil loader serves the bundled catalog.
func New(adapter storage.Adapter, loader catalog.Loader, opts ...Option) *Store {
	if adapter == nil {
		adapter = storage.NewMemoryAdapter()
	}
	if loader == nil {
		loader = catalog.Default()
	}

	s := &Store{
		adapter:    adapter,
		loader:     loader,
		logger:     zap.NewNop(),
		now:        time.Now,
		maxReloads: DefaultMaxReloads,
		state:      Initial(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.Component(s.logger, "store")
	s.persist = newPersister(adapter, s.logger)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// GetState returns the current snapshot
func (s *Store) GetState() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnChange registers fn to be called with every new snapshot.
// The returned function removes the subscription.
func (s *Store) OnChange(fn func(AppState)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Dispatch applies intent and returns the resulting snapshot
func (s *Store) Dispatch(intent Intent) AppState {
	return s.DispatchFunc(func(AppState) Intent { return intent })
}

// DispatchFunc builds an intent from the current snapshot and applies it
// atomically. build runs under the store lock and must not call the Store.
// A nil intent leaves the state unchanged.
func (s *Store) DispatchFunc(build func(AppState) Intent) AppState {
	s.mu.Lock()
	prev := s.state
	intent := build(prev)
	if intent == nil {
		s.mu.Unlock()
		return prev
	}
	next := Reduce(prev, intent, s.now())
	s.state = next

	if _, isLoad := intent.(LoadPersistedData); !isLoad {
		s.persist.diff(prev, next)
	}
	switch in := intent.(type) {
	case SetJobs:
		if len(in.Jobs) > 0 {
			s.reloads = 0
		}
	case RetryFetch:
		// An explicit retry always reaches the loader.
		s.reloads = 0
	}
	action := s.reloadActionLocked(prev, next)

	s.version++
	deliver := !s.delivering
	s.delivering = true
	s.mu.Unlock()

	s.logger.Debug("dispatched", zap.String("intent", fmt.Sprintf("%T", intent)))
	if action == reloadFetch {
		go func() {
			defer s.wg.Done()
			s.loadJobs(s.ctx)
		}()
	}
	if deliver {
		s.notify()
	}

	if action == reloadGiveUp {
		s.logger.Warn("catalog reload limit reached", zap.Int("max_reloads", s.maxReloads))
		return s.Dispatch(SetError{Message: MsgLoadFailed})
	}
	return next
}

// notify hands the newest snapshot to every subscriber until no reduction
// happened during the last round. Dispatches made meanwhile, including from
// inside a subscriber, are picked up by the next round.
func (s *Store) notify() {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.delivering = false
			s.mu.Unlock()
			panic(r)
		}
	}()

	for {
		s.mu.Lock()
		snapshot, version := s.state, s.version
		subs := make([]subscriber, len(s.subs))
		copy(subs, s.subs)
		s.mu.Unlock()

		for _, sub := range subs {
			sub.fn(snapshot)
		}

		s.mu.Lock()
		if s.version == version {
			s.delivering = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
	}
}

type reloadAction int

const (
	reloadNone reloadAction = iota
	reloadFetch
	reloadGiveUp
)

// reloadActionLocked decides whether a transition into loading with no
// jobs and no error should refetch the catalog. Consecutive reloads are
// capped at maxReloads; RetryFetch and a non-empty SetJobs re-arm the cap.
func (s *Store) reloadActionLocked(prev, next AppState) reloadAction {
	if !s.started || s.closed || s.fetching {
		return reloadNone
	}
	if prev.Loading || !next.Loading || next.Error != "" || len(next.Jobs) > 0 {
		return reloadNone
	}
	if s.reloads >= s.maxReloads {
		return reloadGiveUp
	}
	s.reloads++
	s.fetching = true
	s.wg.Add(1)
	return reloadFetch
}

// Start runs the startup sequence: mark loading, read the persisted slices
// concurrently, merge them, then load the catalog. It returns once the
// first catalog load has been published. A panic during startup publishes
// MsgInitFailed and is returned as an error.
func (s *Store) Start(ctx context.Context) (err error) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.fetching = true
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("startup failed", zap.Any("panic", r))
			s.mu.Lock()
			s.fetching = false
			s.mu.Unlock()
			s.Dispatch(SetError{Message: MsgInitFailed})
			err = fmt.Errorf("startup failed: %v", r)
		}
	}()

	s.Dispatch(SetLoading{Loading: true})

	if loaded := s.loadPersisted(ctx); !loaded.Empty() {
		s.Dispatch(loaded)
	}

	s.loadJobs(ctx)
	return nil
}

// loadPersisted reads the three slices concurrently. A failed read is logged
// and leaves that field absent.
func (s *Store) loadPersisted(ctx context.Context) LoadPersistedData {
	var (
		g      errgroup.Group
		loaded LoadPersistedData
	)

	g.Go(func() error {
		user, err := storage.LoadUser(ctx, s.adapter)
		if err != nil {
			s.logger.Warn("failed to load persisted user", zap.Error(err))
			return nil
		}
		loaded.User = user
		return nil
	})
	g.Go(func() error {
		saved, err := storage.LoadSavedJobs(ctx, s.adapter)
		if err != nil {
			s.logger.Warn("failed to load persisted saved jobs", zap.Error(err))
			return nil
		}
		loaded.SavedJobs = saved
		return nil
	})
	g.Go(func() error {
		idx, err := storage.LoadCurrentIndex(ctx, s.adapter)
		if err != nil {
			s.logger.Warn("failed to load persisted job index", zap.Error(err))
			return nil
		}
		loaded.CurrentIndex = idx
		return nil
	})

	_ = g.Wait()
	return loaded
}

// loadJobs invokes the catalog loader once and publishes the outcome.
// s.fetching must be set by the caller.
func (s *Store) loadJobs(ctx context.Context) {
	jobs, err := s.fetchCatalog(ctx)

	s.mu.Lock()
	s.fetching = false
	s.mu.Unlock()

	switch {
	case err != nil:
		s.logger.Warn("failed to load jobs", zap.Error(err))
		s.Dispatch(SetError{Message: MsgLoadFailed})
	case len(jobs) == 0:
		s.logger.Info("catalog is empty")
		s.Dispatch(SetError{Message: MsgNoJobs})
	default:
		s.logger.Debug("catalog loaded", zap.Int(logging.FieldCount, len(jobs)))
		s.Dispatch(SetJobs{Jobs: jobs})
	}
}

func (s *Store) fetchCatalog(ctx context.Context) (jobs []types.Job, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("catalog loader panicked: %v", r)
		}
	}()
	return s.loader.FetchAll(ctx)
}

// ImportResume applies a resume patch as one SetUser per section, each built
// from the latest profile. A missing profile is created with a fresh id.
// It returns the number of sections applied.
func (s *Store) ImportResume(patch resume.Patch) int {
	applied := 0
	for _, sec := range patch.Sections() {
		s.DispatchFunc(func(cur AppState) Intent {
			base := cur.User
			if base == nil {
				base = &types.UserProfile{
					ID:             uuid.NewString(),
					Skills:         []types.Skill{},
					WorkExperience: []types.WorkExperience{},
					Education:      []types.Education{},
				}
			}
			return SetUser{User: patch.ApplySection(base, sec)}
		})
		applied++
	}
	return applied
}

// Flush waits until every pending persistence write has completed
func (s *Store) Flush(ctx context.Context) error {
	return s.persist.flush(ctx)
}

// Close stops background reloads, drains pending writes and stops the writer.
// Dispatch remains usable afterwards but nothing more is persisted.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	s.persist.close()
}
