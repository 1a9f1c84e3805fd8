package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobswipe/internal/catalog"
	"github.com/jonathan/jobswipe/internal/config"
	"github.com/jonathan/jobswipe/internal/logging"
	"github.com/jonathan/jobswipe/internal/observability"
	"github.com/jonathan/jobswipe/internal/state"
	"github.com/jonathan/jobswipe/internal/storage"
)

// flushTimeout bounds the final persistence flush of a command
const flushTimeout = 10 * time.Second

// loadConfig resolves settings: flags over the config file over the environment
func loadConfig() (config.Config, error) {
	flags := config.Config{
		Store:      storeKind,
		StoreDSN:   storeDSN,
		Catalog:    catalogSource,
		CatalogURL: catalogURL,
		Verbose:    verbose,
		JSONLogs:   jsonLogs,
	}

	base := config.FromEnv()
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		base = fileCfg.MergeWithDefaults(base)
	}

	cfg := flags.MergeWithDefaults(base)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	logger, err := logging.New(logging.Options{Verbose: cfg.Verbose, JSON: cfg.JSONLogs})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// session is one command's view of the persisted application state
type session struct {
	cfg     config.Config
	logger  *zap.Logger
	store   *state.Store
	printer *observability.Printer
	adapter storage.Adapter
	cursor  *int
	closers []func()
}

// openSession wires storage, the catalog and the store, then runs startup
func openSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		logger:  logger,
		printer: observability.NewPrinter(cmd.OutOrStdout()),
	}

	opened, err := storage.Open(ctx, cfg.Store, cfg.StoreLocation(config.DefaultDataDir()))
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	s.closers = append(s.closers, func() {
		if err := opened.Close(); err != nil {
			logger.Warn("failed to close state store", zap.Error(err))
		}
	})

	s.adapter = opened

	// Every command starts a fresh store and the first catalog load resets
	// the cursor, so keep the stored one to put back afterwards.
	if s.cursor, err = storage.LoadCurrentIndex(ctx, opened); err != nil {
		logger.Warn("failed to read persisted job index", zap.Error(err))
	}

	loader, closeLoader, err := catalog.Open(ctx, cfg.Catalog, cfg.CatalogLocation())
	if err != nil {
		s.release()
		return nil, fmt.Errorf("failed to open job catalog: %w", err)
	}
	s.closers = append(s.closers, closeLoader)

	opts := []state.Option{state.WithLogger(logger)}
	if cfg.MaxReloads != nil {
		opts = append(opts, state.WithMaxReloads(*cfg.MaxReloads))
	}
	s.store = state.New(opened, loader, opts...)

	if err := s.store.Start(ctx); err != nil {
		s.store.Close()
		s.release()
		return nil, err
	}
	s.restoreCursor(ctx)
	return s, nil
}

// restoreCursor re-applies the stored browsing position once jobs are
// loaded and writes it back, so read-only commands leave it in place.
// It runs at most once per session.
func (s *session) restoreCursor(ctx context.Context) {
	if s.cursor == nil || len(s.store.GetState().Jobs) == 0 {
		return
	}
	idx := *s.cursor
	s.cursor = nil

	// The reset written by the catalog load must land before the restore
	if err := s.store.Flush(ctx); err != nil {
		s.logger.Warn("failed to flush before restoring job index", zap.Error(err))
		return
	}
	s.store.Dispatch(state.LoadPersistedData{CurrentIndex: &idx})
	if err := storage.SaveCurrentIndex(ctx, s.adapter, idx); err != nil {
		s.logger.Warn("failed to persist restored job index", zap.Error(err))
	}
}

// Close flushes pending writes and releases every connection
func (s *session) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	var err error
	if ferr := s.store.Flush(ctx); ferr != nil {
		err = fmt.Errorf("failed to persist state: %w", ferr)
	}
	s.store.Close()
	s.release()
	_ = s.logger.Sync()
	return err
}

func (s *session) release() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// withSession runs fn against a started store and always flushes afterwards
func withSession(cmd *cobra.Command, fn func(s *session) error) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	runErr := fn(s)
	return errors.Join(runErr, s.Close())
}

// requireJobs fails when the catalog could not be loaded
func requireJobs(st state.AppState) error {
	if st.Error != "" {
		return errors.New(st.Error)
	}
	return nil
}
