package state

import (
	"time"

	"go.uber.org/zap"
)

// DefaultMaxReloads bounds consecutive state-driven catalog reloads
const DefaultMaxReloads = 3

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for lifecycle and persistence messages
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source stamped on saved jobs
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxReloads caps state-driven catalog reloads. Negative values mean 0.
func WithMaxReloads(n int) Option {
	return func(s *Store) {
		if n < 0 {
			n = 0
		}
		s.maxReloads = n
	}
}
