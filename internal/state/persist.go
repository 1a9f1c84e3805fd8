package state

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/jobswipe/internal/logging"
	"github.com/jonathan/jobswipe/internal/storage"
	"github.com/jonathan/jobswipe/internal/types"
)

// writeOp persists one slice of the state
type writeOp struct {
	key   string
	write func(ctx context.Context) error
}

// persister runs slice writes on a single goroutine in the order their keys
// were first queued. A queued write for a key is replaced by a newer one for
// the same key.
type persister struct {
	adapter storage.Adapter
	logger  *zap.Logger

	mu      sync.Mutex
	queue   []writeOp
	busy    bool
	closed  bool
	waiters []chan struct{}

	wake chan struct{}
	done chan struct{}
}

func newPersister(adapter storage.Adapter, logger *zap.Logger) *persister {
	p := &persister{
		adapter: adapter,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// diff queues a write for every slice that differs between prev and next
func (p *persister) diff(prev, next AppState) {
	if next.User != nil && next.User != prev.User {
		user := next.User
		p.enqueue(writeOp{key: storage.KeyUser, write: func(ctx context.Context) error {
			return storage.SaveUser(ctx, p.adapter, user)
		}})
	}
	if !sameSaved(prev.SavedJobs, next.SavedJobs) {
		saved := next.SavedJobs
		p.enqueue(writeOp{key: storage.KeySavedJobs, write: func(ctx context.Context) error {
			return storage.SaveSavedJobs(ctx, p.adapter, saved)
		}})
	}
	if prev.CurrentIndex != next.CurrentIndex {
		idx := next.CurrentIndex
		p.enqueue(writeOp{key: storage.KeyCurrentIndex, write: func(ctx context.Context) error {
			return storage.SaveCurrentIndex(ctx, p.adapter, idx)
		}})
	}
}

func (p *persister) enqueue(op writeOp) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Debug("dropping write after close", zap.String(logging.FieldKey, op.key))
		return
	}
	replaced := false
	for i := range p.queue {
		if p.queue[i].key == op.key {
			p.queue[i] = op
			replaced = true
			break
		}
	}
	if !replaced {
		p.queue = append(p.queue, op)
	}
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer close(p.done)
	for {
		p.mu.Lock()
		if len(p.queue) == 0 {
			p.busy = false
			for _, w := range p.waiters {
				close(w)
			}
			p.waiters = nil
			if p.closed {
				p.mu.Unlock()
				return
			}
			p.mu.Unlock()
			<-p.wake
			continue
		}
		op := p.queue[0]
		p.queue = p.queue[1:]
		p.busy = true
		p.mu.Unlock()

		// Writes are not bound to any caller context.
		if err := op.write(context.Background()); err != nil {
			p.logger.Warn("failed to persist state",
				zap.String(logging.FieldKey, op.key),
				zap.Error(err))
		}
	}
}

// flush blocks until every queued write has completed or ctx ends
func (p *persister) flush(ctx context.Context) error {
	p.mu.Lock()
	if len(p.queue) == 0 && !p.busy {
		p.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	p.waiters = append(p.waiters, ch)
	p.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drains the queue and stops the writer
func (p *persister) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return
	}
	p.closed = true
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
	<-p.done
}

// sameSaved reports whether two saved lists hold the same entries in the
// same order. Entries are immutable snapshots apart from Applied, so the id,
// save time and applied flag identify them.
func sameSaved(a, b []types.SavedJob) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Applied != b[i].Applied || !a[i].SavedDate.Equal(b[i].SavedDate) {
			return false
		}
	}
	return true
}
