// Package sync keeps the cached auction list warm while a session is live.
package sync

import (
	"context"
	stdsync "sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// RefreshFunc fetches fresh data and stores it wherever it belongs.
type RefreshFunc func(ctx context.Context) error

// Syncer runs a RefreshFunc on a ticker, skipping ticks that land within the
// quiet period of the previous successful run.
type Syncer struct {
	refresh  RefreshFunc
	interval time.Duration
	quiet    time.Duration
	now      func() time.Time
	log      *zap.Logger

	last atomic.Int64 // unix nanos of the last successful run, 0 if none

	mu     stdsync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) {
		s.now = now
	}
}

// WithLogger sets the syncer's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Syncer) {
		s.log = l
	}
}

// New creates a stopped Syncer.
func New(refresh RefreshFunc, interval, quiet time.Duration, opts ...Option) *Syncer {
	s := &Syncer{
		refresh:  refresh,
		interval: interval,
		quiet:    quiet,
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tick runs one sync unless the last success is more recent than the quiet
// period. It reports whether a refresh was attempted. Errors are returned but
// leave the last-sync stamp untouched.
func (s *Syncer) Tick(ctx context.Context) (bool, error) {
	now := s.now()
	if last := s.last.Load(); last != 0 && now.Sub(time.Unix(0, last)) < s.quiet {
		return false, nil
	}

	s.log.Debug("background sync")
	if err := s.refresh(ctx); err != nil {
		s.log.Warn("background sync failed", zap.Error(err))
		return true, err
	}
	s.last.Store(now.UnixNano())
	return true, nil
}

// LastSync returns when the last successful run started.
func (s *Syncer) LastSync() time.Time {
	n := s.last.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Watch ticks every interval until ctx is cancelled. The first run happens
// one interval after the call.
func (s *Syncer) Watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx) //nolint:errcheck
		}
	}
}

// Start runs Watch in the background. Starting a running Syncer is a no-op.
func (s *Syncer) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	go func() {
		defer close(done)
		s.Watch(ctx)
	}()
}

// Stop halts the background loop and waits for it to exit.
func (s *Syncer) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the background loop is active.
func (s *Syncer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Reset forgets the last-sync stamp so the next tick always runs.
func (s *Syncer) Reset() {
	s.last.Store(0)
}
