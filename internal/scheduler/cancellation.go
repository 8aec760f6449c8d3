package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/Domenick1991/airline-reservation/internal/metrics"
	"go.uber.org/zap"
)

const (
	DefaultInterval = time.Hour
	LockName        = "cancellation-reconcile"
)

// Reconciler runs one pass over pending cancellations.
type Reconciler interface {
	CheckCancellations(ctx context.Context) (int, error)
}

// Locker keeps concurrent processes from running the same pass. TryLock
// returns an empty token when another holder has the lock.
type Locker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (string, error)
	Unlock(ctx context.Context, name, token string) error
}

type CancellationScheduler struct {
	reconciler Reconciler
	interval   time.Duration
	locker     Locker
	lockTTL    time.Duration
	log        *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*CancellationScheduler)

// WithLocker guards each pass with a lock held for at most ttl.
func WithLocker(l Locker, ttl time.Duration) Option {
	return func(s *CancellationScheduler) {
		s.locker = l
		s.lockTTL = ttl
	}
}

func NewCancellationScheduler(r Reconciler, interval time.Duration, log *zap.Logger, opts ...Option) *CancellationScheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &CancellationScheduler{
		reconciler: r,
		interval:   interval,
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs a pass immediately and then every interval until ctx is done or
// Stop is called. It returns false if the scheduler is already running.
func (s *CancellationScheduler) Start(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return false
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)

	s.log.Info("cancellation scheduler started", zap.Duration("interval", s.interval))
	return true
}

// Stop halts the loop and waits for an in-flight pass to finish.
func (s *CancellationScheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.log.Info("cancellation scheduler stopped")
}

func (s *CancellationScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// release forgets the loop that owns done unless Stop already did, so a loop
// ended by its parent context can be started again.
func (s *CancellationScheduler) release(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != done {
		return
	}
	s.cancel()
	s.cancel, s.done = nil, nil
}

func (s *CancellationScheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer s.release(done)

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce performs a single pass and returns how many refunds completed.
// Failures are logged; the next tick retries.
func (s *CancellationScheduler) RunOnce(ctx context.Context) int {
	if s.locker != nil {
		token, err := s.locker.TryLock(ctx, LockName, s.lockTTL)
		switch {
		case err != nil:
			s.log.Warn("reconcile lock unavailable, running unguarded", zap.Error(err))
		case token == "":
			metrics.ReconcileRuns.WithLabelValues("locked").Inc()
			s.log.Debug("reconcile pass held by another process")
			return 0
		default:
			defer func() {
				if err := s.locker.Unlock(context.WithoutCancel(ctx), LockName, token); err != nil {
					s.log.Warn("failed to release reconcile lock", zap.Error(err))
				}
			}()
		}
	}

	updated, err := s.reconciler.CheckCancellations(ctx)
	if err != nil {
		s.log.Error("cancellation reconciliation failed", zap.Error(err))
		return 0
	}
	if updated > 0 {
		s.log.Info("completed pending refunds", zap.Int("updated", updated))
	}
	return updated
}
