package local

import (
	"context"
	"sync"
	"time"

	"github.com/mbriard/carnets/internal/logging"
)

// DefaultInterval is how often the scheduler captures a snapshot.
const DefaultInterval = 30 * time.Minute

// Scheduler drives the rotating history: one snapshot per tick, one on
// teardown. A failed attempt is logged and simply retried at the next tick;
// the scheduler tracks no backoff and no failure counts.
type Scheduler struct {
	svc      *Service
	interval time.Duration
	log      logging.Logger

	mu     sync.Mutex
	handle *Handle
}

// Handle is the owned task handle for one scheduler run. Stopping it cancels
// the timer loop, waits for it to drain, and takes the teardown snapshot.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	stop   sync.Once
	svc    *Service
	log    logging.Logger
}

// NewScheduler builds a scheduler over the service. A non-positive interval
// falls back to DefaultInterval.
func NewScheduler(svc *Service, interval time.Duration, log logging.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{svc: svc, interval: interval, log: log}
}

// Start launches the timer loop and returns its handle. Calling Start while
// a run is active returns the active handle; there is no second timer.
func (s *Scheduler) Start(ctx context.Context) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		select {
		case <-s.handle.done:
			// previous run finished, fall through and start a new one
		default:
			return s.handle
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
		svc:    s.svc,
		log:    s.log,
	}
	s.handle = h

	go s.run(runCtx, h)
	return h
}

func (s *Scheduler) run(ctx context.Context, h *Handle) {
	defer close(h.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.svc.SnapshotNow(ctx); err != nil {
				// Absorbed on purpose: the next tick retries.
				s.log.Warn(ctx, "scheduled snapshot failed, retrying next tick", "error", err)
				continue
			}
			s.log.Debug(ctx, "scheduled snapshot stored")
		}
	}
}

// Stop cancels the timer loop, waits for it, then captures the teardown
// snapshot. It is safe to call more than once; only the first call does work.
// The teardown snapshot uses its own context because the run context is
// already cancelled by then.
func (h *Handle) Stop(ctx context.Context) {
	h.stop.Do(func() {
		h.cancel()
		<-h.done

		if _, err := h.svc.SnapshotNow(ctx); err != nil {
			h.log.Warn(ctx, "teardown snapshot failed", "error", err)
		}
	})
}
