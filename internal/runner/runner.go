package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AbhayRathi/TinyWindow/internal/logger"
)

// stopTimeout bounds how long Stop waits for the loop goroutine to exit.
const stopTimeout = 5 * time.Second

// TickFunc is one unit of periodic work. A returned error is logged and the
// loop continues on the next tick.
type TickFunc func(ctx context.Context) error

// Runner drives one background loop: run a tick, then wait out the interval
// or a stop signal, whichever comes first. Lifecycle is
// stopped -> running -> stopping -> stopped; Start while running is a no-op.
type Runner struct {
	name     string
	interval time.Duration
	tick     TickFunc

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(name string, interval time.Duration, tick TickFunc) *Runner {
	return &Runner{name: name, interval: interval, tick: tick}
}

func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		logger.Warn(context.Background(), "Runner already running", "runner", r.name)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true
	go r.run(ctx, r.done)

	logger.Info(context.Background(), "Runner started", "runner", r.name, "interval", r.interval)
}

// Stop signals the loop and waits for it to exit, bounded by stopTimeout.
// A loop stuck inside a tick is abandoned after the timeout.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.cancel()

	select {
	case <-r.done:
	case <-time.After(stopTimeout):
		logger.Warn(context.Background(), "Runner did not stop within timeout", "runner", r.name, "timeout", stopTimeout)
	}
	r.running = false
	logger.Info(context.Background(), "Runner stopped", "runner", r.name)
}

func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		r.safeTick(ctx)

		timer.Reset(r.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// safeTick runs one tick, swallowing errors and panics so a bad cycle never
// kills the loop.
func (r *Runner) safeTick(ctx context.Context) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "Tick panicked", "runner", r.name, "panic", fmt.Sprint(p))
		}
	}()
	if err := r.tick(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Tick failed", err, "runner", r.name)
	}
}
