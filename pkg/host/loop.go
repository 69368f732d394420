package host

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrLoopRunning is returned by Run when the loop is already running.
	ErrLoopRunning = errors.New("host: loop is already running")

	// ErrLoopClosed is returned when submitting to a closed loop.
	ErrLoopClosed = errors.New("host: loop is closed")
)

// DefaultBudget is the slice length granted by a Loop when none is set.
const DefaultBudget = 5 * time.Millisecond

// Loop is a single-goroutine task loop that doubles as a SliceRequester.
// Submitted tasks and slice callbacks run in FIFO order on the goroutine
// that called Run, so work queued between slices (input events, inspection
// requests) is interleaved with rendering.
type Loop struct {
	budget time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	queue  []func()
	closed bool

	wake    chan struct{}
	running atomic.Bool
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithBudget sets the wall-clock length of each slice.
func WithBudget(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.budget = d
		}
	}
}

// WithLoopLogger sets the logger used to report task panics.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock replaces time.Now when computing slice deadlines.
func WithClock(now func() time.Time) LoopOption {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoop creates a loop. Call Run to start processing.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		budget: DefaultBudget,
		logger: slog.Default(),
		now:    time.Now,
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Budget returns the slice length.
func (l *Loop) Budget() time.Duration {
	return l.budget
}

// Submit queues fn to run on the loop goroutine. Safe for concurrent use.
func (l *Loop) Submit(fn func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Do runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := l.Submit(func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestSlice implements SliceRequester. The deadline starts when the
// callback begins running, not when it is requested.
func (l *Loop) RequestSlice(cb func(Deadline)) {
	err := l.Submit(func() {
		start := l.now()
		end := start.Add(l.budget)
		cb(DeadlineFunc(func() time.Duration {
			return end.Sub(l.now())
		}))
	})
	if err != nil {
		l.logger.Debug("slice request dropped", "error", err)
	}
}

// Run processes tasks until ctx is done or Close is called. It blocks.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	for {
		batch, closed := l.take()
		for _, fn := range batch {
			l.safeExecute(fn)
		}
		if closed {
			return nil
		}
		if len(batch) > 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// take removes the queued tasks. closed is true once the loop is closed
// and nothing remains.
func (l *Loop) take() (batch []func(), closed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch = l.queue
	l.queue = nil
	return batch, l.closed && len(batch) == 0
}

// Close stops accepting tasks. Run returns after draining what is queued.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) safeExecute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop task panicked", "panic", r)
		}
	}()
	fn()
}
