package vango

import (
	"log/slog"
	"time"
)

// DefaultYieldThreshold is the remaining slice time below which a
// cooperative slice stops performing units.
const DefaultYieldThreshold = time.Millisecond

// DefaultMaxRestarts bounds consecutive build restarts caused by setters
// called during render.
const DefaultMaxRestarts = 25

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the runtime logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver registers an observer for render, slice and commit events.
func WithObserver(o Observer) Option {
	return func(r *Runtime) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithYieldThreshold sets the remaining-time threshold used by slices
// granted through Start.
func WithYieldThreshold(d time.Duration) Option {
	return func(r *Runtime) {
		if d >= 0 {
			r.threshold = d
		}
	}
}

// WithErrorHandler receives errors from slices driven by Start. Without
// one, errors are logged.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Runtime) {
		r.onError = fn
	}
}

// WithMaxRestarts overrides DefaultMaxRestarts.
func WithMaxRestarts(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.maxRestarts = n
		}
	}
}
