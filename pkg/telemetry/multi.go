package telemetry

import (
	"time"

	"github.com/vango-dev/fiber/pkg/vango"
)

// Multi fans every event out to each observer in order.
type Multi []vango.Observer

// RenderRequested implements vango.Observer.
func (m Multi) RenderRequested() {
	for _, o := range m {
		o.RenderRequested()
	}
}

// SliceFinished implements vango.Observer.
func (m Multi) SliceFinished(units int, yielded bool) {
	for _, o := range m {
		o.SliceFinished(units, yielded)
	}
}

// Committed implements vango.Observer.
func (m Multi) Committed(stats vango.CommitStats, d time.Duration, err error) {
	for _, o := range m {
		o.Committed(stats, d, err)
	}
}
