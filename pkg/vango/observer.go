package vango

import (
	"time"

	"github.com/vango-dev/fiber/pkg/host"
)

// Observer receives runtime events. Calls happen on the goroutine driving
// the runtime and must not block.
type Observer interface {
	// RenderRequested is called when a build starts, including restarts.
	RenderRequested()

	// SliceFinished is called after every RunSlice with the number of units
	// performed and whether the slice yielded with work left.
	SliceFinished(units int, yielded bool)

	// Committed is called after every commit attempt. err is non-nil when
	// the commit was aborted.
	Committed(stats CommitStats, d time.Duration, err error)
}

// CommitStats describes one commit.
type CommitStats struct {
	Placements int
	Updates    int
	Deletions  int

	// Ops counts host adapter calls made by the commit.
	Ops map[host.Op]int

	// Freed is the number of fibers returned to the arena by the sweep.
	Freed int
}

// Mutations returns the total number of host calls in the commit.
func (c CommitStats) Mutations() int {
	n := 0
	for _, v := range c.Ops {
		n += v
	}
	return n
}

// Stats are cumulative runtime counters.
type Stats struct {
	Renders       uint64
	Units         uint64
	Slices        uint64
	Yields        uint64
	Commits       uint64
	FailedCommits uint64
	Abandoned     uint64

	// LiveFibers is the arena population at the time of the call.
	LiveFibers int

	// Last is the most recent successful commit.
	Last CommitStats
}

type nopObserver struct{}

func (nopObserver) RenderRequested()                            {}
func (nopObserver) SliceFinished(int, bool)                     {}
func (nopObserver) Committed(CommitStats, time.Duration, error) {}
