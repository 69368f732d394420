package inspect

import (
	"encoding/json"
	"time"

	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/vango"
)

// CommitEvent is sent to websocket clients after every commit attempt.
type CommitEvent struct {
	Type       string         `json:"type"`
	Placements int            `json:"placements"`
	Updates    int            `json:"updates"`
	Deletions  int            `json:"deletions"`
	Mutations  int            `json:"mutations"`
	Ops        map[string]int `json:"ops,omitempty"`
	Freed      int            `json:"freed"`
	DurationMs float64        `json:"durationMs"`
	Error      string         `json:"error,omitempty"`
}

func newCommitEvent(stats vango.CommitStats, d time.Duration, err error) CommitEvent {
	ev := CommitEvent{
		Type:       "commit",
		Placements: stats.Placements,
		Updates:    stats.Updates,
		Deletions:  stats.Deletions,
		Mutations:  stats.Mutations(),
		Freed:      stats.Freed,
		DurationMs: float64(d) / float64(time.Millisecond),
	}
	for _, op := range host.Ops {
		if n := stats.Ops[op]; n > 0 {
			if ev.Ops == nil {
				ev.Ops = make(map[string]int)
			}
			ev.Ops[op.String()] = n
		}
	}
	if err != nil {
		ev.Type = "commit_failed"
		ev.Error = err.Error()
	}
	return ev
}

// Stream is a vango.Observer that sends commit events to /ws clients.
// Install it on the runtime and pass it in Config.Stream.
type Stream struct {
	hub *hub
}

var _ vango.Observer = (*Stream)(nil)

// NewStream creates an event stream with no clients.
func NewStream() *Stream {
	return &Stream{hub: newHub()}
}

// RenderRequested implements vango.Observer.
func (s *Stream) RenderRequested() {}

// SliceFinished implements vango.Observer.
func (s *Stream) SliceFinished(int, bool) {}

// Committed implements vango.Observer. It never blocks; a client whose
// buffer is full misses the event.
func (s *Stream) Committed(stats vango.CommitStats, d time.Duration, err error) {
	data, jerr := json.Marshal(newCommitEvent(stats, d, err))
	if jerr != nil {
		return
	}
	s.hub.broadcast(data)
}

// Clients returns the number of connected websocket clients.
func (s *Stream) Clients() int {
	return s.hub.count()
}
