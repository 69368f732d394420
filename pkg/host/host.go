package host

import (
	"time"
)

// Node is an opaque handle to a host node. Adapters decide its concrete type.
type Node any

// Adapter performs host-tree construction and mutation. Every method may
// fail; the runtime treats a failure during commit as fatal to that commit.
type Adapter interface {
	CreateNode(tag string) (Node, error)
	CreateTextNode(text string) (Node, error)
	SetProperty(n Node, name string, value any) error
	RemoveProperty(n Node, name string) error
	AddListener(n Node, event string, fn any) error
	RemoveListener(n Node, event string, fn any) error
	AppendChild(parent, child Node) error
	RemoveChild(parent, child Node) error
}

// Deadline reports how much of the current slice is left.
type Deadline interface {
	TimeRemaining() time.Duration
}

// SliceRequester queues a callback to run on the next granted slice.
type SliceRequester interface {
	RequestSlice(cb func(Deadline))
}

// DeadlineFunc adapts a function to Deadline.
type DeadlineFunc func() time.Duration

// TimeRemaining implements Deadline.
func (f DeadlineFunc) TimeRemaining() time.Duration {
	return f()
}

// Until returns a wall-clock deadline ending at end.
func Until(end time.Time) Deadline {
	return DeadlineFunc(func() time.Duration {
		return time.Until(end)
	})
}

// Fixed returns a deadline that always reports d.
func Fixed(d time.Duration) Deadline {
	return DeadlineFunc(func() time.Duration { return d })
}

// Countdown returns a deadline that reports step*(k-n) on its n-th query,
// reaching zero on the k-th. With a yield threshold of step it grants
// exactly k units per slice.
func Countdown(k int, step time.Duration) Deadline {
	queried := 0
	return DeadlineFunc(func() time.Duration {
		queried++
		left := k - queried
		if left < 0 {
			left = 0
		}
		return time.Duration(left) * step
	})
}
