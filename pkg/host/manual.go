package host

// Manual is a SliceRequester that runs callbacks only when told to. Tests
// use it to grant slices with deterministic deadlines.
type Manual struct {
	pending []func(Deadline)
}

// RequestSlice implements SliceRequester.
func (m *Manual) RequestSlice(cb func(Deadline)) {
	m.pending = append(m.pending, cb)
}

// Pending returns the number of queued callbacks.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Step runs the oldest queued callback with d. It returns false if nothing
// was queued.
func (m *Manual) Step(d Deadline) bool {
	if len(m.pending) == 0 {
		return false
	}
	cb := m.pending[0]
	m.pending = m.pending[1:]
	cb(d)
	return true
}

// Drain steps until the queue is empty or max callbacks ran, calling
// deadline for a fresh Deadline each time. It returns the number run.
func (m *Manual) Drain(deadline func() Deadline, max int) int {
	n := 0
	for n < max && m.Step(deadline()) {
		n++
	}
	return n
}
