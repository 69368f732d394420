package hooks

import (
	"fmt"

	"github.com/vango-dev/fiber/internal/errors"
)

var (
	// ErrNoScope is raised when a hook runs on a nil scope or after its
	// component returned.
	ErrNoScope = errors.New("E001")

	// ErrHookCountMismatch is raised when a component calls a different number
	// of hooks than on its previous render.
	ErrHookCountMismatch = errors.New("E002")

	// ErrHookType is raised when a cell's stored state does not have the type
	// requested by the hook.
	ErrHookType = errors.New("E003")
)

// Cell is one positional state slot on a component fiber.
type Cell struct {
	State any
	Queue []func(any) any

	// next is the cell built from this one by the most recent render, and
	// committed reports whether that render reached the host tree.
	next      *Cell
	committed bool

	// prev is the cell this one was replayed from, until commit. replayed
	// is how much of Queue the successor folded in.
	prev     *Cell
	replayed int
}

// Enqueue appends an update to the newest committed generation of c.
// Setters captured by an older render therefore still reach the cell the
// next render will replay. A cell that has not committed yet forwards to
// the committed cell it was replayed from. Cells of a component that never
// committed keep the update on the newest generation built from them.
func (c *Cell) Enqueue(fn func(any) any) {
	target := c
	if !target.committed && target.prev != nil && target.prev.committed {
		target = target.prev
	}
	for target.next != nil && (target.next.committed || !target.committed) {
		target = target.next
	}
	target.Queue = append(target.Queue, fn)
}

// Pending returns the number of queued updates.
func (c *Cell) Pending() int {
	return len(c.Queue)
}

// Commit marks cells as belonging to a committed tree. Updates queued on a
// predecessor after it was replayed move to its successor so they are not
// lost when the old generation is discarded.
func Commit(cells []*Cell) {
	for _, c := range cells {
		c.committed = true
		if p := c.prev; p != nil {
			if late := p.Queue[p.replayed:]; len(late) > 0 {
				c.Queue = append(append([]func(any) any(nil), late...), c.Queue...)
			}
			p.Queue = p.Queue[:p.replayed]
			c.prev = nil
		}
	}
}

// Scope is the render context bound to one execution of a component fiber.
type Scope struct {
	name    string
	prev    []*Cell
	mounted bool
	cells   []*Cell
	index   int
	done    bool
	request func()
}

// NewScope creates a scope for a component execution. prev holds the cells
// of the fiber's alternate and mounted reports whether an alternate exists;
// request is called by setters to schedule a re-render.
func NewScope(name string, prev []*Cell, mounted bool, request func()) *Scope {
	return &Scope{
		name:    name,
		prev:    prev,
		mounted: mounted,
		request: request,
	}
}

// Name returns the component name the scope was created for.
func (s *Scope) Name() string {
	return s.name
}

// Len returns the number of hooks called so far.
func (s *Scope) Len() int {
	return s.index
}

// Finish closes the scope and returns the cells created during the
// execution. A mounted component that called fewer hooks than on its
// previous render yields ErrHookCountMismatch.
func (s *Scope) Finish() ([]*Cell, error) {
	s.done = true
	if s.mounted && s.index != len(s.prev) {
		return s.cells, errors.New("E002").
			WithDetailf("%s: expected %d hooks, got %d", s.name, len(s.prev), s.index).
			WithSuggestion("Call hooks unconditionally at the top of the component")
	}
	return s.cells, nil
}

// use claims the next cell position, replaying the previous generation's
// queue when one exists.
func (s *Scope) use(initial any) *Cell {
	if s == nil || s.done {
		panic(errors.New("E001").
			WithDetail("hooks may only be called while a component is rendering").
			WithSuggestion("Move the hook call into the component body"))
	}

	i := s.index
	s.index++

	state := initial
	if s.mounted {
		if i >= len(s.prev) {
			panic(errors.New("E002").
				WithDetailf("%s: extra hook at index %d, previous render called %d", s.name, i, len(s.prev)).
				WithSuggestion("Call hooks unconditionally at the top of the component"))
		}
		old := s.prev[i]
		state = old.State
		for _, fn := range old.Queue {
			state = fn(state)
		}
		cell := &Cell{State: state, prev: old}
		old.next = cell
		old.replayed = len(old.Queue)
		s.cells = append(s.cells, cell)
		return cell
	}

	cell := &Cell{State: state}
	s.cells = append(s.cells, cell)
	return cell
}

func (s *Scope) requestRender() {
	if s.request != nil {
		s.request()
	}
}

// cast converts a stored cell value to T.
func cast[T any](name string, index int, v any) T {
	if v == nil {
		var zero T
		return zero
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		panic(errors.New("E003").
			WithDetailf("%s: hook %d holds %T, requested %T", name, index, v, zero))
	}
	return t
}

// UseState returns the current state for this hook position and a setter
// that queues an update function and requests a re-render.
func UseState[T any](s *Scope, initial T) (T, func(func(T) T)) {
	cell := s.use(initial)
	index := s.index - 1
	name := s.name
	value := cast[T](name, index, cell.State)

	set := func(update func(T) T) {
		cell.Enqueue(func(prev any) any {
			return update(cast[T](name, index, prev))
		})
		s.requestRender()
	}
	return value, set
}

// UseReducer is UseState with updates expressed as actions folded through
// reducer.
func UseReducer[S, A any](s *Scope, reducer func(S, A) S, initial S) (S, func(A)) {
	state, set := UseState(s, initial)
	dispatch := func(action A) {
		set(func(prev S) S { return reducer(prev, action) })
	}
	return state, dispatch
}

// Value returns a setter-style update that replaces the state with v.
func Value[T any](v T) func(T) T {
	return func(T) T { return v }
}

// String renders a short description of the scope for logging.
func (s *Scope) String() string {
	return fmt.Sprintf("Scope(%s, %d/%d hooks)", s.name, s.index, len(s.prev))
}
