package vango

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/fiber"
	"github.com/vango-dev/fiber/pkg/hooks"
	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/vdom"
)

// RootTag is the kind of the fiber that wraps the container.
const RootTag = "#root"

type mountCells struct {
	comp  *vdom.Component
	cells []*hooks.Cell
}

// Runtime renders element trees into a host through an Adapter.
type Runtime struct {
	adapter host.Adapter
	arena   *fiber.Arena

	logger      *slog.Logger
	observer    Observer
	onError     func(error)
	threshold   time.Duration
	maxRestarts int

	currentRoot fiber.ID
	wipRoot     fiber.ID
	nextUnit    fiber.ID
	deletions   []fiber.ID

	rootElement *vdom.Element
	container   host.Node

	// performing is true while a unit runs; setters called then only set
	// pendingRerender.
	performing      bool
	pendingRerender bool
	restarts        int

	// carried holds the cells of components mounting in a restarted build,
	// keyed by fiber path, so updates queued during their first render are
	// replayed instead of dropped.
	carried map[string]mountCells

	requester host.SliceRequester
	scheduled bool

	stats Stats
}

// New creates a runtime that mutates the host through adapter.
func New(adapter host.Adapter, opts ...Option) *Runtime {
	r := &Runtime{
		adapter:     adapter,
		arena:       fiber.NewArena(),
		logger:      slog.Default(),
		observer:    nopObserver{},
		threshold:   DefaultYieldThreshold,
		maxRestarts: DefaultMaxRestarts,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// =============================================================================
// Render entry points
// =============================================================================

// Render starts a build of el into container, discarding any unfinished
// build. Nothing reaches the host until the build commits. A nil el renders
// an empty tree. A nil container is rejected with ErrNoRoot through the
// error handler and leaves the runtime unchanged.
func (r *Runtime) Render(el *vdom.Element, container host.Node) {
	if container == nil {
		r.handleError(errors.New("E022").WithDetail("Render called with a nil container"))
		return
	}
	r.carried = nil
	r.begin(el, container)
	r.schedule()
}

func (r *Runtime) begin(el *vdom.Element, container host.Node) {
	r.rootElement = el
	r.container = container

	if r.wipRoot != fiber.Nil {
		r.stats.Abandoned++
		r.logger.Debug("render restarted", "units_left", r.nextUnit != fiber.Nil)
	}

	var children []*vdom.Element
	if el != nil {
		children = []*vdom.Element{el}
	}
	r.wipRoot = r.arena.New(fiber.Fiber{
		Kind:      vdom.HostTag(RootTag),
		Node:      container,
		Props:     vdom.Props{vdom.ChildrenProp: children},
		Alternate: r.currentRoot,
	})
	r.deletions = nil
	r.nextUnit = r.wipRoot

	r.stats.Renders++
	r.observer.RenderRequested()
}

// Rerender renders the last root element again.
func (r *Runtime) Rerender() error {
	if r.container == nil {
		return ErrNoRoot
	}
	r.Render(r.rootElement, r.container)
	return nil
}

// requestRerender is the request function handed to every hook scope.
func (r *Runtime) requestRerender() {
	if r.performing {
		r.pendingRerender = true
		return
	}
	if err := r.Rerender(); err != nil {
		r.logger.Warn("state update ignored", "error", err)
	}
}

// =============================================================================
// Scheduling
// =============================================================================

// RunSlice performs units until none are left or shouldYield reports true
// after a unit. A nil shouldYield never yields. When the last unit finishes
// the build is committed in the same call. done reports that no work is
// pending afterwards.
func (r *Runtime) RunSlice(shouldYield func() bool) (done bool, err error) {
	units, yielded := 0, false
	r.stats.Slices++
	defer func() {
		r.stats.Units += uint64(units)
		if yielded {
			r.stats.Yields++
		}
		r.observer.SliceFinished(units, yielded)
	}()

	for r.nextUnit != fiber.Nil {
		if err := r.performUnit(r.nextUnit); err != nil {
			r.abandon(err)
			return r.nextUnit == fiber.Nil, err
		}
		units++

		if r.pendingRerender {
			r.pendingRerender = false
			r.restarts++
			if r.restarts > r.maxRestarts {
				err := errors.New("E025").
					WithDetailf("%d consecutive restarts", r.restarts-1).
					WithSuggestion("Only call a state setter from event listeners or behind a condition")
				r.abandon(err)
				return true, err
			}
			r.carryMounts()
			r.begin(r.rootElement, r.container)
			continue
		}

		if r.nextUnit != fiber.Nil && shouldYield != nil && shouldYield() {
			yielded = true
			return false, nil
		}
	}

	if r.wipRoot != fiber.Nil {
		if err := r.commitRoot(); err != nil {
			return r.nextUnit == fiber.Nil, err
		}
	}
	return r.nextUnit == fiber.Nil, nil
}

// Flush runs until no work is pending.
func (r *Runtime) Flush() error {
	for r.nextUnit != fiber.Nil || r.wipRoot != fiber.Nil {
		if _, err := r.RunSlice(nil); err != nil {
			return err
		}
	}
	return nil
}

// Start drives the runtime from req: whenever work is pending a slice is
// requested, and each slice yields once the deadline drops below the yield
// threshold. Errors go to the error handler.
func (r *Runtime) Start(req host.SliceRequester) {
	r.requester = req
	r.schedule()
}

// Stop detaches the slice requester. A slice already requested still runs
// but does not request another.
func (r *Runtime) Stop() {
	r.requester = nil
}

func (r *Runtime) schedule() {
	if r.requester == nil || r.scheduled || r.nextUnit == fiber.Nil {
		return
	}
	r.scheduled = true
	r.requester.RequestSlice(r.slice)
}

func (r *Runtime) slice(d host.Deadline) {
	r.scheduled = false
	_, err := r.RunSlice(func() bool {
		return d.TimeRemaining() < r.threshold
	})
	if err != nil {
		r.handleError(err)
	}
	r.schedule()
}

func (r *Runtime) handleError(err error) {
	if r.onError != nil {
		r.onError(err)
		return
	}
	r.logger.Error("render failed", "error", err)
}

// abandon drops the work-in-progress build after a render-phase failure.
func (r *Runtime) abandon(err error) {
	r.stats.Abandoned++
	r.logger.Warn("build abandoned", "error", err)
	r.wipRoot = fiber.Nil
	r.nextUnit = fiber.Nil
	r.deletions = nil
	r.pendingRerender = false
	r.restarts = 0
	r.carried = nil
}

// carryMounts records the cells of every component in the build being
// restarted that has no committed alternate. Entries from earlier restarts
// of the same build stay unless a newer render replaced them.
func (r *Runtime) carryMounts() {
	r.arena.Walk(r.wipRoot, func(id fiber.ID, f *fiber.Fiber) bool {
		if f.IsComponent() && f.Alternate == fiber.Nil && f.Hooks != nil {
			if r.carried == nil {
				r.carried = make(map[string]mountCells)
			}
			r.carried[r.arena.Path(id)] = mountCells{comp: f.Kind.Component(), cells: f.Hooks}
		}
		return true
	})
}

// =============================================================================
// Units of work
// =============================================================================

func (r *Runtime) performUnit(id fiber.ID) error {
	r.performing = true
	defer func() { r.performing = false }()

	f := r.arena.Get(id)
	var err error
	if f.IsComponent() {
		err = r.updateComponent(id, f)
	} else {
		err = r.updateHost(id, f)
	}
	if err != nil {
		return err
	}
	r.nextUnit = r.arena.Next(id)
	return nil
}

func (r *Runtime) updateComponent(id fiber.ID, f *fiber.Fiber) error {
	comp := f.Kind.Component()

	var prev []*hooks.Cell
	mounted := f.Alternate != fiber.Nil
	if mounted {
		prev = r.arena.Get(f.Alternate).Hooks
	} else if len(r.carried) > 0 {
		if c, ok := r.carried[r.arena.Path(id)]; ok && c.comp == comp {
			prev, mounted = c.cells, true
		}
	}

	scope := hooks.NewScope(comp.Name, prev, mounted, r.requestRerender)
	child, err := callRender(comp, scope, f.Props)
	if err != nil {
		return err
	}
	cells, err := scope.Finish()
	f.Hooks = cells
	if err != nil {
		return err
	}

	var children []*vdom.Element
	if child != nil {
		children = []*vdom.Element{child}
	}
	r.arena.Reconcile(id, children, &r.deletions)
	return nil
}

// callRender runs a component, converting panics into errors. Hook misuse
// panics carry their own error; anything else becomes ErrRenderPanic.
func callRender(comp *vdom.Component, scope *hooks.Scope, props vdom.Props) (el *vdom.Element, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if ve, ok := rec.(*errors.VangoError); ok {
				err = ve
				return
			}
			ve := errors.New("E021").WithDetailf("%s: %v", comp.Name, rec)
			if e, ok := rec.(error); ok {
				ve.Wrap(e)
			}
			err = ve
		}
	}()
	return comp.Render(scope, props), nil
}

// updateHost creates the fiber's host node on first visit and reconciles
// its children. Fragments have no node of their own.
func (r *Runtime) updateHost(id fiber.ID, f *fiber.Fiber) error {
	if f.Node == nil && !f.Kind.IsFragment() {
		node, err := r.createNode(f)
		if err != nil {
			return err
		}
		f.Node = node
	}
	r.arena.Reconcile(id, f.Children(), &r.deletions)
	return nil
}

func (r *Runtime) createNode(f *fiber.Fiber) (host.Node, error) {
	if f.Kind.IsText() {
		text, _ := f.Props[vdom.NodeValueProp].(string)
		node, err := r.adapter.CreateTextNode(text)
		if err != nil {
			return nil, errors.New("E023").WithDetail("text node").Wrap(err)
		}
		return node, nil
	}

	tag := f.Kind.Tag()
	node, err := r.adapter.CreateNode(tag)
	if err != nil {
		return nil, errors.New("E023").WithDetail(tag).Wrap(err)
	}
	for _, c := range vdom.DiffProps(nil, f.Props) {
		if err := r.applyChange(node, c, nil); err != nil {
			return nil, errors.New("E023").WithDetailf("%s: initial %s", tag, c.Name).Wrap(err)
		}
	}
	return node, nil
}

// =============================================================================
// Introspection
// =============================================================================

// Stats returns cumulative counters.
func (r *Runtime) Stats() Stats {
	s := r.stats
	s.LiveFibers = r.arena.Len()
	return s
}

// Pending reports whether a build is in progress.
func (r *Runtime) Pending() bool {
	return r.wipRoot != fiber.Nil
}

// Container returns the node passed to the last Render.
func (r *Runtime) Container() host.Node {
	return r.container
}

// CurrentRoot returns the root of the committed fiber tree, or fiber.Nil.
func (r *Runtime) CurrentRoot() fiber.ID {
	return r.currentRoot
}

// Arena exposes fiber storage for inspection. Callers must not mutate it.
func (r *Runtime) Arena() *fiber.Arena {
	return r.arena
}

// Dump renders the committed fiber tree.
func (r *Runtime) Dump() string {
	if r.currentRoot == fiber.Nil {
		return ""
	}
	return r.arena.Dump(r.currentRoot)
}

func (r *Runtime) String() string {
	return fmt.Sprintf("Runtime(fibers=%d, pending=%t)", r.arena.Len(), r.Pending())
}
