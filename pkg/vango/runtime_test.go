package vango_test

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/fiber/pkg/fiber"
	"github.com/vango-dev/fiber/pkg/hooks"
	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/vango"
	"github.com/vango-dev/fiber/pkg/vdom"
	"github.com/vango-dev/fiber/pkg/vtest"
)

var Counter = vdom.Define("Counter", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
	count, set := hooks.UseState(s, 0)
	return vdom.Div(
		vdom.P(vdom.Textf("count: %d", count)),
		vdom.Button(vdom.ID("inc"), vdom.OnClick(func() {
			set(func(c int) int { return c + 1 })
		}), "+"),
	)
})

func effectCounts(rt *vango.Runtime) map[fiber.EffectTag]int {
	out := map[fiber.EffectTag]int{}
	a := rt.Arena()
	root := rt.CurrentRoot()
	a.Walk(root, func(id fiber.ID, f *fiber.Fiber) bool {
		if id != root {
			out[f.Effect]++
		}
		return true
	})
	return out
}

func TestCounterInitialRender(t *testing.T) {
	h := vtest.New(t)
	h.Render(vdom.CreateElement(Counter, nil))

	want := `<div><p>count: 0</p><button id="inc">+</button></div>`
	if got := h.HTML(); got != want {
		t.Errorf("HTML() = %s, want %s", got, want)
	}
	if got := h.Find("inc").Listeners(); len(got) != 1 || got[0] != "click" {
		t.Errorf("button listeners = %v, want [click]", got)
	}
	if got := effectCounts(h.Runtime); got[fiber.Placement] != 6 || len(got) != 1 {
		t.Errorf("effects = %v, want 6 Placement only", got)
	}
}

func TestCounterScenario(t *testing.T) {
	h := vtest.New(t)
	h.Render(vdom.CreateElement(Counter, nil))
	h.ResetLog()

	h.Click("inc")

	vtest.ExpectContains(t, h, "count: 1")
	props := h.PropertyMutations()
	if len(props) != 1 {
		t.Fatalf("property mutations = %v, want exactly 1", props)
	}
	if props[0].Op != host.OpSetProperty || props[0].Name != vdom.NodeValueProp || props[0].Value != "count: 1" {
		t.Errorf("mutation = %s, want set_property nodeValue=count: 1", props[0])
	}
	for _, op := range []host.Op{host.OpCreateNode, host.OpCreateText, host.OpAppendChild, host.OpRemoveChild} {
		if n := h.Recorder.Count(op); n != 0 {
			t.Errorf("%s calls = %d, want 0", op, n)
		}
	}

	last := h.Runtime.Stats().Last
	if last.Placements != 0 || last.Deletions != 0 {
		t.Errorf("last commit = %+v, want no placements or deletions", last)
	}
}

func TestHookPersistence(t *testing.T) {
	h := vtest.New(t)
	h.Render(vdom.CreateElement(Counter, nil))

	h.Click("inc")
	h.Click("inc")

	vtest.ExpectContains(t, h, "count: 2")
	vtest.ExpectNotContains(t, h, "count: 1")
}

func TestBatchedSetterCalls(t *testing.T) {
	var set func(func(int) int)
	app := vdom.Define("App", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
		var n int
		n, set = hooks.UseState(s, 0)
		return vdom.Span(vdom.Textf("%d", n))
	})

	h := vtest.New(t)
	h.Render(vdom.CreateElement(app, nil))

	set(func(c int) int { return c + 1 })
	set(func(c int) int { return c + 1 })
	h.Flush()

	if got := h.HTML(); got != "<span>2</span>" {
		t.Errorf("HTML() = %s, want <span>2</span>", got)
	}
	if got := h.Runtime.Stats().Commits; got != 2 {
		t.Errorf("commits = %d, want 2", got)
	}
}

func TestIdempotentRerender(t *testing.T) {
	h := vtest.New(t)
	h.Render(vdom.CreateElement(Counter, nil))
	before := h.HTML()
	h.ResetLog()

	if err := h.Runtime.Rerender(); err != nil {
		t.Fatalf("Rerender() error = %v", err)
	}
	h.Flush()

	got := effectCounts(h.Runtime)
	if got[fiber.Placement] != 0 || got[fiber.Deletion] != 0 || got[fiber.Update] != 6 {
		t.Errorf("effects = %v, want 6 Update only", got)
	}
	if n := len(h.PropertyMutations()); n != 0 {
		t.Errorf("property mutations = %d, want 0", n)
	}
	if h.HTML() != before {
		t.Errorf("HTML() changed: %s -> %s", before, h.HTML())
	}
}

func TestPositionalReplace(t *testing.T) {
	h := vtest.New(t)
	h.Render(vdom.Div(vdom.El("a"), vdom.El("b")))
	h.ResetLog()

	h.Render(vdom.Div(vdom.El("b"), vdom.El("a")))

	last := h.Runtime.Stats().Last
	if last.Deletions != 2 || last.Placements != 2 {
		t.Errorf("last commit = %+v, want 2 deletions and 2 placements", last)
	}
	// Only the parent div survives as an Update.
	if last.Updates != 1 {
		t.Errorf("updates = %d, want 1", last.Updates)
	}
	if got := h.HTML(); got != "<div><b></b><a></a></div>" {
		t.Errorf("HTML() = %s", got)
	}
	if got := h.Recorder.Count(host.OpRemoveChild); got != 2 {
		t.Errorf("remove_child calls = %d, want 2", got)
	}
}

func TestPlacementBeforeKeptSibling(t *testing.T) {
	h := vtest.New(t)
	h.Render(vdom.Div(vdom.Div("a"), vdom.Span("b")))
	h.ResetLog()

	h.Render(vdom.Div(vdom.P("c"), vdom.Span("b")))

	if got := h.HTML(); got != "<div><p>c</p><span>b</span></div>" {
		t.Errorf("HTML() = %s, want <div><p>c</p><span>b</span></div>", got)
	}
	if got := h.Recorder.Count(host.OpRemoveChild); got != 1 {
		t.Errorf("remove_child calls = %d, want 1", got)
	}
}

func TestPlacementInsideComponentBeforeKeptSibling(t *testing.T) {
	maybe := vdom.Define("Maybe", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
		if show, _ := p["show"].(bool); show {
			return vdom.P("c")
		}
		return nil
	})

	h := vtest.New(t)
	h.Render(vdom.Div(vdom.CreateElement(maybe, vdom.Props{"show": false}), vdom.Span("b"), vdom.Em("d")))
	if got := h.HTML(); got != "<div><span>b</span><em>d</em></div>" {
		t.Fatalf("HTML() = %s", got)
	}

	h.Render(vdom.Div(vdom.CreateElement(maybe, vdom.Props{"show": true}), vdom.Span("b"), vdom.Em("d")))

	if got := h.HTML(); got != "<div><p>c</p><span>b</span><em>d</em></div>" {
		t.Errorf("HTML() = %s, want <div><p>c</p><span>b</span><em>d</em></div>", got)
	}
}

func TestDeletionRecursion(t *testing.T) {
	pair := vdom.Define("Pair", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
		return vdom.Fragment(vdom.H1("one"), vdom.H2("two"))
	})
	outer := vdom.Define("Outer", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
		return vdom.CreateElement(pair, nil)
	})

	h := vtest.New(t)
	h.Render(vdom.Div(vdom.ID("box"), vdom.Span("keep"), vdom.CreateElement(outer, nil)))
	if got := h.HTML(); got != `<div id="box"><span>keep</span><h1>one</h1><h2>two</h2></div>` {
		t.Fatalf("HTML() = %s", got)
	}
	h1 := h.Root.FindByTag("h1")
	h2 := h.Root.FindByTag("h2")
	h.ResetLog()

	h.Render(vdom.Div(vdom.ID("box"), vdom.Span("keep")))

	removed := h.Recorder.Filter(func(m host.Mutation) bool { return m.Op == host.OpRemoveChild })
	if len(removed) != 2 {
		t.Fatalf("removals = %d, want 2", len(removed))
	}
	if removed[0].Target != h1 || removed[1].Target != h2 {
		t.Errorf("removed %v and %v, want h1 and h2", removed[0].Target, removed[1].Target)
	}
	if got := h.HTML(); got != `<div id="box"><span>keep</span></div>` {
		t.Errorf("HTML() = %s", got)
	}
	if last := h.Runtime.Stats().Last; last.Deletions != 1 {
		t.Errorf("deletions = %d, want 1 (the Outer fiber)", last.Deletions)
	}
}

func TestCommitAbortKeepsCurrentTree(t *testing.T) {
	mem := host.NewMemory()
	faulty := &host.Faulty{Adapter: mem, Op: host.OpSetProperty, N: 1}
	rt := vango.New(faulty)
	root := mem.NewContainer("root")

	rt.Render(vdom.Div(vdom.P("a")), root)
	if err := rt.Flush(); err != nil {
		t.Fatalf("initial Flush() error = %v", err)
	}
	before := rt.CurrentRoot()

	rt.Render(vdom.Div(vdom.ID("x"), vdom.P("b")), root)
	err := rt.Flush()
	if !stderrors.Is(err, vango.ErrCommitAborted) {
		t.Fatalf("Flush() error = %v, want ErrCommitAborted", err)
	}
	if rt.CurrentRoot() != before {
		t.Error("failed commit promoted the build")
	}
	if rt.Pending() {
		t.Error("failed build still pending")
	}
	if got := rt.Stats().FailedCommits; got != 1 {
		t.Errorf("FailedCommits = %d, want 1", got)
	}

	// The next render diffs against the last committed tree and converges.
	rt.Render(vdom.Div(vdom.ID("x"), vdom.P("b")), root)
	if err := rt.Flush(); err != nil {
		t.Fatalf("Flush() after abort error = %v", err)
	}
	if got := root.Children[0].String(); got != `<div id="x"><p>b</p></div>` {
		t.Errorf("host = %s", got)
	}
}

func TestRenderNilClearsTree(t *testing.T) {
	h := vtest.New(t)
	h.Render(vdom.Div("x"))
	h.Render(nil)
	if got := h.HTML(); got != "" {
		t.Errorf("HTML() = %q, want empty", got)
	}
}

func TestPropertyAndListenerDiff(t *testing.T) {
	h := vtest.New(t)
	click := func() {}
	h.Render(vdom.Div(vdom.ID("d"), vdom.Class("a"), vdom.OnClick(click)))
	h.ResetLog()

	h.Render(vdom.Div(vdom.ID("d"), vdom.Prop("title", "t")))

	var ops []string
	for _, m := range h.Mutations() {
		ops = append(ops, m.String())
	}
	want := []string{
		"remove_listener click",
		"remove_property class",
		"set_property title=t",
	}
	if strings.Join(ops, "|") != strings.Join(want, "|") {
		t.Errorf("ops = %v, want %v", ops, want)
	}
}

func TestRerenderWithoutRoot(t *testing.T) {
	rt := vango.New(host.NewMemory())
	if err := rt.Rerender(); !stderrors.Is(err, vango.ErrNoRoot) {
		t.Errorf("Rerender() error = %v, want ErrNoRoot", err)
	}
	if err := rt.Flush(); err != nil {
		t.Errorf("Flush() with no work error = %v", err)
	}
	done, err := rt.RunSlice(nil)
	if !done || err != nil {
		t.Errorf("RunSlice() = %v, %v; want true, nil", done, err)
	}
}

func TestRenderRejectsNilContainer(t *testing.T) {
	var got []error
	h := vtest.New(t, vango.WithErrorHandler(func(err error) { got = append(got, err) }))
	h.Render(vdom.Div("x"))
	before := h.Runtime.Stats().Renders

	h.Runtime.Render(vdom.Div("y"), nil)

	if len(got) != 1 || !stderrors.Is(got[0], vango.ErrNoRoot) {
		t.Fatalf("errors = %v, want one ErrNoRoot", got)
	}
	if h.Runtime.Pending() {
		t.Error("build pending after nil container")
	}
	if n := h.Runtime.Stats().Renders; n != before {
		t.Errorf("renders = %d, want %d", n, before)
	}
	if h.Runtime.Container() != h.Root {
		t.Error("container replaced by nil")
	}
	h.Flush()
	if got := h.HTML(); got != "<div>x</div>" {
		t.Errorf("HTML() = %s, want <div>x</div>", got)
	}
}

func TestRenderNilContainerBeforeFirstRender(t *testing.T) {
	rt := vango.New(host.NewMemory(), vango.WithErrorHandler(func(error) {}))
	rt.Render(vdom.Div("x"), nil)
	if err := rt.Rerender(); !stderrors.Is(err, vango.ErrNoRoot) {
		t.Errorf("Rerender() error = %v, want ErrNoRoot", err)
	}
	if rt.Pending() {
		t.Error("build pending after nil container")
	}
}

func TestComponentPanicAbandonsBuild(t *testing.T) {
	fail := false
	app := vdom.Define("Flaky", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
		if fail {
			panic("boom")
		}
		return vdom.P("ok")
	})

	h := vtest.New(t)
	h.Render(vdom.CreateElement(app, nil))
	h.ResetLog()

	fail = true
	h.Runtime.Render(vdom.CreateElement(app, nil), h.Root)
	err := h.Runtime.Flush()
	if !stderrors.Is(err, vango.ErrRenderPanic) {
		t.Fatalf("Flush() error = %v, want ErrRenderPanic", err)
	}
	if !strings.Contains(err.Error(), "Flaky: boom") {
		t.Errorf("error = %q, want component name and panic value", err)
	}
	if len(h.Mutations()) != 0 {
		t.Errorf("host mutated after panic: %v", h.Mutations())
	}
	if h.Runtime.Pending() {
		t.Error("build still pending after panic")
	}

	fail = false
	h.Render(vdom.CreateElement(app, nil))
	vtest.ExpectContains(t, h, "ok")
}

func TestHookMisuseIsReturned(t *testing.T) {
	calls := 0
	app := vdom.Define("Shifty", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
		calls++
		hooks.UseState(s, 0)
		if calls > 1 {
			hooks.UseState(s, "extra")
		}
		return nil
	})

	h := vtest.New(t)
	h.Render(vdom.CreateElement(app, nil))

	h.Runtime.Render(vdom.CreateElement(app, nil), h.Root)
	if err := h.Runtime.Flush(); !stderrors.Is(err, hooks.ErrHookCountMismatch) {
		t.Errorf("Flush() error = %v, want ErrHookCountMismatch", err)
	}
}

func TestSetterDuringRenderRestartsBuild(t *testing.T) {
	renders := 0
	app := vdom.Define("Eager", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
		renders++
		target, _ := p["target"].(int)
		n, set := hooks.UseState(s, 0)
		if n < target {
			set(func(c int) int { return c + 1 })
		}
		return vdom.Span(vdom.Textf("%d", n))
	})

	h := vtest.New(t)
	h.Render(vdom.CreateElement(app, vdom.Props{"target": 0}))
	renders = 0

	h.Render(vdom.CreateElement(app, vdom.Props{"target": 3}))

	if got := h.HTML(); got != "<span>3</span>" {
		t.Errorf("HTML() = %s, want <span>3</span>", got)
	}
	if got := h.Runtime.Stats().Commits; got != 2 {
		t.Errorf("commits = %d, want 2", got)
	}
	if renders != 4 {
		t.Errorf("renders = %d, want 4", renders)
	}
}

func TestTooManyRerenders(t *testing.T) {
	app := vdom.Define("Loop", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
		_, set := hooks.UseState(s, 0)
		set(func(c int) int { return c + 1 })
		return nil
	})

	mem := host.NewMemory()
	rt := vango.New(mem, vango.WithMaxRestarts(5))
	rt.Render(vdom.CreateElement(app, nil), mem.NewContainer("root"))
	if err := rt.Flush(); !stderrors.Is(err, vango.ErrTooManyRerenders) {
		t.Errorf("Flush() error = %v, want ErrTooManyRerenders", err)
	}
}

func TestSetterDuringMountRender(t *testing.T) {
	renders := 0
	app := vdom.Define("Init", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
		renders++
		v, set := hooks.UseState(s, 0)
		if v == 0 {
			set(hooks.Value(1))
		}
		return vdom.Span(vdom.Textf("v=%d", v))
	})

	h := vtest.New(t)
	h.Render(vdom.Div(vdom.CreateElement(app, nil)))

	if got := h.HTML(); got != "<div><span>v=1</span></div>" {
		t.Errorf("HTML() = %s, want <div><span>v=1</span></div>", got)
	}
	if renders != 2 {
		t.Errorf("renders = %d, want 2", renders)
	}
	if got := h.Runtime.Stats().Commits; got != 1 {
		t.Errorf("commits = %d, want 1", got)
	}
}

func TestAbandonResetsRestartBudget(t *testing.T) {
	failAt := 3
	app := vdom.Define("Climb", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
		v, set := hooks.UseState(s, 0)
		if v < 3 {
			set(func(c int) int { return c + 1 })
		}
		if v == failAt {
			panic("stop")
		}
		return vdom.Span(vdom.Textf("%d", v))
	})

	h := vtest.New(t, vango.WithMaxRestarts(3))
	h.Runtime.Render(vdom.CreateElement(app, nil), h.Root)
	if err := h.Runtime.Flush(); !stderrors.Is(err, vango.ErrRenderPanic) {
		t.Fatalf("Flush() error = %v, want ErrRenderPanic", err)
	}

	// The next build gets the full budget again.
	failAt = -1
	h.Render(vdom.CreateElement(app, nil))
	if got := h.HTML(); got != "<span>3</span>" {
		t.Errorf("HTML() = %s, want <span>3</span>", got)
	}
}

func TestSweepKeepsArenaBounded(t *testing.T) {
	h := vtest.New(t)
	h.Render(vdom.CreateElement(Counter, nil))
	for i := 0; i < 20; i++ {
		h.Click("inc")
	}
	// Committed tree (7 with root) plus its alternates.
	if live := h.Runtime.Stats().LiveFibers; live != 14 {
		t.Errorf("live fibers = %d, want 14", live)
	}
}

type recordingObserver struct {
	renders int
	slices  []int
	commits []vango.CommitStats
	errs    []error
}

func (o *recordingObserver) RenderRequested() { o.renders++ }

func (o *recordingObserver) SliceFinished(units int, yielded bool) {
	o.slices = append(o.slices, units)
}

func (o *recordingObserver) Committed(s vango.CommitStats, d time.Duration, err error) {
	o.commits = append(o.commits, s)
	o.errs = append(o.errs, err)
}

func TestObserverAndStats(t *testing.T) {
	obs := &recordingObserver{}
	h := vtest.New(t, vango.WithObserver(obs))
	h.Render(vdom.CreateElement(Counter, nil))
	h.Click("inc")

	if obs.renders != 2 {
		t.Errorf("renders = %d, want 2", obs.renders)
	}
	if len(obs.commits) != 2 || obs.errs[0] != nil {
		t.Fatalf("commits = %d (errs %v), want 2", len(obs.commits), obs.errs)
	}
	first := obs.commits[0]
	if first.Ops[host.OpCreateNode] != 0 {
		t.Errorf("node creation should not be counted as a commit op: %v", first.Ops)
	}
	if first.Ops[host.OpAppendChild] != 5 {
		t.Errorf("append_child = %d, want 5", first.Ops[host.OpAppendChild])
	}

	stats := h.Runtime.Stats()
	if stats.Renders != 2 || stats.Commits != 2 || stats.Units != 14 {
		t.Errorf("stats = %+v", stats)
	}
}
