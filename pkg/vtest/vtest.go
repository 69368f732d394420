package vtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/vango"
	"github.com/vango-dev/fiber/pkg/vdom"
)

// Harness is a runtime rendering into an in-memory host.
type Harness struct {
	t testing.TB

	Host     *host.Memory
	Recorder *host.Recorder
	Root     *host.MemNode
	Runtime  *vango.Runtime
}

// New creates a harness. opts are passed to vango.New.
func New(t testing.TB, opts ...vango.Option) *Harness {
	t.Helper()
	mem := host.NewMemory()
	rec := host.NewRecorder(mem)
	return &Harness{
		t:        t,
		Host:     mem,
		Recorder: rec,
		Root:     mem.NewContainer("root"),
		Runtime:  vango.New(rec, opts...),
	}
}

// Render renders el and runs the build to completion.
func (h *Harness) Render(el *vdom.Element) *Harness {
	h.t.Helper()
	h.Mount(el)
	h.Flush()
	return h
}

// Mount starts a build of el without running any unit.
func (h *Harness) Mount(el *vdom.Element) *Harness {
	h.Runtime.Render(el, h.Root)
	return h
}

// Flush runs pending work to completion and fails the test on error.
func (h *Harness) Flush() {
	h.t.Helper()
	if err := h.Runtime.Flush(); err != nil {
		h.t.Fatalf("Flush() error = %v", err)
	}
}

// Step runs one slice of at most k units and reports whether the runtime
// is idle afterwards.
func (h *Harness) Step(k int) bool {
	h.t.Helper()
	done, err := h.Runtime.RunSlice(UnitBudget(k))
	if err != nil {
		h.t.Fatalf("RunSlice() error = %v", err)
	}
	return done
}

// UnitBudget returns a yield predicate that yields after k units.
func UnitBudget(k int) func() bool {
	n := 0
	return func() bool {
		n++
		return n >= k
	}
}

// Find returns the node with the given id prop, failing the test if absent.
func (h *Harness) Find(id string) *host.MemNode {
	h.t.Helper()
	n := h.Root.FindByID(id)
	if n == nil {
		h.t.Fatalf("no node with id %q in %s", id, truncate(h.HTML(), 500))
	}
	return n
}

// Dispatch fires event on n and flushes the resulting render.
func (h *Harness) Dispatch(n *host.MemNode, event string, payload any) {
	h.t.Helper()
	fired, err := h.Host.Dispatch(n, event, payload)
	if err != nil {
		h.t.Fatalf("Dispatch(%q) error = %v", event, err)
	}
	if !fired {
		h.t.Fatalf("no %q listener on <%s>", event, n.Tag)
	}
	h.Flush()
}

// Click dispatches a click on the node with the given id.
func (h *Harness) Click(id string) {
	h.t.Helper()
	h.Dispatch(h.Find(id), "click", nil)
}

// HTML renders the container's children.
func (h *Harness) HTML() string {
	var b strings.Builder
	for _, c := range h.Root.Children {
		b.WriteString(c.String())
	}
	return b.String()
}

// Mutations returns the host calls recorded since the last ResetLog.
func (h *Harness) Mutations() []host.Mutation {
	return h.Recorder.Mutations()
}

// ResetLog clears the mutation log.
func (h *Harness) ResetLog() {
	h.Recorder.Reset()
}

// PropertyMutations returns recorded set/remove property calls.
func (h *Harness) PropertyMutations() []host.Mutation {
	return h.Recorder.Filter(func(m host.Mutation) bool { return m.Op.IsProperty() })
}

// ExpectContains asserts that the rendered host tree contains expected.
func ExpectContains(t *testing.T, h *Harness, expected string) {
	t.Helper()
	html := h.HTML()
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the rendered host tree does not contain
// unexpected.
func ExpectNotContains(t *testing.T, h *Harness, unexpected string) {
	t.Helper()
	html := h.HTML()
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that the host tree has a node with tag.
func ExpectElement(t *testing.T, h *Harness, tag string) {
	t.Helper()
	if h.Root.FindByTag(tag) == nil {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(h.HTML(), 500))
	}
}

// ExpectAttribute asserts that some node has attr set to value.
func ExpectAttribute(t *testing.T, h *Harness, attr, value string) {
	t.Helper()
	found := h.Root.Find(func(n *host.MemNode) bool {
		v, ok := n.Props[attr]
		return ok && !n.IsText() && vdom.PropToString(v) == value
	})
	if found == nil {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(h.HTML(), 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
