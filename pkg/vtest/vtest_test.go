package vtest_test

import (
	"strings"
	"testing"

	"github.com/vango-dev/fiber/pkg/hooks"
	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/vdom"
	"github.com/vango-dev/fiber/pkg/vtest"
)

var toggle = vdom.Define("Toggle", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
	on, set := hooks.UseState(s, false)
	label := "off"
	if on {
		label = "on"
	}
	return vdom.Button(vdom.ID("t"), vdom.OnClick(func() {
		set(func(v bool) bool { return !v })
	}), label)
})

func TestRenderAndHTML(t *testing.T) {
	h := vtest.New(t).Render(vdom.Div(
		vdom.Class("container"),
		vdom.H1(vdom.Text("Hello")),
		vdom.P(vdom.Text("World")),
	))

	want := `<div class="container"><h1>Hello</h1><p>World</p></div>`
	if got := h.HTML(); got != want {
		t.Errorf("HTML() = %s, want %s", got, want)
	}
	if h.Root.Tag != "root" {
		t.Errorf("Root.Tag = %q, want root", h.Root.Tag)
	}
}

func TestClickFlushes(t *testing.T) {
	h := vtest.New(t).Render(vdom.CreateElement(toggle, nil))
	h.ResetLog()

	h.Click("t")

	if got := h.Find("t").TextContent(); got != "on" {
		t.Errorf("text after click = %q, want on", got)
	}
	props := h.PropertyMutations()
	if len(props) != 1 || props[0].Name != vdom.NodeValueProp {
		t.Errorf("property mutations = %v, want one nodeValue update", props)
	}
}

func TestMountAndStep(t *testing.T) {
	h := vtest.New(t).Mount(vdom.Div(vdom.P("a"), vdom.P("b")))

	if h.Step(1) {
		t.Fatal("Step(1) finished a six-unit build")
	}
	if len(h.Root.Children) != 0 {
		t.Error("host mutated before commit")
	}

	steps := 1
	for !h.Step(2) {
		steps++
	}
	if steps != 3 {
		t.Errorf("slices = %d, want 3", steps)
	}
	vtest.ExpectElement(t, h, "p")
}

func TestUnitBudget(t *testing.T) {
	yield := vtest.UnitBudget(3)
	var got []bool
	for i := 0; i < 4; i++ {
		got = append(got, yield())
	}
	want := []bool{false, false, true, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UnitBudget(3) = %v, want %v", got, want)
			break
		}
	}
}

func TestExpectContains_Pass(t *testing.T) {
	h := vtest.New(t).Render(vdom.Div(vdom.Text("Hello World")))

	// This should pass (no error)
	mockT := &testing.T{}
	vtest.ExpectContains(mockT, h, "Hello")
	vtest.ExpectNotContains(mockT, h, "Goodbye")
	vtest.ExpectElement(mockT, h, "div")

	if mockT.Failed() {
		t.Error("expectations should have passed")
	}
}

func TestExpectAttribute(t *testing.T) {
	h := vtest.New(t).Render(vdom.Input(vdom.Type("checkbox"), vdom.TabIndex(2)))

	mockT := &testing.T{}
	vtest.ExpectAttribute(mockT, h, "type", "checkbox")
	vtest.ExpectAttribute(mockT, h, "tabindex", "2")
	if mockT.Failed() {
		t.Error("ExpectAttribute should have passed")
	}
}

func TestMutationsRecorded(t *testing.T) {
	h := vtest.New(t).Render(vdom.Span("x"))

	var ops []string
	for _, m := range h.Mutations() {
		ops = append(ops, m.Op.String())
	}
	got := strings.Join(ops, ",")
	want := "create_node,create_text,append_child,append_child"
	if got != want {
		t.Errorf("ops = %s, want %s", got, want)
	}
	if n := h.Recorder.Count(host.OpCreateNode); n != 1 {
		t.Errorf("create_node = %d, want 1", n)
	}
	if n := len(h.Recorder.Filter(func(m host.Mutation) bool { return m.Op == host.OpAppendChild })); n != 2 {
		t.Errorf("append_child = %d, want 2", n)
	}
}
