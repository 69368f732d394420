package vdom

import (
	"testing"

	"github.com/vango-dev/fiber/pkg/hooks"
)

type stringer struct{}

func (stringer) String() string { return "str" }

func TestCreateElementNormalizesChildren(t *testing.T) {
	child := CreateElement("span", nil)
	el := CreateElement("div", Props{"id": "root"},
		"text",
		42,
		3.5,
		true,
		stringer{},
		nil,
		child,
		[]*Element{Text("a"), nil, Text("b")},
		[]any{"x", nil, 7},
	)

	want := []string{"text", "42", "3.5", "true", "str", "", "a", "b", "x", "7"}
	children := el.Children()
	if len(children) != len(want) {
		t.Fatalf("len(children) = %d, want %d", len(children), len(want))
	}
	for i, w := range want {
		c := children[i]
		if w == "" {
			if c != child {
				t.Errorf("children[%d] = %v, want the span element", i, c.Kind)
			}
			continue
		}
		if !c.Kind.IsText() {
			t.Errorf("children[%d].Kind = %v, want text", i, c.Kind)
		}
		if c.Text() != w {
			t.Errorf("children[%d].Text() = %q, want %q", i, c.Text(), w)
		}
	}
	if el.Props["id"] != "root" {
		t.Errorf("Props[id] = %v, want root", el.Props["id"])
	}
}

func TestCreateElementCopiesProps(t *testing.T) {
	props := Props{"class": "a"}
	el := CreateElement("div", props)
	props["class"] = "b"

	if el.Props["class"] != "a" {
		t.Errorf("Props[class] = %v, want a (props must be copied)", el.Props["class"])
	}
}

func TestCreateElementChildrenFromProps(t *testing.T) {
	el := CreateElement("ul", Props{ChildrenProp: []*Element{Text("one")}})
	if len(el.Children()) != 1 {
		t.Fatalf("len(children) = %d, want 1", len(el.Children()))
	}

	override := CreateElement("ul", Props{ChildrenProp: []*Element{Text("one")}}, "two", "three")
	if len(override.Children()) != 2 {
		t.Errorf("len(children) = %d, want 2 (explicit children win)", len(override.Children()))
	}
}

func TestCreateElementKinds(t *testing.T) {
	comp := Define("C", func(s *hooks.Scope, p Props) *Element { return nil })

	if k := CreateElement(comp, nil).Kind; !k.IsComponent() || k.Component() != comp {
		t.Errorf("Kind = %v, want component C", k)
	}
	if k := CreateElement(HostTag("b"), nil).Kind; k.Tag() != "b" {
		t.Errorf("Kind = %v, want b", k)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid kind")
		}
	}()
	CreateElement(42, nil)
}

func TestFactories(t *testing.T) {
	clicked := false
	el := Div(Class("card", "wide"), ID("main"), nil,
		H1("Title"),
		Button(OnClick(func() { clicked = true }), Disabled(), "Save"),
		[]Attr{Data("x", "1"), {}},
		Props{"custom": 1},
	)

	if el.Kind.Tag() != "div" {
		t.Errorf("Tag = %q, want div", el.Kind.Tag())
	}
	if el.Props["class"] != "card wide" {
		t.Errorf("class = %v, want 'card wide'", el.Props["class"])
	}
	if el.Props["data-x"] != "1" || el.Props["custom"] != 1 {
		t.Errorf("props = %v", el.Props)
	}
	if len(el.Children()) != 2 {
		t.Fatalf("len(children) = %d, want 2", len(el.Children()))
	}

	button := el.Children()[1]
	handler, ok := button.Props["onclick"].(func())
	if !ok {
		t.Fatalf("onclick = %T, want func()", button.Props["onclick"])
	}
	handler()
	if !clicked {
		t.Error("handler was not the one passed to OnClick")
	}
	if button.Props["disabled"] != true {
		t.Errorf("disabled = %v, want true", button.Props["disabled"])
	}
}

func TestFormAttributes(t *testing.T) {
	tests := []struct {
		attr Attr
		key  string
		want any
	}{
		{Name("q"), "name", "q"},
		{Value("v"), "value", "v"},
		{Type("text"), "type", "text"},
		{Placeholder("search"), "placeholder", "search"},
		{Disabled(), "disabled", true},
		{Checked(), "checked", true},
		{Href("/home"), "href", "/home"},
		{TitleAttr("tip"), "title", "tip"},
		{TabIndex(2), "tabindex", 2},
	}
	for _, tt := range tests {
		if tt.attr.Key != tt.key || tt.attr.Value != tt.want {
			t.Errorf("attr = %v=%v, want %v=%v", tt.attr.Key, tt.attr.Value, tt.key, tt.want)
		}
	}
}

func TestConditionalHelpers(t *testing.T) {
	a, b := Text("a"), Text("b")

	if If(true, a) != a || If(false, a) != nil {
		t.Error("If returned wrong element")
	}
	if IfElse(true, a, b) != a || IfElse(false, a, b) != b {
		t.Error("IfElse returned wrong element")
	}
	called := false
	if When(false, func() *Element { called = true; return a }) != nil || called {
		t.Error("When(false) should not evaluate")
	}
	if When(true, func() *Element { return a }) != a {
		t.Error("When(true) returned wrong element")
	}
}

func TestRangeRepeatCount(t *testing.T) {
	items := Range([]string{"x", "", "z"}, func(s string, i int) *Element {
		if s == "" {
			return nil
		}
		return Li(s)
	})
	if len(items) != 2 {
		t.Errorf("len(Range) = %d, want 2", len(items))
	}

	if Repeat(0, func(int) *Element { return Text("") }) != nil {
		t.Error("Repeat(0) should be nil")
	}
	rows := Repeat(3, func(i int) *Element { return Textf("row %d", i) })
	if len(rows) != 3 || rows[2].Text() != "row 2" {
		t.Errorf("Repeat(3) = %d rows", len(rows))
	}

	// ul + 2 li + 2 text
	if got := Count(Ul(items)); got != 5 {
		t.Errorf("Count() = %d, want 5", got)
	}
}
