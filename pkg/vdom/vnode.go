package vdom

import (
	"github.com/vango-dev/fiber/pkg/hooks"
)

// TextTag is the host tag of text elements. Their content lives in the
// "nodeValue" prop.
const TextTag = "#text"

// FragmentTag is the kind of fragment elements. A fragment groups its
// children without creating a host node.
const FragmentTag = "#fragment"

// Reserved prop names.
const (
	ChildrenProp  = "children"
	NodeValueProp = "nodeValue"
)

// Kind is the element type discriminator: either a host tag or a component.
// The zero Kind is invalid. Kinds are comparable with ==.
type Kind struct {
	tag  string
	comp *Component
}

// HostTag returns the Kind of a host element such as "div" or TextTag.
// HostTag(FragmentTag) is the fragment kind.
func HostTag(tag string) Kind {
	return Kind{tag: tag}
}

// ComponentKind returns the Kind of a component element.
func ComponentKind(c *Component) Kind {
	return Kind{comp: c}
}

// IsHost returns true if the kind is a host tag.
func (k Kind) IsHost() bool {
	return k.comp == nil && k.tag != "" && k.tag != FragmentTag
}

// IsFragment returns true for the fragment kind.
func (k Kind) IsFragment() bool {
	return k.comp == nil && k.tag == FragmentTag
}

// IsText returns true if the kind is the text host tag.
func (k Kind) IsText() bool {
	return k.comp == nil && k.tag == TextTag
}

// IsComponent returns true if the kind refers to a component.
func (k Kind) IsComponent() bool {
	return k.comp != nil
}

// IsZero reports whether k is the invalid zero Kind.
func (k Kind) IsZero() bool {
	return k.comp == nil && k.tag == ""
}

// Tag returns the host tag, or "" for components.
func (k Kind) Tag() string {
	return k.tag
}

// Component returns the component, or nil for host tags.
func (k Kind) Component() *Component {
	return k.comp
}

// Equal reports positional type equality: same tag name, or the same
// component definition.
func (k Kind) Equal(other Kind) bool {
	return k == other
}

// String returns the tag, or the component name in angle brackets.
func (k Kind) String() string {
	switch {
	case k.comp != nil:
		return "<" + k.comp.Name + ">"
	case k.tag != "":
		return k.tag
	default:
		return "<invalid>"
	}
}

// Props holds attributes, event listeners and children.
type Props map[string]any

// Element is an immutable description of a node: a kind, its props and,
// under Props["children"], its ordered child elements.
type Element struct {
	Kind  Kind
	Props Props
}

// Children returns the element's child elements.
func (e *Element) Children() []*Element {
	if e == nil {
		return nil
	}
	children, _ := e.Props[ChildrenProp].([]*Element)
	return children
}

// Text returns the content of a text element, or "".
func (e *Element) Text() string {
	if e == nil || !e.Kind.IsText() {
		return ""
	}
	s, _ := e.Props[NodeValueProp].(string)
	return s
}

// RenderFunc renders a component. The scope carries the component's hook
// cells for this execution.
type RenderFunc func(s *hooks.Scope, props Props) *Element

// Component is a named render function. Its pointer identity is its type
// identity during reconciliation, so define each component once.
type Component struct {
	Name   string
	Render RenderFunc
}

// Define creates a component definition.
func Define(name string, render RenderFunc) *Component {
	return &Component{Name: name, Render: render}
}
