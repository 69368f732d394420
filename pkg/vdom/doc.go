// Package vdom provides the element model for the fiber runtime.
//
// An Element is an immutable description of intent: a Kind (a host tag such
// as "div", or a *Component), a Props map, and an ordered list of children
// stored under Props["children"]. Fibers are built from elements by the
// reconciler in pkg/fiber.
//
// # Core Types
//
// Kind is a tagged variant: HostTag(tag) or ComponentKind(c). Two kinds are
// the same type iff they are equal with ==; for components this is pointer
// identity of the definition returned by Define.
//
// # Element API
//
// CreateElement is the general constructor:
//
//	vdom.CreateElement("div", vdom.Props{"id": "app"},
//	    vdom.CreateElement(Counter, vdom.Props{"label": "clicks"}),
//	    "plain text becomes a text element",
//	)
//
// Variadic factories build host elements from attributes, listeners and
// children:
//
//	Div(Class("card"), ID("main"),
//	    H1("Title"),
//	    Button(OnClick(handler), "Save"),
//	)
//
// # Property Diffing
//
// DiffProps compares two prop maps and returns the ordered PropChange list
// the commit phase applies through the host adapter. Props whose names start
// with "on" are listeners; everything else except "children" is a property.
package vdom
