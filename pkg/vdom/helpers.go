package vdom

import (
	"fmt"
	"strconv"
)

// CreateElement builds an element from a kind (string tag, *Component or
// Kind), a prop map and children. The prop map is copied. Children may be
// *Element, []*Element, strings, numbers, bools or fmt.Stringer values;
// plain values become text elements and nil values are dropped. When no
// children are passed, a "children" entry in props is normalized instead.
func CreateElement(kindOrTag any, props Props, children ...any) *Element {
	el := &Element{
		Kind:  toKind(kindOrTag),
		Props: make(Props, len(props)+1),
	}
	for k, v := range props {
		if k == ChildrenProp {
			continue
		}
		el.Props[k] = v
	}

	if len(children) == 0 {
		if existing, ok := props[ChildrenProp]; ok {
			children = []any{existing}
		}
	}
	el.Props[ChildrenProp] = normalizeChildren(children)
	return el
}

func toKind(kindOrTag any) Kind {
	switch v := kindOrTag.(type) {
	case string:
		return HostTag(v)
	case *Component:
		return ComponentKind(v)
	case Kind:
		return v
	default:
		panic(fmt.Sprintf("vdom: invalid element kind %T", kindOrTag))
	}
}

// normalizeChildren flattens child arguments into elements.
func normalizeChildren(args []any) []*Element {
	out := make([]*Element, 0, len(args))
	for _, arg := range args {
		out = appendChild(out, arg)
	}
	return out
}

func appendChild(out []*Element, arg any) []*Element {
	switch v := arg.(type) {
	case nil:
		return out
	case *Element:
		if v != nil {
			out = append(out, v)
		}
	case []*Element:
		for _, c := range v {
			if c != nil {
				out = append(out, c)
			}
		}
	case []any:
		for _, c := range v {
			out = appendChild(out, c)
		}
	case string:
		out = append(out, Text(v))
	case fmt.Stringer:
		out = append(out, Text(v.String()))
	case bool:
		out = append(out, Text(strconv.FormatBool(v)))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		out = append(out, Text(PropToString(v)))
	default:
		panic(fmt.Sprintf("vdom: invalid child %T", arg))
	}
	return out
}

// Text creates a text element.
func Text(content string) *Element {
	return &Element{
		Kind: HostTag(TextTag),
		Props: Props{
			NodeValueProp: content,
			ChildrenProp:  []*Element{},
		},
	}
}

// Fragment groups children without a wrapping host node. A component can
// return a fragment to render several siblings.
func Fragment(children ...any) *Element {
	return CreateElement(FragmentTag, nil, children...)
}

// Textf creates a formatted text element.
func Textf(format string, args ...any) *Element {
	return Text(fmt.Sprintf(format, args...))
}

// If returns the element if condition is true, nil otherwise.
func If(condition bool, el *Element) *Element {
	if condition {
		return el
	}
	return nil
}

// IfElse returns the first element if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *Element) *Element {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
func When(condition bool, fn func() *Element) *Element {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to elements, dropping nil results.
func Range[T any](items []T, fn func(item T, index int) *Element) []*Element {
	result := make([]*Element, 0, len(items))
	for i, item := range items {
		if el := fn(item, i); el != nil {
			result = append(result, el)
		}
	}
	return result
}

// Repeat creates n elements using the given function.
func Repeat(n int, fn func(i int) *Element) []*Element {
	if n <= 0 {
		return nil
	}
	result := make([]*Element, 0, n)
	for i := 0; i < n; i++ {
		if el := fn(i); el != nil {
			result = append(result, el)
		}
	}
	return result
}

// Count returns the number of elements in the tree rooted at el, counting
// component elements but not expanding them.
func Count(el *Element) int {
	if el == nil {
		return 0
	}
	n := 1
	for _, c := range el.Children() {
		n += Count(c)
	}
	return n
}
