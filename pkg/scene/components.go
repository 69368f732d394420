package scene

import (
	"fmt"

	"github.com/vango-dev/fiber/pkg/hooks"
	"github.com/vango-dev/fiber/pkg/vdom"
)

// Counter shows "<label>: <count>" and a button with id "<id>-inc" that adds
// step to the count.
//
// Props: id (default "counter"), label (default "count"), initial, step
// (default 1).
var Counter = vdom.Define("Counter", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
	id := stringProp(p, "id", "counter")
	step := intProp(p, "step", 1)
	count, set := hooks.UseState(s, intProp(p, "initial", 0))

	return vdom.Div(vdom.ID(id), vdom.Class("counter"),
		vdom.P(vdom.Textf("%s: %d", stringProp(p, "label", "count"), count)),
		vdom.Button(vdom.ID(id+"-inc"), vdom.OnClick(func() {
			set(func(c int) int { return c + step })
		}), "+"),
	)
})

// Toggle is a button with id "<id>" that flips between on and off.
//
// Props: id (default "toggle"), label (default "toggle"), on.
var Toggle = vdom.Define("Toggle", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
	id := stringProp(p, "id", "toggle")
	on, set := hooks.UseState(s, boolProp(p, "on"))

	state := "off"
	if on {
		state = "on"
	}
	return vdom.Button(vdom.ID(id), vdom.AriaPressed(on), vdom.Class("toggle", state),
		vdom.OnClick(func() {
			set(func(v bool) bool { return !v })
		}),
		vdom.Textf("%s: %s", stringProp(p, "label", "toggle"), state),
	)
})

// List renders its items as list entries, with an "<id>-add" button that
// appends an item and an "<id>-pop" button that removes the last one.
//
// Props: id (default "list"), items.
var List = vdom.Define("List", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
	id := stringProp(p, "id", "list")
	items, set := hooks.UseState(s, stringsProp(p, "items"))

	return vdom.Div(vdom.ID(id), vdom.Class("list"),
		vdom.Ul(vdom.Range(items, func(item string, i int) *vdom.Element {
			return vdom.Li(item)
		})),
		vdom.Button(vdom.ID(id+"-add"), vdom.OnClick(func() {
			set(func(v []string) []string {
				out := append([]string(nil), v...)
				return append(out, fmt.Sprintf("item %d", len(v)+1))
			})
		}), "add"),
		vdom.Button(vdom.ID(id+"-pop"), vdom.OnClick(func() {
			set(func(v []string) []string {
				if len(v) == 0 {
					return v
				}
				return v[:len(v)-1]
			})
		}), "pop"),
	)
})

func stringProp(p vdom.Props, key, def string) string {
	switch v := p[key].(type) {
	case nil:
		return def
	case string:
		return v
	default:
		return vdom.PropToString(v)
	}
}

func intProp(p vdom.Props, key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

func boolProp(p vdom.Props, key string) bool {
	v, _ := p[key].(bool)
	return v
}

func stringsProp(p vdom.Props, key string) []string {
	switch v := p[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, vdom.PropToString(item))
		}
		return out
	default:
		return nil
	}
}
