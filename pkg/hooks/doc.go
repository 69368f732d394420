// Package hooks provides positional state cells for component fibers.
//
// A component receives a *Scope as its first argument. Each hook call takes
// the next cell position in the scope; on re-render the n-th call reuses the
// n-th cell of the previous generation, replaying that cell's queued updates
// against its carried-over state:
//
//	var Counter = vdom.Define("Counter", func(s *hooks.Scope, props vdom.Props) *vdom.Element {
//	    count, setCount := hooks.UseState(s, 0)
//	    return vdom.CreateElement("button",
//	        vdom.Props{"onClick": func() { setCount(func(c int) int { return c + 1 }) }},
//	        fmt.Sprintf("count: %d", count),
//	    )
//	})
//
// # Rules
//
// Hooks must be called in the same order and the same number of times on
// every execution of a component. Calling a hook after the component has
// returned, on a nil scope, with a different count than the previous render,
// or with a different state type panics with a coded error (E001-E003). The
// runtime recovers these panics and reports them from RunSlice/Flush.
//
// # Updates
//
// Setters append an update function to their cell's queue and ask the
// runtime for a fresh render from the root. Setters are not goroutine-safe;
// call them on the goroutine driving the runtime.
package hooks
