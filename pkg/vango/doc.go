// Package vango provides the incremental rendering runtime.
//
// A Runtime turns an element tree into host-tree mutations in two phases.
// The render phase walks fibers one unit at a time, running components and
// reconciling children; it can stop between any two units and resume later.
// The commit phase applies every pending effect to the host in one pass.
//
// # Rendering
//
//	mem := host.NewMemory()
//	root := mem.NewContainer("root")
//	rt := vango.New(mem)
//	rt.Render(app, root)
//	if err := rt.Flush(); err != nil {
//	    log.Fatal(err)
//	}
//
// Flush runs to completion. To render cooperatively, hand the runtime a
// host.SliceRequester instead:
//
//	loop := host.NewLoop(host.WithBudget(5 * time.Millisecond))
//	rt.Start(loop)
//	go loop.Run(ctx)
//
// Each slice performs units until the deadline drops below the yield
// threshold, then requests another slice.
//
// # Components and State
//
// Components receive a *hooks.Scope as their first argument:
//
//	var Counter = vdom.Define("Counter", func(s *hooks.Scope, p vdom.Props) *vdom.Element {
//	    count, set := hooks.UseState(s, 0)
//	    return vdom.Div(
//	        vdom.P(vdom.Textf("count: %d", count)),
//	        vdom.Button(vdom.OnClick(func() { set(func(c int) int { return c + 1 }) }), "+"),
//	    )
//	})
//
// Calling a setter re-renders from the root element passed to Render.
//
// # Threading
//
// A Runtime is not safe for concurrent use. Every call, including state
// setters fired by listeners, must happen on the goroutine driving it;
// host.Loop.Submit marshals work onto that goroutine.
package vango
