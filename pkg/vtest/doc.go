// Package vtest provides testing helpers for fiber components.
//
// A Harness wires an in-memory host, a mutation recorder and a Runtime so a
// test can render, fire listeners and assert on the resulting host tree.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.New(t)
//	    h.Render(vdom.CreateElement(Counter, nil))
//	    vtest.ExpectContains(t, h, "count: 0")
//
//	    h.ResetLog()
//	    h.Click("inc")
//	    vtest.ExpectContains(t, h, "count: 1")
//	}
//
// # Stepping
//
// Mount starts a build without running it. Step performs at most k units,
// which makes suspension points deterministic:
//
//	h.Mount(app)
//	for !h.Step(2) {
//	    // inspect h.Runtime between slices
//	}
//
// # Render Assertions
//
//	vtest.ExpectContains(t, h, "Welcome")
//	vtest.ExpectNotContains(t, h, "Error")
//	vtest.ExpectElement(t, h, "button")
//	vtest.ExpectAttribute(t, h, "class", "btn-primary")
package vtest
