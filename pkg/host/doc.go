// Package host defines the boundary between the fiber runtime and the tree
// it renders into.
//
// The runtime never touches host nodes directly. It calls an Adapter, whose
// methods all return errors, and treats a failure during commit as fatal to
// that commit.
//
// The package also provides:
//
//   - Memory, an in-memory Adapter with listener dispatch and markup output
//   - Recorder, an Adapter wrapper logging every mutation
//   - Faulty, an Adapter wrapper that fails a chosen call
//   - Loop, a single-goroutine task loop that grants wall-clock slices
//   - Manual, a SliceRequester driven by hand
//
// A typical wiring:
//
//	mem := host.NewMemory()
//	root := mem.NewContainer("root")
//	loop := host.NewLoop(host.WithBudget(5 * time.Millisecond))
//	rt := vango.New(mem)
//	rt.Render(app, root)
//	rt.Start(loop)
//	go loop.Run(ctx)
package host
