// Package fiber stores the work-unit tree of the runtime and reconciles it
// against elements.
//
// Fibers live in an Arena and refer to each other by ID. Each fiber links to
// its parent, first child and next sibling, and to its alternate: the fiber
// at the same position in the last committed tree.
//
// Reconcile is positional. The i-th new element is compared with the i-th
// old child; equal kinds update in place, anything else replaces. There are
// no keys, so reordering distinct kinds is a delete plus an insert.
//
//	a := fiber.NewArena()
//	root := a.New(fiber.Fiber{Node: container, Props: props})
//	var deletions []fiber.ID
//	a.Reconcile(root, elements, &deletions)
//
// After a commit, Sweep returns every fiber outside the committed tree and
// its direct alternates to the free list.
package fiber
