package fiber

import (
	"github.com/vango-dev/fiber/pkg/vdom"
)

// Reconcile builds the children of parent from elements, pairing them by
// position with the children of parent's alternate. Matching kinds become
// Update fibers that reuse the old host node; new elements become
// Placement fibers; old fibers without a matching element are tagged
// Deletion and appended to deletions. The walk ends when both sides are
// exhausted. Nil entries in elements count as absent positions.
func (a *Arena) Reconcile(parent ID, elements []*vdom.Element, deletions *[]ID) {
	p := a.Get(parent)
	p.Child = Nil

	old := Nil
	if p.Alternate != Nil {
		old = a.Get(p.Alternate).Child
	}

	prev := Nil
	for i := 0; i < len(elements) || old != Nil; i++ {
		var el *vdom.Element
		if i < len(elements) {
			el = elements[i]
		}
		var oldFiber *Fiber
		if old != Nil {
			oldFiber = a.Get(old)
		}

		same := el != nil && oldFiber != nil && el.Kind.Equal(oldFiber.Kind)

		next := Nil
		switch {
		case same:
			next = a.New(Fiber{
				Kind:      oldFiber.Kind,
				Props:     el.Props,
				Node:      oldFiber.Node,
				Parent:    parent,
				Alternate: old,
				Effect:    Update,
			})
		case el != nil:
			next = a.New(Fiber{
				Kind:   el.Kind,
				Props:  el.Props,
				Parent: parent,
				Effect: Placement,
			})
		}
		if oldFiber != nil && !same {
			oldFiber.Effect = Deletion
			*deletions = append(*deletions, old)
		}

		if old != Nil {
			old = oldFiber.Sibling
		}
		if next == Nil {
			continue
		}
		if prev == Nil {
			p.Child = next
		} else {
			a.Get(prev).Sibling = next
		}
		prev = next
	}
}
