package fiber

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Arena owns every fiber. Fibers link to each other by ID so the current
// tree, a work-in-progress tree and their alternates can share storage
// without pointer cycles.
type Arena struct {
	slots []*Fiber // slots[0] is reserved for Nil
	free  []ID
	live  int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{slots: []*Fiber{nil}}
}

// New stores f and returns its ID, reusing a freed slot when one exists.
func (a *Arena) New(f Fiber) ID {
	f.live = true
	a.live++
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		*a.slots[id] = f
		return id
	}
	a.slots = append(a.slots, &f)
	return ID(len(a.slots) - 1)
}

// Get returns the fiber for id. It panics on Nil or a freed ID.
func (a *Arena) Get(id ID) *Fiber {
	if id <= Nil || int(id) >= len(a.slots) || !a.slots[id].live {
		panic(fmt.Sprintf("fiber: invalid id %d", id))
	}
	return a.slots[id]
}

// Valid reports whether id refers to a live fiber.
func (a *Arena) Valid(id ID) bool {
	return id > Nil && int(id) < len(a.slots) && a.slots[id].live
}

// Len returns the number of live fibers.
func (a *Arena) Len() int {
	return a.live
}

// Cap returns the number of allocated slots, live or free.
func (a *Arena) Cap() int {
	return len(a.slots) - 1
}

func (a *Arena) release(id ID) {
	*a.slots[id] = Fiber{}
	a.free = append(a.free, id)
	a.live--
}

// Sweep frees every fiber that is neither in the tree rooted at root nor
// the direct alternate of a fiber in it. Kept alternates are cut loose from
// their own tree so no link points at a freed slot. It returns the number
// of fibers freed.
func (a *Arena) Sweep(root ID) int {
	keep := make([]bool, len(a.slots))
	var alternates []ID

	a.Walk(root, func(id ID, f *Fiber) bool {
		keep[id] = true
		if f.Alternate != Nil && a.Valid(f.Alternate) {
			alternates = append(alternates, f.Alternate)
		}
		return true
	})
	for _, id := range alternates {
		if keep[id] {
			continue
		}
		keep[id] = true
		alt := a.slots[id]
		alt.Parent, alt.Child, alt.Sibling, alt.Alternate = Nil, Nil, Nil, Nil
	}

	freed := 0
	for i := 1; i < len(a.slots); i++ {
		if a.slots[i].live && !keep[i] {
			a.release(ID(i))
			freed++
		}
	}
	return freed
}

// Walk visits the subtree rooted at root in preorder. Returning false from
// fn skips the fiber's children. Siblings of root are not visited.
func (a *Arena) Walk(root ID, fn func(ID, *Fiber) bool) {
	if root == Nil {
		return
	}
	id := root
	for {
		f := a.Get(id)
		if fn(id, f) && f.Child != Nil {
			id = f.Child
			continue
		}
		for {
			if id == root {
				return
			}
			if s := a.Get(id).Sibling; s != Nil {
				id = s
				break
			}
			id = a.Get(id).Parent
		}
	}
}

// Next returns the unit that follows id in a preorder build: its first
// child, else the sibling of the nearest fiber (starting at id itself) that
// has one. Nil means the walk passed the root.
func (a *Arena) Next(id ID) ID {
	f := a.Get(id)
	if f.Child != Nil {
		return f.Child
	}
	for cur := id; cur != Nil; {
		cf := a.Get(cur)
		if cf.Sibling != Nil {
			return cf.Sibling
		}
		cur = cf.Parent
	}
	return Nil
}

// HostParent returns the nearest ancestor of id that has a host node.
func (a *Arena) HostParent(id ID) ID {
	for cur := a.Get(id).Parent; cur != Nil; cur = a.Get(cur).Parent {
		if a.Get(cur).Node != nil {
			return cur
		}
	}
	return Nil
}

// TopHosts returns the top-most fibers carrying host nodes in the subtree
// rooted at id: id itself if it has a node, otherwise the top-most host
// fibers beneath each of its children.
func (a *Arena) TopHosts(id ID) []ID {
	var out []ID
	a.Walk(id, func(cur ID, f *Fiber) bool {
		if f.Node != nil {
			out = append(out, cur)
			return false
		}
		return true
	})
	return out
}

// HostsAfter returns the top-most host fibers that follow id under the
// same host parent, in tree order. Hostless ancestors are climbed so that
// siblings of an enclosing component or fragment are included.
func (a *Arena) HostsAfter(id ID) []ID {
	var out []ID
	for cur := id; cur != Nil; {
		f := a.Get(cur)
		for s := f.Sibling; s != Nil; s = a.Get(s).Sibling {
			out = append(out, a.TopHosts(s)...)
		}
		if f.Parent == Nil || a.Get(f.Parent).Node != nil {
			break
		}
		cur = f.Parent
	}
	return out
}

// Path returns the child index of each fiber from the root down to id,
// joined with dots. The root's path is empty.
func (a *Arena) Path(id ID) string {
	var idx []string
	for cur := id; cur != Nil; {
		parent := a.Get(cur).Parent
		if parent == Nil {
			break
		}
		i := 0
		for c := a.Get(parent).Child; c != Nil && c != cur; c = a.Get(c).Sibling {
			i++
		}
		idx = append(idx, strconv.Itoa(i))
		cur = parent
	}
	slices.Reverse(idx)
	return strings.Join(idx, ".")
}

// Dump renders the subtree rooted at root, one fiber per line, indented by
// depth.
func (a *Arena) Dump(root ID) string {
	var b strings.Builder
	depth := map[ID]int{}
	a.Walk(root, func(id ID, f *Fiber) bool {
		d := 0
		if id != root {
			d = depth[f.Parent] + 1
		}
		depth[id] = d
		b.WriteString(strings.Repeat("  ", d))
		b.WriteString(f.String())
		b.WriteByte('\n')
		return true
	})
	return b.String()
}
