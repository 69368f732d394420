package fiber

import (
	"testing"

	"github.com/vango-dev/fiber/pkg/hooks"
	"github.com/vango-dev/fiber/pkg/vdom"
)

func el(tag string) *vdom.Element {
	return vdom.CreateElement(tag, nil)
}

// committed builds a root whose children stand in for a committed tree,
// giving each child a fake host node.
func committed(t *testing.T, a *Arena, elements ...*vdom.Element) ID {
	t.Helper()
	root := a.New(Fiber{Kind: vdom.HostTag("root"), Node: "container"})
	var deletions []ID
	a.Reconcile(root, elements, &deletions)
	for c := a.Get(root).Child; c != Nil; c = a.Get(c).Sibling {
		a.Get(c).Node = "node:" + a.Get(c).Kind.Tag()
	}
	return root
}

func children(a *Arena, parent ID) []*Fiber {
	var out []*Fiber
	for c := a.Get(parent).Child; c != Nil; c = a.Get(c).Sibling {
		out = append(out, a.Get(c))
	}
	return out
}

func effects(fibers []*Fiber) map[EffectTag]int {
	out := map[EffectTag]int{}
	for _, f := range fibers {
		out[f.Effect]++
	}
	return out
}

func TestReconcileInitialPlacement(t *testing.T) {
	a := NewArena()
	root := a.New(Fiber{Kind: vdom.HostTag("root")})
	var deletions []ID
	a.Reconcile(root, []*vdom.Element{el("div"), el("span")}, &deletions)

	kids := children(a, root)
	if len(kids) != 2 {
		t.Fatalf("children = %d, want 2", len(kids))
	}
	for i, tag := range []string{"div", "span"} {
		if kids[i].Kind.Tag() != tag {
			t.Errorf("child %d = %s, want %s", i, kids[i].Kind, tag)
		}
		if kids[i].Effect != Placement {
			t.Errorf("child %d effect = %s, want Placement", i, kids[i].Effect)
		}
		if kids[i].Parent != root {
			t.Errorf("child %d parent = %d, want %d", i, kids[i].Parent, root)
		}
		if kids[i].Node != nil || kids[i].Alternate != Nil {
			t.Errorf("child %d should have no node or alternate", i)
		}
	}
	if len(deletions) != 0 {
		t.Errorf("deletions = %d, want 0", len(deletions))
	}
}

func TestReconcileSameTypeUpdates(t *testing.T) {
	a := NewArena()
	old := committed(t, a, el("div"), el("span"))
	oldKids := children(a, old)

	wip := a.New(Fiber{Kind: vdom.HostTag("root"), Alternate: old})
	var deletions []ID
	a.Reconcile(wip, []*vdom.Element{
		vdom.CreateElement("div", vdom.Props{"id": "x"}),
		el("span"),
	}, &deletions)

	kids := children(a, wip)
	if got := effects(kids); got[Update] != 2 || len(got) != 1 {
		t.Errorf("effects = %v, want 2 Update only", got)
	}
	for i, k := range kids {
		if k.Node != oldKids[i].Node {
			t.Errorf("child %d node = %v, want %v", i, k.Node, oldKids[i].Node)
		}
		if a.Get(k.Alternate) != oldKids[i] {
			t.Errorf("child %d alternate mismatch", i)
		}
	}
	if kids[0].Props["id"] != "x" {
		t.Errorf("props not taken from the new element: %v", kids[0].Props)
	}
	if len(deletions) != 0 {
		t.Errorf("deletions = %d, want 0", len(deletions))
	}
}

func TestReconcilePositionalReplace(t *testing.T) {
	a := NewArena()
	old := committed(t, a, el("a"), el("b"))

	wip := a.New(Fiber{Kind: vdom.HostTag("root"), Alternate: old})
	var deletions []ID
	a.Reconcile(wip, []*vdom.Element{el("b"), el("a")}, &deletions)

	got := effects(children(a, wip))
	if got[Placement] != 2 || got[Update] != 0 {
		t.Errorf("effects = %v, want 2 Placement, 0 Update", got)
	}
	if len(deletions) != 2 {
		t.Fatalf("deletions = %d, want 2", len(deletions))
	}
	for _, id := range deletions {
		if a.Get(id).Effect != Deletion {
			t.Errorf("deleted fiber effect = %s, want Deletion", a.Get(id).Effect)
		}
	}
}

func TestReconcileLengthChanges(t *testing.T) {
	tests := []struct {
		name          string
		old, next     []string
		wantUpdate    int
		wantPlacement int
		wantDeletion  int
	}{
		{"shrink", []string{"a", "b", "c"}, []string{"a"}, 1, 0, 2},
		{"grow", []string{"a"}, []string{"a", "b", "c"}, 1, 2, 0},
		{"clear", []string{"a", "b"}, nil, 0, 0, 2},
		{"empty both", nil, nil, 0, 0, 0},
		{"tail change", []string{"a", "b"}, []string{"a", "c"}, 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArena()
			var oldEls, nextEls []*vdom.Element
			for _, tag := range tt.old {
				oldEls = append(oldEls, el(tag))
			}
			for _, tag := range tt.next {
				nextEls = append(nextEls, el(tag))
			}
			old := committed(t, a, oldEls...)
			wip := a.New(Fiber{Kind: vdom.HostTag("root"), Alternate: old})
			var deletions []ID
			a.Reconcile(wip, nextEls, &deletions)

			got := effects(children(a, wip))
			if got[Update] != tt.wantUpdate {
				t.Errorf("Update = %d, want %d", got[Update], tt.wantUpdate)
			}
			if got[Placement] != tt.wantPlacement {
				t.Errorf("Placement = %d, want %d", got[Placement], tt.wantPlacement)
			}
			if len(deletions) != tt.wantDeletion {
				t.Errorf("deletions = %d, want %d", len(deletions), tt.wantDeletion)
			}
		})
	}
}

func TestReconcileComponentIdentity(t *testing.T) {
	render := func(*hooks.Scope, vdom.Props) *vdom.Element { return nil }
	first := vdom.Define("Item", render)
	second := vdom.Define("Item", render)

	a := NewArena()
	old := committed(t, a, vdom.CreateElement(first, nil))

	wip := a.New(Fiber{Kind: vdom.HostTag("root"), Alternate: old})
	var deletions []ID
	a.Reconcile(wip, []*vdom.Element{vdom.CreateElement(first, nil)}, &deletions)
	if got := children(a, wip)[0].Effect; got != Update {
		t.Errorf("same definition effect = %s, want Update", got)
	}

	wip2 := a.New(Fiber{Kind: vdom.HostTag("root"), Alternate: old})
	deletions = nil
	a.Reconcile(wip2, []*vdom.Element{vdom.CreateElement(second, nil)}, &deletions)
	if got := children(a, wip2)[0].Effect; got != Placement {
		t.Errorf("other definition effect = %s, want Placement", got)
	}
	if len(deletions) != 1 {
		t.Errorf("deletions = %d, want 1", len(deletions))
	}
}

func TestReconcileNilElementIsAbsent(t *testing.T) {
	a := NewArena()
	old := committed(t, a, el("a"), el("b"))

	wip := a.New(Fiber{Kind: vdom.HostTag("root"), Alternate: old})
	var deletions []ID
	a.Reconcile(wip, []*vdom.Element{nil, el("b")}, &deletions)

	kids := children(a, wip)
	if len(kids) != 1 || kids[0].Kind.Tag() != "b" || kids[0].Effect != Update {
		t.Errorf("children = %v, want [b[Update]]", kids)
	}
	if len(deletions) != 1 || a.Get(deletions[0]).Kind.Tag() != "a" {
		t.Errorf("deletions = %v, want [a]", deletions)
	}
}

func TestReconcileResetsChildLink(t *testing.T) {
	a := NewArena()
	root := a.New(Fiber{Kind: vdom.HostTag("root")})
	var deletions []ID
	a.Reconcile(root, []*vdom.Element{el("a")}, &deletions)
	a.Reconcile(root, nil, &deletions)
	if a.Get(root).Child != Nil {
		t.Error("Child should be Nil after reconciling no elements")
	}
}
