package fiber

import (
	"fmt"

	"github.com/vango-dev/fiber/pkg/hooks"
	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/vdom"
)

// ID addresses a fiber in an Arena. Nil is the null link.
type ID int32

// Nil is the null fiber link.
const Nil ID = 0

// EffectTag is the commit action recorded on a fiber.
type EffectTag uint8

const (
	None EffectTag = iota
	Placement
	Update
	Deletion
)

func (e EffectTag) String() string {
	switch e {
	case None:
		return "None"
	case Placement:
		return "Placement"
	case Update:
		return "Update"
	case Deletion:
		return "Deletion"
	default:
		return fmt.Sprintf("EffectTag(%d)", uint8(e))
	}
}

// Fiber is the unit of work for one element position.
type Fiber struct {
	Kind  vdom.Kind
	Props vdom.Props

	// Node is set for host fibers once their unit has been performed.
	Node host.Node

	Parent  ID
	Child   ID
	Sibling ID

	// Alternate is the fiber at the same position in the previous committed
	// tree. It is a back reference only.
	Alternate ID

	Effect EffectTag
	Hooks  []*hooks.Cell

	live bool
}

// Children returns the elements this fiber reconciles against.
func (f *Fiber) Children() []*vdom.Element {
	children, _ := f.Props[vdom.ChildrenProp].([]*vdom.Element)
	return children
}

// IsHost reports whether the fiber's kind is a host tag.
func (f *Fiber) IsHost() bool {
	return f.Kind.IsHost()
}

// IsComponent reports whether the fiber's kind is a component.
func (f *Fiber) IsComponent() bool {
	return f.Kind.IsComponent()
}

func (f *Fiber) String() string {
	return fmt.Sprintf("%s[%s]", f.Kind, f.Effect)
}
