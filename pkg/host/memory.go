package host

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/vdom"
)

// MemNode is a node of the in-memory host tree.
type MemNode struct {
	ID       int
	Tag      string
	Props    map[string]any
	Parent   *MemNode
	Children []*MemNode

	listeners map[string]any
}

// IsText reports whether the node is a text node.
func (n *MemNode) IsText() bool {
	return n.Tag == vdom.TextTag
}

// Text returns a text node's value.
func (n *MemNode) Text() string {
	s, _ := n.Props[vdom.NodeValueProp].(string)
	return s
}

// TextContent returns the concatenated text of the node and its descendants.
func (n *MemNode) TextContent() string {
	if n.IsText() {
		return n.Text()
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Listener returns the listener bound for event, or nil.
func (n *MemNode) Listener(event string) any {
	return n.listeners[event]
}

// Listeners returns the sorted names of bound events.
func (n *MemNode) Listeners() []string {
	names := make([]string, 0, len(n.listeners))
	for name := range n.listeners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Find returns the first node in preorder (including n) matching pred.
func (n *MemNode) Find(pred func(*MemNode) bool) *MemNode {
	if pred(n) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(pred); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node in preorder (including n) matching pred.
func (n *MemNode) FindAll(pred func(*MemNode) bool) []*MemNode {
	var out []*MemNode
	n.walk(func(m *MemNode) {
		if pred(m) {
			out = append(out, m)
		}
	})
	return out
}

// FindByTag returns the first node with the given tag.
func (n *MemNode) FindByTag(tag string) *MemNode {
	return n.Find(func(m *MemNode) bool { return m.Tag == tag })
}

// FindByID returns the first node whose id prop equals id.
func (n *MemNode) FindByID(id string) *MemNode {
	return n.Find(func(m *MemNode) bool { return m.Props["id"] == id })
}

func (n *MemNode) walk(fn func(*MemNode)) {
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}

// String renders the subtree as compact markup, e.g. <div id="a">hi</div>.
// Properties are sorted; listeners are not shown.
func (n *MemNode) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *MemNode) write(b *strings.Builder) {
	if n.IsText() {
		b.WriteString(n.Text())
		return
	}
	b.WriteString("<")
	b.WriteString(n.Tag)
	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%q", k, vdom.PropToString(n.Props[k]))
	}
	b.WriteString(">")
	for _, c := range n.Children {
		c.write(b)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteString(">")
}

// Event is passed to listeners that accept it.
type Event struct {
	Type    string
	Target  *MemNode
	Payload any
}

// Memory is an in-memory Adapter. Its handles are *MemNode. Memory is not
// goroutine-safe; use it from the goroutine driving the runtime.
type Memory struct {
	nextID int
	nodes  int
}

// NewMemory creates an empty in-memory host.
func NewMemory() *Memory {
	return &Memory{}
}

// NewContainer creates a detached root node to render into.
func (m *Memory) NewContainer(tag string) *MemNode {
	return m.newNode(tag)
}

// Live returns the number of nodes created and not yet detached from a
// parent by RemoveChild.
func (m *Memory) Live() int {
	return m.nodes
}

func (m *Memory) newNode(tag string) *MemNode {
	m.nextID++
	m.nodes++
	return &MemNode{
		ID:        m.nextID,
		Tag:       tag,
		Props:     make(map[string]any),
		listeners: make(map[string]any),
	}
}

func asMem(n Node) (*MemNode, error) {
	mn, ok := n.(*MemNode)
	if !ok || mn == nil {
		return nil, errors.New("E024").WithDetailf("memory host cannot use %T", n)
	}
	return mn, nil
}

// CreateNode implements Adapter.
func (m *Memory) CreateNode(tag string) (Node, error) {
	if tag == "" {
		return nil, errors.New("E023").WithDetail("empty tag")
	}
	return m.newNode(tag), nil
}

// CreateTextNode implements Adapter.
func (m *Memory) CreateTextNode(text string) (Node, error) {
	n := m.newNode(vdom.TextTag)
	n.Props[vdom.NodeValueProp] = text
	return n, nil
}

// SetProperty implements Adapter.
func (m *Memory) SetProperty(n Node, name string, value any) error {
	mn, err := asMem(n)
	if err != nil {
		return err
	}
	mn.Props[name] = value
	return nil
}

// RemoveProperty implements Adapter.
func (m *Memory) RemoveProperty(n Node, name string) error {
	mn, err := asMem(n)
	if err != nil {
		return err
	}
	delete(mn.Props, name)
	return nil
}

// AddListener implements Adapter. One listener is kept per event.
func (m *Memory) AddListener(n Node, event string, fn any) error {
	mn, err := asMem(n)
	if err != nil {
		return err
	}
	mn.listeners[event] = fn
	return nil
}

// RemoveListener implements Adapter.
func (m *Memory) RemoveListener(n Node, event string, fn any) error {
	mn, err := asMem(n)
	if err != nil {
		return err
	}
	delete(mn.listeners, event)
	return nil
}

// AppendChild implements Adapter. A child that already has a parent is
// moved.
func (m *Memory) AppendChild(parent, child Node) error {
	p, err := asMem(parent)
	if err != nil {
		return err
	}
	c, err := asMem(child)
	if err != nil {
		return err
	}
	if c.Parent != nil {
		detach(c.Parent, c)
	}
	c.Parent = p
	p.Children = append(p.Children, c)
	return nil
}

// RemoveChild implements Adapter.
func (m *Memory) RemoveChild(parent, child Node) error {
	p, err := asMem(parent)
	if err != nil {
		return err
	}
	c, err := asMem(child)
	if err != nil {
		return err
	}
	if c.Parent != p || !detach(p, c) {
		return fmt.Errorf("host: node %d is not a child of node %d", c.ID, p.ID)
	}
	c.Parent = nil
	c.walk(func(*MemNode) { m.nodes-- })
	return nil
}

func detach(p, c *MemNode) bool {
	for i, child := range p.Children {
		if child == c {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			return true
		}
	}
	return false
}

// Dispatch invokes the listener bound for event on n. Listeners may be
// func(), func(Event) or func(any) (which receives the payload). Returns
// false if no listener is bound.
func (m *Memory) Dispatch(n *MemNode, event string, payload any) (bool, error) {
	fn := n.listeners[event]
	switch h := fn.(type) {
	case nil:
		return false, nil
	case func():
		h()
	case func(Event):
		h(Event{Type: event, Target: n, Payload: payload})
	case func(any):
		h(payload)
	default:
		return false, fmt.Errorf("host: unsupported listener type %T for %q", fn, event)
	}
	return true, nil
}

// Snapshot is a JSON-friendly copy of a host subtree.
type Snapshot struct {
	Tag       string            `json:"tag"`
	Text      string            `json:"text,omitempty"`
	Props     map[string]string `json:"props,omitempty"`
	Listeners []string          `json:"listeners,omitempty"`
	Children  []Snapshot        `json:"children,omitempty"`
}

// Snapshot copies the subtree rooted at n. Property values are stringified.
func (n *MemNode) Snapshot() Snapshot {
	if n.IsText() {
		return Snapshot{Tag: n.Tag, Text: n.Text()}
	}
	s := Snapshot{Tag: n.Tag}
	if len(n.Props) > 0 {
		s.Props = make(map[string]string, len(n.Props))
		for k, v := range n.Props {
			s.Props[k] = vdom.PropToString(v)
		}
	}
	if len(n.listeners) > 0 {
		s.Listeners = n.Listeners()
	}
	for _, c := range n.Children {
		s.Children = append(s.Children, c.Snapshot())
	}
	return s
}

// Count returns the number of nodes in the snapshot, including s.
func (s Snapshot) Count() int {
	n := 1
	for _, c := range s.Children {
		n += c.Count()
	}
	return n
}
