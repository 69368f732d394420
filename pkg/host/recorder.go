package host

import (
	"fmt"
	"strings"
)

// Op names a host adapter call.
type Op uint8

const (
	OpCreateNode Op = iota + 1
	OpCreateText
	OpSetProperty
	OpRemoveProperty
	OpAddListener
	OpRemoveListener
	OpAppendChild
	OpRemoveChild
)

// Ops lists every Op in declaration order.
var Ops = []Op{
	OpCreateNode, OpCreateText,
	OpSetProperty, OpRemoveProperty,
	OpAddListener, OpRemoveListener,
	OpAppendChild, OpRemoveChild,
}

func (op Op) String() string {
	switch op {
	case OpCreateNode:
		return "create_node"
	case OpCreateText:
		return "create_text"
	case OpSetProperty:
		return "set_property"
	case OpRemoveProperty:
		return "remove_property"
	case OpAddListener:
		return "add_listener"
	case OpRemoveListener:
		return "remove_listener"
	case OpAppendChild:
		return "append_child"
	case OpRemoveChild:
		return "remove_child"
	default:
		return "unknown"
	}
}

// IsProperty reports whether op changes a property value.
func (op Op) IsProperty() bool {
	return op == OpSetProperty || op == OpRemoveProperty
}

// Mutation is one recorded adapter call.
type Mutation struct {
	Op     Op
	Node   Node
	Target Node   // child for append/remove, nil otherwise
	Name   string // tag, property or event name
	Value  any
	Err    error
}

func (m Mutation) String() string {
	switch m.Op {
	case OpCreateNode, OpCreateText:
		return fmt.Sprintf("%s %s", m.Op, m.Name)
	case OpSetProperty:
		return fmt.Sprintf("%s %s=%v", m.Op, m.Name, m.Value)
	case OpAppendChild, OpRemoveChild:
		return m.Op.String()
	default:
		return fmt.Sprintf("%s %s", m.Op, m.Name)
	}
}

// Recorder wraps an Adapter and logs every call, including failed ones.
type Recorder struct {
	next Adapter
	log  []Mutation

	// OnMutation, if set, observes each call after it completes.
	OnMutation func(Mutation)
}

// NewRecorder wraps next.
func NewRecorder(next Adapter) *Recorder {
	return &Recorder{next: next}
}

// Mutations returns the log since the last Reset.
func (r *Recorder) Mutations() []Mutation {
	return r.log
}

// Reset clears the log.
func (r *Recorder) Reset() {
	r.log = nil
}

// Len returns the number of logged calls.
func (r *Recorder) Len() int {
	return len(r.log)
}

// Count returns the number of logged calls of op.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, m := range r.log {
		if m.Op == op {
			n++
		}
	}
	return n
}

// Filter returns the logged calls for which keep returns true.
func (r *Recorder) Filter(keep func(Mutation) bool) []Mutation {
	var out []Mutation
	for _, m := range r.log {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// String renders the log one call per line.
func (r *Recorder) String() string {
	var b strings.Builder
	for _, m := range r.log {
		b.WriteString(m.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Recorder) record(m Mutation) {
	r.log = append(r.log, m)
	if r.OnMutation != nil {
		r.OnMutation(m)
	}
}

// CreateNode implements Adapter.
func (r *Recorder) CreateNode(tag string) (Node, error) {
	n, err := r.next.CreateNode(tag)
	r.record(Mutation{Op: OpCreateNode, Node: n, Name: tag, Err: err})
	return n, err
}

// CreateTextNode implements Adapter.
func (r *Recorder) CreateTextNode(text string) (Node, error) {
	n, err := r.next.CreateTextNode(text)
	r.record(Mutation{Op: OpCreateText, Node: n, Name: text, Err: err})
	return n, err
}

// SetProperty implements Adapter.
func (r *Recorder) SetProperty(n Node, name string, value any) error {
	err := r.next.SetProperty(n, name, value)
	r.record(Mutation{Op: OpSetProperty, Node: n, Name: name, Value: value, Err: err})
	return err
}

// RemoveProperty implements Adapter.
func (r *Recorder) RemoveProperty(n Node, name string) error {
	err := r.next.RemoveProperty(n, name)
	r.record(Mutation{Op: OpRemoveProperty, Node: n, Name: name, Err: err})
	return err
}

// AddListener implements Adapter.
func (r *Recorder) AddListener(n Node, event string, fn any) error {
	err := r.next.AddListener(n, event, fn)
	r.record(Mutation{Op: OpAddListener, Node: n, Name: event, Err: err})
	return err
}

// RemoveListener implements Adapter.
func (r *Recorder) RemoveListener(n Node, event string, fn any) error {
	err := r.next.RemoveListener(n, event, fn)
	r.record(Mutation{Op: OpRemoveListener, Node: n, Name: event, Err: err})
	return err
}

// AppendChild implements Adapter.
func (r *Recorder) AppendChild(parent, child Node) error {
	err := r.next.AppendChild(parent, child)
	r.record(Mutation{Op: OpAppendChild, Node: parent, Target: child, Err: err})
	return err
}

// RemoveChild implements Adapter.
func (r *Recorder) RemoveChild(parent, child Node) error {
	err := r.next.RemoveChild(parent, child)
	r.record(Mutation{Op: OpRemoveChild, Node: parent, Target: child, Err: err})
	return err
}

// Faulty wraps an Adapter and fails the n-th call (1-based) of one Op.
type Faulty struct {
	Adapter
	Op  Op
	N   int
	Err error

	calls int
}

func (f *Faulty) trip(op Op) error {
	if op != f.Op {
		return nil
	}
	f.calls++
	if f.calls == f.N {
		if f.Err != nil {
			return f.Err
		}
		return fmt.Errorf("host: injected %s failure", op)
	}
	return nil
}

// CreateNode implements Adapter.
func (f *Faulty) CreateNode(tag string) (Node, error) {
	if err := f.trip(OpCreateNode); err != nil {
		return nil, err
	}
	return f.Adapter.CreateNode(tag)
}

// CreateTextNode implements Adapter.
func (f *Faulty) CreateTextNode(text string) (Node, error) {
	if err := f.trip(OpCreateText); err != nil {
		return nil, err
	}
	return f.Adapter.CreateTextNode(text)
}

// SetProperty implements Adapter.
func (f *Faulty) SetProperty(n Node, name string, value any) error {
	if err := f.trip(OpSetProperty); err != nil {
		return err
	}
	return f.Adapter.SetProperty(n, name, value)
}

// RemoveProperty implements Adapter.
func (f *Faulty) RemoveProperty(n Node, name string) error {
	if err := f.trip(OpRemoveProperty); err != nil {
		return err
	}
	return f.Adapter.RemoveProperty(n, name)
}

// AddListener implements Adapter.
func (f *Faulty) AddListener(n Node, event string, fn any) error {
	if err := f.trip(OpAddListener); err != nil {
		return err
	}
	return f.Adapter.AddListener(n, event, fn)
}

// RemoveListener implements Adapter.
func (f *Faulty) RemoveListener(n Node, event string, fn any) error {
	if err := f.trip(OpRemoveListener); err != nil {
		return err
	}
	return f.Adapter.RemoveListener(n, event, fn)
}

// AppendChild implements Adapter.
func (f *Faulty) AppendChild(parent, child Node) error {
	if err := f.trip(OpAppendChild); err != nil {
		return err
	}
	return f.Adapter.AppendChild(parent, child)
}

// RemoveChild implements Adapter.
func (f *Faulty) RemoveChild(parent, child Node) error {
	if err := f.trip(OpRemoveChild); err != nil {
		return err
	}
	return f.Adapter.RemoveChild(parent, child)
}
