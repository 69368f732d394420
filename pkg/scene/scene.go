package scene

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/vdom"
)

// FragmentKey is the scene key for a fragment element.
const FragmentKey = "fragment"

// Scene is a parsed scene file.
type Scene struct {
	// Name is the scene's display name. Defaults to the file name.
	Name string

	// Path is the file the scene was loaded from, if any.
	Path string

	// Root is the element to render.
	Root *vdom.Element

	// Steps are events to dispatch after the first commit.
	Steps []Step
}

// Step is a scripted event.
type Step struct {
	// Target is the id prop of the node receiving the event.
	Target string `yaml:"target"`

	// Event is the event type. Defaults to "click".
	Event string `yaml:"event,omitempty"`

	// Payload is passed to listeners taking an argument.
	Payload any `yaml:"payload,omitempty"`
}

type document struct {
	Name  string    `yaml:"name"`
	Root  yaml.Node `yaml:"root"`
	Steps []Step    `yaml:"steps"`
}

// Load reads and parses a scene file.
func Load(path string, reg *Registry) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E130").WithDetail(path).Wrap(err)
	}
	return Parse(data, path, reg)
}

// Parse parses scene data. filename is used for error locations only.
func Parse(data []byte, filename string, reg *Registry) (*Scene, error) {
	if reg == nil {
		reg = Builtins()
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		ve := errors.New("E130").WithDetail(strings.TrimPrefix(err.Error(), "yaml: "))
		if line := yamlErrorLine(err); line > 0 {
			ve.WithLocation(filename, line, 0).WithSource(data)
		}
		return nil, ve
	}
	if doc.Root.Kind == 0 {
		return nil, errors.New("E130").
			WithDetail("missing root element").
			WithSuggestion("Add a top-level \"root:\" key holding one element")
	}

	p := parser{filename: filename, reg: reg}
	root, err := p.element(&doc.Root)
	if err != nil {
		if ve, ok := err.(*errors.VangoError); ok {
			ve.WithSource(data)
		}
		return nil, err
	}

	for i := range doc.Steps {
		if doc.Steps[i].Target == "" {
			return nil, errors.New("E130").WithDetailf("step %d has no target", i+1)
		}
		if doc.Steps[i].Event == "" {
			doc.Steps[i].Event = "click"
		}
	}

	name := doc.Name
	if name == "" && filename != "" {
		name = strings.TrimSuffix(filename[strings.LastIndexAny(filename, `/\`)+1:], ".yaml")
		name = strings.TrimSuffix(name, ".yml")
	}
	return &Scene{Name: name, Path: filename, Root: root, Steps: doc.Steps}, nil
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

func yamlErrorLine(err error) int {
	m := yamlLine.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

type parser struct {
	filename string
	reg      *Registry
}

func (p *parser) fail(code string, n *yaml.Node, format string, args ...any) error {
	return errors.New(code).
		WithDetailf(format, args...).
		WithLocation(p.filename, n.Line, n.Column)
}

// element converts one node. Null scalars yield nil, which callers drop.
func (p *parser) element(n *yaml.Node) (*vdom.Element, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return p.element(n.Alias)
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return vdom.Text(n.Value), nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, p.fail("E132", n, "element must have exactly one key, found %d", len(n.Content)/2)
		}
		return p.named(n.Content[0], n.Content[1])
	default:
		return nil, p.fail("E132", n, "expected an element, found a sequence")
	}
}

func (p *parser) named(key, value *yaml.Node) (*vdom.Element, error) {
	name := key.Value
	if name == "" {
		return nil, p.fail("E132", key, "empty element name")
	}

	props, children, err := p.body(value)
	if err != nil {
		return nil, err
	}

	switch {
	case name == FragmentKey:
		if len(props) > 0 {
			return nil, p.fail("E132", value, "fragment takes no props")
		}
		return vdom.Fragment(toAny(children)...), nil
	case unicode.IsUpper([]rune(name)[0]):
		comp, ok := p.reg.Lookup(name)
		if !ok {
			return nil, errors.New("E131").
				WithDetailf("%q is not registered", name).
				WithLocation(p.filename, key.Line, key.Column).
				WithSuggestion("Known components: " + strings.Join(p.reg.Names(), ", "))
		}
		return vdom.CreateElement(comp, props, toAny(children)...), nil
	case strings.HasPrefix(name, "#"):
		return nil, p.fail("E132", key, "reserved tag %q", name)
	default:
		return vdom.CreateElement(name, props, toAny(children)...), nil
	}
}

// body reads an element's value: a scalar child, a children sequence or a
// prop mapping.
func (p *parser) body(n *yaml.Node) (vdom.Props, []*vdom.Element, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return p.body(n.Alias)
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil, nil
		}
		return nil, []*vdom.Element{vdom.Text(n.Value)}, nil
	case yaml.SequenceNode:
		children, err := p.children(n)
		return nil, children, err
	}

	props := make(vdom.Props, len(n.Content)/2)
	var children []*vdom.Element
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		switch {
		case k.Value == vdom.ChildrenProp:
			var err error
			if v.Kind == yaml.SequenceNode {
				children, err = p.children(v)
			} else {
				var el *vdom.Element
				el, err = p.element(v)
				if el != nil {
					children = []*vdom.Element{el}
				}
			}
			if err != nil {
				return nil, nil, err
			}
		case vdom.IsEventProp(k.Value):
			return nil, nil, p.fail("E132", k, "listener %q cannot be declared in a scene", k.Value)
		default:
			var val any
			if err := v.Decode(&val); err != nil {
				return nil, nil, p.fail("E132", v, "prop %q: %v", k.Value, err)
			}
			props[k.Value] = val
		}
	}
	return props, children, nil
}

func (p *parser) children(n *yaml.Node) ([]*vdom.Element, error) {
	out := make([]*vdom.Element, 0, len(n.Content))
	for _, c := range n.Content {
		if c.Kind == yaml.SequenceNode {
			return nil, p.fail("E132", c, "nested sequence in children")
		}
		el, err := p.element(c)
		if err != nil {
			return nil, err
		}
		if el != nil {
			out = append(out, el)
		}
	}
	return out, nil
}

func toAny(els []*vdom.Element) []any {
	out := make([]any, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out
}
