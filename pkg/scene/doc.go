// Package scene loads element trees from YAML scene files.
//
// A scene names a root element and an optional list of scripted events:
//
//	name: counter demo
//	root:
//	  div:
//	    id: app
//	    children:
//	      - h1: Counters
//	      - Counter: {id: a, initial: 3}
//	      - p: [plain text, 42]
//	steps:
//	  - target: a-inc
//	  - {target: a-inc, event: click}
//
// Every element is a mapping with exactly one key. Lowercase keys are host
// tags and capitalized keys are components looked up in a Registry; the
// key "fragment" groups children without a host node. The value is either
// a scalar (a single text child), a sequence (children) or a mapping
// (props, with children under "children"). A bare scalar is a text element.
//
// Listeners cannot be declared in scene files; components attach their own.
package scene
