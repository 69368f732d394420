package vdom

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// DiffProps compares two prop maps and returns the host mutations needed to
// turn prev into next. Changes are ordered: listener removals, property
// removals, property sets, listener additions; names are sorted within each
// group. The children prop is never diffed. A nil prev yields the initial
// property and listener set of next.
func DiffProps(prev, next Props) []PropChange {
	var removeListeners, removeProps, setProps, addListeners []PropChange

	for _, key := range sortedKeys(prev) {
		if key == ChildrenProp {
			continue
		}
		prevVal := prev[key]
		_, exists := next[key]

		if IsEventProp(key) {
			// Functions never compare equal, so a listener present in both
			// maps is always rebound.
			if prevVal != nil {
				removeListeners = append(removeListeners, PropChange{
					Op:    OpRemoveListener,
					Name:  EventName(key),
					Value: prevVal,
				})
			}
			continue
		}

		if !exists {
			removeProps = append(removeProps, PropChange{Op: OpRemoveProp, Name: key})
		}
	}

	for _, key := range sortedKeys(next) {
		if key == ChildrenProp {
			continue
		}
		nextVal := next[key]
		prevVal, existed := prev[key]

		if IsEventProp(key) {
			if nextVal != nil {
				addListeners = append(addListeners, PropChange{
					Op:    OpAddListener,
					Name:  EventName(key),
					Value: nextVal,
				})
			}
			continue
		}

		if !existed || !PropsEqual(prevVal, nextVal) {
			setProps = append(setProps, PropChange{Op: OpSetProp, Name: key, Value: nextVal})
		}
	}

	changes := make([]PropChange, 0, len(removeListeners)+len(removeProps)+len(setProps)+len(addListeners))
	changes = append(changes, removeListeners...)
	changes = append(changes, removeProps...)
	changes = append(changes, setProps...)
	changes = append(changes, addListeners...)
	return changes
}

func sortedKeys(p Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsEventProp returns true if the key names an event listener (starts with "on").
// Case-insensitive so onclick, onClick and ONCLICK all qualify.
func IsEventProp(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// EventName returns the host event name for a listener prop: the key
// without its "on" prefix, lowercased.
func EventName(key string) string {
	if !IsEventProp(key) {
		return ""
	}
	return strings.ToLower(key[2:])
}

// PropsEqual compares two prop values for equality.
func PropsEqual(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
		return false
	case int:
		if bv, ok := b.(int); ok {
			return av == bv
		}
		return false
	case int64:
		if bv, ok := b.(int64); ok {
			return av == bv
		}
		return false
	case float64:
		if bv, ok := b.(float64); ok {
			return av == bv
		}
		return false
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
		return false
	case nil:
		return b == nil
	}
	if reflect.TypeOf(a).Kind() == reflect.Func {
		return false
	}
	// Fallback to reflect for complex types
	return reflect.DeepEqual(a, b)
}

// PropToString converts a prop value to its string form.
func PropToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
