package vdom

// ChangeOp is the type of a property-level host mutation.
type ChangeOp uint8

const (
	OpSetProp        ChangeOp = 0x01 // Set/update property
	OpRemoveProp     ChangeOp = 0x02 // Remove property
	OpAddListener    ChangeOp = 0x03 // Attach event listener
	OpRemoveListener ChangeOp = 0x04 // Detach event listener
)

// String returns the string representation of the ChangeOp.
func (op ChangeOp) String() string {
	switch op {
	case OpSetProp:
		return "SetProp"
	case OpRemoveProp:
		return "RemoveProp"
	case OpAddListener:
		return "AddListener"
	case OpRemoveListener:
		return "RemoveListener"
	default:
		return "Unknown"
	}
}

// PropChange is one property or listener mutation computed by DiffProps.
type PropChange struct {
	Op    ChangeOp
	Name  string // property name, or event name for listener ops
	Value any    // new value for SetProp/AddListener, old listener for RemoveListener
}
