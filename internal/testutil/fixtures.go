package testutil

import (
	"encoding/json"
	"strconv"

	"github.com/roach88/stratui/internal/ir"
)

// Handle returns the handle identity of a popover control.
func Handle(strategy int64, condition string, index int64, controlType string) ir.ControlIdentity {
	return ir.ControlIdentity{
		Strategy:  ir.Int(strategy),
		Condition: ir.String(condition),
		Index:     ir.Int(index),
		Type:      controlType,
		Role:      ir.RoleInput,
	}
}

// Option returns the identity of an option button in a popover of
// fieldType. value doubles as the label when label is empty.
func Option(strategy int64, condition string, index int64, fieldType, value, label string) ir.ControlIdentity {
	if label == "" {
		label = value
	}
	return ir.ControlIdentity{
		Strategy:  ir.Int(strategy),
		Condition: ir.String(condition),
		Index:     ir.Int(index),
		Type:      ir.TypeOptionButton,
		FieldType: fieldType,
		Value:     ir.String(value),
		Label:     ir.String(label),
	}
}

// Click builds the event reported after the n-th click on id.
func Click(id ir.ControlIdentity, n int) ir.TriggeredEvent {
	return Event(id, "n_clicks", json.RawMessage(strconv.Itoa(n)))
}

// Event builds the event reported when property of id changes to value.
// Panics if id cannot be encoded, which only happens for broken fixtures.
func Event(id ir.ControlIdentity, property string, value json.RawMessage) ir.TriggeredEvent {
	propID, err := id.PropID(property)
	if err != nil {
		panic("testutil: encode prop_id: " + err.Error())
	}
	return ir.TriggeredEvent{PropID: propID, Value: value}
}
