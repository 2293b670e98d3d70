package ir

import (
	"bytes"
	"encoding/json"
	"strings"
)

// TriggeredEvent is one entry of the host runtime's "triggered" list.
type TriggeredEvent struct {
	// PropID is the serialized component id followed by "." and the
	// property name, e.g. `{"index":0,...}.n_clicks`.
	PropID string `json:"prop_id"`

	// Value is the new value of the property (usually a click count).
	Value json.RawMessage `json:"value,omitempty"`
}

// Clicks reads Value as an interaction count. Anything that is not an
// integral number (or numeric string) counts as zero.
func (e TriggeredEvent) Clicks() int64 {
	if len(bytes.TrimSpace(e.Value)) == 0 {
		return 0
	}
	var s Scalar
	if err := json.Unmarshal(e.Value, &s); err != nil {
		return 0
	}
	n, ok := s.Int64()
	if !ok {
		return 0
	}
	return n
}

// ValueScalar reads Value as a scalar. Composite or malformed values yield
// an absent scalar.
func (e TriggeredEvent) ValueScalar() Scalar {
	if len(bytes.TrimSpace(e.Value)) == 0 {
		return Scalar{}
	}
	var s Scalar
	if err := json.Unmarshal(e.Value, &s); err != nil {
		return Scalar{}
	}
	return s
}

// TriggerContext is the host runtime's view of what fired the current pass.
// It is produced fresh per pass and never retained.
type TriggerContext struct {
	Triggered []TriggeredEvent `json:"triggered,omitempty"`
}

// NewTriggerContext returns a context holding a single event.
func NewTriggerContext(propID string, value json.RawMessage) TriggerContext {
	return TriggerContext{Triggered: []TriggeredEvent{{PropID: propID, Value: value}}}
}

// First returns the most recent triggered event, if any.
func (c TriggerContext) First() (TriggeredEvent, bool) {
	if len(c.Triggered) == 0 {
		return TriggeredEvent{}, false
	}
	return c.Triggered[0], true
}

// TriggerID is the result of parsing a prop_id: either a structured control
// identity with its property name, or Unparseable with a reason.
type TriggerID struct {
	identity ControlIdentity
	property string
	parsed   bool
	reason   string
}

// Unparseable returns a TriggerID that carries no identity.
func Unparseable(reason string) TriggerID {
	return TriggerID{reason: reason}
}

// Parsed returns a TriggerID carrying id.
func Parsed(id ControlIdentity, property string) TriggerID {
	return TriggerID{identity: id, property: property, parsed: true}
}

// Identity returns the parsed identity and true, or false when unparseable.
func (t TriggerID) Identity() (ControlIdentity, bool) {
	return t.identity, t.parsed
}

// Property returns the property name following the id ("n_clicks").
func (t TriggerID) Property() string {
	return t.property
}

// Reason explains why parsing failed. Empty for parsed ids.
func (t TriggerID) Reason() string {
	return t.reason
}

// ParseTriggerID extracts the structured id from a prop_id. It never fails:
// plain string ids, malformed JSON and non-object JSON all come back as
// Unparseable.
func ParseTriggerID(propID string) TriggerID {
	if propID == "" {
		return Unparseable("empty prop_id")
	}

	// Property names never contain dots; ids may (labels like "0.5"). Split
	// at the last dot: splitting at the first would reject such ids.
	idPart, property := propID, ""
	if dot := strings.LastIndexByte(propID, '.'); dot >= 0 {
		idPart, property = propID[:dot], propID[dot+1:]
	}

	idPart = strings.TrimSpace(idPart)
	if !strings.HasPrefix(idPart, "{") {
		return Unparseable("id is not a structured identity")
	}

	var id ControlIdentity
	if err := json.Unmarshal([]byte(idPart), &id); err != nil {
		return Unparseable("malformed id: " + err.Error())
	}
	return Parsed(id, property)
}

// PropID renders the prop_id a host runtime would report for a property of
// this control. Keys are emitted in sorted order.
func (c ControlIdentity) PropID(property string) (string, error) {
	data, err := MarshalCanonical(c)
	if err != nil {
		return "", err
	}
	return string(data) + "." + property, nil
}
