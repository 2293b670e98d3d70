package ir

import "fmt"

// Decision is the resolver's output for one control: whether its popover is
// open and which label its handle shows. Each slot is independently Set or
// Unchanged.
type Decision struct {
	Opened Slot[bool]   `json:"opened,omitzero"`
	Label  Slot[string] `json:"label,omitzero"`
}

// NoChange returns a decision that leaves both properties untouched.
func NoChange() Decision {
	return Decision{}
}

// IsNoChange reports whether neither slot is set.
func (d Decision) IsNoChange() bool {
	return !d.Opened.IsSet() && !d.Label.IsSet()
}

func (d Decision) String() string {
	return fmt.Sprintf("opened=%s label=%s", d.Opened, d.Label)
}

// ControlState is the renderer-side state a decision is applied to.
type ControlState struct {
	Opened bool   `json:"opened"`
	Label  string `json:"label"`
}

// Apply returns the state after applying d.
func (d Decision) Apply(state ControlState) ControlState {
	return ControlState{
		Opened: d.Opened.Apply(state.Opened),
		Label:  d.Label.Apply(state.Label),
	}
}
