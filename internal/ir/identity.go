package ir

// Control types used by the strategy builder.
const (
	TypeColumnDropdown         = "column_dropdown"
	TypeComparisonOperator     = "comparison_operator"
	TypeColumnOrCustomDropdown = "column_or_custom_dropdown"
	TypeCustomInput            = "custom_input"
	TypeOptionButton           = "option-btn"

	// Buttons that only edit the conditions store.
	TypeModifyCondition    = "modify_condition"
	TypeClearAllConditions = "clear_all_conditions"
	TypeClearStrategy      = "clear_strategy"

	TypeStrategyNameInput = "strategy_name_input"
)

// Roles distinguish the parts of one popover control sharing a scope.
const (
	RoleInput   = "input"
	RolePopover = "popover"
	RoleOptions = "options"
	RoleSearch  = "search"
)

// ControlIdentity is the structural id of an interactive control.
//
// Strategy, Condition and Index place the control in one rule row (its
// scope). Option buttons additionally carry the chosen option in FieldType,
// Value, Label and Raw; modify_condition buttons carry an Action.
type ControlIdentity struct {
	Strategy  Scalar `json:"strategy,omitzero"`
	Condition Scalar `json:"condition,omitzero"`
	Index     Scalar `json:"index,omitzero"`
	Type      string `json:"type,omitempty"`
	Role      string `json:"role,omitempty"`
	FieldType string `json:"field_type,omitempty"`
	Value     Scalar `json:"value,omitzero"`
	Label     Scalar `json:"label,omitzero"`
	Raw       Scalar `json:"raw,omitzero"`
	Action    string `json:"action,omitempty"`
}

// ScopeKey is the composite "{strategy}_{condition}_{index}" key grouping all
// controls of one rule row.
type ScopeKey string

// NewScopeKey builds a scope key from canonical scalar text.
func NewScopeKey(strategy, condition, index Scalar) ScopeKey {
	return ScopeKey(strategy.Text + "_" + condition.Text + "_" + index.Text)
}

// ScopeKey returns the key the label store uses for this control's row.
func (c ControlIdentity) ScopeKey() ScopeKey {
	return NewScopeKey(c.Strategy, c.Condition, c.Index)
}

// Complete reports whether the identity carries everything the resolver
// needs: the three scope fields and a type.
func (c ControlIdentity) Complete() bool {
	return c.Strategy.Present() && c.Condition.Present() && c.Index.Present() && c.Type != ""
}

// Scope returns a copy holding only the scope fields.
func (c ControlIdentity) Scope() ControlIdentity {
	return ControlIdentity{Strategy: c.Strategy, Condition: c.Condition, Index: c.Index}
}

// ScopeEqual reports whether a and b belong to the same rule row.
//
// Strategy and index compare by canonical text so that 1 and "1" match.
// Condition compares strictly.
func ScopeEqual(a, b ControlIdentity) bool {
	return a.Strategy.Loose(b.Strategy) &&
		a.Condition.Equal(b.Condition) &&
		a.Index.Loose(b.Index)
}

// SameControl reports whether a and b address the same control: same scope
// and same type.
func SameControl(a, b ControlIdentity) bool {
	return a.Type == b.Type && ScopeEqual(a, b)
}
