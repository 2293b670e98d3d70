package conditions

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/roach88/stratui/internal/ir"
)

// Actions carried by modify_condition buttons.
const (
	ActionClear  = "clear"
	ActionRemove = "remove"
	ActionAdd    = "add"
)

// Input is the current value of one plain (non-popover) control.
type Input struct {
	ID    ir.ControlIdentity `json:"id"`
	Value ir.Scalar          `json:"value,omitzero"`
}

// ClearAll returns the store for a freshly cleared form: one empty buy row
// and one empty sell row of strategy 1.
func ClearAll() Store {
	return Store{"1_buy_0": {}, "1_sell_0": {}}
}

// ClearStrategy empties the first row of each condition side of strategy and
// drops its other rows.
func ClearStrategy(s Store, strategy ir.Scalar) Store {
	return clearRows(s, strategy.Text+"_")
}

func clearRows(s Store, prefix string) Store {
	out := s.Clone()
	for k := range out {
		key := string(k)
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if strings.HasSuffix(key, "_0") {
			out[k] = Entry{}
			continue
		}
		delete(out, k)
	}
	return out
}

// ModifyCondition applies a modify_condition button to one condition side.
// Unknown actions return an unchanged copy.
func ModifyCondition(s Store, strategy ir.Scalar, condition, action string) Store {
	switch action {
	case ActionClear:
		return clearRows(s, rowPrefix(strategy, condition))

	case ActionRemove:
		out := s.Clone()
		if last, ok := MaxIndex(out, strategy, condition); ok {
			delete(out, ir.NewScopeKey(strategy, ir.String(condition), ir.Int(int64(last))))
		}
		return out

	case ActionAdd:
		out := s.Clone()
		cond := ir.String(condition)
		last, ok := MaxIndex(out, strategy, condition)
		if !ok {
			// First add also materialises the row that was only implied.
			out[ir.NewScopeKey(strategy, cond, ir.Int(0))] = Entry{}
			out[ir.NewScopeKey(strategy, cond, ir.Int(1))] = Entry{}
			return out
		}
		out[ir.NewScopeKey(strategy, cond, ir.Int(int64(last+1)))] = Entry{}
		return out

	default:
		return s.Clone()
	}
}

// CommitOption records a chosen popover option in its row. The field group
// is picked by the option's field type; raw falls back to value.
func CommitOption(s Store, option ir.ControlIdentity) Store {
	out := s.Clone()
	e := out.bucket(option.ScopeKey())

	raw := option.Raw
	if !raw.Truthy() {
		raw = option.Value
	}

	value, label, rawField := FieldValue, FieldLabel, FieldRaw
	switch option.FieldType {
	case ir.TypeColumnDropdown:
		value, label, rawField = FieldColumn, FieldColumnLabel, FieldColumnRaw
	case ir.TypeColumnOrCustomDropdown:
		value, label, rawField = FieldColumnOrCustom, FieldColumnOrCustomLabel, FieldColumnOrCustomRaw
	case ir.TypeComparisonOperator:
		value, label, rawField = FieldComparisonOperator, FieldComparisonOperatorLabel, FieldComparisonOperatorRaw
	}

	e[value] = nullIfAbsent(option.Value)
	e[label] = nullIfAbsent(option.Label)
	e[rawField] = nullIfAbsent(raw)
	return out
}

// ApplyInputs copies the current values of plain controls into their rows.
// Controls of other types are skipped.
func ApplyInputs(s Store, inputs []Input) Store {
	out := s.Clone()
	for _, in := range inputs {
		var field string
		switch in.ID.Type {
		case ir.TypeComparisonOperator:
			field = FieldOperator
		case ir.TypeColumnOrCustomDropdown:
			field = FieldColumnOrCustom
		case ir.TypeCustomInput:
			field = FieldCustom
		default:
			continue
		}
		out.bucket(in.ID.ScopeKey())[field] = nullIfAbsent(in.Value)
	}
	return out
}

// Prune keeps only rows whose strategy is in strategies. An empty strategies
// list means nothing is known yet and the store is kept whole.
func Prune(s Store, strategies []Strategy) Store {
	if len(strategies) == 0 {
		return s.Clone()
	}

	alive := make(map[string]bool, len(strategies))
	for _, st := range strategies {
		alive[st.ID.Text] = true
	}

	out := make(Store, len(s))
	for k, e := range s {
		sid, _, _ := strings.Cut(string(k), "_")
		if alive[sid] {
			out[k] = e.Clone()
		}
	}
	return out
}

// IsNoop reports whether a triggered value carries nothing worth acting on:
// missing, null, "", 0 or false. Composite values are never a no-op.
func IsNoop(value json.RawMessage) bool {
	value = bytes.TrimSpace(value)
	if len(value) == 0 {
		return true
	}
	if value[0] == '{' || value[0] == '[' {
		return false
	}
	var s ir.Scalar
	if err := json.Unmarshal(value, &s); err != nil {
		return false
	}
	return !s.Truthy()
}

// Reduce is the store callback: it folds one triggered event into the store.
// The second result is false when the event must not update the store.
//
// Events whose id is not structured (the strategies list changing, a plain
// button) fall through to the plain-control path, as do typed controls other
// than the store buttons and option buttons.
func Reduce(s Store, event ir.TriggeredEvent, inputs []Input, strategies []Strategy) (Store, bool) {
	if event.PropID == "" || IsNoop(event.Value) {
		return s, false
	}

	if trig, ok := ir.ParseTriggerID(event.PropID).Identity(); ok {
		switch trig.Type {
		case ir.TypeClearAllConditions:
			return ClearAll(), true
		case ir.TypeClearStrategy:
			return ClearStrategy(s, trig.Strategy), true
		case ir.TypeModifyCondition:
			return ModifyCondition(s, trig.Strategy, trig.Condition.Text, trig.Action), true
		case ir.TypeOptionButton:
			return Prune(CommitOption(s, trig), strategies), true
		}
	}

	return Prune(ApplyInputs(s, inputs), strategies), true
}

func nullIfAbsent(s ir.Scalar) ir.Scalar {
	if s.IsZero() {
		return ir.Null()
	}
	return s
}
