package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/stratui/internal/conditions"
	"github.com/roach88/stratui/internal/ir"
)

// Scenario is one scripted run of a session.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario demonstrates.
	Description string `yaml:"description"`

	// Session fixes the session token. Defaults to testutil.DefaultSessionToken.
	Session string `yaml:"session,omitempty"`

	// Strategies lists the live strategy ids. Rows of other strategies are
	// pruned from the store on every update. Each starts with one row per
	// condition side.
	Strategies []any `yaml:"strategies,omitempty"`

	// Store is the initial conditions store, keyed by scope key. Defaults to
	// the cleared form.
	Store map[string]map[string]any `yaml:"store,omitempty"`

	// Controls are the rendered popover controls, in render order.
	Controls []RenderedControl `yaml:"controls"`

	// Steps are the interactions, delivered one at a time.
	Steps []Step `yaml:"steps"`

	// Assertions check the final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ControlSpec describes a control identity in YAML. Scope fields accept
// numbers or strings, the way component ids do.
type ControlSpec struct {
	Strategy  any    `yaml:"strategy,omitempty"`
	Condition any    `yaml:"condition,omitempty"`
	Index     any    `yaml:"index,omitempty"`
	Type      string `yaml:"type"`
	Role      string `yaml:"role,omitempty"`
	FieldType string `yaml:"field_type,omitempty"`
	Value     any    `yaml:"value,omitempty"`
	Label     any    `yaml:"label,omitempty"`
	Raw       any    `yaml:"raw,omitempty"`
	Action    string `yaml:"action,omitempty"`
}

// Identity converts c into a control identity.
func (c ControlSpec) Identity() (ir.ControlIdentity, error) {
	var id ir.ControlIdentity
	for _, f := range []struct {
		name string
		v    any
		dst  *ir.Scalar
	}{
		{"strategy", c.Strategy, &id.Strategy},
		{"condition", c.Condition, &id.Condition},
		{"index", c.Index, &id.Index},
		{"value", c.Value, &id.Value},
		{"label", c.Label, &id.Label},
		{"raw", c.Raw, &id.Raw},
	} {
		s, err := toScalar(f.v)
		if err != nil {
			return ir.ControlIdentity{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = s
	}
	id.Type = c.Type
	id.Role = c.Role
	id.FieldType = c.FieldType
	id.Action = c.Action
	return id, nil
}

// RenderedControl is a control plus the label it starts with.
type RenderedControl struct {
	ControlSpec `yaml:",inline"`
	Initial     string `yaml:"initial_label,omitempty"`
}

// Step is one interaction. Exactly one of Click, Input and Trigger is set.
type Step struct {
	// Click clicks a handle, option or store button.
	Click *ControlSpec `yaml:"click,omitempty"`

	// Clicks is the click count reported with Click. Defaults to 1.
	Clicks *int `yaml:"clicks,omitempty"`

	// Input changes the value of a plain control to Value.
	Input *ControlSpec `yaml:"input,omitempty"`
	Value any          `yaml:"value,omitempty"`

	// Trigger delivers a raw host event.
	Trigger *TriggerSpec `yaml:"trigger,omitempty"`

	// Expect checks what the step did.
	Expect *StepExpect `yaml:"expect,omitempty"`
}

// TriggerSpec is a raw host event. Value holds JSON text.
type TriggerSpec struct {
	PropID string `yaml:"prop_id"`
	Value  string `yaml:"value,omitempty"`
}

// StepExpect checks one step's outcome.
type StepExpect struct {
	Passes       *int             `yaml:"passes,omitempty"`
	StoreUpdated *bool            `yaml:"store_updated,omitempty"`
	Decisions    []DecisionExpect `yaml:"decisions,omitempty"`
}

// DecisionExpect checks the decision of the first pass for Control in a
// step. Opened and Label require the slot to be set to that value;
// Unchanged lists slots ("opened", "label") that must be left alone.
type DecisionExpect struct {
	Control   string   `yaml:"control"`
	Opened    *bool    `yaml:"opened,omitempty"`
	Label     *string  `yaml:"label,omitempty"`
	Unchanged []string `yaml:"unchanged,omitempty"`
}

// Decision slot names accepted in DecisionExpect.Unchanged.
const (
	SlotOpened = "opened"
	SlotLabel  = "label"
)

func (d DecisionExpect) validate() error {
	if _, _, err := parseControlRef(d.Control); err != nil {
		return err
	}
	for _, slot := range d.Unchanged {
		switch {
		case slot == SlotOpened && d.Opened != nil, slot == SlotLabel && d.Label != nil:
			return fmt.Errorf("%s is both expected and unchanged", slot)
		case slot != SlotOpened && slot != SlotLabel:
			return fmt.Errorf("unknown slot %q in unchanged", slot)
		}
	}
	if d.Opened == nil && d.Label == nil && len(d.Unchanged) == 0 {
		return fmt.Errorf("opened, label or unchanged is required")
	}
	return nil
}

// Assertion checks the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Control is "type@scope_key" (control_state).
	Control string `yaml:"control,omitempty"`
	Opened  *bool  `yaml:"opened,omitempty"`
	Label   *string `yaml:"label,omitempty"`

	// Key and Field address a store value (store_value, store_missing).
	Key   string `yaml:"key,omitempty"`
	Field string `yaml:"field,omitempty"`
	Equal any    `yaml:"equals,omitempty"`

	// Keys is the exact set of store keys (store_keys).
	Keys []string `yaml:"keys,omitempty"`

	// Count is the total number of passes (pass_count).
	Count *int `yaml:"count,omitempty"`
}

// Assertion types.
const (
	AssertControlState = "control_state"
	AssertStoreValue   = "store_value"
	AssertStoreMissing = "store_missing"
	AssertStoreKeys    = "store_keys"
	AssertPassCount    = "pass_count"
)

// LoadScenario reads a scenario file. Unknown fields are rejected so that
// typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// LoadDir loads every *.yaml and *.yml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, c := range s.Controls {
		id, err := c.Identity()
		if err != nil {
			return fmt.Errorf("controls[%d]: %w", i, err)
		}
		if !id.Complete() {
			return fmt.Errorf("controls[%d]: strategy, condition, index and type are required", i)
		}
	}

	for i, st := range s.Steps {
		if err := validateStep(i, st); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, st Step) error {
	set := 0
	for _, present := range []bool{st.Click != nil, st.Input != nil, st.Trigger != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one of click, input or trigger is required", i)
	}
	if st.Trigger != nil && st.Trigger.PropID == "" {
		return fmt.Errorf("steps[%d]: trigger.prop_id is required", i)
	}
	if st.Trigger != nil && st.Trigger.Value != "" && !json.Valid([]byte(st.Trigger.Value)) {
		return fmt.Errorf("steps[%d]: trigger.value is not valid JSON", i)
	}
	for _, spec := range []*ControlSpec{st.Click, st.Input} {
		if spec == nil {
			continue
		}
		if _, err := spec.Identity(); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	if st.Expect != nil {
		for j, d := range st.Expect.Decisions {
			if err := d.validate(); err != nil {
				return fmt.Errorf("steps[%d].expect.decisions[%d]: %w", i, j, err)
			}
		}
	}
	return nil
}

func validateAssertion(i int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", i)
	case AssertControlState:
		if _, _, err := parseControlRef(a.Control); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
		if a.Opened == nil && a.Label == nil {
			return fmt.Errorf("assertions[%d]: opened or label is required for control_state", i)
		}
	case AssertStoreValue:
		if a.Key == "" || a.Field == "" {
			return fmt.Errorf("assertions[%d]: key and field are required for store_value", i)
		}
	case AssertStoreMissing:
		if a.Key == "" {
			return fmt.Errorf("assertions[%d]: key is required for store_missing", i)
		}
	case AssertStoreKeys:
		if a.Keys == nil {
			return fmt.Errorf("assertions[%d]: keys is required for store_keys", i)
		}
	case AssertPassCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for pass_count", i)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
	}
	return nil
}

// parseControlRef splits "type@scope_key".
func parseControlRef(ref string) (string, ir.ScopeKey, error) {
	typ, key, ok := strings.Cut(ref, "@")
	if !ok || typ == "" || key == "" {
		return "", "", fmt.Errorf("control %q must have the form type@strategy_condition_index", ref)
	}
	return typ, ir.ScopeKey(key), nil
}

// controlRef renders the "type@scope_key" form.
func controlRef(id ir.ControlIdentity) string {
	return id.Type + "@" + string(id.ScopeKey())
}

func (s *Scenario) strategies() ([]conditions.Strategy, error) {
	out := make([]conditions.Strategy, 0, len(s.Strategies))
	for i, v := range s.Strategies {
		id, err := toScalar(v)
		if err != nil {
			return nil, fmt.Errorf("strategies[%d]: %w", i, err)
		}
		out = append(out, conditions.Strategy{
			ID:         id,
			Name:       id.Text,
			Conditions: map[string]int{conditions.SideBuy: 1, conditions.SideSell: 1},
		})
	}
	return out, nil
}

func (s *Scenario) initialStore() (conditions.Store, error) {
	if s.Store == nil {
		return conditions.ClearAll(), nil
	}
	store := make(conditions.Store, len(s.Store))
	for key, fields := range s.Store {
		e := make(conditions.Entry, len(fields))
		for name, v := range fields {
			sc, err := toScalar(v)
			if err != nil {
				return nil, fmt.Errorf("store[%s].%s: %w", key, name, err)
			}
			if sc.IsZero() {
				sc = ir.Null()
			}
			e[name] = sc
		}
		store[ir.ScopeKey(key)] = e
	}
	return store, nil
}

// toScalar converts a decoded YAML value. nil becomes an absent scalar.
func toScalar(v any) (ir.Scalar, error) {
	switch x := v.(type) {
	case nil:
		return ir.Scalar{}, nil
	case string:
		return ir.String(x), nil
	case bool:
		return ir.Bool(x), nil
	case int:
		return ir.Int(int64(x)), nil
	case int64:
		return ir.Int(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return ir.Scalar{}, fmt.Errorf("integer %d out of range", x)
		}
		return ir.Int(int64(x)), nil
	case float64:
		var s ir.Scalar
		if err := json.Unmarshal([]byte(strconv.FormatFloat(x, 'f', -1, 64)), &s); err != nil {
			return ir.Scalar{}, err
		}
		return s, nil
	default:
		return ir.Scalar{}, fmt.Errorf("unsupported value %v (%T): only scalars are allowed", v, v)
	}
}
