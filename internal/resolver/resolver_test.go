package resolver

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stratui/internal/ir"
)

func handle(strategy, condition, index ir.Scalar, typ string) ir.ControlIdentity {
	return ir.ControlIdentity{Strategy: strategy, Condition: condition, Index: index, Type: typ}
}

func propID(t *testing.T, id ir.ControlIdentity, property string) string {
	t.Helper()
	p, err := id.PropID(property)
	require.NoError(t, err)
	return p
}

func clickOn(t *testing.T, id ir.ControlIdentity, clicks int) ir.TriggerContext {
	t.Helper()
	return ir.NewTriggerContext(propID(t, id, "n_clicks"), json.RawMessage(strconv.Itoa(clicks)))
}

func option(strategy, condition, index ir.Scalar, fieldType, label string) ir.ControlIdentity {
	return ir.ControlIdentity{
		Strategy:  strategy,
		Condition: condition,
		Index:     index,
		Type:      ir.TypeOptionButton,
		FieldType: fieldType,
		Value:     ir.String(label),
		Label:     ir.String(label),
	}
}

func TestResolveAbsentIdentity(t *testing.T) {
	self := handle(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown)
	trigger := clickOn(t, ir.ControlIdentity{Strategy: ir.Int(1), Condition: ir.String("buy"), Index: ir.Int(0), Type: ir.TypeColumnDropdown, Role: ir.RoleInput}, 3)
	store := ir.LabelSnapshot{self.ScopeKey(): {ColumnLabel: ir.String("Volume")}}

	d := Resolve(trigger, nil, store, "Open")
	assert.True(t, d.IsNoChange())

	d = Resolve(trigger, &ir.ControlIdentity{Type: ir.TypeColumnDropdown}, store, "Open")
	assert.True(t, d.IsNoChange(), "identity without scope is treated as absent")

	d = Resolve(trigger, &ir.ControlIdentity{Strategy: ir.Int(1), Condition: ir.String("buy"), Index: ir.Null(), Type: ir.TypeColumnDropdown}, store, "Open")
	assert.True(t, d.IsNoChange(), "null index is treated as absent")
}

func TestResolveHandleClickOpens(t *testing.T) {
	self := handle(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown)
	input := self
	input.Role = ir.RoleInput

	d := Resolve(clickOn(t, input, 1), &self, ir.LabelSnapshot{}, "Select column")

	opened, ok := d.Opened.Get()
	require.True(t, ok)
	assert.True(t, opened)
	assert.False(t, d.Label.IsSet())
}

func TestResolveHandleWithoutClicksIsIdle(t *testing.T) {
	self := handle(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown)
	input := self
	input.Role = ir.RoleInput

	for _, raw := range []string{`0`, `null`, `""`, `"abc"`, `-2`} {
		d := Resolve(ir.NewTriggerContext(propID(t, input, "n_clicks"), json.RawMessage(raw)), &self, nil, "")
		assert.True(t, d.IsNoChange(), "value %s", raw)
	}
}

func TestResolveOptionChosen(t *testing.T) {
	self := handle(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown)
	opt := option(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown, "Close Price")

	d := Resolve(clickOn(t, opt, 1), &self, ir.LabelSnapshot{}, "Select column")

	assert.Equal(t, ir.Decision{Opened: ir.Set(false), Label: ir.Set("Close Price")}, d)
}

func TestResolveStoreOverridesOptionLabel(t *testing.T) {
	self := handle(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown)
	opt := option(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown, "Close Price")
	store := ir.LabelSnapshot{"1_buy_0": {ColumnLabel: ir.String("Volume")}}

	d := Resolve(clickOn(t, opt, 1), &self, store, "Select column")

	assert.Equal(t, ir.Decision{Opened: ir.Set(false), Label: ir.Set("Volume")}, d)
}

func TestResolveOptionWithoutLabelKeepsCurrent(t *testing.T) {
	self := handle(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeComparisonOperator)
	opt := option(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeComparisonOperator, "")
	opt.Label = ir.Scalar{}

	d := Resolve(clickOn(t, opt, 1), &self, nil, ">=")

	assert.Equal(t, ir.Decision{Opened: ir.Set(false), Label: ir.Set(">=")}, d)
}

func TestResolveScopeNormalization(t *testing.T) {
	self := handle(ir.String("2"), ir.String("sell"), ir.Int(3), ir.TypeColumnOrCustomDropdown)
	opt := option(ir.Int(2), ir.String("sell"), ir.String("3"), ir.TypeColumnOrCustomDropdown, "RSI")

	d := Resolve(clickOn(t, opt, 1), &self, nil, "")
	assert.Equal(t, ir.Decision{Opened: ir.Set(false), Label: ir.Set("RSI")}, d)
}

func TestResolveOptionOtherScope(t *testing.T) {
	self := handle(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown)

	tests := []struct {
		name string
		opt  ir.ControlIdentity
	}{
		{"other strategy", option(ir.Int(2), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown, "Close")},
		{"other condition", option(ir.Int(1), ir.String("sell"), ir.Int(0), ir.TypeColumnDropdown, "Close")},
		{"other index", option(ir.Int(1), ir.String("buy"), ir.Int(1), ir.TypeColumnDropdown, "Close")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Resolve(clickOn(t, tt.opt, 1), &self, nil, "Open")
			assert.True(t, d.IsNoChange())
		})
	}
}

func TestResolveUnrelatedTriggerStillAppliesStore(t *testing.T) {
	self := handle(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeComparisonOperator)
	store := ir.LabelSnapshot{"1_buy_0": {ComparisonOperatorLabel: ir.String("<")}}

	tests := []struct {
		name    string
		trigger ir.TriggerContext
	}{
		{"no trigger", ir.TriggerContext{}},
		{"plain string id", ir.NewTriggerContext("conditions_store_inputs.data", json.RawMessage(`{}`))},
		{"malformed json id", ir.NewTriggerContext(`{"strategy":1,.n_clicks`, json.RawMessage(`1`))},
		{"array id", ir.NewTriggerContext(`[1,2].n_clicks`, json.RawMessage(`1`))},
		{"empty prop id", ir.NewTriggerContext("", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Resolve(tt.trigger, &self, store, "=")
			assert.Equal(t, ir.Decision{Label: ir.Set("<")}, d)
		})
	}
}

func TestResolveStoreFieldSelectedByType(t *testing.T) {
	store := ir.LabelSnapshot{"1_buy_0": {
		ColumnLabel:             ir.String("Volume"),
		ComparisonOperatorLabel: ir.String(">"),
		ColumnOrCustomLabel:     ir.String("EMA"),
	}}

	tests := []struct {
		typ  string
		want ir.Slot[string]
	}{
		{ir.TypeColumnDropdown, ir.Set("Volume")},
		{ir.TypeComparisonOperator, ir.Set(">")},
		{ir.TypeColumnOrCustomDropdown, ir.Set("EMA")},
		{ir.TypeCustomInput, ir.Unchanged[string]()},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			self := handle(ir.String("1"), ir.String("buy"), ir.String("0"), tt.typ)
			d := Resolve(ir.TriggerContext{}, &self, store, "")
			if diff := cmp.Diff(tt.want.String(), d.Label.String()); diff != "" {
				t.Errorf("label mismatch (-want +got):\n%s", diff)
			}
			assert.False(t, d.Opened.IsSet())
		})
	}
}

func TestResolveFalsyCommittedLabelIgnored(t *testing.T) {
	self := handle(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown)
	opt := option(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown, "Close")

	for _, rec := range []ir.LabelRecord{
		{},
		{ColumnLabel: ir.Null()},
		{ColumnLabel: ir.String("")},
	} {
		d := Resolve(clickOn(t, opt, 1), &self, ir.LabelSnapshot{"1_buy_0": rec}, "")
		assert.Equal(t, ir.Decision{Opened: ir.Set(false), Label: ir.Set("Close")}, d)
	}
}

func TestResolveDoesNotMutateInputs(t *testing.T) {
	self := handle(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown)
	opt := option(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown, "Close")
	store := ir.LabelSnapshot{"1_buy_0": {ColumnLabel: ir.String("Volume")}}
	trigger := clickOn(t, opt, 1)

	selfBefore := self
	storeBefore := ir.LabelSnapshot{"1_buy_0": {ColumnLabel: ir.String("Volume")}}
	triggerBefore := clickOn(t, opt, 1)

	_ = Resolve(trigger, &self, store, "x")

	assert.Equal(t, selfBefore, self)
	assert.Equal(t, storeBefore, store)
	assert.Equal(t, triggerBefore, trigger)
}

func TestResolveWithCustomCatalog(t *testing.T) {
	r := New(WithCatalog(Catalog{ir.TypeCustomInput: ir.LabelColumnOrCustom}))
	store := ir.LabelSnapshot{"1_buy_0": {ColumnLabel: ir.String("Volume"), ColumnOrCustomLabel: ir.String("42")}}

	custom := handle(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeCustomInput)
	assert.Equal(t, ir.Set("42"), r.Resolve(ir.TriggerContext{}, &custom, store, "").Label)

	column := handle(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown)
	assert.False(t, r.Resolve(ir.TriggerContext{}, &column, store, "").Label.IsSet())
}

func TestWithCatalogCopies(t *testing.T) {
	c := Catalog{ir.TypeColumnDropdown: ir.LabelColumn}
	r := New(WithCatalog(c))
	c[ir.TypeCustomInput] = ir.LabelColumn

	_, ok := r.Catalog().Field(ir.TypeCustomInput)
	assert.False(t, ok)
}

func TestResolveWithTrace(t *testing.T) {
	self := handle(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown)
	opt := option(ir.Int(1), ir.String("buy"), ir.Int(0), ir.TypeColumnDropdown, "Close Price")
	store := ir.LabelSnapshot{"1_buy_0": {ColumnLabel: ir.String("Volume")}}

	d, trace := New().ResolveWithTrace(clickOn(t, opt, 1), &self, store, "")
	assert.Equal(t, ir.Decision{Opened: ir.Set(false), Label: ir.Set("Volume")}, d)

	outcomes := make([]string, len(trace))
	for i, s := range trace {
		outcomes[i] = string(s.Stage) + "/" + s.Outcome
	}
	assert.Equal(t, []string{
		"attribution/attributed",
		"trigger/option_chosen",
		"store/committed_label",
	}, outcomes)
	assert.Equal(t, "Volume", trace[2].Detail)
}

func TestResolveWithTraceMissingIdentity(t *testing.T) {
	d, trace := New().ResolveWithTrace(ir.TriggerContext{}, nil, nil, "")
	assert.True(t, d.IsNoChange())
	require.Len(t, trace, 1)
	assert.Equal(t, "identity: missing_identity", trace.String())
}

func TestResolveWithTraceStoreOutcomes(t *testing.T) {
	self := handle(ir.Int(4), ir.String("sell"), ir.Int(2), ir.TypeColumnDropdown)
	uncatalogued := handle(ir.Int(4), ir.String("sell"), ir.Int(2), ir.TypeCustomInput)
	r := New()

	tests := []struct {
		name  string
		self  ir.ControlIdentity
		store ir.LabelStore
		want  string
	}{
		{"nil store", self, nil, OutcomeNoStore},
		{"uncatalogued type", uncatalogued, ir.LabelSnapshot{}, OutcomeUncatalogued},
		{"missing key", self, ir.LabelSnapshot{"4_sell_1": {ColumnLabel: ir.String("x")}}, OutcomeNoEntry},
		{"empty record", self, ir.LabelSnapshot{"4_sell_2": {}}, OutcomeNoCommitted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, trace := r.ResolveWithTrace(ir.TriggerContext{}, &tt.self, tt.store, "")
			require.NotEmpty(t, trace)
			last := trace[len(trace)-1]
			assert.Equal(t, StageStore, last.Stage)
			assert.Equal(t, tt.want, last.Outcome)
		})
	}
}
