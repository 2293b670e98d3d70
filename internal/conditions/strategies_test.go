package conditions

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stratui/internal/ir"
)

func assertStrategies(t *testing.T, want, got []Strategy) {
	t.Helper()
	if diff := cmp.Diff(want, got, scalarComparer()); diff != "" {
		t.Errorf("strategies mismatch (-want +got):\n%s", diff)
	}
}

func plainClick(id string) ir.TriggeredEvent {
	return ir.TriggeredEvent{PropID: id + ".n_clicks", Value: json.RawMessage("1")}
}

func TestDefaultStrategies(t *testing.T) {
	assertStrategies(t, []Strategy{{
		ID:         ir.Int(1),
		Name:       "1",
		Conditions: map[string]int{SideBuy: 1, SideSell: 1},
	}}, DefaultStrategies())
}

func TestReduceStrategies_AddAndRemove(t *testing.T) {
	list := []Strategy{NewStrategy(1), NewStrategy(3)}

	added, ok := ReduceStrategies(list, plainClick(AddStrategyID))
	require.True(t, ok)
	assertStrategies(t, []Strategy{NewStrategy(1), NewStrategy(3), NewStrategy(4)}, added)
	assert.Len(t, list, 2, "input is not modified")

	removed, ok := ReduceStrategies(added, plainClick(RemoveStrategyID))
	require.True(t, ok)
	assertStrategies(t, []Strategy{NewStrategy(1), NewStrategy(3)}, removed)
}

func TestReduceStrategies_RemoveDropsLargestID(t *testing.T) {
	list := []Strategy{NewStrategy(4), NewStrategy(2)}

	got, ok := ReduceStrategies(list, plainClick(RemoveStrategyID))
	require.True(t, ok)
	assertStrategies(t, []Strategy{NewStrategy(2)}, got)
}

func TestReduceStrategies_EmptyListStartsFromDefault(t *testing.T) {
	got, ok := ReduceStrategies(nil, plainClick(AddStrategyID))
	require.True(t, ok)
	assertStrategies(t, []Strategy{NewStrategy(1), NewStrategy(2)}, got)
}

func TestReduceStrategies_ClearAll(t *testing.T) {
	list := []Strategy{NewStrategy(1), NewStrategy(2)}
	id := ir.ControlIdentity{Type: ir.TypeClearAllConditions}

	got, ok := ReduceStrategies(list, event(t, id, "n_clicks", "1"))
	require.True(t, ok)
	assertStrategies(t, DefaultStrategies(), got)
}

func TestReduceStrategies_ModifyCondition(t *testing.T) {
	tests := []struct {
		name   string
		start  map[string]int
		action string
		want   map[string]int
	}{
		{name: "add", start: map[string]int{SideBuy: 2, SideSell: 1}, action: ActionAdd, want: map[string]int{SideBuy: 3, SideSell: 1}},
		{name: "remove", start: map[string]int{SideBuy: 2, SideSell: 1}, action: ActionRemove, want: map[string]int{SideBuy: 1, SideSell: 1}},
		{name: "remove keeps one row", start: map[string]int{SideBuy: 1, SideSell: 1}, action: ActionRemove, want: map[string]int{SideBuy: 1, SideSell: 1}},
		{name: "clear", start: map[string]int{SideBuy: 5, SideSell: 2}, action: ActionClear, want: map[string]int{SideBuy: 1, SideSell: 2}},
		{name: "missing side starts at one", start: map[string]int{SideSell: 1}, action: ActionAdd, want: map[string]int{SideBuy: 2, SideSell: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := []Strategy{{ID: ir.Int(1), Name: "1", Conditions: tt.start}}
			id := ir.ControlIdentity{
				Type:      ir.TypeModifyCondition,
				Strategy:  ir.String("1"),
				Condition: ir.String(SideBuy),
				Action:    tt.action,
			}

			got, ok := ReduceStrategies(list, event(t, id, "n_clicks", "1"))
			require.True(t, ok)
			assert.Equal(t, tt.want, got[0].Conditions)
		})
	}
}

func TestReduceStrategies_ModifyUnknownStrategy(t *testing.T) {
	list := DefaultStrategies()
	id := ir.ControlIdentity{
		Type:      ir.TypeModifyCondition,
		Strategy:  ir.Int(9),
		Condition: ir.String(SideBuy),
		Action:    ActionAdd,
	}

	_, ok := ReduceStrategies(list, event(t, id, "n_clicks", "1"))
	assert.False(t, ok)
}

func TestReduceStrategies_Rename(t *testing.T) {
	list := []Strategy{NewStrategy(1), NewStrategy(2)}
	id := ir.ControlIdentity{Type: ir.TypeStrategyNameInput, Strategy: ir.Int(2)}

	got, ok := ReduceStrategies(list, event(t, id, "value", `"Breakout"`))
	require.True(t, ok)
	assert.Equal(t, "1", got[0].Name)
	assert.Equal(t, "Breakout", got[1].Name)

	got, ok = ReduceStrategies(list, event(t, id, "value", "null"))
	require.True(t, ok)
	assert.Equal(t, "2", got[1].Name, "null keeps the name")
}

func TestReduceStrategies_IgnoredEvents(t *testing.T) {
	list := DefaultStrategies()
	option := ir.ControlIdentity{
		Strategy: ir.Int(1), Condition: ir.String(SideBuy), Index: ir.Int(0),
		Type: ir.TypeOptionButton, FieldType: ir.TypeColumnDropdown,
	}

	tests := []struct {
		name  string
		event ir.TriggeredEvent
	}{
		{name: "empty prop_id", event: ir.TriggeredEvent{}},
		{name: "store change", event: ir.TriggeredEvent{PropID: "conditions_store_inputs.data", Value: json.RawMessage("{}")}},
		{name: "option button", event: event(t, option, "n_clicks", "1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ReduceStrategies(list, tt.event)
			assert.False(t, ok)
			assertStrategies(t, list, got)
		})
	}
}

func TestReduceStrategies_RemoveThenPrune(t *testing.T) {
	s := Store{"1_buy_0": {}, "2_buy_0": {FieldColumn: ir.String("close")}}

	list, ok := ReduceStrategies([]Strategy{NewStrategy(1), NewStrategy(2)}, plainClick(RemoveStrategyID))
	require.True(t, ok)

	next, updated := Reduce(s, plainClick(RemoveStrategyID), nil, list)
	require.True(t, updated)
	assertStore(t, Store{"1_buy_0": {}}, next)
}
