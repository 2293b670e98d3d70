package journal

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/stratui/internal/ir"
	"github.com/roach88/stratui/internal/resolver"
)

func createTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

// createTestPass resolves an option click on the 1_buy_0 column dropdown and
// records it as a pass.
func createTestPass(t *testing.T, id, session string, seq int64, store ir.LabelSnapshot) Pass {
	t.Helper()
	control := ir.ControlIdentity{Strategy: ir.Int(1), Condition: ir.String("buy"), Index: ir.Int(0), Type: ir.TypeColumnDropdown}
	option := ir.ControlIdentity{
		Strategy: ir.Int(1), Condition: ir.String("buy"), Index: ir.Int(0),
		Type: ir.TypeOptionButton, FieldType: ir.TypeColumnDropdown,
		Value: ir.String("close"), Label: ir.String("Close Price"),
	}
	propID, err := option.PropID("n_clicks")
	require.NoError(t, err)
	trigger := ir.NewTriggerContext(propID, json.RawMessage(`1`))

	d, trace := resolver.New().ResolveWithTrace(trigger, &control, store, "Select column")
	return Pass{
		ID:           id,
		Session:      session,
		Seq:          seq,
		Control:      control,
		Trigger:      trigger,
		Store:        store,
		CurrentLabel: "Select column",
		Decision:     d,
		Trace:        trace,
	}
}
