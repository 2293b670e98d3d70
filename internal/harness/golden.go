package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stratui/internal/conditions"
	"github.com/roach88/stratui/internal/ir"
)

// Snapshot is the golden form of a run: every pass with its decision and
// the stages it went through, then the final controls and store.
type Snapshot struct {
	Scenario string            `json:"scenario"`
	Passes   []PassSnapshot    `json:"passes"`
	Controls []ControlSnapshot `json:"controls"`
	Store    conditions.Store  `json:"store"`
}

// PassSnapshot is one pass in a Snapshot. Steps are "stage:outcome".
type PassSnapshot struct {
	Seq      int64       `json:"seq"`
	Control  string      `json:"control"`
	Decision ir.Decision `json:"decision"`
	Steps    []string    `json:"steps"`
}

// ControlSnapshot is a control's final state.
type ControlSnapshot struct {
	Control string `json:"control"`
	Opened  bool   `json:"opened"`
	Label   string `json:"label"`
}

// NewSnapshot builds the golden form of result.
func NewSnapshot(name string, result *Result) Snapshot {
	snap := Snapshot{
		Scenario: name,
		Passes:   make([]PassSnapshot, 0, len(result.Passes)),
		Controls: make([]ControlSnapshot, 0, len(result.Controls)),
		Store:    result.Store,
	}
	for _, p := range result.Passes {
		steps := make([]string, len(p.Trace))
		for i, st := range p.Trace {
			steps[i] = string(st.Stage) + ":" + st.Outcome
		}
		snap.Passes = append(snap.Passes, PassSnapshot{
			Seq:      p.Seq,
			Control:  controlRef(p.Control),
			Decision: p.Decision,
			Steps:    steps,
		})
	}
	for _, c := range result.Controls {
		snap.Controls = append(snap.Controls, ControlSnapshot{
			Control: controlRef(c.ID),
			Opened:  c.Opened,
			Label:   c.Label,
		})
	}
	return snap
}

// RunWithGolden runs scenario, requires it to pass and compares its
// canonical snapshot with testdata/golden/<name>.golden.
//
// Update golden files with: go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err, "scenario execution failed")
	require.True(t, result.Pass, "scenario %s failed: %v", scenario.Name, result.Errors)

	AssertGolden(t, scenario.Name, result)
	return result
}

// AssertGolden compares result's snapshot with the golden file for name.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	data, err := ir.MarshalCanonical(NewSnapshot(name, result))
	require.NoError(t, err, "failed to marshal snapshot")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
