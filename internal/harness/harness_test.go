package harness

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stratui/internal/resolver"
)

func TestScenarios_Golden(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			RunWithGolden(t, s)
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/option_commits_label.yaml")
	require.NoError(t, err)

	first, err := Run(context.Background(), s)
	require.NoError(t, err)
	second, err := Run(context.Background(), s)
	require.NoError(t, err)

	require.Len(t, second.Passes, len(first.Passes))
	for i := range first.Passes {
		assert.Equal(t, first.Passes[i].ID, second.Passes[i].ID)
		assert.Equal(t, first.Passes[i].Decision, second.Passes[i].Decision)
	}
	assert.Equal(t, "test-session-default-000001", first.Passes[0].ID)
}

func TestRun_SessionToken(t *testing.T) {
	s := mustParse(t, `
name: token
description: named session
session: demo
controls:
  - {strategy: 1, condition: buy, index: 0, type: column_dropdown}
steps:
  - click: {strategy: 1, condition: buy, index: 0, type: column_dropdown, role: input}
`)
	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, result.Passes, 1)
	assert.Equal(t, "demo-000001", result.Passes[0].ID)
}

func TestRun_FailedExpectationsAreReported(t *testing.T) {
	s := mustParse(t, `
name: wrong
description: every expectation is wrong
controls:
  - {strategy: 1, condition: buy, index: 0, type: column_dropdown, initial_label: Pick}
steps:
  - click: {strategy: 1, condition: buy, index: 0, type: column_dropdown, role: input}
    expect:
      passes: 2
      store_updated: true
      decisions:
        - {control: column_dropdown@1_buy_0, opened: false}
        - {control: column_dropdown@9_buy_0, opened: true}
assertions:
  - {type: control_state, control: column_dropdown@1_buy_0, label: Other}
  - {type: pass_count, count: 7}
`)
	result, err := Run(context.Background(), s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 6)
	assert.Contains(t, result.Errors[0], "expected 2 passes, got 1")
	assert.Contains(t, result.Errors[3], "no pass for column_dropdown@9_buy_0")
}

func TestRun_CustomResolver(t *testing.T) {
	s := mustParse(t, `
name: custom
description: a catalog without column_dropdown ignores its committed label
store:
  1_buy_0: {column_label: Volume}
controls:
  - {strategy: 1, condition: buy, index: 0, type: column_dropdown, initial_label: Pick}
steps:
  - click: {strategy: 1, condition: buy, index: 0, type: column_dropdown, role: input}
assertions:
  - {type: control_state, control: column_dropdown@1_buy_0, opened: true, label: Pick}
`)
	r := resolver.New(resolver.WithCatalog(resolver.Catalog{}))
	result, err := RunWithOptions(context.Background(), s, Options{Resolver: r})
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)

	def, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, def.Pass)
}

func TestRun_DuplicateControl(t *testing.T) {
	s := mustParse(t, `
name: dup
description: the same control rendered twice
controls:
  - {strategy: 1, condition: buy, index: 0, type: column_dropdown}
  - {strategy: "1", condition: buy, index: 0, type: column_dropdown}
steps:
  - trigger: {prop_id: strategies_store.data}
`)
	_, err := Run(context.Background(), s)
	assert.ErrorContains(t, err, "controls[1]")
}

func TestRun_CanceledContext(t *testing.T) {
	s := mustParse(t, `
name: canceled
description: dispatch refuses a canceled context
steps:
  - trigger: {prop_id: strategies_store.data, value: "[1]"}
`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
}

func mustParse(t *testing.T, doc string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(doc))
	require.NoError(t, err)
	return s
}

func TestRun_LabelNamedUnchanged(t *testing.T) {
	const doc = `
name: literal
description: an option whose label is the word unchanged
strategies: [1]
controls:
  - {strategy: 1, condition: buy, index: 0, type: column_dropdown, initial_label: Pick}
steps:
  - click: {type: option-btn, strategy: 1, condition: buy, index: 0,
            field_type: column_dropdown, value: u, label: unchanged}
    expect:
      decisions:
        - {control: column_dropdown@1_buy_0, %s}
`
	set := mustParse(t, fmt.Sprintf(doc, "label: unchanged"))
	result, err := Run(context.Background(), set)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)

	untouched := mustParse(t, fmt.Sprintf(doc, "unchanged: [label]"))
	result, err = Run(context.Background(), untouched)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "label: expected unchanged")
}
