package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSelection(t *testing.T) {
	stdout, _, code := run(t, "derive", "selection")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "display: none\n", stdout)

	stdout, _, code = run(t, "derive", "selection", "rsi")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "display: block\n", stdout)
}

func TestDeriveRemoveStrategy(t *testing.T) {
	stdout, _, code := run(t, "derive", "remove-strategy")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "display: none\n", stdout)

	stdout, _, code = run(t, "derive", "remove-strategy", "--strategies", "2")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "display: block\n", stdout)
}

func TestDeriveReadiness(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--ready", "--children", "2"}, "block"},
		{[]string{"--ready"}, "none"},
		{[]string{"--children", "2"}, "none"},
	}
	for _, tt := range tests {
		args := append([]string{"derive", "readiness", "--format", "json"}, tt.args...)
		stdout, _, code := run(t, args...)
		require.Equal(t, ExitSuccess, code)

		var style struct {
			Display string `json:"display"`
		}
		decodeData(t, stdout, &style)
		assert.Equal(t, tt.want, style.Display, "%v", tt.args)
	}
}

func TestDeriveReset_ZeroClicks(t *testing.T) {
	stdout, _, code := run(t, "derive", "reset", "--clicks", "0", "--format", "json")
	require.Equal(t, ExitSuccess, code)

	var data map[string]any
	decodeData(t, stdout, &data)
	assert.Empty(t, data)
}

func TestDeriveReset_UsesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stratui.cue")
	require.NoError(t, os.WriteFile(path, []byte(`reset: symbol: "ETHUSDT"`), 0o600))

	stdout, _, code := run(t, "derive", "reset", "--config", path, "--format", "json")
	require.Equal(t, ExitSuccess, code)

	var data map[string]any
	decodeData(t, stdout, &data)
	assert.Equal(t, "ETHUSDT", data["symbol"])
	assert.Equal(t, "2022-01-01", data["start_date"])
	assert.Equal(t, "720", data["interval"])
	assert.Equal(t, []any{}, data["indicators"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, data["end_date"])
}
