package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stratui/internal/derive"
	"github.com/roach88/stratui/internal/ir"
	"github.com/roach88/stratui/internal/resolver"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, resolver.DefaultCatalog(), cfg.Catalog)
	assert.Equal(t, derive.DefaultResetDefaults(), cfg.Reset)
	assert.Equal(t, "", cfg.Journal.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadBytes("user.cue", []byte(`
		catalog: {
			column_dropdown: "column_or_custom_label"
			custom_input:    "column_or_custom_label"
		}
		reset: {
			symbol:     "BTCUSDT"
			start_date: "2023-06-01"
			indicators: ["RSI", "MACD"]
		}
		journal: path: "passes.db"
		log: level: "debug"
	`))
	require.NoError(t, err)

	assert.Equal(t, ir.LabelColumnOrCustom, cfg.Catalog[ir.TypeColumnDropdown])
	assert.Equal(t, ir.LabelColumnOrCustom, cfg.Catalog[ir.TypeCustomInput])
	assert.Equal(t, ir.LabelComparisonOperator, cfg.Catalog[ir.TypeComparisonOperator])
	assert.Equal(t, derive.ResetDefaults{
		Symbol:     "BTCUSDT",
		StartDate:  "2023-06-01",
		Interval:   "720",
		Indicators: []string{"RSI", "MACD"},
	}, cfg.Reset)
	assert.Equal(t, "passes.db", cfg.Journal.Path)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stratui.cue")
	require.NoError(t, os.WriteFile(path, []byte(`reset: interval: "60"`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "60", cfg.Reset.Interval)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"bad date", `reset: start_date: "01/01/2022"`},
		{"bad interval", `reset: interval: "12h"`},
		{"unknown label field", `catalog: column_dropdown: "column_raw"`},
		{"unknown log level", `log: level: "trace"`},
		{"syntax error", `reset: {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes("user.cue", []byte(tt.source))
			require.Error(t, err)
		})
	}
}

func TestConfigErrorPosition(t *testing.T) {
	_, err := LoadBytes("user.cue", []byte("log: level: \"trace\"\n"))
	require.Error(t, err)

	var cfgErr *ConfigError
	if assert.ErrorAs(t, err, &cfgErr) {
		assert.True(t, cfgErr.Pos.IsValid())
		assert.Contains(t, err.Error(), ".cue:")
	}
}

func TestConfigErrorWithoutPosition(t *testing.T) {
	err := &ConfigError{Field: "reset.symbol", Message: "missing"}
	assert.Equal(t, "reset.symbol: missing", err.Error())
}
