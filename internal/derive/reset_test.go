package derive

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stratui/internal/ir"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
}

func TestResetWithoutClicks(t *testing.T) {
	r := NewResetter(WithNow(fixedNow))

	got := r.Reset(0)
	assert.True(t, got.IsNoChange())
	assert.False(t, got.Symbol.IsSet())
	assert.False(t, got.EndDate.IsSet())
	assert.False(t, got.Indicators.IsSet())
}

func TestResetNegativeCountStillResets(t *testing.T) {
	r := NewResetter(WithNow(fixedNow))

	got := r.Reset(-1)
	assert.False(t, got.IsNoChange())
	assert.Equal(t, ir.Set("AAPLXUSDT"), got.Symbol)
	assert.Equal(t, ir.Set("2024-03-10"), got.EndDate)
}

func TestResetRestoresDefaults(t *testing.T) {
	r := NewResetter(WithNow(fixedNow))

	got := r.Reset(1)

	assert.Equal(t, ir.Set("AAPLXUSDT"), got.Symbol)
	assert.Equal(t, ir.Set("2022-01-01"), got.StartDate)
	assert.Equal(t, ir.Set("2024-03-10"), got.EndDate, "end date is today in UTC")
	assert.Equal(t, ir.Set("720"), got.Interval)
	assert.Equal(t, ir.Set([]string{}), got.Indicators)
}

func TestResetJSON(t *testing.T) {
	r := NewResetter(WithNow(fixedNow))

	data, err := json.Marshal(r.Reset(2))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"symbol": "AAPLXUSDT",
		"start_date": "2022-01-01",
		"end_date": "2024-03-10",
		"interval": "720",
		"indicators": []
	}`, string(data))

	data, err = json.Marshal(r.Reset(0))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestResetCustomDefaults(t *testing.T) {
	r := NewResetter(WithNow(fixedNow), WithDefaults(ResetDefaults{
		Symbol:     "BTCUSDT",
		StartDate:  "2023-06-01",
		Interval:   "60",
		Indicators: []string{"RSI"},
	}))

	got := r.Reset(1)
	assert.Equal(t, ir.Set("BTCUSDT"), got.Symbol)
	assert.Equal(t, ir.Set([]string{"RSI"}), got.Indicators)

	ind, _ := got.Indicators.Get()
	ind[0] = "MACD"
	again, _ := r.Reset(1).Indicators.Get()
	assert.Equal(t, []string{"RSI"}, again, "defaults are copied per reset")
}
