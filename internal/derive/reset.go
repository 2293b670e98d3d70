package derive

import (
	"fmt"
	"slices"
	"time"

	"github.com/roach88/stratui/internal/ir"
)

// DateLayout is the date format used by the form's date pickers.
const DateLayout = "2006-01-02"

// ResetDefaults are the values the form returns to. The end date is always
// today and is not configurable.
type ResetDefaults struct {
	Symbol     string   `json:"symbol"`
	StartDate  string   `json:"start_date"`
	Interval   string   `json:"interval"`
	Indicators []string `json:"indicators"`
}

// DefaultResetDefaults returns the dashboard's stock defaults.
func DefaultResetDefaults() ResetDefaults {
	return ResetDefaults{
		Symbol:     "AAPLXUSDT",
		StartDate:  "2022-01-01",
		Interval:   "720",
		Indicators: []string{},
	}
}

// FormReset is one output slot per form field.
type FormReset struct {
	Symbol     ir.Slot[string]   `json:"symbol,omitzero"`
	StartDate  ir.Slot[string]   `json:"start_date,omitzero"`
	EndDate    ir.Slot[string]   `json:"end_date,omitzero"`
	Interval   ir.Slot[string]   `json:"interval,omitzero"`
	Indicators ir.Slot[[]string] `json:"indicators,omitzero"`
}

// IsNoChange reports whether every slot is unchanged.
func (f FormReset) IsNoChange() bool {
	return !f.Symbol.IsSet() && !f.StartDate.IsSet() && !f.EndDate.IsSet() &&
		!f.Interval.IsSet() && !f.Indicators.IsSet()
}

func (f FormReset) String() string {
	return fmt.Sprintf("symbol=%s start=%s end=%s interval=%s indicators=%s",
		f.Symbol, f.StartDate, f.EndDate, f.Interval, f.Indicators)
}

// Resetter restores the form fields to their defaults.
type Resetter struct {
	defaults ResetDefaults
	now      func() time.Time
}

// ResetterOption configures a Resetter.
type ResetterOption func(*Resetter)

// WithDefaults overrides the stock defaults.
func WithDefaults(d ResetDefaults) ResetterOption {
	return func(r *Resetter) {
		r.defaults = d
	}
}

// WithNow sets the clock used for the end date.
func WithNow(now func() time.Time) ResetterOption {
	return func(r *Resetter) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResetter creates a Resetter using the wall clock.
func NewResetter(opts ...ResetterOption) *Resetter {
	r := &Resetter{
		defaults: DefaultResetDefaults(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reset returns the defaults for any non-zero click count. Zero (the
// initial render) leaves every field unchanged.
func (r *Resetter) Reset(clicks int64) FormReset {
	if clicks == 0 {
		return FormReset{}
	}

	indicators := slices.Clone(r.defaults.Indicators)
	if indicators == nil {
		indicators = []string{}
	}

	return FormReset{
		Symbol:     ir.Set(r.defaults.Symbol),
		StartDate:  ir.Set(r.defaults.StartDate),
		EndDate:    ir.Set(r.now().UTC().Format(DateLayout)),
		Interval:   ir.Set(r.defaults.Interval),
		Indicators: ir.Set(indicators),
	}
}
