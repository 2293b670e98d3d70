package conditions

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/stratui/internal/ir"
)

// Option is one choice offered by a popover's option list.
type Option struct {
	Value   ir.Scalar `json:"value,omitzero"`
	Label   string    `json:"label,omitempty"`
	Display string    `json:"display,omitempty"`
	Raw     string    `json:"raw,omitempty"`
	Tooltip string    `json:"tooltip,omitempty"`
	Plain   bool      `json:"is_plain,omitempty"`
}

// OptionsPayload is the option source of one popover: the raw options and
// the indicator parameters their tooltips are built from.
type OptionsPayload struct {
	Data        []Option       `json:"data,omitempty"`
	ParamSource map[string]any `json:"param_source,omitempty"`
}

// OptionButton is one rendered option. ID is the identity the button
// reports when clicked; CommitOption accepts it as is.
type OptionButton struct {
	ID       ir.ControlIdentity `json:"id"`
	Text     string             `json:"text"`
	Tooltip  string             `json:"tooltip,omitempty"`
	Selected bool               `json:"selected"`
}

// ComparisonOperators are the options of every comparison_operator popover.
var ComparisonOperators = []Option{
	{Value: ir.String(">"), Label: ">", Tooltip: "Greater than"},
	{Value: ir.String(">="), Label: ">=", Tooltip: "Greater than or equal to"},
	{Value: ir.String("<"), Label: "<", Tooltip: "Less than"},
	{Value: ir.String("<="), Label: "<=", Tooltip: "Less than or equal to"},
	{Value: ir.String("="), Label: "=", Tooltip: "Equal to"},
}

// OHLCVColumns are the price columns offered next to indicator columns.
var OHLCVColumns = []string{"Open", "High", "Low", "Close", "Volume"}

// CustomValue is the value of the option that switches a row to a custom
// number.
const CustomValue = "custom"

// indicatorRaw matches raw indicator columns: NAME__INSTANCE__COLUMN.
var indicatorRaw = regexp.MustCompile(`^([A-Za-z0-9]+)__([0-9]+)__(.+)`)

// TemplateOptions normalizes raw options. Value falls back to raw. Indicator
// columns get a "NAME INSTANCE COLUMN" label and a tooltip listing the
// instance's parameters; other options keep their label and tooltip.
func TemplateOptions(src []Option, params map[string]any) []Option {
	out := make([]Option, 0, len(src))
	for _, opt := range src {
		value := opt.Value
		if !value.Truthy() {
			value = ir.String(opt.Raw)
		}

		next := Option{Value: value, Label: opt.Label, Raw: opt.Raw, Tooltip: opt.Tooltip, Plain: opt.Plain}
		if next.Label == "" {
			next.Label = value.Text
		}
		if m := indicatorRaw.FindStringSubmatch(opt.Raw); m != nil {
			next.Label = m[1] + " " + m[2] + " " + m[3]
			next.Tooltip = indicatorTooltip(m[1], m[2], params)
		}
		out = append(out, next)
	}
	return out
}

// indicatorTooltip renders "NAME (p1=v1, p2=v2)" from the parameters of one
// indicator instance, or just NAME when it has none set.
func indicatorTooltip(name, instance string, params map[string]any) string {
	prefix := name + "__" + instance + "__"
	var parts []string
	for _, k := range slices.Sorted(maps.Keys(params)) {
		v := params[k]
		if !strings.HasPrefix(k, prefix) || v == nil || v == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", strings.TrimPrefix(k, prefix), v))
	}
	if len(parts) == 0 {
		return name
	}
	return name + " (" + strings.Join(parts, ", ") + ")"
}

// Options renders the option list of control filtered by query and marks the
// option committed in its row as selected.
//
// Comparison operator popovers always list ComparisonOperators. Other
// popovers list the templated payload; an empty payload lists nothing.
// Query matches case-insensitively anywhere in an option's label.
func Options(store Store, control ir.ControlIdentity, query string, payload OptionsPayload) []OptionButton {
	var src []Option
	if control.Type == ir.TypeComparisonOperator {
		src = ComparisonOperators
	} else {
		if len(payload.Data) == 0 {
			return []OptionButton{}
		}
		src = TemplateOptions(payload.Data, payload.ParamSource)
	}

	query = strings.ToLower(strings.TrimSpace(norm.NFC.String(query)))
	selected := selectedValue(store, control)

	out := make([]OptionButton, 0, len(src))
	for _, opt := range src {
		if query != "" && !strings.Contains(strings.ToLower(norm.NFC.String(opt.Label)), query) {
			continue
		}

		text := opt.Display
		if text == "" {
			text = opt.Label
		}
		tooltip := ""
		if !opt.Plain {
			tooltip = opt.Tooltip
			if tooltip == "" {
				tooltip = text
			}
		}

		out = append(out, OptionButton{
			ID:       optionIdentity(control, opt, text),
			Text:     text,
			Tooltip:  tooltip,
			Selected: isSelected(opt, selected),
		})
	}
	return out
}

func optionIdentity(control ir.ControlIdentity, opt Option, text string) ir.ControlIdentity {
	label := ir.Null()
	if text != "" {
		label = ir.String(text)
	}

	raw := opt.Raw
	if raw == "" && opt.Value.Truthy() {
		raw = opt.Value.Text
	}

	return ir.ControlIdentity{
		Strategy:  control.Strategy,
		Condition: control.Condition,
		Index:     control.Index,
		Type:      ir.TypeOptionButton,
		FieldType: control.Type,
		Value:     nullIfAbsent(opt.Value),
		Label:     label,
		Raw:       ir.String(raw),
	}
}

// selectedValue reads the committed choice of control's row: the raw column
// for column popovers and the operator value for comparison popovers.
func selectedValue(store Store, control ir.ControlIdentity) ir.Scalar {
	e := store[control.ScopeKey()]
	switch control.Type {
	case ir.TypeColumnDropdown:
		return e[FieldColumnRaw]
	case ir.TypeColumnOrCustomDropdown:
		return e[FieldColumnOrCustomRaw]
	case ir.TypeComparisonOperator:
		return e[FieldComparisonOperator]
	}
	return ir.Scalar{}
}

// isSelected matches fixed choices (operators, OHLCV columns, custom) by
// value and indicator columns by raw.
func isSelected(opt Option, selected ir.Scalar) bool {
	if selected.Kind != ir.KindString {
		return false
	}
	if isFixedChoice(selected.Text) {
		return opt.Value.Equal(selected)
	}
	if strings.Contains(selected.Text, "_") {
		return opt.Raw == selected.Text
	}
	return false
}

func isFixedChoice(v string) bool {
	if v == CustomValue || slices.Contains(OHLCVColumns, v) {
		return true
	}
	return slices.ContainsFunc(ComparisonOperators, func(o Option) bool { return o.Value.Text == v })
}
