package harness

import (
	"fmt"
	"slices"

	"github.com/roach88/stratui/internal/ir"
)

// AssertionError describes a failed assertion.
type AssertionError struct {
	Type     string
	Expected any
	Actual   any
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s failed: expected %v, got %v", e.Type, e.Expected, e.Actual)
}

func evaluateAssertion(a Assertion, result *Result) error {
	switch a.Type {
	case AssertControlState:
		return assertControlState(a, result)
	case AssertStoreValue:
		return assertStoreValue(a, result)
	case AssertStoreMissing:
		return assertStoreMissing(a, result)
	case AssertStoreKeys:
		return assertStoreKeys(a, result)
	case AssertPassCount:
		if *a.Count != len(result.Passes) {
			return &AssertionError{Type: a.Type, Expected: *a.Count, Actual: len(result.Passes)}
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertControlState(a Assertion, result *Result) error {
	for _, c := range result.Controls {
		if controlRef(c.ID) != a.Control {
			continue
		}
		if a.Opened != nil && *a.Opened != c.Opened {
			return &AssertionError{Type: a.Type + " " + a.Control + " opened", Expected: *a.Opened, Actual: c.Opened}
		}
		if a.Label != nil && *a.Label != c.Label {
			return &AssertionError{Type: a.Type + " " + a.Control + " label", Expected: fmt.Sprintf("%q", *a.Label), Actual: fmt.Sprintf("%q", c.Label)}
		}
		return nil
	}
	return fmt.Errorf("control %s is not rendered", a.Control)
}

func assertStoreValue(a Assertion, result *Result) error {
	want, err := toScalar(a.Equal)
	if err != nil {
		return fmt.Errorf("equals: %w", err)
	}
	if want.IsZero() {
		want = ir.Null()
	}

	entry, ok := result.Store[ir.ScopeKey(a.Key)]
	if !ok {
		return &AssertionError{Type: a.Type + " " + a.Key, Expected: "entry", Actual: "no entry"}
	}
	got, ok := entry[a.Field]
	if !ok {
		return &AssertionError{Type: a.Type + " " + a.Key + "." + a.Field, Expected: want, Actual: "missing field"}
	}
	if !got.Equal(want) {
		return &AssertionError{Type: a.Type + " " + a.Key + "." + a.Field, Expected: want, Actual: got}
	}
	return nil
}

func assertStoreMissing(a Assertion, result *Result) error {
	entry, ok := result.Store[ir.ScopeKey(a.Key)]
	if a.Field == "" {
		if ok {
			return &AssertionError{Type: a.Type + " " + a.Key, Expected: "no entry", Actual: entry}
		}
		return nil
	}
	if v, present := entry[a.Field]; present {
		return &AssertionError{Type: a.Type + " " + a.Key + "." + a.Field, Expected: "missing field", Actual: v}
	}
	return nil
}

func assertStoreKeys(a Assertion, result *Result) error {
	got := make([]string, 0, len(result.Store))
	for _, k := range result.Store.Keys() {
		got = append(got, string(k))
	}
	want := slices.Clone(a.Keys)
	slices.Sort(want)
	if !slices.Equal(want, got) {
		return &AssertionError{Type: a.Type, Expected: want, Actual: got}
	}
	return nil
}
