package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/roach88/stratui/internal/ir"
	"github.com/roach88/stratui/internal/resolver"
	"github.com/roach88/stratui/internal/session"
	"github.com/roach88/stratui/internal/testutil"
)

// Options tunes a run.
type Options struct {
	// Resolver replaces the default resolver, e.g. one built from a
	// configured catalog.
	Resolver *resolver.Resolver

	// Logger receives session logs. Defaults to discarding them.
	Logger *slog.Logger
}

// Run executes a scenario with the default resolver.
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	return RunWithOptions(ctx, s, Options{})
}

// RunWithOptions executes a scenario. It returns an error only when the
// scenario cannot be set up or a dispatch fails; failed expectations are
// reported in the result.
func RunWithOptions(ctx context.Context, s *Scenario, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	strategies, err := s.strategies()
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	store, err := s.initialStore()
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	sessOpts := []session.Option{
		session.WithClock(testutil.NewDeterministicClock()),
		session.WithTokenGenerator(testutil.NewFixedTokenGenerator(s.Session)),
		session.WithLogger(logger),
		session.WithStore(store),
		session.WithStrategies(strategies),
	}
	if opts.Resolver != nil {
		sessOpts = append(sessOpts, session.WithResolver(opts.Resolver))
	}
	sess := session.New(sessOpts...)

	for i, c := range s.Controls {
		id, err := c.Identity()
		if err != nil {
			return nil, fmt.Errorf("setup: controls[%d]: %w", i, err)
		}
		if err := sess.AddControl(id, c.Initial); err != nil {
			return nil, fmt.Errorf("setup: controls[%d]: %w", i, err)
		}
	}

	result := NewResult()
	clicks := make(map[string]int)

	for i, st := range s.Steps {
		event, err := buildEvent(st, clicks)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}

		out, err := sess.Dispatch(ctx, event)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: dispatch: %w", i, err)
		}
		result.Steps = append(result.Steps, out)
		result.Passes = append(result.Passes, out.Passes...)

		if st.Expect != nil {
			checkStep(result, i, st.Expect, out)
		}
	}

	result.Controls = sess.Controls()
	result.Store = sess.Store()

	for i, a := range s.Assertions {
		if err := evaluateAssertion(a, result); err != nil {
			result.AddError("assertions[%d]: %s", i, err)
		}
	}
	return result, nil
}

// buildEvent turns a step into the event the host runtime would report.
// Clicks without an explicit count increase per control, like n_clicks.
func buildEvent(st Step, clicks map[string]int) (ir.TriggeredEvent, error) {
	switch {
	case st.Click != nil:
		id, err := st.Click.Identity()
		if err != nil {
			return ir.TriggeredEvent{}, err
		}
		propID, err := id.PropID("n_clicks")
		if err != nil {
			return ir.TriggeredEvent{}, err
		}
		n := clicks[propID] + 1
		if st.Clicks != nil {
			n = *st.Clicks
		}
		clicks[propID] = n
		return ir.TriggeredEvent{PropID: propID, Value: json.RawMessage(strconv.Itoa(n))}, nil

	case st.Input != nil:
		id, err := st.Input.Identity()
		if err != nil {
			return ir.TriggeredEvent{}, err
		}
		propID, err := id.PropID("value")
		if err != nil {
			return ir.TriggeredEvent{}, err
		}
		value, err := toScalar(st.Value)
		if err != nil {
			return ir.TriggeredEvent{}, fmt.Errorf("value: %w", err)
		}
		if value.IsZero() {
			value = ir.Null()
		}
		data, err := json.Marshal(value)
		if err != nil {
			return ir.TriggeredEvent{}, err
		}
		return ir.TriggeredEvent{PropID: propID, Value: data}, nil

	default:
		var value json.RawMessage
		if st.Trigger.Value != "" {
			value = json.RawMessage(st.Trigger.Value)
		}
		return ir.TriggeredEvent{PropID: st.Trigger.PropID, Value: value}, nil
	}
}

func checkStep(result *Result, i int, want *StepExpect, got session.Result) {
	if want.Passes != nil && *want.Passes != len(got.Passes) {
		result.AddError("steps[%d]: expected %d passes, got %d", i, *want.Passes, len(got.Passes))
	}
	if want.StoreUpdated != nil && *want.StoreUpdated != got.StoreUpdated {
		result.AddError("steps[%d]: expected store_updated=%t, got %t", i, *want.StoreUpdated, got.StoreUpdated)
	}

	for j, d := range want.Decisions {
		p, ok := firstPass(got.Passes, d.Control)
		if !ok {
			result.AddError("steps[%d].decisions[%d]: no pass for %s", i, j, d.Control)
			continue
		}
		if d.Opened != nil {
			if got, ok := p.Decision.Opened.Get(); !ok || got != *d.Opened {
				result.AddError("steps[%d].decisions[%d]: %s opened: expected %t, got %s",
					i, j, d.Control, *d.Opened, p.Decision.Opened)
			}
		}
		if d.Label != nil {
			if got, ok := p.Decision.Label.Get(); !ok || got != *d.Label {
				result.AddError("steps[%d].decisions[%d]: %s label: expected %q, got %s",
					i, j, d.Control, *d.Label, describeSlot(p.Decision.Label))
			}
		}
		for _, slot := range d.Unchanged {
			set := p.Decision.Opened.IsSet()
			if slot == SlotLabel {
				set = p.Decision.Label.IsSet()
			}
			if set {
				result.AddError("steps[%d].decisions[%d]: %s %s: expected unchanged, got %s",
					i, j, d.Control, slot, p.Decision)
			}
		}
	}
}

// describeSlot quotes a set label so it cannot be read as "unchanged".
func describeSlot(s ir.Slot[string]) string {
	if v, ok := s.Get(); ok {
		return strconv.Quote(v)
	}
	return s.String()
}

func firstPass(passes []session.Pass, ref string) (session.Pass, bool) {
	for _, p := range passes {
		if controlRef(p.Control) == ref {
			return p, true
		}
	}
	return session.Pass{}, false
}
