package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/stratui/internal/conditions"
	"github.com/roach88/stratui/internal/ir"
	"github.com/roach88/stratui/internal/journal"
	"github.com/roach88/stratui/internal/resolver"
)

// Pass is one resolution of one control.
type Pass struct {
	ID           string             `json:"id"`
	Seq          int64              `json:"seq"`
	Control      ir.ControlIdentity `json:"control"`
	Trigger      ir.TriggerContext  `json:"trigger"`
	CurrentLabel string             `json:"current_label"`
	Decision     ir.Decision        `json:"decision"`
	Trace        resolver.Trace     `json:"trace"`
}

// Result reports what one interaction did.
type Result struct {
	Passes            []Pass `json:"passes"`
	StoreUpdated      bool   `json:"store_updated"`
	StrategiesUpdated bool   `json:"strategies_updated,omitempty"`
}

// Dispatch delivers one interaction to the session.
func (s *Session) Dispatch(ctx context.Context, event ir.TriggeredEvent) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := Result{Passes: []Pass{}}
	trigger := ir.TriggerContext{Triggered: []ir.TriggeredEvent{event}}

	parsed := ir.ParseTriggerID(event.PropID)
	trig, structured := parsed.Identity()
	if structured {
		s.trackInput(trig, parsed.Property(), event)
	} else {
		s.logger.Debug("unstructured trigger", "prop_id", event.PropID, "reason", parsed.Reason())
	}

	for _, c := range s.fired(trig, structured, event) {
		p, err := s.resolve(ctx, c, trigger)
		if err != nil {
			return result, err
		}
		result.Passes = append(result.Passes, p)
	}

	// The strategies list is reduced first so the store is pruned against
	// the list this event produced.
	if list, ok := conditions.ReduceStrategies(s.strategies, event); ok && !conditions.EqualStrategies(list, s.strategies) {
		s.strategies = list
		result.StrategiesUpdated = true
		s.logger.Debug("strategies updated", "count", len(list))
	}

	next, updated := conditions.Reduce(s.store, event, s.inputs, s.strategies)
	if !updated || next.Equal(s.store) {
		return result, nil
	}
	s.store = next
	result.StoreUpdated = true

	data, err := ir.MarshalCanonical(s.store)
	if err != nil {
		return result, fmt.Errorf("dispatch: encode store: %w", err)
	}
	storeTrigger := ir.NewTriggerContext(StoreTriggerID, json.RawMessage(data))

	for _, c := range s.controls {
		p, err := s.resolve(ctx, c, storeTrigger)
		if err != nil {
			return result, err
		}
		result.Passes = append(result.Passes, p)
	}
	return result, nil
}

// fired returns the controls whose callback the event fires. A handle fires
// its own control; an option fires the controls of its field type in the
// option's row (every control of the row when it names no field type).
func (s *Session) fired(trig ir.ControlIdentity, structured bool, event ir.TriggeredEvent) []*Control {
	if !structured {
		return nil
	}

	var out []*Control
	switch {
	case trig.Role == ir.RoleInput:
		if c := s.find(trig); c != nil {
			c.Clicks = event.Clicks()
			out = append(out, c)
		}
	case trig.Type == ir.TypeOptionButton:
		for _, c := range s.controls {
			if !ir.ScopeEqual(c.ID, trig) {
				continue
			}
			if trig.FieldType != "" && trig.FieldType != c.ID.Type {
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

// trackInput remembers the current value of plain controls so the store
// callback sees every input, not only the one that fired.
func (s *Session) trackInput(trig ir.ControlIdentity, property string, event ir.TriggeredEvent) {
	if property != "value" || trig.Role != "" {
		return
	}
	switch trig.Type {
	case ir.TypeComparisonOperator, ir.TypeColumnOrCustomDropdown, ir.TypeCustomInput:
	default:
		return
	}

	in := conditions.Input{ID: trig, Value: event.ValueScalar()}
	for i := range s.inputs {
		if ir.SameControl(s.inputs[i].ID, trig) {
			s.inputs[i] = in
			return
		}
	}
	s.inputs = append(s.inputs, in)
}

func (s *Session) resolve(ctx context.Context, c *Control, trigger ir.TriggerContext) (Pass, error) {
	id := c.ID
	d, trace := s.resolver.ResolveWithTrace(trigger, &id, s.store, c.Label)

	seq := s.clock.Next()
	p := Pass{
		ID:           fmt.Sprintf("%s-%06d", s.token, seq),
		Seq:          seq,
		Control:      id,
		Trigger:      trigger,
		CurrentLabel: c.Label,
		Decision:     d,
		Trace:        trace,
	}

	state := d.Apply(ir.ControlState{Opened: c.Opened, Label: c.Label})
	c.Opened, c.Label = state.Opened, state.Label

	s.logger.Debug("pass",
		"seq", seq,
		"control", id.Type,
		"scope", id.ScopeKey(),
		"decision", d.String(),
	)

	if s.recorder == nil {
		return p, nil
	}
	_, _, err := s.recorder.WritePass(ctx, journal.Pass{
		ID:           p.ID,
		Session:      s.token,
		Seq:          p.Seq,
		Control:      p.Control,
		Trigger:      p.Trigger,
		Store:        s.store.Snapshot(),
		CurrentLabel: p.CurrentLabel,
		Decision:     p.Decision,
		Trace:        p.Trace,
	})
	if err != nil {
		return p, fmt.Errorf("journal pass %d: %w", seq, err)
	}
	return p, nil
}
