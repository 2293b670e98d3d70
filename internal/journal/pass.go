package journal

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/stratui/internal/ir"
	"github.com/roach88/stratui/internal/resolver"
)

// Pass is one resolver invocation for one control.
type Pass struct {
	ID           string             `json:"id"`
	Session      string             `json:"session"`
	Seq          int64              `json:"seq"`
	Control      ir.ControlIdentity `json:"control"`
	Trigger      ir.TriggerContext  `json:"trigger"`
	Store        ir.LabelSnapshot   `json:"store"`
	CurrentLabel string             `json:"current_label"`
	Decision     ir.Decision        `json:"decision"`
	Trace        resolver.Trace     `json:"trace"`
}

type payloads struct {
	control, trigger, store, decision, trace string
}

func (p Pass) payloads() (payloads, error) {
	var out payloads
	for _, f := range []struct {
		name string
		v    any
		dst  *string
	}{
		{"control", p.Control, &out.control},
		{"trigger", p.Trigger, &out.trigger},
		{"store", emptyIfNil(p.Store), &out.store},
		{"decision", p.Decision, &out.decision},
		{"trace", emptyIfNilTrace(p.Trace), &out.trace},
	} {
		data, err := ir.MarshalCanonical(f.v)
		if err != nil {
			return payloads{}, fmt.Errorf("marshal %s: %w", f.name, err)
		}
		*f.dst = string(data)
	}
	return out, nil
}

func (p *Pass) decode(in payloads) error {
	for _, f := range []struct {
		name string
		data string
		dst  any
	}{
		{"control", in.control, &p.Control},
		{"trigger", in.trigger, &p.Trigger},
		{"store", in.store, &p.Store},
		{"decision", in.decision, &p.Decision},
		{"trace", in.trace, &p.Trace},
	} {
		if err := json.Unmarshal([]byte(f.data), f.dst); err != nil {
			return fmt.Errorf("unmarshal %s: %w", f.name, err)
		}
	}
	return nil
}

func emptyIfNil(s ir.LabelSnapshot) ir.LabelSnapshot {
	if s == nil {
		return ir.LabelSnapshot{}
	}
	return s
}

func emptyIfNilTrace(t resolver.Trace) resolver.Trace {
	if t == nil {
		return resolver.Trace{}
	}
	return t
}
