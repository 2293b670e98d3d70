package resolver

import (
	"fmt"
	"strings"
)

// Stage names the resolution step that produced a trace entry.
type Stage string

const (
	StageIdentity    Stage = "identity"
	StageAttribution Stage = "attribution"
	StageTrigger     Stage = "trigger"
	StageStore       Stage = "store"
)

// Step records what one stage concluded. Steps are appended in execution
// order, so a later step that sets a slot overrides an earlier one.
type Step struct {
	Stage   Stage  `json:"stage"`
	Outcome string `json:"outcome"`
	Detail  string `json:"detail,omitempty"`
}

func (s Step) String() string {
	if s.Detail == "" {
		return fmt.Sprintf("%s: %s", s.Stage, s.Outcome)
	}
	return fmt.Sprintf("%s: %s (%s)", s.Stage, s.Outcome, s.Detail)
}

// Trace is the ordered list of steps taken for one resolution.
type Trace []Step

func (t Trace) String() string {
	lines := make([]string, len(t))
	for i, s := range t {
		lines[i] = s.String()
	}
	return strings.Join(lines, "\n")
}

// Outcomes reported in traces.
const (
	OutcomeMissingIdentity = "missing_identity"
	OutcomeNoTrigger       = "no_trigger"
	OutcomeUnparseable     = "unparseable"
	OutcomeAttributed      = "attributed"
	OutcomeHandleOpened    = "handle_opened"
	OutcomeHandleIdle      = "handle_idle"
	OutcomeOptionChosen    = "option_chosen"
	OutcomeOtherScope      = "other_scope"
	OutcomeIgnored         = "ignored"
	OutcomeNoStore         = "no_store"
	OutcomeUncatalogued    = "uncatalogued"
	OutcomeNoEntry         = "no_entry"
	OutcomeNoCommitted     = "no_committed_label"
	OutcomeCommitted       = "committed_label"
)

func (t *Trace) add(stage Stage, outcome, detail string) {
	if t == nil {
		return
	}
	*t = append(*t, Step{Stage: stage, Outcome: outcome, Detail: detail})
}
