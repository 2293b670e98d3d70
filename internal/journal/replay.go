package journal

import (
	"context"
	"fmt"

	"github.com/roach88/stratui/internal/ir"
	"github.com/roach88/stratui/internal/resolver"
)

// Mismatch is a journaled pass whose decision differs on replay.
type Mismatch struct {
	Pass Pass        `json:"pass"`
	Got  ir.Decision `json:"got"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("session %s seq %d (%s): recorded %s, replayed %s",
		m.Pass.Session, m.Pass.Seq, m.Pass.Control.ScopeKey(), m.Pass.Decision, m.Got)
}

// VerifyResult summarises a replay.
type VerifyResult struct {
	Sessions   int        `json:"sessions"`
	Passes     int        `json:"passes"`
	Mismatches []Mismatch `json:"mismatches"`
}

// OK reports whether every pass replayed to its recorded decision.
func (v VerifyResult) OK() bool {
	return len(v.Mismatches) == 0
}

// Verify re-resolves journaled passes with r and compares each decision to
// the recorded one. An empty session verifies every session.
func (j *Journal) Verify(ctx context.Context, r *resolver.Resolver, session string) (VerifyResult, error) {
	var sessions []string
	if session != "" {
		sessions = []string{session}
	} else {
		all, err := j.ListSessions(ctx)
		if err != nil {
			return VerifyResult{}, fmt.Errorf("verify: %w", err)
		}
		for _, s := range all {
			sessions = append(sessions, s.Session)
		}
	}

	result := VerifyResult{Mismatches: []Mismatch{}}
	for _, s := range sessions {
		passes, err := j.ReadSession(ctx, s)
		if err != nil {
			return VerifyResult{}, fmt.Errorf("verify session %s: %w", s, err)
		}
		result.Sessions++

		for _, p := range passes {
			if err := ctx.Err(); err != nil {
				return VerifyResult{}, err
			}
			result.Passes++

			control := p.Control
			got := r.Resolve(p.Trigger, &control, p.Store, p.CurrentLabel)
			if got != p.Decision {
				result.Mismatches = append(result.Mismatches, Mismatch{Pass: p, Got: got})
			}
		}
	}
	return result, nil
}
