package journal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// WritePass appends a pass. A pass without an ID gets a UUIDv7. Writing the
// same ID twice is a no-op; inserted reports whether a row was added.
//
// The current label is stored NFC-normalized like every JSON payload, so a
// replay sees the same text the recorded decision was encoded from.
func (j *Journal) WritePass(ctx context.Context, p Pass) (id string, inserted bool, err error) {
	if p.ID == "" {
		u, err := uuid.NewV7()
		if err != nil {
			return "", false, fmt.Errorf("write pass: generate id: %w", err)
		}
		p.ID = u.String()
	}

	enc, err := p.payloads()
	if err != nil {
		return "", false, fmt.Errorf("write pass: %w", err)
	}

	result, err := j.db.ExecContext(ctx, `
		INSERT INTO passes
		(id, session, seq, control, trigger, store, current_label, decision, trace)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		p.ID,
		p.Session,
		p.Seq,
		enc.control,
		enc.trigger,
		enc.store,
		norm.NFC.String(p.CurrentLabel),
		enc.decision,
		enc.trace,
	)
	if err != nil {
		return "", false, fmt.Errorf("write pass: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("write pass: rows affected: %w", err)
	}
	return p.ID, n > 0, nil
}
