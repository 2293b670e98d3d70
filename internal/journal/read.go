package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const passColumns = `id, session, seq, control, trigger, store, current_label, decision, trace`

type scanner interface {
	Scan(dest ...any) error
}

func scanPass(row scanner) (Pass, error) {
	var p Pass
	var enc payloads
	if err := row.Scan(
		&p.ID, &p.Session, &p.Seq, &enc.control, &enc.trigger, &enc.store,
		&p.CurrentLabel, &enc.decision, &enc.trace,
	); err != nil {
		return Pass{}, err
	}
	if err := p.decode(enc); err != nil {
		return Pass{}, fmt.Errorf("pass %s: %w", p.ID, err)
	}
	return p, nil
}

// ReadPass returns a single pass. Returns ErrPassNotFound for unknown ids.
func (j *Journal) ReadPass(ctx context.Context, id string) (Pass, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+passColumns+` FROM passes WHERE id = ?`, id)
	p, err := scanPass(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Pass{}, fmt.Errorf("read pass %s: %w", id, ErrPassNotFound)
	}
	if err != nil {
		return Pass{}, fmt.Errorf("read pass %s: %w", id, err)
	}
	return p, nil
}

// ReadSession returns every pass of a session ordered by seq, then id.
// Returns an empty slice (not nil) for unknown sessions.
func (j *Journal) ReadSession(ctx context.Context, session string) ([]Pass, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+passColumns+`
		FROM passes
		WHERE session = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("query passes: %w", err)
	}
	defer rows.Close()

	passes := []Pass{}
	for rows.Next() {
		p, err := scanPass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pass: %w", err)
		}
		passes = append(passes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passes: %w", err)
	}
	return passes, nil
}

// SessionSummary describes one journaled session.
type SessionSummary struct {
	Session string `json:"session"`
	Passes  int    `json:"passes"`
	LastSeq int64  `json:"last_seq"`
}

// ListSessions returns every session in the journal ordered by session id.
func (j *Journal) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session, COUNT(*), MAX(seq)
		FROM passes
		GROUP BY session
		ORDER BY session COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionSummary{}
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.Session, &s.Passes, &s.LastSeq); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// LastSeq returns the highest seq recorded for a session, or 0.
func (j *Journal) LastSeq(ctx context.Context, session string) (int64, error) {
	var seq sql.NullInt64
	err := j.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM passes WHERE session = ?`, session).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}
