// Package journal records popover resolution passes in SQLite.
//
// Each pass stores everything the resolver saw (control identity, trigger,
// label store snapshot, current label) next to what it decided and the
// trace of steps taken. The log is append-only and ordered by a per-session
// logical clock, never by wall time, so a session can be replayed and
// compared decision by decision.
//
// Payload columns hold canonical JSON (sorted keys, NFC strings) so that
// identical inputs always produce identical bytes.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - a single open connection (one writer)
package journal
