package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/stratui/internal/conditions"
	"github.com/roach88/stratui/internal/ir"
	"github.com/roach88/stratui/internal/journal"
	"github.com/roach88/stratui/internal/resolver"
)

// StoreTriggerID is the prop_id the runtime reports when the conditions
// store changes.
const StoreTriggerID = "conditions_store_inputs.data"

var (
	// ErrIncompleteControl is returned when a control is added without its
	// full scope or type.
	ErrIncompleteControl = errors.New("control identity incomplete")

	// ErrDuplicateControl is returned when a control with the same type and
	// scope is already rendered.
	ErrDuplicateControl = errors.New("control already rendered")
)

// Recorder persists passes. Implemented by *journal.Journal.
type Recorder interface {
	WritePass(ctx context.Context, p journal.Pass) (string, bool, error)
}

// Control is the rendered state of one popover control.
type Control struct {
	// ID is the identity of the control's handle (role "input").
	ID     ir.ControlIdentity `json:"id"`
	Opened bool               `json:"opened"`
	Label  string             `json:"label"`
	Clicks int64              `json:"clicks"`
}

// Session is one instance of the dashboard runtime.
//
// Thread-safety: all methods are safe for concurrent use; Dispatch
// serializes interactions so each runs to completion before the next.
type Session struct {
	mu sync.Mutex

	token      string
	resolver   *resolver.Resolver
	clock      Sequencer
	recorder   Recorder
	logger     *slog.Logger
	controls   []*Control
	inputs     []conditions.Input
	store      conditions.Store
	strategies []conditions.Strategy
}

// Option configures a Session.
type Option func(*Session)

// WithResolver sets the resolver used for every pass.
func WithResolver(r *resolver.Resolver) Option {
	return func(s *Session) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithClock sets the pass sequencer.
func WithClock(c Sequencer) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithToken fixes the session token instead of generating one.
func WithToken(token string) Option {
	return func(s *Session) {
		s.token = token
	}
}

// WithTokenGenerator sets the generator used when no token is fixed.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(s *Session) {
		if g != nil && s.token == "" {
			s.token = g.Generate()
		}
	}
}

// WithRecorder journals every pass.
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the initial conditions store.
func WithStore(store conditions.Store) Option {
	return func(s *Session) {
		s.store = store.Clone()
	}
}

// WithStrategies sets the initial list of live strategies.
func WithStrategies(strategies []conditions.Strategy) Option {
	return func(s *Session) {
		s.strategies = conditions.CloneStrategies(strategies)
	}
}

// New creates a session. Without options it uses the default resolver, a
// fresh logical clock, a UUIDv7 token and the cleared-form store.
func New(opts ...Option) *Session {
	s := &Session{
		resolver: resolver.New(),
		clock:    NewClock(),
		logger:   slog.Default(),
		store:    conditions.ClearAll(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.token == "" {
		s.token = UUIDv7Generator{}.Generate()
	}
	return s
}

// Token returns the session token.
func (s *Session) Token() string {
	return s.token
}

// AddControl renders a popover control with its initial label. The identity
// is stored as the control's handle, so its role is always "input".
func (s *Session) AddControl(id ir.ControlIdentity, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !id.Complete() {
		return fmt.Errorf("add control %s: %w", id.ScopeKey(), ErrIncompleteControl)
	}
	id.Role = ir.RoleInput

	for _, c := range s.controls {
		if ir.SameControl(c.ID, id) {
			return fmt.Errorf("add control %s %s: %w", id.Type, id.ScopeKey(), ErrDuplicateControl)
		}
	}
	s.controls = append(s.controls, &Control{ID: id, Label: label})
	return nil
}

// Control returns the state of the control with the same type and scope
// as id.
func (s *Session) Control(id ir.ControlIdentity) (Control, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c := s.find(id); c != nil {
		return *c, true
	}
	return Control{}, false
}

// Controls returns every control in render order.
func (s *Session) Controls() []Control {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Control, len(s.controls))
	for i, c := range s.controls {
		out[i] = *c
	}
	return out
}

// Store returns a copy of the conditions store.
func (s *Session) Store() conditions.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clone()
}

// SetStrategies replaces the list of live strategies.
func (s *Session) SetStrategies(strategies []conditions.Strategy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategies = conditions.CloneStrategies(strategies)
}

// Strategies returns a copy of the strategies list.
func (s *Session) Strategies() []conditions.Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return conditions.CloneStrategies(s.strategies)
}

// Options renders the option list of the popover id against the current
// store.
func (s *Session) Options(id ir.ControlIdentity, query string, payload conditions.OptionsPayload) []conditions.OptionButton {
	s.mu.Lock()
	defer s.mu.Unlock()
	return conditions.Options(s.store, id, query, payload)
}

func (s *Session) find(id ir.ControlIdentity) *Control {
	for _, c := range s.controls {
		if ir.SameControl(c.ID, id) {
			return c
		}
	}
	return nil
}
