package harness

import (
	"fmt"

	"github.com/roach88/stratui/internal/conditions"
	"github.com/roach88/stratui/internal/session"
)

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool

	// Passes are all resolution passes, in sequence order.
	Passes []session.Pass

	// Steps holds what each step did, index-aligned with Scenario.Steps.
	Steps []session.Result

	// Controls is the final rendered state of every control.
	Controls []session.Control

	// Store is the final conditions store.
	Store conditions.Store

	// Errors lists failed expectations, in the order they were checked.
	Errors []string
}

// NewResult creates an empty passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Passes: []session.Pass{},
		Steps:  []session.Result{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(format string, args ...any) {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
