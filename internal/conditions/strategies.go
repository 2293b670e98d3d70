package conditions

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/stratui/internal/ir"
)

// Plain ids of the buttons that grow and shrink the strategies list.
const (
	AddStrategyID    = "add_strategy"
	RemoveStrategyID = "remove_strategy"
)

// Condition sides every new strategy starts with.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Strategy is one entry of the strategies list. Conditions counts the rows
// shown on each condition side.
type Strategy struct {
	ID         ir.Scalar      `json:"id"`
	Name       string         `json:"name,omitempty"`
	Conditions map[string]int `json:"conditions_store,omitempty"`
}

// NewStrategy returns a strategy named after its id with one row per side.
func NewStrategy(id int64) Strategy {
	return Strategy{
		ID:         ir.Int(id),
		Name:       strconv.FormatInt(id, 10),
		Conditions: map[string]int{SideBuy: 1, SideSell: 1},
	}
}

// DefaultStrategies is the list of a freshly cleared form.
func DefaultStrategies() []Strategy {
	return []Strategy{NewStrategy(1)}
}

// Clone returns an independent copy.
func (s Strategy) Clone() Strategy {
	s.Conditions = maps.Clone(s.Conditions)
	return s
}

// Equal reports whether both strategies carry the same id, name and counts.
func (s Strategy) Equal(other Strategy) bool {
	return s.ID.Equal(other.ID) && s.Name == other.Name && maps.Equal(s.Conditions, other.Conditions)
}

// CloneStrategies deep-copies a strategies list.
func CloneStrategies(list []Strategy) []Strategy {
	out := make([]Strategy, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}

// EqualStrategies reports whether two lists hold equal strategies in order.
func EqualStrategies(a, b []Strategy) bool {
	return slices.EqualFunc(a, b, Strategy.Equal)
}

// ReduceStrategies is the strategies callback: it folds one triggered event
// into the strategies list. The second result is false when the event does
// not fire the callback or must not update the list.
//
// A nil or empty list is treated as the default list.
func ReduceStrategies(list []Strategy, event ir.TriggeredEvent) ([]Strategy, bool) {
	if event.PropID == "" {
		return list, false
	}
	current := list
	if len(current) == 0 {
		current = DefaultStrategies()
	}

	if trig, ok := ir.ParseTriggerID(event.PropID).Identity(); ok {
		switch trig.Type {
		case ir.TypeClearAllConditions:
			return DefaultStrategies(), true
		case ir.TypeModifyCondition:
			return modifyCount(current, trig.Strategy, trig.Condition.Text, trig.Action)
		case ir.TypeStrategyNameInput:
			return rename(current, trig.Strategy, event.ValueScalar())
		}
		return list, false
	}

	switch plainID(event.PropID) {
	case AddStrategyID:
		next := CloneStrategies(current)
		return append(next, NewStrategy(maxID(current)+1)), true
	case RemoveStrategyID:
		i := maxIndex(current)
		if i < 0 {
			return list, false
		}
		return slices.Delete(CloneStrategies(current), i, i+1), true
	}
	return list, false
}

func modifyCount(list []Strategy, strategy ir.Scalar, condition, action string) ([]Strategy, bool) {
	i := slices.IndexFunc(list, func(s Strategy) bool { return s.ID.Text == strategy.Text })
	if i < 0 {
		return list, false
	}

	next := CloneStrategies(list)
	counts := next[i].Conditions
	if counts == nil {
		counts = map[string]int{}
		next[i].Conditions = counts
	}
	if _, ok := counts[condition]; !ok {
		counts[condition] = 1
	}

	switch action {
	case ActionAdd:
		counts[condition]++
	case ActionRemove:
		if counts[condition] > 1 {
			counts[condition]--
		}
	case ActionClear:
		counts[condition] = 1
	}
	return next, true
}

// rename sets the name of the strategy whose name input fired. A null value
// keeps the old name.
func rename(list []Strategy, strategy, value ir.Scalar) ([]Strategy, bool) {
	next := CloneStrategies(list)
	if !value.Present() {
		return next, true
	}
	for i := range next {
		if next[i].ID.Text == strategy.Text {
			next[i].Name = value.Text
		}
	}
	return next, true
}

// maxID returns the largest integral id in list, or 0 when there is none.
func maxID(list []Strategy) int64 {
	var out int64
	for _, s := range list {
		if n, ok := s.ID.Int64(); ok && n > out {
			out = n
		}
	}
	return out
}

// maxIndex returns the position of the first strategy holding the largest
// integral id, or -1.
func maxIndex(list []Strategy) int {
	best, bestID := -1, int64(0)
	for i, s := range list {
		n, ok := s.ID.Int64()
		if !ok {
			continue
		}
		if best < 0 || n > bestID {
			best, bestID = i, n
		}
	}
	return best
}

func plainID(propID string) string {
	if dot := strings.LastIndexByte(propID, '.'); dot >= 0 {
		return propID[:dot]
	}
	return propID
}
