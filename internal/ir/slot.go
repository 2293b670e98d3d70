package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Slot is one output of a resolution pass: either Set to a value or
// Unchanged, meaning the renderer must leave the property as it is.
//
// The zero Slot is Unchanged.
type Slot[T any] struct {
	value T
	set   bool
}

// Set returns a slot carrying v.
func Set[T any](v T) Slot[T] {
	return Slot[T]{value: v, set: true}
}

// Unchanged returns a slot that leaves the property untouched.
func Unchanged[T any]() Slot[T] {
	return Slot[T]{}
}

// Get returns the value and whether the slot is set.
func (s Slot[T]) Get() (T, bool) {
	return s.value, s.set
}

// IsSet reports whether the slot carries a value.
func (s Slot[T]) IsSet() bool {
	return s.set
}

// IsZero reports whether the slot is Unchanged. Used by the omitzero tag.
func (s Slot[T]) IsZero() bool {
	return !s.set
}

// Apply folds the slot onto current: a set slot replaces it, an Unchanged
// slot keeps it.
func (s Slot[T]) Apply(current T) T {
	if s.set {
		return s.value
	}
	return current
}

func (s Slot[T]) String() string {
	if !s.set {
		return "unchanged"
	}
	return fmt.Sprintf("%v", s.value)
}

// MarshalJSON encodes a set slot as its value and Unchanged as null.
func (s Slot[T]) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON decodes null as Unchanged and anything else as Set.
func (s *Slot[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Slot[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Set(v)
	return nil
}
