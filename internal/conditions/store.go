package conditions

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/stratui/internal/ir"
)

// Field names written into an Entry.
const (
	FieldColumn                  = "column"
	FieldColumnLabel             = "column_label"
	FieldColumnRaw               = "column_raw"
	FieldColumnOrCustom          = "column_or_custom"
	FieldColumnOrCustomLabel     = "column_or_custom_label"
	FieldColumnOrCustomRaw       = "column_or_custom_raw"
	FieldComparisonOperator      = "comparison_operator"
	FieldComparisonOperatorLabel = "comparison_operator_label"
	FieldComparisonOperatorRaw   = "comparison_operator_raw"
	FieldOperator                = "operator"
	FieldCustom                  = "custom"
	FieldValue                   = "value"
	FieldLabel                   = "label"
	FieldRaw                     = "raw"
)

// Entry is the record for one rule row.
type Entry map[string]ir.Scalar

// Clone returns an independent copy. A nil entry clones to an empty one.
func (e Entry) Clone() Entry {
	out := make(Entry, len(e))
	maps.Copy(out, e)
	return out
}

// Labels extracts the committed labels the resolver reads.
func (e Entry) Labels() ir.LabelRecord {
	return ir.LabelRecord{
		ColumnLabel:             e[FieldColumnLabel],
		ComparisonOperatorLabel: e[FieldComparisonOperatorLabel],
		ColumnOrCustomLabel:     e[FieldColumnOrCustomLabel],
	}
}

// Store maps scope keys to rule rows.
type Store map[ir.ScopeKey]Entry

// Lookup implements ir.LabelStore.
func (s Store) Lookup(key ir.ScopeKey) (ir.LabelRecord, bool) {
	e, ok := s[key]
	if !ok {
		return ir.LabelRecord{}, false
	}
	return e.Labels(), true
}

// Clone returns a deep copy. A nil store clones to an empty one.
func (s Store) Clone() Store {
	out := make(Store, len(s))
	for k, e := range s {
		out[k] = e.Clone()
	}
	return out
}

// Keys returns the scope keys in sorted order.
func (s Store) Keys() []ir.ScopeKey {
	return slices.Sorted(maps.Keys(s))
}

// Equal reports whether both stores hold the same rows with the same values.
func (s Store) Equal(other Store) bool {
	return maps.EqualFunc(s, other, func(a, b Entry) bool {
		return maps.EqualFunc(a, b, ir.Scalar.Equal)
	})
}

// Snapshot converts the store into the read-only view the resolver takes.
func (s Store) Snapshot() ir.LabelSnapshot {
	snap := make(ir.LabelSnapshot, len(s))
	for k, e := range s {
		snap[k] = e.Labels()
	}
	return snap
}

func (s Store) bucket(key ir.ScopeKey) Entry {
	e, ok := s[key]
	if !ok {
		e = Entry{}
		s[key] = e
	}
	return e
}

// rowPrefix is the key prefix shared by every row of one condition side.
func rowPrefix(strategy ir.Scalar, condition string) string {
	return strategy.Text + "_" + condition + "_"
}

// rowIndex parses the index after the last "_" of a key with the given
// prefix.
func rowIndex(key ir.ScopeKey, prefix string) (int, bool) {
	k := string(key)
	if !strings.HasPrefix(k, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(k[strings.LastIndexByte(k, '_')+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// MaxIndex returns the highest row index stored for a condition side.
func MaxIndex(s Store, strategy ir.Scalar, condition string) (int, bool) {
	prefix := rowPrefix(strategy, condition)
	best, found := 0, false
	for k := range s {
		n, ok := rowIndex(k, prefix)
		if !ok {
			continue
		}
		if !found || n > best {
			best, found = n, true
		}
	}
	return best, found
}

// RowCount returns how many rule rows to render for a condition side: one
// past the highest stored index, never fewer than minRows. Empty rows count.
func RowCount(s Store, strategy ir.Scalar, condition string, minRows int) int {
	last, ok := MaxIndex(s, strategy, condition)
	if !ok {
		return minRows
	}
	return max(last+1, minRows)
}
