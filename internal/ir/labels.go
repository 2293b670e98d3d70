package ir

// LabelField names one committed-label slot in a label record.
type LabelField string

const (
	LabelColumn             LabelField = "column_label"
	LabelComparisonOperator LabelField = "comparison_operator_label"
	LabelColumnOrCustom     LabelField = "column_or_custom_label"
)

// LabelFields lists every known label field in declaration order.
var LabelFields = []LabelField{LabelColumn, LabelComparisonOperator, LabelColumnOrCustom}

// Valid reports whether f is a known label field.
func (f LabelField) Valid() bool {
	for _, known := range LabelFields {
		if f == known {
			return true
		}
	}
	return false
}

// LabelRecord holds the labels committed for one scope key, at most one per
// label-bearing control type. Other fields present in the store entry are
// ignored when decoding.
type LabelRecord struct {
	ColumnLabel             Scalar `json:"column_label,omitzero"`
	ComparisonOperatorLabel Scalar `json:"comparison_operator_label,omitzero"`
	ColumnOrCustomLabel     Scalar `json:"column_or_custom_label,omitzero"`
}

// Get returns the committed label for f. A label that is missing, null or
// empty is reported as absent.
func (r LabelRecord) Get(f LabelField) (string, bool) {
	var s Scalar
	switch f {
	case LabelColumn:
		s = r.ColumnLabel
	case LabelComparisonOperator:
		s = r.ComparisonOperatorLabel
	case LabelColumnOrCustom:
		s = r.ColumnOrCustomLabel
	default:
		return "", false
	}
	if !s.Truthy() {
		return "", false
	}
	return s.Text, true
}

// LabelStore is a read-only view of committed labels keyed by scope.
// Lookup is total: a missing key is reported with false, never an error.
type LabelStore interface {
	Lookup(key ScopeKey) (LabelRecord, bool)
}

// LabelSnapshot is a map-backed LabelStore. A nil snapshot is empty.
type LabelSnapshot map[ScopeKey]LabelRecord

// Lookup implements LabelStore.
func (s LabelSnapshot) Lookup(key ScopeKey) (LabelRecord, bool) {
	rec, ok := s[key]
	return rec, ok
}
