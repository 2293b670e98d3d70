package resolver

import (
	"maps"

	"github.com/roach88/stratui/internal/ir"
)

// Catalog maps a label-bearing control type to the store field holding its
// committed label. Types absent from the catalog never take a store label.
type Catalog map[string]ir.LabelField

// DefaultCatalog returns the catalog of the strategy builder's three
// popover dropdowns.
func DefaultCatalog() Catalog {
	return Catalog{
		ir.TypeColumnDropdown:         ir.LabelColumn,
		ir.TypeComparisonOperator:     ir.LabelComparisonOperator,
		ir.TypeColumnOrCustomDropdown: ir.LabelColumnOrCustom,
	}
}

// Field returns the label field for controlType.
func (c Catalog) Field(controlType string) (ir.LabelField, bool) {
	f, ok := c[controlType]
	return f, ok
}

// Clone returns an independent copy.
func (c Catalog) Clone() Catalog {
	return maps.Clone(c)
}
