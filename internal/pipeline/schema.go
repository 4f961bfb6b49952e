// Package pipeline implements the batch ETL run over a raw sales dataset:
// load, validate, clean, enrich, report. Stages execute strictly in that
// order, each returning a new table; a failed stage aborts the run and
// nothing partial is published.
package pipeline

import (
	"salescli/pkg/contracts/domain"
)

// Kind is the expected value type of a column
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
)

// ColumnSpec describes one expected column: its type, whether the loader
// must find it in the header, an optional numeric range and an optional
// closed set of accepted values.
type ColumnSpec struct {
	Name       string
	Kind       Kind
	Required   bool
	Min        *float64
	Max        *float64
	Categories []string
}

// Numeric reports whether the column holds numbers
func (c ColumnSpec) Numeric() bool {
	return c.Kind == KindInt || c.Kind == KindFloat
}

// InRange reports whether v satisfies the column's bounds
func (c ColumnSpec) InRange(v float64) bool {
	if c.Min != nil && v < *c.Min {
		return false
	}
	if c.Max != nil && v > *c.Max {
		return false
	}
	return true
}

// Clip returns v clamped to the column's nearest bound
func (c ColumnSpec) Clip(v float64) float64 {
	if c.Min != nil && v < *c.Min {
		return *c.Min
	}
	if c.Max != nil && v > *c.Max {
		return *c.Max
	}
	return v
}

// InCategories reports whether raw is an accepted categorical value. A
// column without categories accepts anything.
func (c ColumnSpec) InCategories(raw string) bool {
	if len(c.Categories) == 0 {
		return true
	}
	for _, cat := range c.Categories {
		if cat == raw {
			return true
		}
	}
	return false
}

// Schema is the ordered set of expected columns plus the natural key used
// for duplicate detection.
type Schema struct {
	Columns    []ColumnSpec
	KeyColumns []string
}

// Column returns the spec for the named column
func (s Schema) Column(name string) (ColumnSpec, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// RequiredColumns lists the columns the input header must carry
func (s Schema) RequiredColumns() []string {
	var names []string
	for _, c := range s.Columns {
		if c.Required {
			names = append(names, c.Name)
		}
	}
	return names
}

func floatPtr(v float64) *float64 { return &v }

// SalesSchema returns the schema of the raw sales dataset: six required
// columns, non-negative quantities and prices, months drawn from the fixed
// label set, and (Product_ID, Month) as the natural key.
func SalesSchema() Schema {
	return Schema{
		Columns: []ColumnSpec{
			{Name: domain.ColProductID, Kind: KindString, Required: true},
			{Name: domain.ColProductName, Kind: KindString, Required: true},
			{Name: domain.ColUnitsSold, Kind: KindInt, Required: true, Min: floatPtr(0)},
			{Name: domain.ColPrice, Kind: KindFloat, Required: true, Min: floatPtr(0)},
			{Name: domain.ColMonth, Kind: KindString, Required: true, Categories: domain.MonthOrder},
			{Name: domain.ColOpeningStock, Kind: KindInt, Required: true, Min: floatPtr(0)},
		},
		KeyColumns: []string{domain.ColProductID, domain.ColMonth},
	}
}
