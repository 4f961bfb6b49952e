package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"salescli/internal/errors"
	"salescli/internal/table"
)

// FindingKind classifies a data-quality violation
type FindingKind string

const (
	FindingMissingValue FindingKind = "missing_value"
	FindingOutOfRange   FindingKind = "out_of_range"
	FindingDuplicateKey FindingKind = "duplicate_key"
	FindingTypeMismatch FindingKind = "type_mismatch"
)

// FindingKinds lists the kinds in report order
var FindingKinds = []FindingKind{
	FindingMissingValue,
	FindingOutOfRange,
	FindingDuplicateKey,
	FindingTypeMismatch,
}

// Severity ranks a finding
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Finding records one data-quality violation. Row is the 0-based position
// of the offending row in the validated table; Column is empty for
// row-level findings (duplicate_key).
type Finding struct {
	Row      int
	Column   string
	Kind     FindingKind
	Severity Severity
	Value    string
}

func (f Finding) String() string {
	if f.Column == "" {
		return fmt.Sprintf("row %d: %s", f.Row, f.Kind)
	}
	return fmt.Sprintf("row %d, column %s: %s (%q)", f.Row, f.Column, f.Kind, f.Value)
}

// Validator checks a loaded table against the schema and produces findings.
// Data-quality issues are never errors; the only failure mode is a table
// that lacks required columns entirely.
type Validator struct {
	logger *slog.Logger
	schema Schema
}

// NewValidator creates a validator for the given schema
func NewValidator(logger *slog.Logger, schema Schema) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{logger: logger, schema: schema}
}

// Validate returns the table's findings in row order. Rows flagged as
// duplicates get the duplicate_key finding only: they are dropped wholesale
// by the cleaner, so cell-level findings on them would inflate the counts
// for data that never reaches the output.
//
// Per-cell priority when several rules match: type_mismatch, then
// out_of_range, then missing_value.
func (v *Validator) Validate(ctx context.Context, t *table.Table) ([]Finding, error) {
	var missing []string
	for _, name := range v.schema.RequiredColumns() {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewSchemaMismatchError(
			fmt.Sprintf("table lacks required columns: %s", strings.Join(missing, ", ")), nil).
			WithStage(StageValidate)
	}

	var findings []Finding
	seenKeys := make(map[string]bool)

	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)

		if key, ok := naturalKey(v.schema, row); ok {
			if seenKeys[key] {
				findings = append(findings, Finding{
					Row:      i,
					Kind:     FindingDuplicateKey,
					Severity: SeverityMedium,
					Value:    key,
				})
				continue
			}
			seenKeys[key] = true
		}

		for _, spec := range v.schema.Columns {
			if f, ok := v.checkCell(i, row, spec); ok {
				findings = append(findings, f)
			}
		}
	}

	v.logger.InfoContext(ctx, "validation complete",
		slog.Int("rows", t.NumRows()),
		slog.Int("findings", len(findings)))

	return findings, nil
}

// naturalKey builds the natural key of a row. Rows with a missing key part
// are excluded from duplicate detection.
func naturalKey(schema Schema, row table.Row) (string, bool) {
	parts := make([]string, len(schema.KeyColumns))
	for i, col := range schema.KeyColumns {
		raw := strings.TrimSpace(row.Get(col))
		if table.IsMissing(raw) {
			return "", false
		}
		parts[i] = raw
	}
	return strings.Join(parts, "\x1f"), true
}

func (v *Validator) checkCell(rowIdx int, row table.Row, spec ColumnSpec) (Finding, bool) {
	raw := row.Get(spec.Name)

	if table.IsMissing(raw) {
		return Finding{
			Row:      rowIdx,
			Column:   spec.Name,
			Kind:     FindingMissingValue,
			Severity: SeverityLow,
			Value:    raw,
		}, true
	}

	switch {
	case spec.Kind == KindInt:
		if _, err := row.Int(spec.Name); err != nil {
			return v.typeMismatch(rowIdx, spec.Name, raw), true
		}
	case spec.Kind == KindFloat:
		if _, err := row.Float(spec.Name); err != nil {
			return v.typeMismatch(rowIdx, spec.Name, raw), true
		}
	default:
		if !spec.InCategories(strings.TrimSpace(raw)) {
			return v.typeMismatch(rowIdx, spec.Name, raw), true
		}
		return Finding{}, false
	}

	if spec.Numeric() {
		val, err := row.Float(spec.Name)
		if err == nil && !spec.InRange(val) {
			return Finding{
				Row:      rowIdx,
				Column:   spec.Name,
				Kind:     FindingOutOfRange,
				Severity: SeverityMedium,
				Value:    raw,
			}, true
		}
	}

	return Finding{}, false
}

func (v *Validator) typeMismatch(rowIdx int, column, raw string) Finding {
	return Finding{
		Row:      rowIdx,
		Column:   column,
		Kind:     FindingTypeMismatch,
		Severity: SeverityHigh,
		Value:    raw,
	}
}
