package pipeline

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"salescli/internal/table"
	"salescli/pkg/contracts/domain"
)

// Rule names a remediation applied by the cleaner
type Rule string

const (
	RuleDrop Rule = "drop"
	RuleFill Rule = "fill"
	RuleClip Rule = "clip"
)

// Rules lists the remediation rules in report order
var Rules = []Rule{RuleDrop, RuleFill, RuleClip}

// Change records one remediation: which cell changed, from what to what,
// under which rule. Row refers to the row's position in the table the
// findings were produced on; drops carry no column or values.
type Change struct {
	Row    int
	Column string
	Old    string
	New    string
	Rule   Rule
}

// Cleaner applies the fixed remediation policy to a validated table:
// duplicate rows are dropped (keep-first), missing numeric cells are filled
// with the column median, missing categorical cells with "Unknown", and
// out-of-range numeric cells are clipped to the nearest bound. Drops happen
// before fills so fill medians are computed over the surviving rows only.
// Numeric fills are clamped to the column bounds and rows whose filled key
// collides with an earlier row are dropped, so re-validating the output
// reports no missing, range or duplicate findings.
type Cleaner struct {
	logger *slog.Logger
	schema Schema
}

// NewCleaner creates a cleaner for the given schema
func NewCleaner(logger *slog.Logger, schema Schema) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger, schema: schema}
}

// Clean returns a remediated copy of the table plus the change record.
// The input table is left untouched.
func (c *Cleaner) Clean(ctx context.Context, t *table.Table, findings []Finding) (*table.Table, []Change, error) {
	var changes []Change

	// pass 1: drop duplicate rows
	dropped := make(map[int]bool)
	for _, f := range findings {
		if f.Kind == FindingDuplicateKey {
			dropped[f.Row] = true
			changes = append(changes, Change{Row: f.Row, Rule: RuleDrop})
		}
	}

	out, _ := table.New(t.Columns())
	rowMap := make(map[int]int, t.NumRows()) // original index -> cleaned index
	var origOf []int                         // cleaned index -> original index
	for i := 0; i < t.NumRows(); i++ {
		if dropped[i] {
			continue
		}
		rowMap[i] = out.NumRows()
		origOf = append(origOf, i)
		if err := out.AppendRow(t.Row(i).Cells()); err != nil {
			return nil, nil, err
		}
	}

	// Fill medians come from the post-drop, pre-fill table state. Computing
	// them up front keeps every fill of one column identical no matter how
	// many cells it touches.
	medians := make(map[string]float64)
	for _, spec := range c.schema.Columns {
		if !spec.Numeric() || !out.HasColumn(spec.Name) {
			continue
		}
		values, err := table.NumericColumn(out, spec.Name)
		if err != nil {
			return nil, nil, err
		}
		medians[spec.Name] = table.Median(values)
	}

	// pass 2: fill missing and unparseable cells
	for _, f := range findings {
		if f.Kind != FindingMissingValue && f.Kind != FindingTypeMismatch {
			continue
		}
		newIdx, alive := rowMap[f.Row]
		if !alive {
			continue
		}
		spec, ok := c.schema.Column(f.Column)
		if !ok {
			continue
		}

		old, _ := out.Cell(newIdx, f.Column)
		filled := c.fillValue(spec, medians)
		if err := out.SetCell(newIdx, f.Column, filled); err != nil {
			return nil, nil, err
		}
		changes = append(changes, Change{Row: f.Row, Column: f.Column, Old: old, New: filled, Rule: RuleFill})
	}

	// Filling a missing key part can leave two rows with the same natural
	// key, which duplicate detection could not see before the fill. Those
	// collisions are dropped keep-first like input duplicates.
	seenKeys := make(map[string]bool)
	collided := make(map[int]bool)
	for i := 0; i < out.NumRows(); i++ {
		key, ok := naturalKey(c.schema, out.Row(i))
		if !ok {
			continue
		}
		if seenKeys[key] {
			collided[i] = true
			continue
		}
		seenKeys[key] = true
	}
	if len(collided) > 0 {
		rebuilt, _ := table.New(out.Columns())
		rowMap = make(map[int]int, out.NumRows())
		var keptOrig []int
		for i := 0; i < out.NumRows(); i++ {
			if collided[i] {
				changes = append(changes, Change{Row: origOf[i], Rule: RuleDrop})
				continue
			}
			rowMap[origOf[i]] = rebuilt.NumRows()
			keptOrig = append(keptOrig, origOf[i])
			if err := rebuilt.AppendRow(out.Row(i).Cells()); err != nil {
				return nil, nil, err
			}
		}
		origOf = keptOrig
		out = rebuilt
	}

	// pass 3: clip out-of-range cells
	for _, f := range findings {
		if f.Kind != FindingOutOfRange {
			continue
		}
		newIdx, alive := rowMap[f.Row]
		if !alive {
			continue
		}
		spec, ok := c.schema.Column(f.Column)
		if !ok || !spec.Numeric() {
			continue
		}

		val, err := out.Row(newIdx).Float(f.Column)
		if err != nil {
			continue
		}
		old, _ := out.Cell(newIdx, f.Column)
		clipped := formatNumeric(spec, spec.Clip(val))
		if err := out.SetCell(newIdx, f.Column, clipped); err != nil {
			return nil, nil, err
		}
		changes = append(changes, Change{Row: f.Row, Column: f.Column, Old: old, New: clipped, Rule: RuleClip})
	}

	c.logger.InfoContext(ctx, "cleaning complete",
		slog.Int("rows_before", t.NumRows()),
		slog.Int("rows_after", out.NumRows()),
		slog.Int("changes", len(changes)))

	return out, changes, nil
}

// fillValue picks the replacement for a missing or unparseable cell. A
// numeric fill is clamped to the column's bounds: the median is computed
// before out-of-range cells are clipped, so it can land outside them.
func (c *Cleaner) fillValue(spec ColumnSpec, medians map[string]float64) string {
	if spec.Numeric() {
		return formatNumeric(spec, spec.Clip(medians[spec.Name]))
	}
	return domain.UnknownValue
}

// formatNumeric renders a value the way the column's type expects: integers
// for int columns (rounded when a median lands between two values), the
// report number format otherwise.
func formatNumeric(spec ColumnSpec, v float64) string {
	if spec.Kind == KindInt {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	return table.FormatNumber(v)
}
