package pipeline

import (
	"fmt"
	"strings"

	"salescli/internal/table"
	"salescli/pkg/contracts/domain"
)

// ColumnNulls tracks missing cells of one column before and after cleaning
type ColumnNulls struct {
	Column string
	Before int
	After  int
}

// ColumnSummary holds descriptive statistics for one numeric column
type ColumnSummary struct {
	Column string
	Stats  table.Stats
}

// RunReport aggregates one pipeline execution: findings, remediations and
// before/after dataset shape. It is assembled once at the end of a run and
// not modified afterwards. It deliberately carries no timestamp or run ID
// so two runs over the same input render byte-identical artifacts.
type RunReport struct {
	InputPath     string
	RowsBefore    int
	RowsAfter     int
	FindingCounts map[FindingKind]int
	ChangeCounts  map[Rule]int
	Nulls         []ColumnNulls
	StatsBefore   []ColumnSummary
	StatsAfter    []ColumnSummary
}

// BuildReport summarizes a completed run from the loaded table, the final
// enriched table, the validator's findings and the cleaner's change record.
func BuildReport(schema Schema, inputPath string, before, final *table.Table, findings []Finding, changes []Change) (*RunReport, error) {
	r := &RunReport{
		InputPath:     inputPath,
		RowsBefore:    before.NumRows(),
		RowsAfter:     final.NumRows(),
		FindingCounts: make(map[FindingKind]int),
		ChangeCounts:  make(map[Rule]int),
	}

	for _, f := range findings {
		r.FindingCounts[f.Kind]++
	}
	for _, c := range changes {
		r.ChangeCounts[c.Rule]++
	}

	for _, spec := range schema.Columns {
		nulls := ColumnNulls{Column: spec.Name}
		var err error
		if before.HasColumn(spec.Name) {
			if nulls.Before, err = before.MissingCount(spec.Name); err != nil {
				return nil, err
			}
		}
		if final.HasColumn(spec.Name) {
			if nulls.After, err = final.MissingCount(spec.Name); err != nil {
				return nil, err
			}
		}
		r.Nulls = append(r.Nulls, nulls)

		if spec.Numeric() {
			stats, err := table.ColumnStats(before, spec.Name)
			if err != nil {
				return nil, err
			}
			r.StatsBefore = append(r.StatsBefore, ColumnSummary{Column: spec.Name, Stats: stats})
		}
	}

	for _, name := range numericFinalColumns(schema) {
		if !final.HasColumn(name) {
			continue
		}
		stats, err := table.ColumnStats(final, name)
		if err != nil {
			return nil, err
		}
		r.StatsAfter = append(r.StatsAfter, ColumnSummary{Column: name, Stats: stats})
	}

	return r, nil
}

// numericFinalColumns lists the numeric columns of the enriched dataset in
// report order: numeric source columns first, then the derived ones.
func numericFinalColumns(schema Schema) []string {
	var names []string
	for _, spec := range schema.Columns {
		if spec.Numeric() {
			names = append(names, spec.Name)
		}
	}
	return append(names, domain.DerivedColumns()...)
}

// Render produces the human-readable text artifact of the run
func (r *RunReport) Render() string {
	var b strings.Builder
	bar := strings.Repeat("=", 70)
	line := strings.Repeat("-", 70)

	fmt.Fprintf(&b, "%s\n", bar)
	fmt.Fprintf(&b, "%sDATA PREPROCESSING RUN REPORT\n", strings.Repeat(" ", 20))
	fmt.Fprintf(&b, "%s\n\n", bar)

	fmt.Fprintf(&b, "1. INPUT\n%s\n", line)
	fmt.Fprintf(&b, "Source file: %s\n", r.InputPath)
	fmt.Fprintf(&b, "Rows before: %d\n", r.RowsBefore)
	fmt.Fprintf(&b, "Rows after:  %d\n\n", r.RowsAfter)

	fmt.Fprintf(&b, "2. FINDINGS BY KIND\n%s\n", line)
	for _, kind := range FindingKinds {
		fmt.Fprintf(&b, "%-15s %d\n", string(kind)+":", r.FindingCounts[kind])
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "3. REMEDIATIONS BY RULE\n%s\n", line)
	for _, rule := range Rules {
		fmt.Fprintf(&b, "%-15s %d\n", string(rule)+":", r.ChangeCounts[rule])
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "4. MISSING VALUES BY COLUMN (before -> after)\n%s\n", line)
	for _, n := range r.Nulls {
		fmt.Fprintf(&b, "%-20s %d -> %d\n", n.Column+":", n.Before, n.After)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "5. SUMMARY STATISTICS (input)\n%s\n", line)
	writeStats(&b, r.StatsBefore)
	b.WriteString("\n")

	fmt.Fprintf(&b, "6. SUMMARY STATISTICS (enriched)\n%s\n", line)
	writeStats(&b, r.StatsAfter)
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s\n", bar)
	b.WriteString("Preprocessing completed successfully.\n")
	fmt.Fprintf(&b, "%s\n", bar)

	return b.String()
}

func writeStats(b *strings.Builder, summaries []ColumnSummary) {
	for _, s := range summaries {
		fmt.Fprintf(b, "%-20s min=%s max=%s mean=%s median=%s\n",
			s.Column+":",
			table.FormatNumber(s.Stats.Min),
			table.FormatNumber(s.Stats.Max),
			table.FormatNumber(s.Stats.Mean),
			table.FormatNumber(s.Stats.Median))
	}
}
