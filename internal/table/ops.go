package table

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// The functions in this file are the named, composable replacements for the
// one-off dataset manipulations the analysis reports are built from:
// filtering, sorting, grouping and joining. Every function returns a new
// table and leaves its inputs untouched.

// Filter returns a new table holding the rows for which pred is true,
// preserving row order.
func Filter(t *Table, pred func(Row) bool) *Table {
	out, _ := New(t.header)
	for i := range t.rows {
		if pred(t.Row(i)) {
			out.rows = append(out.rows, append([]string(nil), t.rows[i]...))
		}
	}
	return out
}

// Select returns a new table with only the named columns, in the given
// order.
func Select(t *Table, columns ...string) (*Table, error) {
	indices := make([]int, len(columns))
	for i, name := range columns {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("unknown column: %s", name)
		}
		indices[i] = idx
	}
	out, err := New(columns)
	if err != nil {
		return nil, err
	}
	out.rows = make([][]string, len(t.rows))
	for r, row := range t.rows {
		cells := make([]string, len(indices))
		for c, idx := range indices {
			cells[c] = row[idx]
		}
		out.rows[r] = cells
	}
	return out, nil
}

// SortByColumn returns a new table sorted by the named column. Numeric
// sorts compare parsed values, with unparseable cells ordered last; the
// sort is stable so equal keys keep their input order.
func SortByColumn(t *Table, column string, numeric, descending bool) (*Table, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("unknown column: %s", column)
	}

	out := t.Clone()
	less := func(a, b []string) bool {
		if numeric {
			av, aerr := parseNumber(a[idx])
			bv, berr := parseNumber(b[idx])
			switch {
			case aerr != nil && berr != nil:
				return false
			case aerr != nil:
				return false
			case berr != nil:
				return true
			}
			return av < bv
		}
		return a[idx] < b[idx]
	}
	sort.SliceStable(out.rows, func(i, j int) bool {
		if descending {
			return less(out.rows[j], out.rows[i])
		}
		return less(out.rows[i], out.rows[j])
	})
	return out, nil
}

// AggOp is a group aggregation operation
type AggOp string

const (
	AggSum   AggOp = "sum"
	AggMean  AggOp = "mean"
	AggCount AggOp = "count"
	AggMin   AggOp = "min"
	AggMax   AggOp = "max"
)

// Aggregation names one aggregated output column of a GroupBy
type Aggregation struct {
	Column string // source column (ignored for count)
	Op     AggOp
	As     string // output column name
}

// GroupBy returns one row per distinct key, in first-seen order, with the
// requested aggregations computed over each group. Missing and unparseable
// cells are skipped by the numeric aggregations.
func GroupBy(t *Table, keyColumns []string, aggs []Aggregation) (*Table, error) {
	keyIdx := make([]int, len(keyColumns))
	for i, name := range keyColumns {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("unknown key column: %s", name)
		}
		keyIdx[i] = idx
	}
	for _, agg := range aggs {
		if agg.Op != AggCount && t.ColumnIndex(agg.Column) < 0 {
			return nil, fmt.Errorf("unknown aggregation column: %s", agg.Column)
		}
	}

	header := append([]string(nil), keyColumns...)
	for _, agg := range aggs {
		header = append(header, agg.As)
	}
	out, err := New(header)
	if err != nil {
		return nil, err
	}

	type group struct {
		key    []string
		values [][]float64 // parsed cells per aggregation
		counts []int       // rows seen per aggregation
	}
	var order []string
	groups := make(map[string]*group)

	for r := range t.rows {
		keyParts := make([]string, len(keyIdx))
		for i, idx := range keyIdx {
			keyParts[i] = t.rows[r][idx]
		}
		key := strings.Join(keyParts, "\x1f")
		g, ok := groups[key]
		if !ok {
			g = &group{
				key:    keyParts,
				values: make([][]float64, len(aggs)),
				counts: make([]int, len(aggs)),
			}
			groups[key] = g
			order = append(order, key)
		}
		for i, agg := range aggs {
			g.counts[i]++
			if agg.Op == AggCount {
				continue
			}
			if v, err := parseNumber(t.rows[r][t.ColumnIndex(agg.Column)]); err == nil {
				g.values[i] = append(g.values[i], v)
			}
		}
	}

	for _, key := range order {
		g := groups[key]
		cells := append([]string(nil), g.key...)
		for i, agg := range aggs {
			cells = append(cells, formatAggregate(agg.Op, g.values[i], g.counts[i]))
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}

// Merge left-joins right onto left over the shared key column. Right-side
// columns (except the key) are appended; rows without a match get empty
// cells. When the right table repeats a key, the first occurrence wins.
func Merge(left, right *Table, on string) (*Table, error) {
	leftIdx := left.ColumnIndex(on)
	rightIdx := right.ColumnIndex(on)
	if leftIdx < 0 || rightIdx < 0 {
		return nil, fmt.Errorf("join column %s missing from one side", on)
	}

	var extraCols []string
	var extraIdx []int
	for i, name := range right.header {
		if i == rightIdx {
			continue
		}
		if left.HasColumn(name) {
			return nil, fmt.Errorf("column %s exists on both sides", name)
		}
		extraCols = append(extraCols, name)
		extraIdx = append(extraIdx, i)
	}

	lookup := make(map[string][]string, right.NumRows())
	for _, row := range right.rows {
		if _, seen := lookup[row[rightIdx]]; !seen {
			lookup[row[rightIdx]] = row
		}
	}

	out, err := New(append(left.Columns(), extraCols...))
	if err != nil {
		return nil, err
	}
	for _, row := range left.rows {
		cells := append([]string(nil), row...)
		match := lookup[row[leftIdx]]
		for _, idx := range extraIdx {
			if match != nil {
				cells = append(cells, match[idx])
			} else {
				cells = append(cells, "")
			}
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}

func formatAggregate(op AggOp, values []float64, count int) string {
	switch op {
	case AggCount:
		return strconv.Itoa(count)
	case AggSum:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return FormatNumber(sum)
	case AggMean:
		if len(values) == 0 {
			return ""
		}
		var sum float64
		for _, v := range values {
			sum += v
		}
		return FormatNumber(sum / float64(len(values)))
	case AggMin:
		if len(values) == 0 {
			return ""
		}
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return FormatNumber(min)
	case AggMax:
		if len(values) == 0 {
			return ""
		}
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return FormatNumber(max)
	}
	return ""
}

// FormatNumber renders a float the way the report files expect: integral
// values without a fraction, everything else with two decimals.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func parseNumber(cell string) (float64, error) {
	if IsMissing(cell) {
		return 0, fmt.Errorf("missing value")
	}
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(cell), ",", ""), 64)
}
