package table

import (
	"fmt"
	"math"
	"sort"
)

// Stats holds descriptive statistics for one numeric column. Count is the
// number of parseable cells the statistics were computed over.
type Stats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	Std    float64
	Sum    float64
}

// ColumnStats computes descriptive statistics over a numeric column,
// skipping missing and unparseable cells. Count is zero when no cell
// parsed; the other fields are zero in that case.
func ColumnStats(t *Table, column string) (Stats, error) {
	values, err := NumericColumn(t, column)
	if err != nil {
		return Stats{}, err
	}
	if len(values) == 0 {
		return Stats{}, nil
	}

	s := Stats{
		Count: len(values),
		Min:   values[0],
		Max:   values[0],
	}
	for _, v := range values {
		s.Sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = s.Sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - s.Mean
		sq += d * d
	}
	s.Std = math.Sqrt(sq / float64(len(values)))
	s.Median = Median(values)

	return s, nil
}

// NumericColumn returns the parseable values of a column in row order
func NumericColumn(t *Table, column string) ([]float64, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("unknown column: %s", column)
	}
	values := make([]float64, 0, len(t.rows))
	for _, row := range t.rows {
		if v, err := parseNumber(row[idx]); err == nil {
			values = append(values, v)
		}
	}
	return values, nil
}

// MissingCount returns how many cells of a column are missing
func (t *Table) MissingCount(column string) (int, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return 0, fmt.Errorf("unknown column: %s", column)
	}
	count := 0
	for _, row := range t.rows {
		if IsMissing(row[idx]) {
			count++
		}
	}
	return count, nil
}

// Median returns the median of values. The input slice is not modified.
// Zero is returned for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
