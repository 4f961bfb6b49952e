package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnStats(t *testing.T) {
	tbl := mustTable(t, []string{"Price"},
		[]string{"2"},
		[]string{"4"},
		[]string{""},
		[]string{"6"},
		[]string{"bad"},
	)

	s, err := ColumnStats(tbl, "Price")
	require.NoError(t, err)

	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 2, s.Min, 1e-9)
	assert.InDelta(t, 6, s.Max, 1e-9)
	assert.InDelta(t, 4, s.Mean, 1e-9)
	assert.InDelta(t, 4, s.Median, 1e-9)
	assert.InDelta(t, 12, s.Sum, 1e-9)
	assert.InDelta(t, 1.63299316, s.Std, 1e-6)
}

func TestColumnStats_EmptyColumn(t *testing.T) {
	tbl := mustTable(t, []string{"Price"}, []string{""}, []string{"NA"})

	s, err := ColumnStats(tbl, "Price")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Count)
	assert.Zero(t, s.Mean)
}

func TestColumnStats_UnknownColumn(t *testing.T) {
	tbl := mustTable(t, []string{"Price"})
	_, err := ColumnStats(tbl, "Nope")
	assert.Error(t, err)
}

func TestMissingCount(t *testing.T) {
	tbl := mustTable(t, []string{"Month"},
		[]string{"Jan"}, []string{""}, []string{"  "}, []string{"Feb"},
	)

	n, err := tbl.MissingCount("Month")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 5},
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"unsorted input untouched", []float64{9, 1}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]float64(nil), tt.values...)
			assert.InDelta(t, tt.want, Median(tt.values), 1e-9)
			assert.Equal(t, in, tt.values)
		})
	}
}
