package analytics

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/table"
)

// enriched-dataset fixture; column order matches the pipeline artifact
func enrichedTable(t *testing.T, rows ...[]string) *table.Table {
	t.Helper()
	tbl, err := table.New([]string{
		"Product_ID", "Product_Name", "Units_Sold", "Price", "Month", "Opening_Stock",
		"Total_Sales_Value", "Month_Num",
	})
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, tbl.AppendRow(row))
	}
	return tbl
}

func sampleData(t *testing.T) *table.Table {
	t.Helper()
	return enrichedTable(t,
		[]string{"P2", "Soap", "5", "4", "Feb", "10", "20.00", "2"},
		[]string{"P1", "Rice", "10", "2.5", "Jan", "20", "25.00", "1"},
		[]string{"P1", "Rice", "20", "2.5", "Feb", "40", "50.00", "2"},
	)
}

func TestProductSummary(t *testing.T) {
	g := NewGenerator(nil)
	out, err := g.ProductSummary(sampleData(t))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Product_Name", "Total_Units", "Total_Sales_Value", "Avg_Sales_Value",
		"Avg_Price", "Observations",
	}, out.Columns())
	require.Equal(t, 2, out.NumRows())

	// first-seen order
	assert.Equal(t, []string{"Soap", "5", "20", "20", "4", "1"}, out.Row(0).Cells())
	assert.Equal(t, []string{"Rice", "30", "75", "37.50", "2.50", "2"}, out.Row(1).Cells())
}

func TestProductMonthPivot(t *testing.T) {
	g := NewGenerator(nil)
	out, err := g.ProductMonthPivot(sampleData(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"Product_Name", "Jan", "Feb"}, out.Columns())
	require.Equal(t, 2, out.NumRows())

	// absent observations render as 0
	assert.Equal(t, []string{"Soap", "0", "5"}, out.Row(0).Cells())
	assert.Equal(t, []string{"Rice", "10", "20"}, out.Row(1).Cells())
}

func TestMonthlySummary_CalendarOrder(t *testing.T) {
	g := NewGenerator(nil)
	out, err := g.MonthlySummary(sampleData(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"Month", "Total_Units", "Total_Sales_Value", "Avg_Opening_Stock"}, out.Columns())
	require.Equal(t, 2, out.NumRows())

	// input leads with Feb; output is calendar ordered
	assert.Equal(t, []string{"Jan", "10", "25", "20"}, out.Row(0).Cells())
	assert.Equal(t, []string{"Feb", "25", "70", "25"}, out.Row(1).Cells())
}

func TestGenerators_TolerateExtraColumns(t *testing.T) {
	base := sampleData(t)
	extended, err := base.AppendColumn("Category", []string{"Care", "Staples", "Staples"})
	require.NoError(t, err)

	g := NewGenerator(nil)
	for _, generate := range []func(*table.Table) (*table.Table, error){
		g.ProductSummary, g.ProductMonthPivot, g.MonthlySummary,
	} {
		_, err := generate(extended)
		assert.NoError(t, err)
	}
}

func TestProductMonthPivot_MissingColumns(t *testing.T) {
	tbl, err := table.New([]string{"Product_Name", "Units_Sold"})
	require.NoError(t, err)

	g := NewGenerator(nil)
	_, err = g.ProductMonthPivot(tbl)
	require.Error(t, err)
}

func TestWriteAll(t *testing.T) {
	g := NewGenerator(nil)
	dir := t.TempDir()

	paths, err := g.WriteAll(context.Background(), sampleData(t), dir)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, ProductSummaryFile),
		filepath.Join(dir, ProductMonthFile),
		filepath.Join(dir, MonthlySummaryFile),
	}, paths)

	for _, path := range paths {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotEmpty(t, content)
	}

	pivot, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "Product_Name,Jan,Feb\nSoap,0,5\nRice,10,20\n", string(pivot))
}
