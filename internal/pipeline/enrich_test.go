package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/errors"
)

func TestEnricher_DerivedValues(t *testing.T) {
	e := NewEnricher(nil)
	tbl := salesTable(t,
		[]string{"P1", "Rice", "10", "2.5", "Jan", "20"},
	)

	out, err := e.Enrich(context.Background(), tbl)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Product_ID", "Product_Name", "Units_Sold", "Price", "Month", "Opening_Stock",
		"Total_Sales_Value", "Month_Num", "Stock_Efficiency",
		"Remaining_Stock", "Stock_Turnover_Rate", "Revenue_Per_Unit",
	}, out.Columns())

	assert.Equal(t, "25.00", cellValue(t, out, 0, "Total_Sales_Value"))
	assert.Equal(t, "1", cellValue(t, out, 0, "Month_Num"))
	assert.Equal(t, "0.5000", cellValue(t, out, 0, "Stock_Efficiency"))
	assert.Equal(t, "10", cellValue(t, out, 0, "Remaining_Stock"))
	assert.Equal(t, "50.00", cellValue(t, out, 0, "Stock_Turnover_Rate"))
	assert.Equal(t, "2.50", cellValue(t, out, 0, "Revenue_Per_Unit"))
}

func TestEnricher_ZeroDenominators(t *testing.T) {
	e := NewEnricher(nil)
	tbl := salesTable(t,
		[]string{"P1", "Rice", "0", "2.5", "Jan", "0"},
	)

	out, err := e.Enrich(context.Background(), tbl)
	require.NoError(t, err)

	assert.Equal(t, "0.0000", cellValue(t, out, 0, "Stock_Efficiency"))
	assert.Equal(t, "0.00", cellValue(t, out, 0, "Stock_Turnover_Rate"))
	assert.Equal(t, "0.00", cellValue(t, out, 0, "Revenue_Per_Unit"))
}

func TestEnricher_NegativeRemainingStock(t *testing.T) {
	// overselling is reported as-is, not clamped
	e := NewEnricher(nil)
	tbl := salesTable(t,
		[]string{"P1", "Rice", "30", "2.5", "Jan", "20"},
	)

	out, err := e.Enrich(context.Background(), tbl)
	require.NoError(t, err)

	assert.Equal(t, "-10", cellValue(t, out, 0, "Remaining_Stock"))
	assert.Equal(t, "150.00", cellValue(t, out, 0, "Stock_Turnover_Rate"))
}

func TestEnricher_UnknownMonth(t *testing.T) {
	e := NewEnricher(nil)
	tbl := salesTable(t,
		[]string{"P1", "Rice", "10", "2.5", "Unknown", "20"},
	)

	out, err := e.Enrich(context.Background(), tbl)
	require.NoError(t, err)

	assert.Equal(t, "0", cellValue(t, out, 0, "Month_Num"))
}

func TestEnricher_ColumnConflict(t *testing.T) {
	e := NewEnricher(nil)
	tbl := salesTable(t,
		[]string{"P1", "Rice", "10", "2.5", "Jan", "20"},
	)
	withConflict, err := tbl.AppendColumn("Total_Sales_Value", []string{"999"})
	require.NoError(t, err)

	_, err = e.Enrich(context.Background(), withConflict)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeColumnConflict))

	// source data untouched on failure
	assert.Equal(t, "999", cellValue(t, withConflict, 0, "Total_Sales_Value"))
}

func TestEnricher_UnparseableCell(t *testing.T) {
	e := NewEnricher(nil)
	tbl := salesTable(t,
		[]string{"P1", "Rice", "ten", "2.5", "Jan", "20"},
	)

	_, err := e.Enrich(context.Background(), tbl)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}

func TestEnricher_InputUntouched(t *testing.T) {
	e := NewEnricher(nil)
	tbl := salesTable(t,
		[]string{"P1", "Rice", "10", "2.5", "Jan", "20"},
	)

	_, err := e.Enrich(context.Background(), tbl)
	require.NoError(t, err)

	assert.Equal(t, 6, tbl.NumColumns())
}
