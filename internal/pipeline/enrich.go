package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"salescli/internal/errors"
	"salescli/internal/table"
	"salescli/pkg/contracts/domain"
)

// Enricher appends the derived columns to a cleaned table. Every derived
// value is a pure per-row function of columns already present; ratios whose
// denominator is zero yield 0 instead of failing.
type Enricher struct {
	logger *slog.Logger
}

// NewEnricher creates a feature enricher
func NewEnricher(logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{logger: logger}
}

// derivedColumn pairs a column name with its row formula
type derivedColumn struct {
	name    string
	compute func(table.Row) (string, error)
}

// Enrich returns a new table with the derived columns appended in a fixed
// order. It fails with COLUMN_CONFLICT when a derived name already exists
// and never overwrites a source column.
func (e *Enricher) Enrich(ctx context.Context, t *table.Table) (*table.Table, error) {
	derived := []derivedColumn{
		{domain.ColTotalSalesValue, totalSalesValue},
		{domain.ColMonthNum, monthNum},
		{domain.ColStockEfficiency, stockEfficiency},
		{domain.ColRemainingStock, remainingStock},
		{domain.ColStockTurnoverRate, stockTurnoverRate},
		{domain.ColRevenuePerUnit, revenuePerUnit},
	}

	for _, d := range derived {
		if t.HasColumn(d.name) {
			return nil, errors.NewColumnConflictError(d.name).WithStage(StageEnrich)
		}
	}

	out := t
	for _, d := range derived {
		values := make([]string, t.NumRows())
		for i := 0; i < t.NumRows(); i++ {
			v, err := d.compute(t.Row(i))
			if err != nil {
				return nil, errors.NewParsingError(
					fmt.Sprintf("row %d: cannot derive %s", i, d.name), err).WithStage(StageEnrich)
			}
			values[i] = v
		}
		var err error
		out, err = out.AppendColumn(d.name, values)
		if err != nil {
			return nil, errors.NewColumnConflictError(d.name).WithStage(StageEnrich)
		}
	}

	e.logger.InfoContext(ctx, "enrichment complete",
		slog.Int("rows", out.NumRows()),
		slog.Int("derived_columns", len(derived)))

	return out, nil
}

// Total_Sales_Value = Units_Sold * Price
func totalSalesValue(r table.Row) (string, error) {
	units, err := r.Float(domain.ColUnitsSold)
	if err != nil {
		return "", err
	}
	price, err := r.Float(domain.ColPrice)
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(units*price, 'f', 2, 64), nil
}

// Month_Num maps the month label to 1..12, 0 for an unknown label
func monthNum(r table.Row) (string, error) {
	return strconv.Itoa(domain.MonthNum(r.Get(domain.ColMonth))), nil
}

// Stock_Efficiency = Units_Sold / Opening_Stock, 0 when no opening stock
func stockEfficiency(r table.Row) (string, error) {
	units, err := r.Float(domain.ColUnitsSold)
	if err != nil {
		return "", err
	}
	stock, err := r.Float(domain.ColOpeningStock)
	if err != nil {
		return "", err
	}
	if stock == 0 {
		return "0.0000", nil
	}
	return strconv.FormatFloat(units/stock, 'f', 4, 64), nil
}

// Remaining_Stock = Opening_Stock - Units_Sold
func remainingStock(r table.Row) (string, error) {
	stock, err := r.Int(domain.ColOpeningStock)
	if err != nil {
		return "", err
	}
	units, err := r.Int(domain.ColUnitsSold)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(stock-units, 10), nil
}

// Stock_Turnover_Rate = Units_Sold / Opening_Stock * 100, rounded to two
// decimals, 0 when no opening stock
func stockTurnoverRate(r table.Row) (string, error) {
	units, err := r.Float(domain.ColUnitsSold)
	if err != nil {
		return "", err
	}
	stock, err := r.Float(domain.ColOpeningStock)
	if err != nil {
		return "", err
	}
	if stock == 0 {
		return "0.00", nil
	}
	rate := math.Round(units/stock*100*100) / 100
	return strconv.FormatFloat(rate, 'f', 2, 64), nil
}

// Revenue_Per_Unit = Total_Sales_Value / Units_Sold, which reduces to the
// unit price; 0 when nothing was sold
func revenuePerUnit(r table.Row) (string, error) {
	units, err := r.Float(domain.ColUnitsSold)
	if err != nil {
		return "", err
	}
	price, err := r.Float(domain.ColPrice)
	if err != nil {
		return "", err
	}
	if units == 0 {
		return "0.00", nil
	}
	return strconv.FormatFloat(price, 'f', 2, 64), nil
}
