package pipeline

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"salescli/internal/errors"
	"salescli/internal/table"
	"salescli/pkg/contracts/domain"
)

var recordValidator = validator.New()

// Records converts an enriched table into typed rows for consumers that
// prefer struct access over column lookups. Every row must carry the full
// enriched column set and satisfy the contract's constraints.
func Records(t *table.Table) ([]domain.SalesRecord, error) {
	records := make([]domain.SalesRecord, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		rec, err := rowRecord(t.Row(i))
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("row %d", i), err)
		}
		if err := recordValidator.Struct(rec); err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("row %d: invalid record", i), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func rowRecord(row table.Row) (domain.SalesRecord, error) {
	var rec domain.SalesRecord
	var err error

	rec.ProductID = row.Get(domain.ColProductID)
	rec.ProductName = row.Get(domain.ColProductName)
	rec.Month = row.Get(domain.ColMonth)

	if rec.UnitsSold, err = row.Int(domain.ColUnitsSold); err != nil {
		return rec, err
	}
	if rec.Price, err = row.Float(domain.ColPrice); err != nil {
		return rec, err
	}
	if rec.OpeningStock, err = row.Int(domain.ColOpeningStock); err != nil {
		return rec, err
	}
	if rec.TotalSalesValue, err = row.Float(domain.ColTotalSalesValue); err != nil {
		return rec, err
	}
	monthNum, err := row.Int(domain.ColMonthNum)
	if err != nil {
		return rec, err
	}
	rec.MonthNum = int(monthNum)
	if rec.StockEfficiency, err = row.Float(domain.ColStockEfficiency); err != nil {
		return rec, err
	}
	if rec.RemainingStock, err = row.Int(domain.ColRemainingStock); err != nil {
		return rec, err
	}
	if rec.StockTurnoverRate, err = row.Float(domain.ColStockTurnoverRate); err != nil {
		return rec, err
	}
	if rec.RevenuePerUnit, err = row.Float(domain.ColRevenuePerUnit); err != nil {
		return rec, err
	}
	return rec, nil
}
