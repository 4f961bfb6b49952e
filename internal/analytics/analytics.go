// Package analytics derives summary CSVs from an enriched sales dataset.
// Every generator is a pure function of its input table; each accepts any
// table carrying at least the columns it reads, so extra columns added by
// later schema versions pass through untouched.
package analytics

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"

	"salescli/internal/errors"
	"salescli/internal/exporter"
	"salescli/internal/table"
	"salescli/pkg/contracts/domain"
)

// Artifact file names under the output directory
const (
	ProductSummaryFile = "pivot_product_summary.csv"
	ProductMonthFile   = "pivot_product_month.csv"
	MonthlySummaryFile = "monthly_summary.csv"
)

// Generator builds the analytics artifacts from one enriched table
type Generator struct {
	logger *slog.Logger
	writer *exporter.Writer
}

// NewGenerator creates an analytics generator
func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{logger: logger, writer: exporter.NewWriter(logger)}
}

// ProductSummary aggregates sales per product: total units, total and mean
// sales value, mean price and the number of observations. Products appear
// in first-seen input order.
func (g *Generator) ProductSummary(t *table.Table) (*table.Table, error) {
	out, err := table.GroupBy(t, []string{domain.ColProductName}, []table.Aggregation{
		{Column: domain.ColUnitsSold, Op: table.AggSum, As: "Total_Units"},
		{Column: domain.ColTotalSalesValue, Op: table.AggSum, As: "Total_Sales_Value"},
		{Column: domain.ColTotalSalesValue, Op: table.AggMean, As: "Avg_Sales_Value"},
		{Column: domain.ColPrice, Op: table.AggMean, As: "Avg_Price"},
		{Op: table.AggCount, As: "Observations"},
	})
	if err != nil {
		return nil, errors.NewParsingError("product summary", err)
	}
	return out, nil
}

// ProductMonthPivot cross-tabulates Units_Sold with one row per product and
// one column per month present in the data; month columns follow calendar
// order and cells without an observation hold 0.
func (g *Generator) ProductMonthPivot(t *table.Table) (*table.Table, error) {
	unitsIdx := t.ColumnIndex(domain.ColUnitsSold)
	monthIdx := t.ColumnIndex(domain.ColMonth)
	nameIdx := t.ColumnIndex(domain.ColProductName)
	if unitsIdx < 0 || monthIdx < 0 || nameIdx < 0 {
		return nil, errors.NewSchemaMismatchError("pivot requires Product_Name, Month and Units_Sold", nil)
	}

	months := presentMonths(t)
	sums := make(map[string]map[string]float64) // product -> month -> units
	var products []string
	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		product := row.Get(domain.ColProductName)
		if _, seen := sums[product]; !seen {
			sums[product] = make(map[string]float64)
			products = append(products, product)
		}
		units, err := row.Float(domain.ColUnitsSold)
		if err != nil {
			continue
		}
		sums[product][row.Get(domain.ColMonth)] += units
	}

	out, err := table.New(append([]string{domain.ColProductName}, months...))
	if err != nil {
		return nil, err
	}
	for _, product := range products {
		cells := []string{product}
		for _, month := range months {
			cells = append(cells, table.FormatNumber(sums[product][month]))
		}
		if err := out.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// MonthlySummary aggregates per month: total units, total sales value and
// mean opening stock, ordered by calendar month.
func (g *Generator) MonthlySummary(t *table.Table) (*table.Table, error) {
	grouped, err := table.GroupBy(t, []string{domain.ColMonth}, []table.Aggregation{
		{Column: domain.ColUnitsSold, Op: table.AggSum, As: "Total_Units"},
		{Column: domain.ColTotalSalesValue, Op: table.AggSum, As: "Total_Sales_Value"},
		{Column: domain.ColOpeningStock, Op: table.AggMean, As: "Avg_Opening_Stock"},
	})
	if err != nil {
		return nil, errors.NewParsingError("monthly summary", err)
	}

	// order by calendar month via a helper column, then drop it
	nums := make([]string, grouped.NumRows())
	for i := 0; i < grouped.NumRows(); i++ {
		nums[i] = strconv.Itoa(domain.MonthNum(grouped.Row(i).Get(domain.ColMonth)))
	}
	withNum, err := grouped.AppendColumn(domain.ColMonthNum, nums)
	if err != nil {
		return nil, err
	}
	sorted, err := table.SortByColumn(withNum, domain.ColMonthNum, true, false)
	if err != nil {
		return nil, err
	}
	return table.Select(sorted, "Month", "Total_Units", "Total_Sales_Value", "Avg_Opening_Stock")
}

// WriteAll generates every artifact and writes each to outputDir, returning
// the written paths in a fixed order.
func (g *Generator) WriteAll(ctx context.Context, t *table.Table, outputDir string) ([]string, error) {
	artifacts := []struct {
		file     string
		generate func(*table.Table) (*table.Table, error)
	}{
		{ProductSummaryFile, g.ProductSummary},
		{ProductMonthFile, g.ProductMonthPivot},
		{MonthlySummaryFile, g.MonthlySummary},
	}

	var paths []string
	for _, a := range artifacts {
		out, err := a.generate(t)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(outputDir, a.file)
		if err := g.writer.WriteTable(path, out); err != nil {
			return nil, err
		}
		g.logger.InfoContext(ctx, "analytics artifact written",
			slog.String("file", a.file),
			slog.Int("rows", out.NumRows()))
		paths = append(paths, path)
	}
	return paths, nil
}

// presentMonths lists the distinct month labels of the table in calendar
// order, with labels outside the calendar appended last in input order.
func presentMonths(t *table.Table) []string {
	seen := make(map[string]bool)
	var months []string
	for i := 0; i < t.NumRows(); i++ {
		label := t.Row(i).Get(domain.ColMonth)
		if !seen[label] {
			seen[label] = true
			months = append(months, label)
		}
	}
	sort.SliceStable(months, func(i, j int) bool {
		ni, nj := domain.MonthNum(months[i]), domain.MonthNum(months[j])
		if ni == 0 || nj == 0 {
			return nj == 0 && ni != 0
		}
		return ni < nj
	})
	return months
}
