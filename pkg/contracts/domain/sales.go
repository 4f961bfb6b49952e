package domain

// Source column names of the raw sales dataset. The CSV header must carry
// all six for a file to be accepted.
const (
	ColProductID    = "Product_ID"
	ColProductName  = "Product_Name"
	ColUnitsSold    = "Units_Sold"
	ColPrice        = "Price"
	ColMonth        = "Month"
	ColOpeningStock = "Opening_Stock"
)

// Derived column names appended by the feature enricher. Downstream
// consumers (dashboard, chart generators) look these up by name.
const (
	ColTotalSalesValue   = "Total_Sales_Value"
	ColMonthNum          = "Month_Num"
	ColStockEfficiency   = "Stock_Efficiency"
	ColRemainingStock    = "Remaining_Stock"
	ColStockTurnoverRate = "Stock_Turnover_Rate"
	ColRevenuePerUnit    = "Revenue_Per_Unit"
)

// UnknownValue fills missing categorical cells during cleaning.
const UnknownValue = "Unknown"

// SourceColumns returns the required source columns in canonical order.
func SourceColumns() []string {
	return []string{
		ColProductID,
		ColProductName,
		ColUnitsSold,
		ColPrice,
		ColMonth,
		ColOpeningStock,
	}
}

// DerivedColumns returns the enrichment columns in the order they are
// appended to the table.
func DerivedColumns() []string {
	return []string{
		ColTotalSalesValue,
		ColMonthNum,
		ColStockEfficiency,
		ColRemainingStock,
		ColStockTurnoverRate,
		ColRevenuePerUnit,
	}
}

// MonthOrder lists the accepted month labels in calendar order.
var MonthOrder = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthNum maps a month label to its 1-based calendar index. Unknown labels
// map to 0.
func MonthNum(label string) int {
	for i, m := range MonthOrder {
		if m == label {
			return i + 1
		}
	}
	return 0
}

// IsMonth reports whether label is one of the accepted month labels.
func IsMonth(label string) bool {
	return MonthNum(label) != 0
}

// SalesRecord is the typed view of one cleaned and enriched row. It exists
// for consumers that prefer struct access over table lookups.
type SalesRecord struct {
	ProductID         string  `json:"product_id" csv:"Product_ID" validate:"required"`
	ProductName       string  `json:"product_name" csv:"Product_Name"`
	UnitsSold         int64   `json:"units_sold" csv:"Units_Sold" validate:"min=0"`
	Price             float64 `json:"price" csv:"Price" validate:"min=0"`
	Month             string  `json:"month" csv:"Month"`
	OpeningStock      int64   `json:"opening_stock" csv:"Opening_Stock" validate:"min=0"`
	TotalSalesValue   float64 `json:"total_sales_value" csv:"Total_Sales_Value"`
	MonthNum          int     `json:"month_num" csv:"Month_Num"`
	StockEfficiency   float64 `json:"stock_efficiency" csv:"Stock_Efficiency"`
	RemainingStock    int64   `json:"remaining_stock" csv:"Remaining_Stock"`
	StockTurnoverRate float64 `json:"stock_turnover_rate" csv:"Stock_Turnover_Rate"`
	RevenuePerUnit    float64 `json:"revenue_per_unit" csv:"Revenue_Per_Unit"`
}
