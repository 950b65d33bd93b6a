package dto

import "github.com/shopspring/decimal"

// DailyTotal is one bar of the revenue chart.
type DailyTotal struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Total decimal.Decimal `json:"total"`
}

// TopProduct aggregates units sold per product over paid sales.
type TopProduct struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Units     int    `json:"units"`
}

// LowStockProduct flags items at or below their threshold.
type LowStockProduct struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Stock      int    `json:"stock"`
	LowStockAt int    `json:"low_stock_at"`
}

// ReportSummary is the dashboard payload. Revenue figures only count Paid
// sales; Unpaid (on-credit) totals are reported separately as outstanding.
type ReportSummary struct {
	TotalRevenue    decimal.Decimal   `json:"total_revenue"`
	SaleCount       int64             `json:"sale_count"`
	AverageSale     decimal.Decimal   `json:"average_sale"`
	OutstandingDebt decimal.Decimal   `json:"outstanding_debt"`
	MonthExpenses   decimal.Decimal   `json:"month_expenses"`
	DailyTotals     []DailyTotal      `json:"daily_totals"`
	TopProducts     []TopProduct      `json:"top_products"`
	LowStock        []LowStockProduct `json:"low_stock"`
}
