package models

import "github.com/shopspring/decimal"

// SalesTotals aggregates revenue, realised profit and pending amount
// across the whole sales book.
type SalesTotals struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	TotalPending decimal.Decimal `json:"total_pending"`
	SaleCount    int             `json:"sale_count"`
}

// DashboardSummary is the top-of-dashboard aggregate view. It is always
// derived from the store on demand (optionally through the read-through
// cache); it is never a long-lived in-memory mirror.
type DashboardSummary struct {
	TotalInvestment decimal.Decimal `json:"total_investment"`
	Sales           *SalesTotals    `json:"sales"`
	Credit          *CreditSummary  `json:"credit"`
}

// DailySummary is one business day of sales activity.
type DailySummary struct {
	Date         string          `json:"date"`
	Sales        []*SaleRecord   `json:"sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	TotalPending decimal.Decimal `json:"total_pending"`
}
