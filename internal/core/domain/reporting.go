package domain

import (
	"github.com/shopspring/decimal"
)

// CostBreakdownRow is the cost attributed to one vendor-service type within
// an order's P&L. Cost operations without a vendor service group under OTHER.
type CostBreakdownRow struct {
	ServiceType ServiceType     `json:"serviceType"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderPnl is the read-only profit and loss view of a single order, computed
// from cost operations, income operations and items. It never feeds back into
// the order's cached aggregates.
type OrderPnl struct {
	OrderID       string          `json:"orderID"`
	OrderNumber   string          `json:"orderNumber"`
	ClientID      string          `json:"clientID"`
	Status        OrderStatus     `json:"status"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	TotalIncome   decimal.Decimal `json:"totalIncome"` // Realised paid amounts only
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"marginPercent"`

	CostBreakdown []CostBreakdownRow `json:"costBreakdown"`

	TotalQuantity  decimal.Decimal `json:"totalQuantity"`
	RevenuePerItem decimal.Decimal `json:"revenuePerItem"`
	CostPerItem    decimal.Decimal `json:"costPerItem"`
	ProfitPerItem  decimal.Decimal `json:"profitPerItem"`
}

// OrdersReportSummary is the portfolio-level roll-up of a batch P&L report.
type OrdersReportSummary struct {
	OrdersCount   int             `json:"ordersCount"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	TotalProfit   decimal.Decimal `json:"totalProfit"`
	AverageMargin decimal.Decimal `json:"averageMargin"`
}

// OrdersReport is the batch P&L report over a date-filtered order set.
type OrdersReport struct {
	Rows    []OrderPnl          `json:"rows"`
	Summary OrdersReportSummary `json:"summary"`
}
