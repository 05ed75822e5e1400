package dto

import (
	"time"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CostBreakdownRowResponse represents one service-type bucket of an order's cost.
type CostBreakdownRowResponse struct {
	ServiceType string          `json:"serviceType"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderPnlResponse represents the profit and loss view of a single order.
type OrderPnlResponse struct {
	OrderID       string          `json:"orderID"`
	OrderNumber   string          `json:"orderNumber"`
	ClientID      string          `json:"clientID"`
	Status        string          `json:"status"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"marginPercent"`

	CostBreakdown []CostBreakdownRowResponse `json:"costBreakdown"`

	TotalQuantity  decimal.Decimal `json:"totalQuantity"`
	RevenuePerItem decimal.Decimal `json:"revenuePerItem"`
	CostPerItem    decimal.Decimal `json:"costPerItem"`
	ProfitPerItem  decimal.Decimal `json:"profitPerItem"`
}

// ToOrderPnlResponse converts a domain P&L row to a DTO response
func ToOrderPnlResponse(pnl *domain.OrderPnl) OrderPnlResponse {
	breakdown := make([]CostBreakdownRowResponse, len(pnl.CostBreakdown))
	for i, row := range pnl.CostBreakdown {
		breakdown[i] = CostBreakdownRowResponse{
			ServiceType: string(row.ServiceType),
			Amount:      row.Amount,
		}
	}
	return OrderPnlResponse{
		OrderID:        pnl.OrderID,
		OrderNumber:    pnl.OrderNumber,
		ClientID:       pnl.ClientID,
		Status:         string(pnl.Status),
		TotalCost:      pnl.TotalCost,
		TotalIncome:    pnl.TotalIncome,
		Profit:         pnl.Profit,
		MarginPercent:  pnl.MarginPercent,
		CostBreakdown:  breakdown,
		TotalQuantity:  pnl.TotalQuantity,
		RevenuePerItem: pnl.RevenuePerItem,
		CostPerItem:    pnl.CostPerItem,
		ProfitPerItem:  pnl.ProfitPerItem,
	}
}

// OrdersReportParams defines query parameters for the batch P&L report.
// Format selects the response encoding; "csv" streams a file download.
type OrdersReportParams struct {
	FromDate *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"toDate" time_format:"2006-01-02"`
	Status   string     `form:"status" binding:"omitempty,oneof=NEW PROCESSING ASSEMBLY SHIPPED COMPLETED CANCELLED"`
	Format   string     `form:"format,default=json" binding:"omitempty,oneof=json csv"`
}

// OrdersReportResponse represents the batch P&L report response
type OrdersReportResponse struct {
	Rows    []OrderPnlResponse `json:"rows"`
	Summary struct {
		OrdersCount   int             `json:"ordersCount"`
		TotalRevenue  decimal.Decimal `json:"totalRevenue"`
		TotalCost     decimal.Decimal `json:"totalCost"`
		TotalProfit   decimal.Decimal `json:"totalProfit"`
		AverageMargin decimal.Decimal `json:"averageMargin"`
	} `json:"summary"`
}

// ToOrdersReportResponse converts a domain batch report to a DTO response
func ToOrdersReportResponse(report *domain.OrdersReport) OrdersReportResponse {
	response := OrdersReportResponse{
		Rows: make([]OrderPnlResponse, len(report.Rows)),
	}
	for i, row := range report.Rows {
		response.Rows[i] = ToOrderPnlResponse(&row)
	}
	response.Summary.OrdersCount = report.Summary.OrdersCount
	response.Summary.TotalRevenue = report.Summary.TotalRevenue
	response.Summary.TotalCost = report.Summary.TotalCost
	response.Summary.TotalProfit = report.Summary.TotalProfit
	response.Summary.AverageMargin = report.Summary.AverageMargin
	return response
}
