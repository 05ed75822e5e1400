package services

import (
	"context"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
)

// ReportingSvcFacade defines read-only profitability reports. Reports are
// computed from operations and items on the fly and never write back to the
// orders they describe.
type ReportingSvcFacade interface {
	// GetOrderPnl assembles the P&L view of a single order: realised income,
	// cost grouped by vendor-service type, and per-unit economics.
	GetOrderPnl(ctx context.Context, orderID string) (*domain.OrderPnl, error)

	// GetOrdersReport assembles the batch P&L report over a date-filtered
	// order set, with a portfolio summary row.
	GetOrdersReport(ctx context.Context, params dto.OrdersReportParams) (*domain.OrdersReport, error)
}
