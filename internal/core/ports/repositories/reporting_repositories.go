package repositories

import (
	"context"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines the aggregate queries behind profitability
// reports. All amounts are computed in SQL; callers only assemble rows.
type ReportingRepository interface {
	// GetOrderCostBreakdown groups an order's cost operations by the service
	// type of their linked vendor service. Operations without a vendor
	// service fall into the OTHER bucket.
	GetOrderCostBreakdown(ctx context.Context, orderID string) ([]domain.CostBreakdownRow, error)

	// GetOrderPaidIncome sums the paid amounts of an order's income operations.
	GetOrderPaidIncome(ctx context.Context, orderID string) (decimal.Decimal, error)

	// GetOrderItemQuantity sums the item quantities of an order.
	GetOrderItemQuantity(ctx context.Context, orderID string) (decimal.Decimal, error)

	// GetCostBreakdownForOrders retrieves cost breakdowns for multiple orders
	// in a single query, grouped by order ID.
	GetCostBreakdownForOrders(ctx context.Context, orderIDs []string) (map[string][]domain.CostBreakdownRow, error)

	// GetPaidIncomeForOrders retrieves paid income sums for multiple orders
	// in a single query, grouped by order ID.
	GetPaidIncomeForOrders(ctx context.Context, orderIDs []string) (map[string]decimal.Decimal, error)

	// GetItemQuantityForOrders retrieves item quantity sums for multiple
	// orders in a single query, grouped by order ID.
	GetItemQuantityForOrders(ctx context.Context, orderIDs []string) (map[string]decimal.Decimal, error)
}
