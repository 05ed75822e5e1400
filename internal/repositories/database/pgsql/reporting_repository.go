package pgsql

import (
	"context"
	"fmt"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetOrderCostBreakdown retrieves an order's realised cost grouped by
// vendor-service type. Operations without a vendor service fall under OTHER.
func (r *reportingRepository) GetOrderCostBreakdown(ctx context.Context, orderID string) ([]domain.CostBreakdownRow, error) {
	query := `
		SELECT
			COALESCE(vs.service_type, 'OTHER') AS service_type,
			SUM(co.amount) AS total_amount
		FROM cost_operations co
		LEFT JOIN vendor_services vs ON co.vendor_service_id = vs.vendor_service_id
		WHERE co.order_id = $1
		GROUP BY COALESCE(vs.service_type, 'OTHER')
		ORDER BY service_type;
	`
	rows, err := r.Pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("error querying cost breakdown for order %s: %w", orderID, err)
	}
	defer rows.Close()

	var result []domain.CostBreakdownRow
	for rows.Next() {
		var row domain.CostBreakdownRow
		var serviceType string

		if err := rows.Scan(&serviceType, &row.Amount); err != nil {
			return nil, fmt.Errorf("error scanning cost breakdown row: %w", err)
		}

		row.ServiceType = domain.ServiceType(serviceType)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cost breakdown rows: %w", err)
	}

	if len(result) == 0 {
		// Return empty slice instead of nil
		return []domain.CostBreakdownRow{}, nil
	}

	return result, nil
}

// GetOrderPaidIncome retrieves the sum of realised (paid) income for an order.
func (r *reportingRepository) GetOrderPaidIncome(ctx context.Context, orderID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(paid_amount), 0)
		FROM income_operations
		WHERE order_id = $1;
	`
	var paid decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, orderID).Scan(&paid); err != nil {
		return decimal.Zero, fmt.Errorf("error querying paid income for order %s: %w", orderID, err)
	}
	return paid, nil
}

// GetOrderItemQuantity retrieves the total item quantity of an order.
func (r *reportingRepository) GetOrderItemQuantity(ctx context.Context, orderID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM order_items
		WHERE order_id = $1;
	`
	var quantity decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, orderID).Scan(&quantity); err != nil {
		return decimal.Zero, fmt.Errorf("error querying item quantity for order %s: %w", orderID, err)
	}
	return quantity, nil
}

// GetCostBreakdownForOrders retrieves cost breakdowns for a batch of orders
// in one query, keyed by order ID. Orders without cost operations are absent
// from the map.
func (r *reportingRepository) GetCostBreakdownForOrders(ctx context.Context, orderIDs []string) (map[string][]domain.CostBreakdownRow, error) {
	if len(orderIDs) == 0 {
		return map[string][]domain.CostBreakdownRow{}, nil
	}

	query := `
		SELECT
			co.order_id,
			COALESCE(vs.service_type, 'OTHER') AS service_type,
			SUM(co.amount) AS total_amount
		FROM cost_operations co
		LEFT JOIN vendor_services vs ON co.vendor_service_id = vs.vendor_service_id
		WHERE co.order_id = ANY($1)
		GROUP BY co.order_id, COALESCE(vs.service_type, 'OTHER')
		ORDER BY co.order_id, service_type;
	`
	rows, err := r.Pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("error querying batch cost breakdown: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.CostBreakdownRow)
	for rows.Next() {
		var orderID, serviceType string
		var amount decimal.Decimal

		if err := rows.Scan(&orderID, &serviceType, &amount); err != nil {
			return nil, fmt.Errorf("error scanning batch cost breakdown row: %w", err)
		}

		result[orderID] = append(result[orderID], domain.CostBreakdownRow{
			ServiceType: domain.ServiceType(serviceType),
			Amount:      amount,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batch cost breakdown rows: %w", err)
	}

	return result, nil
}

// GetPaidIncomeForOrders retrieves realised income sums for a batch of
// orders in one query, keyed by order ID.
func (r *reportingRepository) GetPaidIncomeForOrders(ctx context.Context, orderIDs []string) (map[string]decimal.Decimal, error) {
	if len(orderIDs) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	query := `
		SELECT order_id, COALESCE(SUM(paid_amount), 0)
		FROM income_operations
		WHERE order_id = ANY($1)
		GROUP BY order_id;
	`
	rows, err := r.Pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("error querying batch paid income: %w", err)
	}
	defer rows.Close()

	result := make(map[string]decimal.Decimal)
	for rows.Next() {
		var orderID string
		var paid decimal.Decimal
		if err := rows.Scan(&orderID, &paid); err != nil {
			return nil, fmt.Errorf("error scanning batch paid income row: %w", err)
		}
		result[orderID] = paid
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batch paid income rows: %w", err)
	}

	return result, nil
}

// GetItemQuantityForOrders retrieves total item quantities for a batch of
// orders in one query, keyed by order ID.
func (r *reportingRepository) GetItemQuantityForOrders(ctx context.Context, orderIDs []string) (map[string]decimal.Decimal, error) {
	if len(orderIDs) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	query := `
		SELECT order_id, COALESCE(SUM(quantity), 0)
		FROM order_items
		WHERE order_id = ANY($1)
		GROUP BY order_id;
	`
	rows, err := r.Pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("error querying batch item quantity: %w", err)
	}
	defer rows.Close()

	result := make(map[string]decimal.Decimal)
	for rows.Next() {
		var orderID string
		var quantity decimal.Decimal
		if err := rows.Scan(&orderID, &quantity); err != nil {
			return nil, fmt.Errorf("error scanning batch item quantity row: %w", err)
		}
		result[orderID] = quantity
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batch item quantity rows: %w", err)
	}

	return result, nil
}
