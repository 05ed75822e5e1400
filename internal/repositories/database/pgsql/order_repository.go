package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fulfillops/fulfillment_crm_app/internal/apperrors"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	"github.com/fulfillops/fulfillment_crm_app/internal/models"
	"github.com/fulfillops/fulfillment_crm_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOrderRepository struct {
	BaseRepository
}

// newPgxOrderRepository creates a new repository for order and order item data.
func newPgxOrderRepository(pool *pgxpool.Pool) portsrepo.OrderRepositoryWithTx {
	return &PgxOrderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxOrderRepository implements portsrepo.OrderRepositoryWithTx
var _ portsrepo.OrderRepositoryWithTx = (*PgxOrderRepository)(nil)

func toModelOrder(d domain.Order) models.Order {
	return models.Order{
		OrderID:       d.OrderID,
		OrderNumber:   d.OrderNumber,
		ClientID:      d.ClientID,
		Status:        string(d.Status),
		Description:   d.Description,
		EstimatedCost: d.EstimatedCost,
		ActualCost:    d.ActualCost,
		TotalIncome:   d.TotalIncome,
		Profit:        d.Profit,
		MarginPercent: d.MarginPercent,
		ShippedAt:     d.ShippedAt,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainOrder(m models.Order) domain.Order {
	return domain.Order{
		OrderID:       m.OrderID,
		OrderNumber:   m.OrderNumber,
		ClientID:      m.ClientID,
		Status:        domain.OrderStatus(m.Status),
		Description:   m.Description,
		EstimatedCost: m.EstimatedCost,
		ActualCost:    m.ActualCost,
		TotalIncome:   m.TotalIncome,
		Profit:        m.Profit,
		MarginPercent: m.MarginPercent,
		ShippedAt:     m.ShippedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const orderColumns = `order_id, order_number, client_id, status, description, estimated_cost, actual_cost, total_income, profit, margin_percent, shipped_at, created_at, created_by, last_updated_at, last_updated_by`

func scanOrderRow(row pgx.Row) (models.Order, error) {
	var m models.Order
	var shippedAt sql.NullTime
	err := row.Scan(
		&m.OrderID,
		&m.OrderNumber,
		&m.ClientID,
		&m.Status,
		&m.Description,
		&m.EstimatedCost,
		&m.ActualCost,
		&m.TotalIncome,
		&m.Profit,
		&m.MarginPercent,
		&shippedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if shippedAt.Valid {
		m.ShippedAt = &shippedAt.Time
	}
	return m, err
}

// SaveOrder inserts a new order.
func (r *PgxOrderRepository) SaveOrder(ctx context.Context, order domain.Order) error {
	modelOrder := toModelOrder(order)

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelOrder.OrderID,
		modelOrder.OrderNumber,
		modelOrder.ClientID,
		modelOrder.Status,
		modelOrder.Description,
		modelOrder.EstimatedCost,
		modelOrder.ActualCost,
		modelOrder.TotalIncome,
		modelOrder.Profit,
		modelOrder.MarginPercent,
		modelOrder.ShippedAt,
		modelOrder.CreatedAt,
		modelOrder.CreatedBy,
		modelOrder.LastUpdatedAt,
		modelOrder.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: order number %s already exists", apperrors.ErrDuplicate, modelOrder.OrderNumber)
		}
		return fmt.Errorf("failed to save order %s: %w", modelOrder.OrderID, err)
	}
	return nil
}

// FindOrderByID retrieves an order by its ID.
func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE order_id = $1;
	`
	modelOrder, err := scanOrderRow(r.Pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID %s: %w", orderID, err)
	}

	domainOrder := toDomainOrder(modelOrder)
	return &domainOrder, nil
}

// FindOrderByIDForUpdate selects an order and locks its row within tx.
// Concurrent recalculations of the same order serialise on this lock.
func (r *PgxOrderRepository) FindOrderByIDForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE order_id = $1
		FOR UPDATE;
	`
	modelOrder, err := scanOrderRow(tx.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock order %s for update: %w", orderID, err)
	}

	domainOrder := toDomainOrder(modelOrder)
	return &domainOrder, nil
}

// ListOrders retrieves a filtered, token-paginated list of orders.
// It returns the orders, a token for the next page, and an error.
func (r *PgxOrderRepository) ListOrders(ctx context.Context, filter portsrepo.ListOrdersFilter, limit int, nextToken *string) ([]domain.Order, *string, error) {
	// Default limit handling
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + orderColumns + `
		FROM orders
	`
	// Filtering criteria assembled dynamically; placeholder numbers track args.
	filterClause := `WHERE 1=1`
	args := []interface{}{}
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		filterClause += ` AND client_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		filterClause += ` AND created_at >= $` + strconv.Itoa(len(args))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		filterClause += ` AND created_at <= $` + strconv.Itoa(len(args))
	}

	// Ordering is crucial and must be stable. We use created_at DESC with
	// order_id DESC as a tie-breaker.
	orderByClause := `ORDER BY created_at DESC, order_id DESC`

	var rows pgx.Rows
	var err error

	if nextToken != nil && *nextToken != "" {
		fields, decodeErr := pagination.DecodeMultiFieldToken(*nextToken)
		if decodeErr != nil || len(fields) != 2 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		lastCreatedAt, parseErr := time.Parse(time.RFC3339Nano, fields[0])
		if parseErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", parseErr)
		}
		lastOrderID := fields[1]

		// Tuple comparison is concise and efficient in Postgres.
		cursorClause := ` AND (created_at, order_id) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, lastCreatedAt, lastOrderID)

		query := baseQuery + " " + filterClause + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)

		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		// First page request (no token)
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	modelOrders := make([]models.Order, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanOrderRow(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan order row: %w", scanErr)
		}
		modelOrders = append(modelOrders, m)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	// Determine the next token
	var nextTokenVal *string
	if len(modelOrders) > limit {
		lastOrder := modelOrders[limit-1] // last item actually included in this page
		token := pagination.EncodeMultiFieldToken(lastOrder.CreatedAt.Format(time.RFC3339Nano), lastOrder.OrderID)
		nextTokenVal = &token
		modelOrders = modelOrders[:limit]
	}

	orders := make([]domain.Order, 0, len(modelOrders))
	for _, m := range modelOrders {
		orders = append(orders, toDomainOrder(m))
	}

	return orders, nextTokenVal, nil
}

// ListOrdersByDateRange retrieves all orders created within the range,
// optionally filtered by status. Used by batch reporting.
func (r *PgxOrderRepository) ListOrdersByDateRange(ctx context.Context, from, to time.Time, status domain.OrderStatus) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE created_at >= $1 AND created_at <= $2
	`
	args := []interface{}{from, to}
	if status != "" {
		args = append(args, string(status))
		query += ` AND status = $3`
	}
	query += ` ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by date range: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		m, scanErr := scanOrderRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", scanErr)
		}
		orders = append(orders, toDomainOrder(m))
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", rows.Err())
	}

	return orders, nil
}

// UpdateOrder updates an order's editable details. Aggregate columns are not
// written here; only the recalculation path may touch them.
func (r *PgxOrderRepository) UpdateOrder(ctx context.Context, order domain.Order) error {
	modelOrder := toModelOrder(order)

	query := `
		UPDATE orders
		SET order_number = $2, client_id = $3, description = $4, last_updated_at = $5, last_updated_by = $6
		WHERE order_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelOrder.OrderID,
		modelOrder.OrderNumber,
		modelOrder.ClientID,
		modelOrder.Description,
		modelOrder.LastUpdatedAt,
		modelOrder.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: order number %s already exists", apperrors.ErrDuplicate, modelOrder.OrderNumber)
		}
		return fmt.Errorf("failed to execute update order %s: %w", modelOrder.OrderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateOrderStatus transitions an order's workflow status. The shipped
// timestamp is stamped on the first transition to SHIPPED and never cleared.
func (r *PgxOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, userID string, now time.Time) error {
	var query string
	if status == domain.OrderShipped {
		query = `
			UPDATE orders
			SET status = $2, shipped_at = COALESCE(shipped_at, $3), last_updated_at = $3, last_updated_by = $4
			WHERE order_id = $1;
		`
	} else {
		query = `
			UPDATE orders
			SET status = $2, last_updated_at = $3, last_updated_by = $4
			WHERE order_id = $1;
		`
	}
	cmdTag, err := r.Pool.Exec(ctx, query, orderID, string(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute update status for order %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateOrderAggregatesInTx writes the five cached aggregate columns within tx.
func (r *PgxOrderRepository) UpdateOrderAggregatesInTx(ctx context.Context, tx pgx.Tx, order domain.Order, userID string, now time.Time) error {
	query := `
		UPDATE orders
		SET estimated_cost = $2, actual_cost = $3, total_income = $4, profit = $5, margin_percent = $6, last_updated_at = $7, last_updated_by = $8
		WHERE order_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		order.OrderID,
		order.EstimatedCost,
		order.ActualCost,
		order.TotalIncome,
		order.Profit,
		order.MarginPercent,
		now,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update aggregates for order %s: %w", order.OrderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// --- Order items ---

func toModelOrderItem(d domain.OrderItem) models.OrderItem {
	return models.OrderItem{
		OrderItemID: d.OrderItemID,
		OrderID:     d.OrderID,
		Name:        d.Name,
		Quantity:    d.Quantity,
		UnitWeight:  d.UnitWeight,
		UnitVolume:  d.UnitVolume,
		UnitCost:    d.UnitCost,
		UnitPrice:   d.UnitPrice,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainOrderItem(m models.OrderItem) domain.OrderItem {
	return domain.OrderItem{
		OrderItemID: m.OrderItemID,
		OrderID:     m.OrderID,
		Name:        m.Name,
		Quantity:    m.Quantity,
		UnitWeight:  m.UnitWeight,
		UnitVolume:  m.UnitVolume,
		UnitCost:    m.UnitCost,
		UnitPrice:   m.UnitPrice,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const orderItemColumns = `order_item_id, order_id, name, quantity, unit_weight, unit_volume, unit_cost, unit_price, created_at, created_by, last_updated_at, last_updated_by`

func scanOrderItemRow(row pgx.Row) (models.OrderItem, error) {
	var m models.OrderItem
	err := row.Scan(
		&m.OrderItemID,
		&m.OrderID,
		&m.Name,
		&m.Quantity,
		&m.UnitWeight,
		&m.UnitVolume,
		&m.UnitCost,
		&m.UnitPrice,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveOrderItem inserts a new order item.
func (r *PgxOrderRepository) SaveOrderItem(ctx context.Context, item domain.OrderItem) error {
	modelItem := toModelOrderItem(item)

	query := `
		INSERT INTO order_items (` + orderItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelItem.OrderItemID,
		modelItem.OrderID,
		modelItem.Name,
		modelItem.Quantity,
		modelItem.UnitWeight,
		modelItem.UnitVolume,
		modelItem.UnitCost,
		modelItem.UnitPrice,
		modelItem.CreatedAt,
		modelItem.CreatedBy,
		modelItem.LastUpdatedAt,
		modelItem.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: order item with ID %s already exists", apperrors.ErrDuplicate, modelItem.OrderItemID)
		}
		return fmt.Errorf("failed to save order item %s: %w", modelItem.OrderItemID, err)
	}
	return nil
}

// FindOrderItemByID retrieves a single order item.
func (r *PgxOrderRepository) FindOrderItemByID(ctx context.Context, orderItemID string) (*domain.OrderItem, error) {
	query := `
		SELECT ` + orderItemColumns + `
		FROM order_items
		WHERE order_item_id = $1;
	`
	modelItem, err := scanOrderItemRow(r.Pool.QueryRow(ctx, query, orderItemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order item by ID %s: %w", orderItemID, err)
	}

	domainItem := toDomainOrderItem(modelItem)
	return &domainItem, nil
}

// ListOrderItems retrieves all items of one order.
func (r *PgxOrderRepository) ListOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `
		SELECT ` + orderItemColumns + `
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for order %s: %w", orderID, err)
	}
	defer rows.Close()

	return collectOrderItems(rows, orderID)
}

// ListOrderItemsInTx retrieves all items of one order within tx. The recalc
// path reads items under the order row lock to get a consistent snapshot.
func (r *PgxOrderRepository) ListOrderItemsInTx(ctx context.Context, tx pgx.Tx, orderID string) ([]domain.OrderItem, error) {
	query := `
		SELECT ` + orderItemColumns + `
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at;
	`
	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items in tx for order %s: %w", orderID, err)
	}
	defer rows.Close()

	return collectOrderItems(rows, orderID)
}

func collectOrderItems(rows pgx.Rows, orderID string) ([]domain.OrderItem, error) {
	items := []domain.OrderItem{}
	for rows.Next() {
		m, err := scanOrderItemRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row for order %s: %w", orderID, err)
		}
		items = append(items, toDomainOrderItem(m))
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating item rows for order %s: %w", orderID, rows.Err())
	}

	return items, nil
}

// UpdateOrderItem updates an existing order item.
func (r *PgxOrderRepository) UpdateOrderItem(ctx context.Context, item domain.OrderItem) error {
	modelItem := toModelOrderItem(item)

	query := `
		UPDATE order_items
		SET name = $2, quantity = $3, unit_weight = $4, unit_volume = $5, unit_cost = $6, unit_price = $7, last_updated_at = $8, last_updated_by = $9
		WHERE order_item_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelItem.OrderItemID,
		modelItem.Name,
		modelItem.Quantity,
		modelItem.UnitWeight,
		modelItem.UnitVolume,
		modelItem.UnitCost,
		modelItem.UnitPrice,
		modelItem.LastUpdatedAt,
		modelItem.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update order item %s: %w", modelItem.OrderItemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteOrderItem removes an order item.
func (r *PgxOrderRepository) DeleteOrderItem(ctx context.Context, orderItemID string) error {
	query := `
		DELETE FROM order_items
		WHERE order_item_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, orderItemID)
	if err != nil {
		return fmt.Errorf("failed to delete order item %s: %w", orderItemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
