package repositories

import (
	"context"
	"time"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ListOrdersFilter narrows an order listing.
type ListOrdersFilter struct {
	ClientID string
	Status   domain.OrderStatus
	FromDate *time.Time
	ToDate   *time.Time
}

// OrderReader defines read operations for order data
type OrderReader interface {
	// FindOrderByID retrieves an order by its unique identifier.
	FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error)

	// ListOrders retrieves a filtered, token-paginated list of orders.
	// It returns the orders, a token for the next page, and an error.
	ListOrders(ctx context.Context, filter ListOrdersFilter, limit int, nextToken *string) ([]domain.Order, *string, error)

	// ListOrdersByDateRange retrieves all orders created within the range,
	// optionally filtered by status. Used by batch reporting.
	ListOrdersByDateRange(ctx context.Context, from, to time.Time, status domain.OrderStatus) ([]domain.Order, error)
}

// OrderWriter defines write operations for order data
type OrderWriter interface {
	// SaveOrder persists a new order.
	SaveOrder(ctx context.Context, order domain.Order) error

	// UpdateOrder updates an order's editable details. Aggregate columns are
	// not written by this method.
	UpdateOrder(ctx context.Context, order domain.Order) error

	// UpdateOrderStatus transitions an order's workflow status.
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, userID string, now time.Time) error
}

// OrderRecalcSupport defines the transactional operations the recalculation
// path needs: lock the order row, read child rows under the lock, write the
// aggregates, all on one transaction.
type OrderRecalcSupport interface {
	// FindOrderByIDForUpdate selects an order and locks its row within tx.
	FindOrderByIDForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (*domain.Order, error)

	// UpdateOrderAggregatesInTx writes the five cached aggregate columns
	// within tx.
	UpdateOrderAggregatesInTx(ctx context.Context, tx pgx.Tx, order domain.Order, userID string, now time.Time) error
}

// OrderItemReader defines read operations for order item data
type OrderItemReader interface {
	// FindOrderItemByID retrieves a single order item.
	FindOrderItemByID(ctx context.Context, orderItemID string) (*domain.OrderItem, error)

	// ListOrderItems retrieves all items of one order.
	ListOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error)

	// ListOrderItemsInTx retrieves all items of one order within tx.
	ListOrderItemsInTx(ctx context.Context, tx pgx.Tx, orderID string) ([]domain.OrderItem, error)
}

// OrderItemWriter defines write operations for order item data
type OrderItemWriter interface {
	// SaveOrderItem persists a new order item.
	SaveOrderItem(ctx context.Context, item domain.OrderItem) error

	// UpdateOrderItem updates an existing order item.
	UpdateOrderItem(ctx context.Context, item domain.OrderItem) error

	// DeleteOrderItem removes an order item.
	DeleteOrderItem(ctx context.Context, orderItemID string) error
}

// OrderRepositoryFacade combines all order-related repository interfaces
type OrderRepositoryFacade interface {
	OrderReader
	OrderWriter
	OrderRecalcSupport
	OrderItemReader
	OrderItemWriter
}

// OrderRepositoryWithTx extends OrderRepositoryFacade with transaction capabilities
type OrderRepositoryWithTx interface {
	OrderRepositoryFacade
	TransactionManager
}
