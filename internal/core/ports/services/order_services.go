package services

import (
	"context"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
)

// OrderReaderSvc defines read operations for order data
type OrderReaderSvc interface {
	// GetOrderByID retrieves a specific order by its unique identifier.
	GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error)

	// ListOrders retrieves a token-paginated list of orders.
	ListOrders(ctx context.Context, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error)
}

// OrderWriterSvc defines write operations for order data
type OrderWriterSvc interface {
	// CreateOrder persists a new order with its optional item lines.
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest, userID string) (*domain.Order, error)

	// UpdateOrder updates an order's details. Cached cost aggregates are not
	// writable through this path.
	UpdateOrder(ctx context.Context, orderID string, req dto.UpdateOrderRequest, userID string) (*domain.Order, error)

	// UpdateOrderStatus moves an order to a new workflow status.
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, userID string) (*domain.Order, error)
}

// OrderItemSvc defines operations for an order's item lines. Every mutation
// triggers a recalculation of the parent order.
type OrderItemSvc interface {
	// ListOrderItems retrieves the item lines of an order.
	ListOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error)

	// AddOrderItem appends an item line to an order.
	AddOrderItem(ctx context.Context, orderID string, req dto.AddOrderItemRequest, userID string) (*domain.OrderItem, error)

	// UpdateOrderItem updates an item line.
	UpdateOrderItem(ctx context.Context, orderID string, itemID string, req dto.UpdateOrderItemRequest, userID string) (*domain.OrderItem, error)

	// RemoveOrderItem deletes an item line.
	RemoveOrderItem(ctx context.Context, orderID string, itemID string, userID string) error
}

// OrderRecalculatorSvc recomputes an order's cached cost aggregates from its
// current expenses and items. The operation is idempotent and serialised per
// order; concurrent triggers on the same order queue up rather than clobber.
type OrderRecalculatorSvc interface {
	// RecalculateOrder recomputes and persists the order's aggregates,
	// returning the refreshed order.
	RecalculateOrder(ctx context.Context, orderID string, userID string) (*domain.Order, error)
}

// OrderSvcFacade combines all order-related service interfaces
type OrderSvcFacade interface {
	OrderReaderSvc
	OrderWriterSvc
	OrderItemSvc
	OrderRecalculatorSvc
}
