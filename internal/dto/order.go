package dto

import (
	"time"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Order DTOs ---

// CreateOrderItemRequest defines one item line on an order create request.
type CreateOrderItemRequest struct {
	Name       string          `json:"name" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	UnitWeight decimal.Decimal `json:"unitWeight"`
	UnitVolume decimal.Decimal `json:"unitVolume"`
	UnitCost   decimal.Decimal `json:"unitCost"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
}

// CreateOrderRequest defines the data needed to create a new order.
// Items are optional; they can also be added one by one later.
type CreateOrderRequest struct {
	OrderNumber string                   `json:"orderNumber" binding:"required"`
	ClientID    string                   `json:"clientID" binding:"required"`
	Description string                   `json:"description"`
	Items       []CreateOrderItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateOrderRequest defines the data allowed for updating an order.
// Cached cost aggregates are never writable through this request.
type UpdateOrderRequest struct {
	OrderNumber *string `json:"orderNumber"`
	ClientID    *string `json:"clientID"`
	Description *string `json:"description"`
}

// UpdateOrderStatusRequest moves an order to a new workflow status.
type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required,oneof=NEW PROCESSING ASSEMBLY SHIPPED COMPLETED CANCELLED"`
}

// OrderResponse defines the data returned for an order.
type OrderResponse struct {
	OrderID     string             `json:"orderID"`
	OrderNumber string             `json:"orderNumber"`
	ClientID    string             `json:"clientID"`
	Status      domain.OrderStatus `json:"status"`
	Description string             `json:"description"`

	EstimatedCost decimal.Decimal `json:"estimatedCost"`
	ActualCost    decimal.Decimal `json:"actualCost"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"marginPercent"`

	ShippedAt     *time.Time `json:"shippedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	CreatedBy     string     `json:"createdBy"`
	LastUpdatedAt time.Time  `json:"lastUpdatedAt"`
	LastUpdatedBy string     `json:"lastUpdatedBy"`
}

// ToOrderResponse converts a domain.Order to OrderResponse DTO
func ToOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		OrderID:       o.OrderID,
		OrderNumber:   o.OrderNumber,
		ClientID:      o.ClientID,
		Status:        o.Status,
		Description:   o.Description,
		EstimatedCost: o.EstimatedCost,
		ActualCost:    o.ActualCost,
		TotalIncome:   o.TotalIncome,
		Profit:        o.Profit,
		MarginPercent: o.MarginPercent,
		ShippedAt:     o.ShippedAt,
		CreatedAt:     o.CreatedAt,
		CreatedBy:     o.CreatedBy,
		LastUpdatedAt: o.LastUpdatedAt,
		LastUpdatedBy: o.LastUpdatedBy,
	}
}

// ListOrdersParams defines query parameters for listing orders.
// Orders use token pagination because the list is unbounded and append-heavy.
type ListOrdersParams struct {
	ClientID  string     `form:"clientID"`
	Status    string     `form:"status" binding:"omitempty,oneof=NEW PROCESSING ASSEMBLY SHIPPED COMPLETED CANCELLED"`
	FromDate  *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"toDate" time_format:"2006-01-02"`
	Limit     int        `form:"limit,default=20"`
	NextToken *string    `form:"nextToken"`
}

// ListOrdersResponse wraps a page of orders plus the token for the next page.
type ListOrdersResponse struct {
	Orders    []OrderResponse `json:"orders"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToListOrdersResponse converts a page of domain orders to DTO.
func ToListOrdersResponse(orders []domain.Order, nextToken *string) ListOrdersResponse {
	res := make([]OrderResponse, len(orders))
	for i, o := range orders {
		res[i] = ToOrderResponse(&o)
	}
	return ListOrdersResponse{Orders: res, NextToken: nextToken}
}

// --- Order Item DTOs ---

// AddOrderItemRequest defines the data for adding a single item to an order.
type AddOrderItemRequest struct {
	Name       string          `json:"name" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	UnitWeight decimal.Decimal `json:"unitWeight"`
	UnitVolume decimal.Decimal `json:"unitVolume"`
	UnitCost   decimal.Decimal `json:"unitCost"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
}

// UpdateOrderItemRequest defines the data allowed for updating an order item.
type UpdateOrderItemRequest struct {
	Name       *string          `json:"name"`
	Quantity   *decimal.Decimal `json:"quantity"`
	UnitWeight *decimal.Decimal `json:"unitWeight"`
	UnitVolume *decimal.Decimal `json:"unitVolume"`
	UnitCost   *decimal.Decimal `json:"unitCost"`
	UnitPrice  *decimal.Decimal `json:"unitPrice"`
}

// OrderItemResponse defines the data returned for an order item.
type OrderItemResponse struct {
	OrderItemID string          `json:"orderItemID"`
	OrderID     string          `json:"orderID"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitWeight  decimal.Decimal `json:"unitWeight"`
	UnitVolume  decimal.Decimal `json:"unitVolume"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// ToOrderItemResponse converts a domain.OrderItem to OrderItemResponse DTO
func ToOrderItemResponse(it *domain.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		OrderItemID: it.OrderItemID,
		OrderID:     it.OrderID,
		Name:        it.Name,
		Quantity:    it.Quantity,
		UnitWeight:  it.UnitWeight,
		UnitVolume:  it.UnitVolume,
		UnitCost:    it.UnitCost,
		UnitPrice:   it.UnitPrice,
	}
}

// ListOrderItemsResponse wraps the item lines of an order.
type ListOrderItemsResponse struct {
	Items []OrderItemResponse `json:"items"`
}

// ToListOrderItemsResponse converts a slice of domain.OrderItem to DTO.
func ToListOrderItemsResponse(items []domain.OrderItem) ListOrderItemsResponse {
	res := make([]OrderItemResponse, len(items))
	for i, it := range items {
		res[i] = ToOrderItemResponse(&it)
	}
	return ListOrderItemsResponse{Items: res}
}
