package dto

import (
	"time"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateOrderExpenseRequest defines the data needed to create an expense line.
// UnitPrice is required only when no vendor service is bound; a bound service
// supplies its current price, which gets snapshotted on the expense.
type CreateOrderExpenseRequest struct {
	Category        domain.ExpenseCategory `json:"category" binding:"required,oneof=PACKAGING LABOR RENT LOGISTICS MATERIALS OTHER"`
	VendorServiceID *string                `json:"vendorServiceID"`
	Name            string                 `json:"name" binding:"required"`
	Quantity        decimal.Decimal        `json:"quantity" binding:"required"`
	UnitPrice       *decimal.Decimal       `json:"unitPrice"`
}

// UpdateOrderExpenseRequest defines the data allowed for updating an expense.
// Use pointers to distinguish between zero-value updates and fields not provided.
// Setting VendorServiceID to the empty string clears the binding. Locking
// stamps priceLockedAt on the first lock; unlocking keeps the timestamp.
type UpdateOrderExpenseRequest struct {
	Category        *domain.ExpenseCategory `json:"category" binding:"omitempty,oneof=PACKAGING LABOR RENT LOGISTICS MATERIALS OTHER"`
	VendorServiceID *string                 `json:"vendorServiceID"`
	Name            *string                 `json:"name"`
	Quantity        *decimal.Decimal        `json:"quantity"`
	UnitPrice       *decimal.Decimal        `json:"unitPrice"`
	PlannedAmount   *decimal.Decimal        `json:"plannedAmount"`
	ActualAmount    *decimal.Decimal        `json:"actualAmount"`
	Status          *domain.ExpenseStatus   `json:"status" binding:"omitempty,oneof=PLANNED CONFIRMED PAID"`
	IsPriceLocked   *bool                   `json:"isPriceLocked"`
}

// BulkCreateOrderExpensesRequest creates several expense lines in one call.
type BulkCreateOrderExpensesRequest struct {
	Expenses []CreateOrderExpenseRequest `json:"expenses" binding:"required,min=1,dive"`
}

// CloneExpensesRequest copies another order's expense lines onto this order.
// KeepPrices carries the source prices and snapshots verbatim; otherwise
// vendor-bound lines re-pull the service's current price.
type CloneExpensesRequest struct {
	SourceOrderID string `json:"sourceOrderID" binding:"required"`
	KeepPrices    bool   `json:"keepPrices"`
}

// ApplyTemplateRequest instantiates an expense template against an order.
type ApplyTemplateRequest struct {
	TemplateID string `json:"templateID" binding:"required"`
}

// OrderExpenseResponse defines the data returned for an expense line.
type OrderExpenseResponse struct {
	OrderExpenseID  string                 `json:"orderExpenseID"`
	OrderID         string                 `json:"orderID"`
	Category        domain.ExpenseCategory `json:"category"`
	VendorServiceID *string                `json:"vendorServiceID,omitempty"`
	Name            string                 `json:"name"`
	Quantity        decimal.Decimal        `json:"quantity"`
	UnitPrice       decimal.Decimal        `json:"unitPrice"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
	PlannedAmount   decimal.Decimal        `json:"plannedAmount"`
	ActualAmount    decimal.Decimal        `json:"actualAmount"`
	Status          domain.ExpenseStatus   `json:"status"`
	IsPriceLocked   bool                   `json:"isPriceLocked"`
	PriceLockedAt   *time.Time             `json:"priceLockedAt,omitempty"`
	OriginalPrice   decimal.Decimal        `json:"originalPrice"`
	CreatedAt       time.Time              `json:"createdAt"`
	CreatedBy       string                 `json:"createdBy"`
	LastUpdatedAt   time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy   string                 `json:"lastUpdatedBy"`
}

// ToOrderExpenseResponse converts a domain.OrderExpense to DTO.
func ToOrderExpenseResponse(e *domain.OrderExpense) OrderExpenseResponse {
	return OrderExpenseResponse{
		OrderExpenseID:  e.OrderExpenseID,
		OrderID:         e.OrderID,
		Category:        e.Category,
		VendorServiceID: e.VendorServiceID,
		Name:            e.Name,
		Quantity:        e.Quantity,
		UnitPrice:       e.UnitPrice,
		TotalAmount:     e.TotalAmount,
		PlannedAmount:   e.PlannedAmount,
		ActualAmount:    e.ActualAmount,
		Status:          e.Status,
		IsPriceLocked:   e.IsPriceLocked,
		PriceLockedAt:   e.PriceLockedAt,
		OriginalPrice:   e.OriginalPrice,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
		LastUpdatedAt:   e.LastUpdatedAt,
		LastUpdatedBy:   e.LastUpdatedBy,
	}
}

// ListOrderExpensesResponse wraps the expense lines of an order.
type ListOrderExpensesResponse struct {
	Expenses []OrderExpenseResponse `json:"expenses"`
}

// ToListOrderExpensesResponse converts a slice of domain.OrderExpense to DTO.
func ToListOrderExpensesResponse(expenses []domain.OrderExpense) ListOrderExpensesResponse {
	res := make([]OrderExpenseResponse, len(expenses))
	for i, e := range expenses {
		res[i] = ToOrderExpenseResponse(&e)
	}
	return ListOrderExpensesResponse{Expenses: res}
}

// ExpensePriceChangeRow reports an expense whose snapshotted vendor price has
// drifted from the service's current price.
type ExpensePriceChangeRow struct {
	OrderExpenseID string          `json:"orderExpenseID"`
	ServiceName    string          `json:"serviceName"`
	OriginalPrice  decimal.Decimal `json:"originalPrice"`
	CurrentPrice   decimal.Decimal `json:"currentPrice"`
	Difference     decimal.Decimal `json:"difference"`
	Percent        decimal.Decimal `json:"percent"`
	PriceLockedAt  *time.Time      `json:"priceLockedAt,omitempty"`
}

// ExpensePriceChangesResponse wraps the price-drift report for an order.
type ExpensePriceChangesResponse struct {
	Changes []ExpensePriceChangeRow `json:"changes"`
}
