package services

import (
	"context"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
)

// OrderExpenseReaderSvc defines read operations for expense data
type OrderExpenseReaderSvc interface {
	// GetExpenseByID retrieves a specific expense by its unique identifier.
	GetExpenseByID(ctx context.Context, expenseID string) (*domain.OrderExpense, error)

	// ListExpensesByOrder retrieves all expense lines of an order.
	ListExpensesByOrder(ctx context.Context, orderID string) ([]domain.OrderExpense, error)

	// GetExpensePriceChanges reports expenses whose locked vendor price has
	// drifted from the service's current price.
	GetExpensePriceChanges(ctx context.Context, orderID string) (*dto.ExpensePriceChangesResponse, error)
}

// OrderExpenseWriterSvc defines write operations for expense data.
// Every mutation triggers a recalculation of the parent order.
type OrderExpenseWriterSvc interface {
	// CreateExpense persists a new expense line on an order.
	CreateExpense(ctx context.Context, orderID string, req dto.CreateOrderExpenseRequest, userID string) (*domain.OrderExpense, error)

	// BulkCreateExpenses persists several expense lines in one call with a
	// single recalculation at the end.
	BulkCreateExpenses(ctx context.Context, orderID string, req dto.BulkCreateOrderExpensesRequest, userID string) ([]domain.OrderExpense, error)

	// UpdateExpense updates an expense line.
	UpdateExpense(ctx context.Context, orderID string, expenseID string, req dto.UpdateOrderExpenseRequest, userID string) (*domain.OrderExpense, error)

	// DeleteExpense removes an expense line.
	DeleteExpense(ctx context.Context, orderID string, expenseID string, userID string) error

	// CloneExpenses copies all expense lines from a source order onto the
	// target order, re-resolving vendor prices to their current values unless
	// the request keeps the source prices.
	CloneExpenses(ctx context.Context, targetOrderID string, req dto.CloneExpensesRequest, userID string) ([]domain.OrderExpense, error)

	// ApplyTemplate instantiates a template's lines as PLANNED expenses on
	// the order, evaluating quantity formulas against the order's items.
	ApplyTemplate(ctx context.Context, orderID string, req dto.ApplyTemplateRequest, userID string) ([]domain.OrderExpense, error)
}

// OrderExpenseSvcFacade combines all expense-related service interfaces
type OrderExpenseSvcFacade interface {
	OrderExpenseReaderSvc
	OrderExpenseWriterSvc
}
