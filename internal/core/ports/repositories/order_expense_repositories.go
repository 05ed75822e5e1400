package repositories

import (
	"context"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// OrderExpenseReader defines read operations for order expense data
type OrderExpenseReader interface {
	// FindExpenseByID retrieves an expense by its unique identifier.
	FindExpenseByID(ctx context.Context, orderExpenseID string) (*domain.OrderExpense, error)

	// ListExpensesByOrderID retrieves all expenses of one order.
	ListExpensesByOrderID(ctx context.Context, orderID string) ([]domain.OrderExpense, error)

	// ListExpensesByOrderIDInTx retrieves all expenses of one order within tx,
	// so recalculation reads a snapshot consistent with its order lock.
	ListExpensesByOrderIDInTx(ctx context.Context, tx pgx.Tx, orderID string) ([]domain.OrderExpense, error)
}

// OrderExpenseWriter defines write operations for order expense data
type OrderExpenseWriter interface {
	// SaveExpense persists a new expense.
	SaveExpense(ctx context.Context, expense domain.OrderExpense) error

	// SaveExpenses persists a batch of expenses in one round trip.
	SaveExpenses(ctx context.Context, expenses []domain.OrderExpense) error

	// UpdateExpense updates an existing expense.
	UpdateExpense(ctx context.Context, expense domain.OrderExpense) error

	// DeleteExpense removes an expense row.
	DeleteExpense(ctx context.Context, orderExpenseID string) error
}

// OrderExpenseRepositoryFacade combines all expense repository interfaces
type OrderExpenseRepositoryFacade interface {
	OrderExpenseReader
	OrderExpenseWriter
}
