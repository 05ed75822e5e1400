package repositories

import (
	"context"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
)

// CostOperationReader defines read operations for cost operation data
type CostOperationReader interface {
	// FindCostOperationByID retrieves a cost operation by its identifier.
	FindCostOperationByID(ctx context.Context, costOperationID string) (*domain.CostOperation, error)

	// ListCostOperationsByOrderID retrieves all cost operations of one order.
	ListCostOperationsByOrderID(ctx context.Context, orderID string) ([]domain.CostOperation, error)
}

// CostOperationWriter defines write operations for cost operation data
type CostOperationWriter interface {
	// SaveCostOperation persists a new cost operation.
	SaveCostOperation(ctx context.Context, op domain.CostOperation) error

	// UpdateCostOperation updates an existing cost operation.
	UpdateCostOperation(ctx context.Context, op domain.CostOperation) error

	// DeleteCostOperation removes a cost operation.
	DeleteCostOperation(ctx context.Context, costOperationID string) error
}

// IncomeOperationReader defines read operations for income operation data
type IncomeOperationReader interface {
	// FindIncomeOperationByID retrieves an income operation by its identifier.
	FindIncomeOperationByID(ctx context.Context, incomeOperationID string) (*domain.IncomeOperation, error)

	// ListIncomeOperationsByOrderID retrieves all income operations of one order.
	ListIncomeOperationsByOrderID(ctx context.Context, orderID string) ([]domain.IncomeOperation, error)
}

// IncomeOperationWriter defines write operations for income operation data
type IncomeOperationWriter interface {
	// SaveIncomeOperation persists a new income operation.
	SaveIncomeOperation(ctx context.Context, op domain.IncomeOperation) error

	// UpdateIncomeOperation updates an existing income operation.
	UpdateIncomeOperation(ctx context.Context, op domain.IncomeOperation) error

	// DeleteIncomeOperation removes an income operation.
	DeleteIncomeOperation(ctx context.Context, incomeOperationID string) error
}

// OperationRepositoryFacade combines cost and income operation interfaces
type OperationRepositoryFacade interface {
	CostOperationReader
	CostOperationWriter
	IncomeOperationReader
	IncomeOperationWriter
}
