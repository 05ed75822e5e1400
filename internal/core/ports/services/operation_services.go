package services

import (
	"context"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
)

// CostOperationSvc defines operations for money spent on an order.
// Every mutation triggers a recalculation of the parent order.
type CostOperationSvc interface {
	// GetCostOperationByID retrieves a cost operation by its unique identifier.
	GetCostOperationByID(ctx context.Context, operationID string) (*domain.CostOperation, error)

	// ListCostOperationsByOrder retrieves the cost operations of an order.
	ListCostOperationsByOrder(ctx context.Context, orderID string) ([]domain.CostOperation, error)

	// CreateCostOperation records money spent fulfilling an order.
	CreateCostOperation(ctx context.Context, orderID string, req dto.CreateCostOperationRequest, userID string) (*domain.CostOperation, error)

	// UpdateCostOperation updates a cost operation.
	UpdateCostOperation(ctx context.Context, orderID string, operationID string, req dto.UpdateCostOperationRequest, userID string) (*domain.CostOperation, error)

	// DeleteCostOperation removes a cost operation.
	DeleteCostOperation(ctx context.Context, orderID string, operationID string, userID string) error
}

// IncomeOperationSvc defines operations for money invoiced on an order.
// Status is always derived from paid vs invoiced amounts.
type IncomeOperationSvc interface {
	// GetIncomeOperationByID retrieves an income operation by its unique identifier.
	GetIncomeOperationByID(ctx context.Context, operationID string) (*domain.IncomeOperation, error)

	// ListIncomeOperationsByOrder retrieves the income operations of an order.
	ListIncomeOperationsByOrder(ctx context.Context, orderID string) ([]domain.IncomeOperation, error)

	// CreateIncomeOperation records invoiced income for an order.
	CreateIncomeOperation(ctx context.Context, orderID string, req dto.CreateIncomeOperationRequest, userID string) (*domain.IncomeOperation, error)

	// UpdateIncomeOperation updates an income operation.
	UpdateIncomeOperation(ctx context.Context, orderID string, operationID string, req dto.UpdateIncomeOperationRequest, userID string) (*domain.IncomeOperation, error)

	// DeleteIncomeOperation removes an income operation.
	DeleteIncomeOperation(ctx context.Context, orderID string, operationID string, userID string) error
}

// OperationSvcFacade combines cost and income operation interfaces
type OperationSvcFacade interface {
	CostOperationSvc
	IncomeOperationSvc
}
