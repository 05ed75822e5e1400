package dto

import (
	"time"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Cost Operation DTOs ---

// CreateCostOperationRequest defines the data needed to record money spent on an order.
type CreateCostOperationRequest struct {
	VendorServiceID *string                `json:"vendorServiceID"`
	Category        domain.ExpenseCategory `json:"category" binding:"required,oneof=PACKAGING LABOR RENT LOGISTICS MATERIALS OTHER"`
	Amount          decimal.Decimal        `json:"amount" binding:"required"`
	Status          domain.OperationStatus `json:"status" binding:"omitempty,oneof=PLANNED CONFIRMED PAID"`
	OperationDate   *time.Time             `json:"operationDate" time_format:"2006-01-02"`
	Description     string                 `json:"description"`
}

// UpdateCostOperationRequest defines the data allowed for updating a cost operation.
type UpdateCostOperationRequest struct {
	VendorServiceID *string                 `json:"vendorServiceID"`
	Category        *domain.ExpenseCategory `json:"category" binding:"omitempty,oneof=PACKAGING LABOR RENT LOGISTICS MATERIALS OTHER"`
	Amount          *decimal.Decimal        `json:"amount"`
	Status          *domain.OperationStatus `json:"status" binding:"omitempty,oneof=PLANNED CONFIRMED PAID"`
	OperationDate   *time.Time              `json:"operationDate" time_format:"2006-01-02"`
	Description     *string                 `json:"description"`
}

// CostOperationResponse defines the data returned for a cost operation.
type CostOperationResponse struct {
	CostOperationID string                 `json:"costOperationID"`
	OrderID         string                 `json:"orderID"`
	VendorServiceID *string                `json:"vendorServiceID,omitempty"`
	Category        domain.ExpenseCategory `json:"category"`
	Amount          decimal.Decimal        `json:"amount"`
	Status          domain.OperationStatus `json:"status"`
	OperationDate   time.Time              `json:"operationDate"`
	Description     string                 `json:"description"`
	CreatedAt       time.Time              `json:"createdAt"`
	CreatedBy       string                 `json:"createdBy"`
	LastUpdatedAt   time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy   string                 `json:"lastUpdatedBy"`
}

// ToCostOperationResponse converts a domain.CostOperation to DTO.
func ToCostOperationResponse(op *domain.CostOperation) CostOperationResponse {
	return CostOperationResponse{
		CostOperationID: op.CostOperationID,
		OrderID:         op.OrderID,
		VendorServiceID: op.VendorServiceID,
		Category:        op.Category,
		Amount:          op.Amount,
		Status:          op.Status,
		OperationDate:   op.OperationDate,
		Description:     op.Description,
		CreatedAt:       op.CreatedAt,
		CreatedBy:       op.CreatedBy,
		LastUpdatedAt:   op.LastUpdatedAt,
		LastUpdatedBy:   op.LastUpdatedBy,
	}
}

// ListCostOperationsResponse wraps the cost operations of an order.
type ListCostOperationsResponse struct {
	Operations []CostOperationResponse `json:"operations"`
}

// ToListCostOperationsResponse converts a slice of domain.CostOperation to DTO.
func ToListCostOperationsResponse(ops []domain.CostOperation) ListCostOperationsResponse {
	res := make([]CostOperationResponse, len(ops))
	for i, op := range ops {
		res[i] = ToCostOperationResponse(&op)
	}
	return ListCostOperationsResponse{Operations: res}
}

// --- Income Operation DTOs ---

// CreateIncomeOperationRequest defines the data needed to record invoiced income.
type CreateIncomeOperationRequest struct {
	Amount        decimal.Decimal  `json:"amount" binding:"required"`
	PaidAmount    *decimal.Decimal `json:"paidAmount"`
	OperationDate *time.Time       `json:"operationDate" time_format:"2006-01-02"`
	Description   string           `json:"description"`
}

// UpdateIncomeOperationRequest defines the data allowed for updating an income
// operation. Status is derived from paid vs invoiced amounts and is not
// writable directly.
type UpdateIncomeOperationRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	PaidAmount    *decimal.Decimal `json:"paidAmount"`
	OperationDate *time.Time       `json:"operationDate" time_format:"2006-01-02"`
	Description   *string          `json:"description"`
}

// IncomeOperationResponse defines the data returned for an income operation.
type IncomeOperationResponse struct {
	IncomeOperationID string              `json:"incomeOperationID"`
	OrderID           string              `json:"orderID"`
	Amount            decimal.Decimal     `json:"amount"`
	PaidAmount        decimal.Decimal     `json:"paidAmount"`
	Status            domain.IncomeStatus `json:"status"`
	OperationDate     time.Time           `json:"operationDate"`
	PaidAt            *time.Time          `json:"paidAt,omitempty"`
	Description       string              `json:"description"`
	CreatedAt         time.Time           `json:"createdAt"`
	CreatedBy         string              `json:"createdBy"`
	LastUpdatedAt     time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy     string              `json:"lastUpdatedBy"`
}

// ToIncomeOperationResponse converts a domain.IncomeOperation to DTO.
func ToIncomeOperationResponse(op *domain.IncomeOperation) IncomeOperationResponse {
	return IncomeOperationResponse{
		IncomeOperationID: op.IncomeOperationID,
		OrderID:           op.OrderID,
		Amount:            op.Amount,
		PaidAmount:        op.PaidAmount,
		Status:            op.Status,
		OperationDate:     op.OperationDate,
		PaidAt:            op.PaidAt,
		Description:       op.Description,
		CreatedAt:         op.CreatedAt,
		CreatedBy:         op.CreatedBy,
		LastUpdatedAt:     op.LastUpdatedAt,
		LastUpdatedBy:     op.LastUpdatedBy,
	}
}

// ListIncomeOperationsResponse wraps the income operations of an order.
type ListIncomeOperationsResponse struct {
	Operations []IncomeOperationResponse `json:"operations"`
}

// ToListIncomeOperationsResponse converts a slice of domain.IncomeOperation to DTO.
func ToListIncomeOperationsResponse(ops []domain.IncomeOperation) ListIncomeOperationsResponse {
	res := make([]IncomeOperationResponse, len(ops))
	for i, op := range ops {
		res[i] = ToIncomeOperationResponse(&op)
	}
	return ListIncomeOperationsResponse{Operations: res}
}
