package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationStatus is the lifecycle state of a cost operation.
type OperationStatus string

const (
	OperationPlanned   OperationStatus = "PLANNED"
	OperationConfirmed OperationStatus = "CONFIRMED"
	OperationPaid      OperationStatus = "PAID"
)

// IsValid reports whether the status is a known state.
func (s OperationStatus) IsValid() bool {
	switch s {
	case OperationPlanned, OperationConfirmed, OperationPaid:
		return true
	}
	return false
}

// CostOperation is money spent fulfilling an order, optionally attributed to
// a vendor service. The P&L report groups cost operations by the service's
// type; operations without a service fall under OTHER.
type CostOperation struct {
	CostOperationID string          `json:"costOperationID"` // Primary Key (UUID)
	OrderID         string          `json:"orderID"`         // FK -> orders.order_id
	VendorServiceID *string         `json:"vendorServiceID,omitempty"`
	Category        ExpenseCategory `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	Status          OperationStatus `json:"status"`
	OperationDate   time.Time       `json:"operationDate"`
	Description     string          `json:"description"`
	AuditFields
}

// IncomeStatus reflects how much of an invoiced income has been paid.
type IncomeStatus string

const (
	IncomePending IncomeStatus = "PENDING"
	IncomePartial IncomeStatus = "PARTIAL"
	IncomePaid    IncomeStatus = "PAID"
)

// IncomeOperation is money invoiced for an order. Amount is the invoiced
// figure; PaidAmount is what has actually been received. Reporting counts
// PaidAmount only.
type IncomeOperation struct {
	IncomeOperationID string          `json:"incomeOperationID"` // Primary Key (UUID)
	OrderID           string          `json:"orderID"`           // FK -> orders.order_id
	Amount            decimal.Decimal `json:"amount"`
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	Status            IncomeStatus    `json:"status"`
	OperationDate     time.Time       `json:"operationDate"`
	PaidAt            *time.Time      `json:"paidAt,omitempty"`
	Description       string          `json:"description"`
	AuditFields
}

// DeriveIncomeStatus maps paid vs invoiced amounts onto an IncomeStatus.
func DeriveIncomeStatus(amount, paidAmount decimal.Decimal) IncomeStatus {
	switch {
	case paidAmount.LessThanOrEqual(decimal.Zero):
		return IncomePending
	case paidAmount.LessThan(amount):
		return IncomePartial
	default:
		return IncomePaid
	}
}
