package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostOperation represents a row of the cost_operations table.
type CostOperation struct {
	CostOperationID string          `db:"cost_operation_id"`
	OrderID         string          `db:"order_id"`
	VendorServiceID *string         `db:"vendor_service_id"`
	Category        string          `db:"category"`
	Amount          decimal.Decimal `db:"amount"`
	Status          string          `db:"status"`
	OperationDate   time.Time       `db:"operation_date"`
	Description     string          `db:"description"`
	AuditFields
}

// IncomeOperation represents a row of the income_operations table.
type IncomeOperation struct {
	IncomeOperationID string          `db:"income_operation_id"`
	OrderID           string          `db:"order_id"`
	Amount            decimal.Decimal `db:"amount"`
	PaidAmount        decimal.Decimal `db:"paid_amount"`
	Status            string          `db:"status"`
	OperationDate     time.Time       `db:"operation_date"`
	PaidAt            *time.Time      `db:"paid_at"`
	Description       string          `db:"description"`
	AuditFields
}
