package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderExpense represents a row of the order_expenses table.
type OrderExpense struct {
	OrderExpenseID  string          `db:"order_expense_id"`
	OrderID         string          `db:"order_id"`
	Category        string          `db:"category"`
	VendorServiceID *string         `db:"vendor_service_id"`
	Name            string          `db:"name"`
	Quantity        decimal.Decimal `db:"quantity"`
	UnitPrice       decimal.Decimal `db:"unit_price"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	PlannedAmount   decimal.Decimal `db:"planned_amount"`
	ActualAmount    decimal.Decimal `db:"actual_amount"`
	Status          string          `db:"status"`
	IsPriceLocked   bool            `db:"is_price_locked"`
	PriceLockedAt   *time.Time      `db:"price_locked_at"`
	OriginalPrice   decimal.Decimal `db:"original_price"`
	AuditFields
}
