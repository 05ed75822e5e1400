package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory classifies an order expense line.
type ExpenseCategory string

const (
	ExpensePackaging ExpenseCategory = "PACKAGING"
	ExpenseLabor     ExpenseCategory = "LABOR"
	ExpenseRent      ExpenseCategory = "RENT"
	ExpenseLogistics ExpenseCategory = "LOGISTICS"
	ExpenseMaterials ExpenseCategory = "MATERIALS"
	ExpenseOther     ExpenseCategory = "OTHER"
)

// IsValid reports whether the category is one of the known categories.
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpensePackaging, ExpenseLabor, ExpenseRent, ExpenseLogistics, ExpenseMaterials, ExpenseOther:
		return true
	}
	return false
}

// ExpenseStatus is the realisation state of an expense line.
type ExpenseStatus string

const (
	ExpensePlanned   ExpenseStatus = "PLANNED"
	ExpenseConfirmed ExpenseStatus = "CONFIRMED"
	ExpensePaid      ExpenseStatus = "PAID"
)

// IsValid reports whether the status is a known state.
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpensePlanned, ExpenseConfirmed, ExpensePaid:
		return true
	}
	return false
}

// OrderExpense is one cost line attached to an order.
//
// TotalAmount is always quantity times unit price. PlannedAmount defaults to
// TotalAmount at creation; ActualAmount stays zero until the cost is realised.
// OriginalPrice is the vendor price snapshot taken when the expense was
// created (or when a different vendor service was bound later); the
// price-changes report compares it against the service's current price.
type OrderExpense struct {
	OrderExpenseID  string          `json:"orderExpenseID"` // Primary Key (UUID)
	OrderID         string          `json:"orderID"`        // FK -> orders.order_id
	Category        ExpenseCategory `json:"category"`
	VendorServiceID *string         `json:"vendorServiceID,omitempty"` // Nullable FK, price source
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PlannedAmount   decimal.Decimal `json:"plannedAmount"`
	ActualAmount    decimal.Decimal `json:"actualAmount"`
	Status          ExpenseStatus   `json:"status"`
	IsPriceLocked   bool            `json:"isPriceLocked"`
	PriceLockedAt   *time.Time      `json:"priceLockedAt,omitempty"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	AuditFields
}

// EffectiveAmount is the amount an expense contributes to order cost:
// the actual amount once realised, otherwise the computed total.
// Zero ActualAmount means "not yet realised", not "free".
func (e OrderExpense) EffectiveAmount() decimal.Decimal {
	if e.ActualAmount.IsPositive() {
		return e.ActualAmount
	}
	return e.TotalAmount
}
