package models

import (
	"github.com/shopspring/decimal"
)

// Account represents a row of the accounts table.
type Account struct {
	AccountID   string          `db:"account_id"`
	Name        string          `db:"name"`
	AccountType string          `db:"account_type"`
	Description string          `db:"description"`
	IsActive    bool            `db:"is_active"`
	Balance     decimal.Decimal `db:"balance"`
	AuditFields
}
