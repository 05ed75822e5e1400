package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
// The type decides the sign a debit or credit applies to the balance.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
	Equity    AccountType = "EQUITY"
)

// IsValid reports whether the account type is one of the five known types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Revenue, Expense, Equity:
		return true
	}
	return false
}

// Account is a bookkeeping ledger account with a running balance.
// Balance is mutated exclusively through transaction posting and reversal.
type Account struct {
	AccountID   string          `json:"accountID"` // Primary Key (UUID)
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Description string          `json:"description"`
	IsActive    bool            `json:"isActive"`
	Balance     decimal.Decimal `json:"balance"`
	AuditFields
}
