package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// FinTransaction is one immutable double-entry posting: a positive amount
// moved between a debit account and a credit account. Reversal never mutates
// a posted row; it appends a new transaction with the accounts swapped and
// ReversalOfID pointing back at the original.
type FinTransaction struct {
	TransactionID   string          `json:"transactionID"` // Primary Key (UUID)
	DebitAccountID  string          `json:"debitAccountID"`
	CreditAccountID string          `json:"creditAccountID"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transactionDate"`

	// Optional links back to the operation that produced the posting.
	CostOperationID   *string `json:"costOperationID,omitempty"`
	IncomeOperationID *string `json:"incomeOperationID,omitempty"`

	// Set on reversal transactions only.
	ReversalOfID *string `json:"reversalOfID,omitempty"`

	AuditFields
}

// Validate checks the structural invariants of a posting.
func (t FinTransaction) Validate() error {
	if t.DebitAccountID == "" || t.CreditAccountID == "" {
		return errors.New("both debit and credit accounts are required")
	}
	if t.DebitAccountID == t.CreditAccountID {
		return errors.New("debit and credit accounts must differ")
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("amount must be positive")
	}
	return nil
}

// IsReversal reports whether the transaction reverses an earlier posting.
func (t FinTransaction) IsReversal() bool {
	return t.ReversalOfID != nil && *t.ReversalOfID != ""
}
