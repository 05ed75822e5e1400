package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinTransaction represents a row of the fin_transactions table.
type FinTransaction struct {
	TransactionID     string          `db:"transaction_id"`
	DebitAccountID    string          `db:"debit_account_id"`
	CreditAccountID   string          `db:"credit_account_id"`
	Amount            decimal.Decimal `db:"amount"`
	Description       string          `db:"description"`
	TransactionDate   time.Time       `db:"transaction_date"`
	CostOperationID   *string         `db:"cost_operation_id"`
	IncomeOperationID *string         `db:"income_operation_id"`
	ReversalOfID      *string         `db:"reversal_of_id"`
	AuditFields
}
