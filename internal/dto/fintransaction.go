package dto

import (
	"time"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to post a double-entry
// transaction. Amount must be positive; direction is carried by which side
// each account sits on.
type CreateTransactionRequest struct {
	DebitAccountID  string          `json:"debitAccountID" binding:"required"`
	CreditAccountID string          `json:"creditAccountID" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description"`
	TransactionDate *time.Time      `json:"transactionDate" time_format:"2006-01-02"`

	// Optional links back to the operation that produced the posting.
	CostOperationID   *string `json:"costOperationID"`
	IncomeOperationID *string `json:"incomeOperationID"`
}

// TransactionResponse defines the data returned for a posting.
type TransactionResponse struct {
	TransactionID     string          `json:"transactionID"`
	DebitAccountID    string          `json:"debitAccountID"`
	CreditAccountID   string          `json:"creditAccountID"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	TransactionDate   time.Time       `json:"transactionDate"`
	CostOperationID   *string         `json:"costOperationID,omitempty"`
	IncomeOperationID *string         `json:"incomeOperationID,omitempty"`
	ReversalOfID      *string         `json:"reversalOfID,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	CreatedBy         string          `json:"createdBy"`
}

// ToTransactionResponse converts a domain.FinTransaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.FinTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     txn.TransactionID,
		DebitAccountID:    txn.DebitAccountID,
		CreditAccountID:   txn.CreditAccountID,
		Amount:            txn.Amount,
		Description:       txn.Description,
		TransactionDate:   txn.TransactionDate,
		CostOperationID:   txn.CostOperationID,
		IncomeOperationID: txn.IncomeOperationID,
		ReversalOfID:      txn.ReversalOfID,
		CreatedAt:         txn.CreatedAt,
		CreatedBy:         txn.CreatedBy,
	}
}

// ListTransactionsParams defines query parameters for listing postings.
type ListTransactionsParams struct {
	AccountID string     `form:"accountID"`
	FromDate  *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"toDate" time_format:"2006-01-02"`
	Limit     int        `form:"limit,default=20"`
	NextToken *string    `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of postings plus the next-page token.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToListTransactionsResponse converts a page of domain transactions to DTO.
func ToListTransactionsResponse(txns []domain.FinTransaction, nextToken *string) ListTransactionsResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return ListTransactionsResponse{Transactions: res, NextToken: nextToken}
}
