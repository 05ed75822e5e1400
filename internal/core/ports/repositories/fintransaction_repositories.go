package repositories

import (
	"context"
	"time"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListTransactionsFilter narrows a transaction listing.
type ListTransactionsFilter struct {
	AccountID string
	FromDate  *time.Time
	ToDate    *time.Time
}

// FinTransactionReader defines read operations for posting data
type FinTransactionReader interface {
	// FindTransactionByID retrieves a posting by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.FinTransaction, error)

	// ListTransactions retrieves a filtered, token-paginated list of
	// postings, newest first. It returns the postings, a token for the next
	// page, and an error.
	ListTransactions(ctx context.Context, filter ListTransactionsFilter, limit int, nextToken *string) ([]domain.FinTransaction, *string, error)
}

// FinTransactionWriter defines write operations for posting data
type FinTransactionWriter interface {
	// SavePosting persists a transaction and applies the signed balance
	// changes to both accounts within a single database transaction. The
	// accounts are locked for update first; a failure anywhere rolls back
	// all three writes.
	SavePosting(ctx context.Context, txn domain.FinTransaction, balanceChanges map[string]decimal.Decimal) error
}

// FinTransactionRepositoryFacade combines all posting repository interfaces
type FinTransactionRepositoryFacade interface {
	FinTransactionReader
	FinTransactionWriter
}
