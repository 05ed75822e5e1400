package services

import (
	"context"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
)

// TransactionReaderSvc defines read operations for posting data
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a posting by its unique identifier.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.FinTransaction, error)

	// ListTransactions retrieves a token-paginated list of postings.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines write operations for posting data
type TransactionWriterSvc interface {
	// PostTransaction validates and posts a double-entry transaction,
	// applying balance deltas to both accounts atomically.
	PostTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.FinTransaction, error)

	// ReverseTransaction appends a new posting with debit and credit
	// swapped. The original row is never mutated.
	ReverseTransaction(ctx context.Context, transactionID string, userID string) (*domain.FinTransaction, error)
}

// TransactionSvcFacade combines all posting-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
