package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fulfillops/fulfillment_crm_app/internal/apperrors"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
	"github.com/fulfillops/fulfillment_crm_app/internal/utils/accounting"
)

// reversalPrefix marks descriptions of reversal postings. Reversing a
// reversal strips the prefix instead of stacking another one.
const reversalPrefix = "Reversal of: "

var ErrAccountInactive = fmt.Errorf("%w: account is inactive", apperrors.ErrValidation)

// finTransactionService posts double-entry transactions against ledger
// accounts. Postings are append-only; balances change only here and only
// atomically with the posting row.
type finTransactionService struct {
	transactionRepo portsrepo.FinTransactionRepositoryFacade
	accountRepo     portsrepo.AccountReader
}

// NewFinTransactionService creates a new posting service.
func NewFinTransactionService(transactionRepo portsrepo.FinTransactionRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.TransactionSvcFacade {
	return &finTransactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
	}
}

// Ensure finTransactionService implements the portssvc.TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*finTransactionService)(nil)

// resolvePostingAccounts fetches both accounts of a posting and checks they
// exist and are active.
func (s *finTransactionService) resolvePostingAccounts(ctx context.Context, debitAccountID, creditAccountID string) (debit, credit domain.Account, err error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{debitAccountID, creditAccountID})
	if err != nil {
		return debit, credit, fmt.Errorf("failed to fetch posting accounts: %w", err)
	}

	debit, ok := accounts[debitAccountID]
	if !ok {
		return debit, credit, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, debitAccountID)
	}
	credit, ok = accounts[creditAccountID]
	if !ok {
		return debit, credit, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, creditAccountID)
	}

	if !debit.IsActive {
		return debit, credit, fmt.Errorf("%w: %s", ErrAccountInactive, debitAccountID)
	}
	if !credit.IsActive {
		return debit, credit, fmt.Errorf("%w: %s", ErrAccountInactive, creditAccountID)
	}
	return debit, credit, nil
}

// post validates the transaction, computes both balance deltas and hands the
// atomic write to the repository.
func (s *finTransactionService) post(ctx context.Context, txn domain.FinTransaction) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := txn.Validate(); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	debit, credit, err := s.resolvePostingAccounts(ctx, txn.DebitAccountID, txn.CreditAccountID)
	if err != nil {
		return err
	}

	debitDelta, creditDelta, err := accounting.PostingDeltas(debit.AccountType, credit.AccountType, txn.Amount)
	if err != nil {
		logger.Error("Failed to compute posting deltas", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return fmt.Errorf("failed to compute posting deltas: %w", err)
	}

	balanceChanges := map[string]decimal.Decimal{
		txn.DebitAccountID:  debitDelta,
		txn.CreditAccountID: creditDelta,
	}

	if err := s.transactionRepo.SavePosting(ctx, txn, balanceChanges); err != nil {
		logger.Error("Failed to save posting", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return err
	}
	return nil
}

func (s *finTransactionService) PostTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.FinTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	transactionDate := now
	if req.TransactionDate != nil {
		transactionDate = *req.TransactionDate
	}

	txn := domain.FinTransaction{
		TransactionID:     uuid.NewString(),
		DebitAccountID:    req.DebitAccountID,
		CreditAccountID:   req.CreditAccountID,
		Amount:            req.Amount,
		Description:       req.Description,
		TransactionDate:   transactionDate,
		CostOperationID:   req.CostOperationID,
		IncomeOperationID: req.IncomeOperationID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.post(ctx, txn); err != nil {
		return nil, err
	}

	logger.Info("Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("debit_account_id", txn.DebitAccountID),
		slog.String("credit_account_id", txn.CreditAccountID),
		slog.String("amount", txn.Amount.String()))
	return &txn, nil
}

// ReverseTransaction appends a new posting with debit and credit swapped and
// the same amount. The inverse balance deltas follow from the swap, so a
// reversal restores both balances exactly; reversing a reversal is a regular
// posting again and restores the original picture.
func (s *finTransactionService) ReverseTransaction(ctx context.Context, transactionID string, userID string) (*domain.FinTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	description := reversalPrefix + original.Description
	if original.IsReversal() {
		description = strings.TrimPrefix(original.Description, reversalPrefix)
	}

	now := time.Now()
	reversal := domain.FinTransaction{
		TransactionID:     uuid.NewString(),
		DebitAccountID:    original.CreditAccountID,
		CreditAccountID:   original.DebitAccountID,
		Amount:            original.Amount,
		Description:       description,
		TransactionDate:   original.TransactionDate,
		CostOperationID:   original.CostOperationID,
		IncomeOperationID: original.IncomeOperationID,
		ReversalOfID:      &original.TransactionID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.post(ctx, reversal); err != nil {
		return nil, err
	}

	logger.Info("Transaction reversed",
		slog.String("transaction_id", reversal.TransactionID),
		slog.String("reversal_of_id", original.TransactionID))
	return &reversal, nil
}

func (s *finTransactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.FinTransaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger := middleware.GetLoggerFromCtx(ctx)
			logger.Error("Failed to find transaction by ID", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *finTransactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	filter := portsrepo.ListTransactionsFilter{
		AccountID: params.AccountID,
		FromDate:  params.FromDate,
		ToDate:    params.ToDate,
	}

	txns, nextToken, err := s.transactionRepo.ListTransactions(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		return nil, err
	}

	resp := dto.ToListTransactionsResponse(txns, nextToken)
	return &resp, nil
}
