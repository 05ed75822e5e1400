package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/fulfillops/fulfillment_crm_app/internal/apperrors"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	"github.com/fulfillops/fulfillment_crm_app/internal/models"
	"github.com/fulfillops/fulfillment_crm_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxFinTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxFinTransactionRepository creates a new repository for financial transaction data.
func newPgxFinTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.FinTransactionRepositoryFacade {
	return &PgxFinTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxFinTransactionRepository implements portsrepo.FinTransactionRepositoryFacade
var _ portsrepo.FinTransactionRepositoryFacade = (*PgxFinTransactionRepository)(nil)

func toModelFinTransaction(d domain.FinTransaction) models.FinTransaction {
	return models.FinTransaction{
		TransactionID:     d.TransactionID,
		DebitAccountID:    d.DebitAccountID,
		CreditAccountID:   d.CreditAccountID,
		Amount:            d.Amount,
		Description:       d.Description,
		TransactionDate:   d.TransactionDate,
		CostOperationID:   d.CostOperationID,
		IncomeOperationID: d.IncomeOperationID,
		ReversalOfID:      d.ReversalOfID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainFinTransaction(m models.FinTransaction) domain.FinTransaction {
	return domain.FinTransaction{
		TransactionID:     m.TransactionID,
		DebitAccountID:    m.DebitAccountID,
		CreditAccountID:   m.CreditAccountID,
		Amount:            m.Amount,
		Description:       m.Description,
		TransactionDate:   m.TransactionDate,
		CostOperationID:   m.CostOperationID,
		IncomeOperationID: m.IncomeOperationID,
		ReversalOfID:      m.ReversalOfID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const finTransactionColumns = `transaction_id, debit_account_id, credit_account_id, amount, description, transaction_date, cost_operation_id, income_operation_id, reversal_of_id, created_at, created_by, last_updated_at, last_updated_by`

func scanFinTransactionRow(row pgx.Row) (models.FinTransaction, error) {
	var m models.FinTransaction
	var costOpID, incomeOpID, reversalOfID sql.NullString
	err := row.Scan(
		&m.TransactionID,
		&m.DebitAccountID,
		&m.CreditAccountID,
		&m.Amount,
		&m.Description,
		&m.TransactionDate,
		&costOpID,
		&incomeOpID,
		&reversalOfID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if costOpID.Valid {
		m.CostOperationID = &costOpID.String
	}
	if incomeOpID.Valid {
		m.IncomeOperationID = &incomeOpID.String
	}
	if reversalOfID.Valid {
		m.ReversalOfID = &reversalOfID.String
	}
	return m, err
}

// SavePosting saves a transaction and applies its balance deltas within one
// DB transaction. The affected accounts are locked first; any failure rolls
// back both the transaction row and the balance updates.
func (r *PgxFinTransactionRepository) SavePosting(ctx context.Context, txn domain.FinTransaction, balanceChanges map[string]decimal.Decimal) error {
	accountRepo := r.accountRepo

	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx) // Ignored if the transaction is committed successfully

	now := txn.CreatedAt
	userID := txn.CreatedBy

	// 1. Insert the transaction row
	modelTxn := toModelFinTransaction(txn)
	txnQuery := `
		INSERT INTO fin_transactions (` + finTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, txnQuery,
		modelTxn.TransactionID,
		modelTxn.DebitAccountID,
		modelTxn.CreditAccountID,
		modelTxn.Amount,
		modelTxn.Description,
		modelTxn.TransactionDate,
		modelTxn.CostOperationID,
		modelTxn.IncomeOperationID,
		modelTxn.ReversalOfID,
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+modelTxn.TransactionID, err)
	}

	// 2. Lock the affected accounts
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	if _, err := accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		// Error includes ErrNotFound if any account is missing
		return apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}

	// 3. Apply the balance deltas
	if err := accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return apperrors.NewAppError(500, "failed to update account balances", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit posting "+modelTxn.TransactionID, err)
	}

	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxFinTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.FinTransaction, error) {
	query := `
		SELECT ` + finTransactionColumns + `
		FROM fin_transactions
		WHERE transaction_id = $1;
	`
	modelTxn, err := scanFinTransactionRow(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	domainTxn := toDomainFinTransaction(modelTxn)
	return &domainTxn, nil
}

// ListTransactions retrieves a filtered, token-paginated list of transactions.
// It returns the transactions, a token for the next page, and an error.
func (r *PgxFinTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter, limit int, nextToken *string) ([]domain.FinTransaction, *string, error) {
	// Default limit handling
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + finTransactionColumns + `
		FROM fin_transactions
	`
	filterClause := `WHERE 1=1`
	args := []interface{}{}
	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		placeholder := `$` + strconv.Itoa(len(args))
		filterClause += ` AND (debit_account_id = ` + placeholder + ` OR credit_account_id = ` + placeholder + `)`
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		filterClause += ` AND transaction_date >= $` + strconv.Itoa(len(args))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		filterClause += ` AND transaction_date <= $` + strconv.Itoa(len(args))
	}

	// Ordering is crucial and must be stable. We use transaction_date DESC
	// with created_at DESC as a tie-breaker.
	orderByClause := `ORDER BY transaction_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		// Tuple comparison is concise and efficient in Postgres.
		cursorClause := ` AND (transaction_date, created_at) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, lastDate, lastCreatedAt)

		query := baseQuery + " " + filterClause + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)

		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		// First page request (no token)
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	modelTxns := make([]models.FinTransaction, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanFinTransactionRow(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", scanErr)
		}
		modelTxns = append(modelTxns, m)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	// Determine the next token
	var nextTokenVal *string
	if len(modelTxns) > limit {
		lastTxn := modelTxns[limit-1] // last item actually included in this page
		token := pagination.EncodeToken(lastTxn.TransactionDate, lastTxn.CreatedAt)
		nextTokenVal = &token
		modelTxns = modelTxns[:limit]
	}

	transactions := make([]domain.FinTransaction, 0, len(modelTxns))
	for _, m := range modelTxns {
		transactions = append(transactions, toDomainFinTransaction(m))
	}

	return transactions, nextTokenVal, nil
}
