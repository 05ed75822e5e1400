package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fulfillops/fulfillment_crm_app/internal/apperrors"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	"github.com/fulfillops/fulfillment_crm_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOrderExpenseRepository struct {
	pool *pgxpool.Pool
}

// newPgxOrderExpenseRepository creates a new repository for order expense data.
func newPgxOrderExpenseRepository(pool *pgxpool.Pool) portsrepo.OrderExpenseRepositoryFacade {
	return &PgxOrderExpenseRepository{pool: pool}
}

// Ensure PgxOrderExpenseRepository implements portsrepo.OrderExpenseRepositoryFacade
var _ portsrepo.OrderExpenseRepositoryFacade = (*PgxOrderExpenseRepository)(nil)

func toModelOrderExpense(d domain.OrderExpense) models.OrderExpense {
	return models.OrderExpense{
		OrderExpenseID:  d.OrderExpenseID,
		OrderID:         d.OrderID,
		Category:        string(d.Category),
		VendorServiceID: d.VendorServiceID,
		Name:            d.Name,
		Quantity:        d.Quantity,
		UnitPrice:       d.UnitPrice,
		TotalAmount:     d.TotalAmount,
		PlannedAmount:   d.PlannedAmount,
		ActualAmount:    d.ActualAmount,
		Status:          string(d.Status),
		IsPriceLocked:   d.IsPriceLocked,
		PriceLockedAt:   d.PriceLockedAt,
		OriginalPrice:   d.OriginalPrice,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainOrderExpense(m models.OrderExpense) domain.OrderExpense {
	return domain.OrderExpense{
		OrderExpenseID:  m.OrderExpenseID,
		OrderID:         m.OrderID,
		Category:        domain.ExpenseCategory(m.Category),
		VendorServiceID: m.VendorServiceID,
		Name:            m.Name,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		TotalAmount:     m.TotalAmount,
		PlannedAmount:   m.PlannedAmount,
		ActualAmount:    m.ActualAmount,
		Status:          domain.ExpenseStatus(m.Status),
		IsPriceLocked:   m.IsPriceLocked,
		PriceLockedAt:   m.PriceLockedAt,
		OriginalPrice:   m.OriginalPrice,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const orderExpenseColumns = `order_expense_id, order_id, category, vendor_service_id, name, quantity, unit_price, total_amount, planned_amount, actual_amount, status, is_price_locked, price_locked_at, original_price, created_at, created_by, last_updated_at, last_updated_by`

func scanOrderExpenseRow(row pgx.Row) (models.OrderExpense, error) {
	var m models.OrderExpense
	var vendorServiceID sql.NullString
	var priceLockedAt sql.NullTime
	err := row.Scan(
		&m.OrderExpenseID,
		&m.OrderID,
		&m.Category,
		&vendorServiceID,
		&m.Name,
		&m.Quantity,
		&m.UnitPrice,
		&m.TotalAmount,
		&m.PlannedAmount,
		&m.ActualAmount,
		&m.Status,
		&m.IsPriceLocked,
		&priceLockedAt,
		&m.OriginalPrice,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if vendorServiceID.Valid {
		m.VendorServiceID = &vendorServiceID.String
	}
	if priceLockedAt.Valid {
		m.PriceLockedAt = &priceLockedAt.Time
	}
	return m, err
}

// SaveExpense inserts a new expense.
func (r *PgxOrderExpenseRepository) SaveExpense(ctx context.Context, expense domain.OrderExpense) error {
	modelExpense := toModelOrderExpense(expense)

	query := `
		INSERT INTO order_expenses (` + orderExpenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.pool.Exec(ctx, query, expenseInsertArgs(modelExpense)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: expense with ID %s already exists", apperrors.ErrDuplicate, modelExpense.OrderExpenseID)
		}
		return fmt.Errorf("failed to save expense %s: %w", modelExpense.OrderExpenseID, err)
	}
	return nil
}

// SaveExpenses persists a batch of expenses in one round trip.
func (r *PgxOrderExpenseRepository) SaveExpenses(ctx context.Context, expenses []domain.OrderExpense) error {
	if len(expenses) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_expenses (` + orderExpenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	batch := &pgx.Batch{}
	for _, expense := range expenses {
		batch.Queue(query, expenseInsertArgs(toModelOrderExpense(expense))...)
	}

	br := r.pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: duplicate expense in batch", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to execute expense insert batch: %w", err)
	}
	return nil
}

func expenseInsertArgs(m models.OrderExpense) []interface{} {
	return []interface{}{
		m.OrderExpenseID,
		m.OrderID,
		m.Category,
		m.VendorServiceID,
		m.Name,
		m.Quantity,
		m.UnitPrice,
		m.TotalAmount,
		m.PlannedAmount,
		m.ActualAmount,
		m.Status,
		m.IsPriceLocked,
		m.PriceLockedAt,
		m.OriginalPrice,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// FindExpenseByID retrieves an expense by its ID.
func (r *PgxOrderExpenseRepository) FindExpenseByID(ctx context.Context, orderExpenseID string) (*domain.OrderExpense, error) {
	query := `
		SELECT ` + orderExpenseColumns + `
		FROM order_expenses
		WHERE order_expense_id = $1;
	`
	modelExpense, err := scanOrderExpenseRow(r.pool.QueryRow(ctx, query, orderExpenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", orderExpenseID, err)
	}

	domainExpense := toDomainOrderExpense(modelExpense)
	return &domainExpense, nil
}

// ListExpensesByOrderID retrieves all expenses of one order.
func (r *PgxOrderExpenseRepository) ListExpensesByOrderID(ctx context.Context, orderID string) ([]domain.OrderExpense, error) {
	query := `
		SELECT ` + orderExpenseColumns + `
		FROM order_expenses
		WHERE order_id = $1
		ORDER BY created_at;
	`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses for order %s: %w", orderID, err)
	}
	defer rows.Close()

	return collectOrderExpenses(rows, orderID)
}

// ListExpensesByOrderIDInTx retrieves all expenses of one order within tx.
// The recalc path reads expenses under the order row lock to get a snapshot
// consistent with the aggregates it is about to write.
func (r *PgxOrderExpenseRepository) ListExpensesByOrderIDInTx(ctx context.Context, tx pgx.Tx, orderID string) ([]domain.OrderExpense, error) {
	query := `
		SELECT ` + orderExpenseColumns + `
		FROM order_expenses
		WHERE order_id = $1
		ORDER BY created_at;
	`
	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses in tx for order %s: %w", orderID, err)
	}
	defer rows.Close()

	return collectOrderExpenses(rows, orderID)
}

func collectOrderExpenses(rows pgx.Rows, orderID string) ([]domain.OrderExpense, error) {
	expenses := []domain.OrderExpense{}
	for rows.Next() {
		m, err := scanOrderExpenseRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row for order %s: %w", orderID, err)
		}
		expenses = append(expenses, toDomainOrderExpense(m))
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating expense rows for order %s: %w", orderID, rows.Err())
	}

	return expenses, nil
}

// UpdateExpense updates an existing expense.
func (r *PgxOrderExpenseRepository) UpdateExpense(ctx context.Context, expense domain.OrderExpense) error {
	modelExpense := toModelOrderExpense(expense)

	query := `
		UPDATE order_expenses
		SET category = $2, vendor_service_id = $3, name = $4, quantity = $5, unit_price = $6,
		    total_amount = $7, planned_amount = $8, actual_amount = $9, status = $10,
		    is_price_locked = $11, price_locked_at = $12, original_price = $13,
		    last_updated_at = $14, last_updated_by = $15
		WHERE order_expense_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		modelExpense.OrderExpenseID,
		modelExpense.Category,
		modelExpense.VendorServiceID,
		modelExpense.Name,
		modelExpense.Quantity,
		modelExpense.UnitPrice,
		modelExpense.TotalAmount,
		modelExpense.PlannedAmount,
		modelExpense.ActualAmount,
		modelExpense.Status,
		modelExpense.IsPriceLocked,
		modelExpense.PriceLockedAt,
		modelExpense.OriginalPrice,
		modelExpense.LastUpdatedAt,
		modelExpense.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update expense %s: %w", modelExpense.OrderExpenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteExpense removes an expense row.
func (r *PgxOrderExpenseRepository) DeleteExpense(ctx context.Context, orderExpenseID string) error {
	query := `
		DELETE FROM order_expenses
		WHERE order_expense_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, orderExpenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", orderExpenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
