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

type PgxOperationRepository struct {
	pool *pgxpool.Pool
}

// newPgxOperationRepository creates a new repository for cost and income operation data.
func newPgxOperationRepository(pool *pgxpool.Pool) portsrepo.OperationRepositoryFacade {
	return &PgxOperationRepository{pool: pool}
}

// Ensure PgxOperationRepository implements portsrepo.OperationRepositoryFacade
var _ portsrepo.OperationRepositoryFacade = (*PgxOperationRepository)(nil)

func toModelCostOperation(d domain.CostOperation) models.CostOperation {
	return models.CostOperation{
		CostOperationID: d.CostOperationID,
		OrderID:         d.OrderID,
		VendorServiceID: d.VendorServiceID,
		Category:        string(d.Category),
		Amount:          d.Amount,
		Status:          string(d.Status),
		OperationDate:   d.OperationDate,
		Description:     d.Description,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainCostOperation(m models.CostOperation) domain.CostOperation {
	return domain.CostOperation{
		CostOperationID: m.CostOperationID,
		OrderID:         m.OrderID,
		VendorServiceID: m.VendorServiceID,
		Category:        domain.ExpenseCategory(m.Category),
		Amount:          m.Amount,
		Status:          domain.OperationStatus(m.Status),
		OperationDate:   m.OperationDate,
		Description:     m.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toModelIncomeOperation(d domain.IncomeOperation) models.IncomeOperation {
	return models.IncomeOperation{
		IncomeOperationID: d.IncomeOperationID,
		OrderID:           d.OrderID,
		Amount:            d.Amount,
		PaidAmount:        d.PaidAmount,
		Status:            string(d.Status),
		OperationDate:     d.OperationDate,
		PaidAt:            d.PaidAt,
		Description:       d.Description,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainIncomeOperation(m models.IncomeOperation) domain.IncomeOperation {
	return domain.IncomeOperation{
		IncomeOperationID: m.IncomeOperationID,
		OrderID:           m.OrderID,
		Amount:            m.Amount,
		PaidAmount:        m.PaidAmount,
		Status:            domain.IncomeStatus(m.Status),
		OperationDate:     m.OperationDate,
		PaidAt:            m.PaidAt,
		Description:       m.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const costOperationColumns = `cost_operation_id, order_id, vendor_service_id, category, amount, status, operation_date, description, created_at, created_by, last_updated_at, last_updated_by`
const incomeOperationColumns = `income_operation_id, order_id, amount, paid_amount, status, operation_date, paid_at, description, created_at, created_by, last_updated_at, last_updated_by`

func scanCostOperationRow(row pgx.Row) (models.CostOperation, error) {
	var m models.CostOperation
	var vendorServiceID sql.NullString
	err := row.Scan(
		&m.CostOperationID,
		&m.OrderID,
		&vendorServiceID,
		&m.Category,
		&m.Amount,
		&m.Status,
		&m.OperationDate,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if vendorServiceID.Valid {
		m.VendorServiceID = &vendorServiceID.String
	}
	return m, err
}

func scanIncomeOperationRow(row pgx.Row) (models.IncomeOperation, error) {
	var m models.IncomeOperation
	var paidAt sql.NullTime
	err := row.Scan(
		&m.IncomeOperationID,
		&m.OrderID,
		&m.Amount,
		&m.PaidAmount,
		&m.Status,
		&m.OperationDate,
		&paidAt,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if paidAt.Valid {
		m.PaidAt = &paidAt.Time
	}
	return m, err
}

// SaveCostOperation inserts a new cost operation.
func (r *PgxOperationRepository) SaveCostOperation(ctx context.Context, op domain.CostOperation) error {
	modelOp := toModelCostOperation(op)

	query := `
		INSERT INTO cost_operations (` + costOperationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		modelOp.CostOperationID,
		modelOp.OrderID,
		modelOp.VendorServiceID,
		modelOp.Category,
		modelOp.Amount,
		modelOp.Status,
		modelOp.OperationDate,
		modelOp.Description,
		modelOp.CreatedAt,
		modelOp.CreatedBy,
		modelOp.LastUpdatedAt,
		modelOp.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: cost operation with ID %s already exists", apperrors.ErrDuplicate, modelOp.CostOperationID)
		}
		return fmt.Errorf("failed to save cost operation %s: %w", modelOp.CostOperationID, err)
	}
	return nil
}

// FindCostOperationByID retrieves a cost operation by its ID.
func (r *PgxOperationRepository) FindCostOperationByID(ctx context.Context, costOperationID string) (*domain.CostOperation, error) {
	query := `
		SELECT ` + costOperationColumns + `
		FROM cost_operations
		WHERE cost_operation_id = $1;
	`
	modelOp, err := scanCostOperationRow(r.pool.QueryRow(ctx, query, costOperationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cost operation by ID %s: %w", costOperationID, err)
	}

	domainOp := toDomainCostOperation(modelOp)
	return &domainOp, nil
}

// ListCostOperationsByOrderID retrieves all cost operations of one order.
func (r *PgxOperationRepository) ListCostOperationsByOrderID(ctx context.Context, orderID string) ([]domain.CostOperation, error) {
	query := `
		SELECT ` + costOperationColumns + `
		FROM cost_operations
		WHERE order_id = $1
		ORDER BY operation_date, created_at;
	`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost operations for order %s: %w", orderID, err)
	}
	defer rows.Close()

	ops := []domain.CostOperation{}
	for rows.Next() {
		m, err := scanCostOperationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cost operation row for order %s: %w", orderID, err)
		}
		ops = append(ops, toDomainCostOperation(m))
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating cost operation rows for order %s: %w", orderID, rows.Err())
	}

	return ops, nil
}

// UpdateCostOperation updates an existing cost operation.
func (r *PgxOperationRepository) UpdateCostOperation(ctx context.Context, op domain.CostOperation) error {
	modelOp := toModelCostOperation(op)

	query := `
		UPDATE cost_operations
		SET vendor_service_id = $2, category = $3, amount = $4, status = $5, operation_date = $6, description = $7, last_updated_at = $8, last_updated_by = $9
		WHERE cost_operation_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		modelOp.CostOperationID,
		modelOp.VendorServiceID,
		modelOp.Category,
		modelOp.Amount,
		modelOp.Status,
		modelOp.OperationDate,
		modelOp.Description,
		modelOp.LastUpdatedAt,
		modelOp.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update cost operation %s: %w", modelOp.CostOperationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteCostOperation removes a cost operation.
func (r *PgxOperationRepository) DeleteCostOperation(ctx context.Context, costOperationID string) error {
	query := `
		DELETE FROM cost_operations
		WHERE cost_operation_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, costOperationID)
	if err != nil {
		return fmt.Errorf("failed to delete cost operation %s: %w", costOperationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveIncomeOperation inserts a new income operation.
func (r *PgxOperationRepository) SaveIncomeOperation(ctx context.Context, op domain.IncomeOperation) error {
	modelOp := toModelIncomeOperation(op)

	query := `
		INSERT INTO income_operations (` + incomeOperationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		modelOp.IncomeOperationID,
		modelOp.OrderID,
		modelOp.Amount,
		modelOp.PaidAmount,
		modelOp.Status,
		modelOp.OperationDate,
		modelOp.PaidAt,
		modelOp.Description,
		modelOp.CreatedAt,
		modelOp.CreatedBy,
		modelOp.LastUpdatedAt,
		modelOp.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: income operation with ID %s already exists", apperrors.ErrDuplicate, modelOp.IncomeOperationID)
		}
		return fmt.Errorf("failed to save income operation %s: %w", modelOp.IncomeOperationID, err)
	}
	return nil
}

// FindIncomeOperationByID retrieves an income operation by its ID.
func (r *PgxOperationRepository) FindIncomeOperationByID(ctx context.Context, incomeOperationID string) (*domain.IncomeOperation, error) {
	query := `
		SELECT ` + incomeOperationColumns + `
		FROM income_operations
		WHERE income_operation_id = $1;
	`
	modelOp, err := scanIncomeOperationRow(r.pool.QueryRow(ctx, query, incomeOperationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find income operation by ID %s: %w", incomeOperationID, err)
	}

	domainOp := toDomainIncomeOperation(modelOp)
	return &domainOp, nil
}

// ListIncomeOperationsByOrderID retrieves all income operations of one order.
func (r *PgxOperationRepository) ListIncomeOperationsByOrderID(ctx context.Context, orderID string) ([]domain.IncomeOperation, error) {
	query := `
		SELECT ` + incomeOperationColumns + `
		FROM income_operations
		WHERE order_id = $1
		ORDER BY operation_date, created_at;
	`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query income operations for order %s: %w", orderID, err)
	}
	defer rows.Close()

	ops := []domain.IncomeOperation{}
	for rows.Next() {
		m, err := scanIncomeOperationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income operation row for order %s: %w", orderID, err)
		}
		ops = append(ops, toDomainIncomeOperation(m))
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating income operation rows for order %s: %w", orderID, rows.Err())
	}

	return ops, nil
}

// UpdateIncomeOperation updates an existing income operation.
func (r *PgxOperationRepository) UpdateIncomeOperation(ctx context.Context, op domain.IncomeOperation) error {
	modelOp := toModelIncomeOperation(op)

	query := `
		UPDATE income_operations
		SET amount = $2, paid_amount = $3, status = $4, operation_date = $5, paid_at = $6, description = $7, last_updated_at = $8, last_updated_by = $9
		WHERE income_operation_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		modelOp.IncomeOperationID,
		modelOp.Amount,
		modelOp.PaidAmount,
		modelOp.Status,
		modelOp.OperationDate,
		modelOp.PaidAt,
		modelOp.Description,
		modelOp.LastUpdatedAt,
		modelOp.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update income operation %s: %w", modelOp.IncomeOperationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteIncomeOperation removes an income operation.
func (r *PgxOperationRepository) DeleteIncomeOperation(ctx context.Context, incomeOperationID string) error {
	query := `
		DELETE FROM income_operations
		WHERE income_operation_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, incomeOperationID)
	if err != nil {
		return fmt.Errorf("failed to delete income operation %s: %w", incomeOperationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
