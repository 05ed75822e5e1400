package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fulfillops/fulfillment_crm_app/internal/apperrors"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	"github.com/fulfillops/fulfillment_crm_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExpenseTemplateRepository struct {
	BaseRepository
}

// newPgxExpenseTemplateRepository creates a new repository for expense template data.
func newPgxExpenseTemplateRepository(pool *pgxpool.Pool) portsrepo.ExpenseTemplateRepositoryFacade {
	return &PgxExpenseTemplateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxExpenseTemplateRepository implements portsrepo.ExpenseTemplateRepositoryFacade
var _ portsrepo.ExpenseTemplateRepositoryFacade = (*PgxExpenseTemplateRepository)(nil)

func toModelTemplate(d domain.ExpenseTemplate) models.ExpenseTemplate {
	return models.ExpenseTemplate{
		TemplateID:  d.TemplateID,
		Name:        d.Name,
		Description: d.Description,
		IsActive:    d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainTemplate(m models.ExpenseTemplate) domain.ExpenseTemplate {
	return domain.ExpenseTemplate{
		TemplateID:  m.TemplateID,
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainTemplateItem(m models.ExpenseTemplateItem) domain.ExpenseTemplateItem {
	return domain.ExpenseTemplateItem{
		TemplateItemID:  m.TemplateItemID,
		TemplateID:      m.TemplateID,
		Category:        domain.ExpenseCategory(m.Category),
		VendorServiceID: m.VendorServiceID,
		Name:            m.Name,
		DefaultQuantity: m.DefaultQuantity,
		QuantityFormula: m.QuantityFormula,
		UnitPrice:       m.UnitPrice,
		SortOrder:       m.SortOrder,
	}
}

const templateColumns = `template_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by`
const templateItemColumns = `template_item_id, template_id, category, vendor_service_id, name, default_quantity, quantity_formula, unit_price, sort_order`

const insertTemplateItemQuery = `
	INSERT INTO expense_template_items (` + templateItemColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

func scanTemplateRow(row pgx.Row) (models.ExpenseTemplate, error) {
	var m models.ExpenseTemplate
	err := row.Scan(
		&m.TemplateID,
		&m.Name,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTemplate persists a new template together with its items in one
// database transaction.
func (r *PgxExpenseTemplateRepository) SaveTemplate(ctx context.Context, template domain.ExpenseTemplate) error {
	modelTemplate := toModelTemplate(template)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	templateQuery := `
		INSERT INTO expense_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, templateQuery,
		modelTemplate.TemplateID,
		modelTemplate.Name,
		modelTemplate.Description,
		modelTemplate.IsActive,
		modelTemplate.CreatedAt,
		modelTemplate.CreatedBy,
		modelTemplate.LastUpdatedAt,
		modelTemplate.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: template with ID %s already exists", apperrors.ErrDuplicate, modelTemplate.TemplateID)
		}
		return fmt.Errorf("failed to save template %s: %w", modelTemplate.TemplateID, err)
	}

	if err := insertTemplateItems(ctx, tx, template.Items); err != nil {
		return fmt.Errorf("failed to insert items for template %s: %w", modelTemplate.TemplateID, err)
	}

	return r.Commit(ctx, tx)
}

func insertTemplateItems(ctx context.Context, tx pgx.Tx, items []domain.ExpenseTemplateItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(insertTemplateItemQuery,
			item.TemplateItemID,
			item.TemplateID,
			string(item.Category),
			item.VendorServiceID,
			item.Name,
			item.DefaultQuantity,
			item.QuantityFormula,
			item.UnitPrice,
			item.SortOrder,
		)
	}

	br := tx.SendBatch(ctx, batch)
	return br.Close()
}

// FindTemplateByID retrieves a template with its items, ordered by sort order.
func (r *PgxExpenseTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.ExpenseTemplate, error) {
	templateQuery := `
		SELECT ` + templateColumns + `
		FROM expense_templates
		WHERE template_id = $1;
	`
	modelTemplate, err := scanTemplateRow(r.Pool.QueryRow(ctx, templateQuery, templateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find template by ID %s: %w", templateID, err)
	}

	itemsQuery := `
		SELECT ` + templateItemColumns + `
		FROM expense_template_items
		WHERE template_id = $1
		ORDER BY sort_order;
	`
	rows, err := r.Pool.Query(ctx, itemsQuery, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for template %s: %w", templateID, err)
	}
	defer rows.Close()

	domainTemplate := toDomainTemplate(modelTemplate)
	for rows.Next() {
		var m models.ExpenseTemplateItem
		var vendorServiceID sql.NullString
		if err := rows.Scan(
			&m.TemplateItemID,
			&m.TemplateID,
			&m.Category,
			&vendorServiceID,
			&m.Name,
			&m.DefaultQuantity,
			&m.QuantityFormula,
			&m.UnitPrice,
			&m.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item row for template %s: %w", templateID, err)
		}
		if vendorServiceID.Valid {
			m.VendorServiceID = &vendorServiceID.String
		}
		domainTemplate.Items = append(domainTemplate.Items, toDomainTemplateItem(m))
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating item rows for template %s: %w", templateID, rows.Err())
	}

	return &domainTemplate, nil
}

// ListTemplates retrieves a paginated list of templates without items.
func (r *PgxExpenseTemplateRepository) ListTemplates(ctx context.Context, includeInactive bool, limit int, offset int) ([]domain.ExpenseTemplate, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + templateColumns + `
		FROM expense_templates
	`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	templates := []domain.ExpenseTemplate{}
	for rows.Next() {
		m, err := scanTemplateRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		templates = append(templates, toDomainTemplate(m))
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", rows.Err())
	}

	return templates, nil
}

// UpdateTemplate updates a template and replaces its item set atomically.
// All existing items are deleted and the supplied set is inserted in the
// same transaction.
func (r *PgxExpenseTemplateRepository) UpdateTemplate(ctx context.Context, template domain.ExpenseTemplate) error {
	modelTemplate := toModelTemplate(template)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	templateQuery := `
		UPDATE expense_templates
		SET name = $2, description = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE template_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, templateQuery,
		modelTemplate.TemplateID,
		modelTemplate.Name,
		modelTemplate.Description,
		modelTemplate.IsActive,
		modelTemplate.LastUpdatedAt,
		modelTemplate.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update template %s: %w", modelTemplate.TemplateID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	deleteQuery := `
		DELETE FROM expense_template_items
		WHERE template_id = $1;
	`
	if _, err := tx.Exec(ctx, deleteQuery, modelTemplate.TemplateID); err != nil {
		return fmt.Errorf("failed to clear items for template %s: %w", modelTemplate.TemplateID, err)
	}

	if err := insertTemplateItems(ctx, tx, template.Items); err != nil {
		return fmt.Errorf("failed to insert items for template %s: %w", modelTemplate.TemplateID, err)
	}

	return r.Commit(ctx, tx)
}

// DeactivateTemplate marks a template as inactive.
func (r *PgxExpenseTemplateRepository) DeactivateTemplate(ctx context.Context, templateID string, userID string, now time.Time) error {
	query := `
		UPDATE expense_templates
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE template_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, templateID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate template %s: %w", templateID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		_, findErr := r.FindTemplateByID(ctx, templateID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check template status after deactivation attempt for %s: %w", templateID, findErr)
		}
		return apperrors.ErrValidation
	}
	return nil
}
