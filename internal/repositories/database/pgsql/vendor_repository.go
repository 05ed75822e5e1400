package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fulfillops/fulfillment_crm_app/internal/apperrors"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	"github.com/fulfillops/fulfillment_crm_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxVendorRepository struct {
	pool *pgxpool.Pool
}

// newPgxVendorRepository creates a new repository for vendor data.
func newPgxVendorRepository(pool *pgxpool.Pool) portsrepo.VendorRepositoryFacade {
	return &PgxVendorRepository{pool: pool}
}

// Ensure PgxVendorRepository implements portsrepo.VendorRepositoryFacade
var _ portsrepo.VendorRepositoryFacade = (*PgxVendorRepository)(nil)

func toModelVendor(d domain.Vendor) models.Vendor {
	return models.Vendor{
		VendorID:    d.VendorID,
		Name:        d.Name,
		ContactName: d.ContactName,
		Phone:       d.Phone,
		Email:       d.Email,
		Notes:       d.Notes,
		IsActive:    d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainVendor(m models.Vendor) domain.Vendor {
	return domain.Vendor{
		VendorID:    m.VendorID,
		Name:        m.Name,
		ContactName: m.ContactName,
		Phone:       m.Phone,
		Email:       m.Email,
		Notes:       m.Notes,
		IsActive:    m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const vendorColumns = `vendor_id, name, contact_name, phone, email, notes, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanVendorRow(row pgx.Row) (models.Vendor, error) {
	var m models.Vendor
	err := row.Scan(
		&m.VendorID,
		&m.Name,
		&m.ContactName,
		&m.Phone,
		&m.Email,
		&m.Notes,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveVendor inserts a new vendor.
func (r *PgxVendorRepository) SaveVendor(ctx context.Context, vendor domain.Vendor) error {
	modelVendor := toModelVendor(vendor)

	query := `
		INSERT INTO vendors (` + vendorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		modelVendor.VendorID,
		modelVendor.Name,
		modelVendor.ContactName,
		modelVendor.Phone,
		modelVendor.Email,
		modelVendor.Notes,
		modelVendor.IsActive,
		modelVendor.CreatedAt,
		modelVendor.CreatedBy,
		modelVendor.LastUpdatedAt,
		modelVendor.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: vendor with ID %s already exists", apperrors.ErrDuplicate, modelVendor.VendorID)
		}
		return fmt.Errorf("failed to save vendor %s: %w", modelVendor.VendorID, err)
	}
	return nil
}

// FindVendorByID retrieves a vendor by its ID.
func (r *PgxVendorRepository) FindVendorByID(ctx context.Context, vendorID string) (*domain.Vendor, error) {
	query := `
		SELECT ` + vendorColumns + `
		FROM vendors
		WHERE vendor_id = $1;
	`
	modelVendor, err := scanVendorRow(r.pool.QueryRow(ctx, query, vendorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find vendor by ID %s: %w", vendorID, err)
	}

	domainVendor := toDomainVendor(modelVendor)
	return &domainVendor, nil
}

// ListVendors retrieves a paginated list of active vendors, optionally
// filtered by a case-insensitive name search.
func (r *PgxVendorRepository) ListVendors(ctx context.Context, search string, limit int, offset int) ([]domain.Vendor, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + vendorColumns + `
		FROM vendors
		WHERE is_active = TRUE
	`
	args := []interface{}{}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += ` AND (name ILIKE $1 OR contact_name ILIKE $1)`
	}
	query += ` ORDER BY name LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer rows.Close()

	vendors := []domain.Vendor{}
	for rows.Next() {
		modelVendor, err := scanVendorRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor row: %w", err)
		}
		vendors = append(vendors, toDomainVendor(modelVendor))
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating vendor rows: %w", rows.Err())
	}

	return vendors, nil
}

// UpdateVendor updates an existing vendor in the database.
func (r *PgxVendorRepository) UpdateVendor(ctx context.Context, vendor domain.Vendor) error {
	modelVendor := toModelVendor(vendor)

	query := `
		UPDATE vendors
		SET name = $2, contact_name = $3, phone = $4, email = $5, notes = $6, is_active = $7, last_updated_at = $8, last_updated_by = $9
		WHERE vendor_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		modelVendor.VendorID,
		modelVendor.Name,
		modelVendor.ContactName,
		modelVendor.Phone,
		modelVendor.Email,
		modelVendor.Notes,
		modelVendor.IsActive,
		modelVendor.LastUpdatedAt,
		modelVendor.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update vendor %s: %w", modelVendor.VendorID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateVendor marks a vendor as inactive.
func (r *PgxVendorRepository) DeactivateVendor(ctx context.Context, vendorID string, userID string, now time.Time) error {
	query := `
		UPDATE vendors
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE vendor_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.pool.Exec(ctx, query, vendorID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate vendor %s: %w", vendorID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		_, findErr := r.FindVendorByID(ctx, vendorID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check vendor status after deactivation attempt for %s: %w", vendorID, findErr)
		}
		return apperrors.ErrValidation
	}
	return nil
}

