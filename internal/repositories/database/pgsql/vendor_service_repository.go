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

type PgxVendorServiceRepository struct {
	BaseRepository
}

// newPgxVendorServiceRepository creates a new repository for vendor service data.
func newPgxVendorServiceRepository(pool *pgxpool.Pool) portsrepo.VendorServiceRepositoryFacade {
	return &PgxVendorServiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxVendorServiceRepository implements portsrepo.VendorServiceRepositoryFacade
var _ portsrepo.VendorServiceRepositoryFacade = (*PgxVendorServiceRepository)(nil)

func toModelVendorService(d domain.VendorService) models.VendorService {
	return models.VendorService{
		VendorServiceID: d.VendorServiceID,
		VendorID:        d.VendorID,
		ServiceType:     string(d.ServiceType),
		Name:            d.Name,
		Unit:            d.Unit,
		Price:           d.Price,
		IsActive:        d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainVendorService(m models.VendorService) domain.VendorService {
	return domain.VendorService{
		VendorServiceID: m.VendorServiceID,
		VendorID:        m.VendorID,
		ServiceType:     domain.ServiceType(m.ServiceType),
		Name:            m.Name,
		Unit:            m.Unit,
		Price:           m.Price,
		IsActive:        m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const vendorServiceColumns = `vendor_service_id, vendor_id, service_type, name, unit, price, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanVendorServiceRow(row pgx.Row) (models.VendorService, error) {
	var m models.VendorService
	err := row.Scan(
		&m.VendorServiceID,
		&m.VendorID,
		&m.ServiceType,
		&m.Name,
		&m.Unit,
		&m.Price,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveVendorService inserts a new vendor service.
func (r *PgxVendorServiceRepository) SaveVendorService(ctx context.Context, service domain.VendorService) error {
	modelSvc := toModelVendorService(service)

	query := `
		INSERT INTO vendor_services (` + vendorServiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelSvc.VendorServiceID,
		modelSvc.VendorID,
		modelSvc.ServiceType,
		modelSvc.Name,
		modelSvc.Unit,
		modelSvc.Price,
		modelSvc.IsActive,
		modelSvc.CreatedAt,
		modelSvc.CreatedBy,
		modelSvc.LastUpdatedAt,
		modelSvc.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: vendor service with ID %s already exists", apperrors.ErrDuplicate, modelSvc.VendorServiceID)
		}
		return fmt.Errorf("failed to save vendor service %s: %w", modelSvc.VendorServiceID, err)
	}
	return nil
}

// FindVendorServiceByID retrieves a vendor service by its ID.
func (r *PgxVendorServiceRepository) FindVendorServiceByID(ctx context.Context, vendorServiceID string) (*domain.VendorService, error) {
	query := `
		SELECT ` + vendorServiceColumns + `
		FROM vendor_services
		WHERE vendor_service_id = $1;
	`
	modelSvc, err := scanVendorServiceRow(r.Pool.QueryRow(ctx, query, vendorServiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find vendor service by ID %s: %w", vendorServiceID, err)
	}

	domainSvc := toDomainVendorService(modelSvc)
	return &domainSvc, nil
}

// FindVendorServicesByIDs retrieves multiple vendor services by their IDs.
// Missing IDs are simply absent from the returned map; the caller decides
// whether that is an error.
func (r *PgxVendorServiceRepository) FindVendorServicesByIDs(ctx context.Context, vendorServiceIDs []string) (map[string]domain.VendorService, error) {
	if len(vendorServiceIDs) == 0 {
		return map[string]domain.VendorService{}, nil
	}

	query := `
		SELECT ` + vendorServiceColumns + `
		FROM vendor_services
		WHERE vendor_service_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, vendorServiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendor services by IDs: %w", err)
	}
	defer rows.Close()

	servicesMap := make(map[string]domain.VendorService)
	for rows.Next() {
		modelSvc, err := scanVendorServiceRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor service row during batch fetch: %w", err)
		}
		servicesMap[modelSvc.VendorServiceID] = toDomainVendorService(modelSvc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendor service rows during batch fetch: %w", err)
	}

	return servicesMap, nil
}

// ListVendorServices retrieves a paginated list of active vendor services,
// optionally filtered by vendor and service type.
func (r *PgxVendorServiceRepository) ListVendorServices(ctx context.Context, vendorID string, serviceType domain.ServiceType, limit int, offset int) ([]domain.VendorService, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + vendorServiceColumns + `
		FROM vendor_services
		WHERE is_active = TRUE
	`
	args := []interface{}{}
	if vendorID != "" {
		args = append(args, vendorID)
		query += ` AND vendor_id = $` + strconv.Itoa(len(args))
	}
	if serviceType != "" {
		args = append(args, string(serviceType))
		query += ` AND service_type = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY name LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendor services: %w", err)
	}
	defer rows.Close()

	services := []domain.VendorService{}
	for rows.Next() {
		modelSvc, err := scanVendorServiceRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor service row: %w", err)
		}
		services = append(services, toDomainVendorService(modelSvc))
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating vendor service rows: %w", rows.Err())
	}

	return services, nil
}

// ListPriceChanges retrieves a service's price history, newest first.
func (r *PgxVendorServiceRepository) ListPriceChanges(ctx context.Context, vendorServiceID string) ([]domain.VendorServicePriceChange, error) {
	query := `
		SELECT price_change_id, vendor_service_id, old_price, new_price, changed_at, changed_by
		FROM vendor_service_price_changes
		WHERE vendor_service_id = $1
		ORDER BY changed_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, vendorServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query price changes for service %s: %w", vendorServiceID, err)
	}
	defer rows.Close()

	changes := []domain.VendorServicePriceChange{}
	for rows.Next() {
		var m models.VendorServicePriceChange
		if err := rows.Scan(
			&m.PriceChangeID,
			&m.VendorServiceID,
			&m.OldPrice,
			&m.NewPrice,
			&m.ChangedAt,
			&m.ChangedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan price change row: %w", err)
		}
		changes = append(changes, domain.VendorServicePriceChange{
			PriceChangeID:   m.PriceChangeID,
			VendorServiceID: m.VendorServiceID,
			OldPrice:        m.OldPrice,
			NewPrice:        m.NewPrice,
			ChangedAt:       m.ChangedAt,
			ChangedBy:       m.ChangedBy,
		})
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating price change rows: %w", rows.Err())
	}

	return changes, nil
}

// UpdateVendorService persists changes to a vendor service. When priceChange
// is non-nil the history entry is appended in the same database transaction
// as the update, so the history can never drift from the service row.
func (r *PgxVendorServiceRepository) UpdateVendorService(ctx context.Context, service domain.VendorService, priceChange *domain.VendorServicePriceChange) error {
	modelSvc := toModelVendorService(service)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE vendor_services
		SET name = $2, unit = $3, price = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE vendor_service_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		modelSvc.VendorServiceID,
		modelSvc.Name,
		modelSvc.Unit,
		modelSvc.Price,
		modelSvc.IsActive,
		modelSvc.LastUpdatedAt,
		modelSvc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update vendor service %s: %w", modelSvc.VendorServiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if priceChange != nil {
		historyQuery := `
			INSERT INTO vendor_service_price_changes (price_change_id, vendor_service_id, old_price, new_price, changed_at, changed_by)
			VALUES ($1, $2, $3, $4, $5, $6);
		`
		_, err = tx.Exec(ctx, historyQuery,
			priceChange.PriceChangeID,
			priceChange.VendorServiceID,
			priceChange.OldPrice,
			priceChange.NewPrice,
			priceChange.ChangedAt,
			priceChange.ChangedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to record price change for service %s: %w", modelSvc.VendorServiceID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// DeactivateVendorService marks a vendor service as inactive.
func (r *PgxVendorServiceRepository) DeactivateVendorService(ctx context.Context, vendorServiceID string, userID string, now time.Time) error {
	query := `
		UPDATE vendor_services
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE vendor_service_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, vendorServiceID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate vendor service %s: %w", vendorServiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		_, findErr := r.FindVendorServiceByID(ctx, vendorServiceID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check vendor service status after deactivation attempt for %s: %w", vendorServiceID, findErr)
		}
		return apperrors.ErrValidation
	}
	return nil
}
