package pgsql

import (
	"context"
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

type PgxClientRepository struct {
	pool *pgxpool.Pool
}

// newPgxClientRepository creates a new repository for client data.
func newPgxClientRepository(pool *pgxpool.Pool) portsrepo.ClientRepositoryFacade {
	return &PgxClientRepository{pool: pool}
}

// Ensure PgxClientRepository implements portsrepo.ClientRepositoryFacade
var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

// Helper to convert domain.Client to models.Client for DB storage
func toModelClient(d domain.Client) models.Client {
	return models.Client{
		ClientID:    d.ClientID,
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

// Helper to convert models.Client from DB to domain.Client
func toDomainClient(m models.Client) domain.Client {
	return domain.Client{
		ClientID:    m.ClientID,
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

const clientColumns = `client_id, name, contact_name, phone, email, notes, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanClientRow(row pgx.Row) (models.Client, error) {
	var m models.Client
	err := row.Scan(
		&m.ClientID,
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

// SaveClient inserts a new client.
func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	modelClient := toModelClient(client)

	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		modelClient.ClientID,
		modelClient.Name,
		modelClient.ContactName,
		modelClient.Phone,
		modelClient.Email,
		modelClient.Notes,
		modelClient.IsActive,
		modelClient.CreatedAt,
		modelClient.CreatedBy,
		modelClient.LastUpdatedAt,
		modelClient.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: client with ID %s already exists", apperrors.ErrDuplicate, modelClient.ClientID)
		}
		return fmt.Errorf("failed to save client %s: %w", modelClient.ClientID, err)
	}
	return nil
}

// FindClientByID retrieves a client by its ID.
func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE client_id = $1;
	`
	modelClient, err := scanClientRow(r.pool.QueryRow(ctx, query, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find client by ID %s: %w", clientID, err)
	}

	domainClient := toDomainClient(modelClient)
	return &domainClient, nil
}

// ListClients retrieves a paginated list of active clients, optionally
// filtered by a search term over name and contact name.
func (r *PgxClientRepository) ListClients(ctx context.Context, search string, limit int, offset int) ([]domain.Client, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE is_active = TRUE
	`
	args := []interface{}{}
	if search != "" {
		query += ` AND (name ILIKE $1 OR contact_name ILIKE $1)`
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d;`, len(args)+1, len(args)+2)
	} else {
		query += ` ORDER BY name LIMIT $1 OFFSET $2;`
	}
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		modelClient, err := scanClientRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		clients = append(clients, toDomainClient(modelClient))
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", rows.Err())
	}

	return clients, nil
}

// UpdateClient updates an existing client in the database.
func (r *PgxClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	modelClient := toModelClient(client)

	query := `
		UPDATE clients
		SET name = $2, contact_name = $3, phone = $4, email = $5, notes = $6, is_active = $7, last_updated_at = $8, last_updated_by = $9
		WHERE client_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		modelClient.ClientID,
		modelClient.Name,
		modelClient.ContactName,
		modelClient.Phone,
		modelClient.Email,
		modelClient.Notes,
		modelClient.IsActive,
		modelClient.LastUpdatedAt,
		modelClient.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update client %s: %w", modelClient.ClientID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateClient marks a client as inactive.
func (r *PgxClientRepository) DeactivateClient(ctx context.Context, clientID string, userID string, now time.Time) error {
	query := `
		UPDATE clients
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE client_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.pool.Exec(ctx, query, clientID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate client %s: %w", clientID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the client does not exist or it was already inactive.
		_, findErr := r.FindClientByID(ctx, clientID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check client status after deactivation attempt for %s: %w", clientID, findErr)
		}
		return apperrors.ErrValidation
	}
	return nil
}
