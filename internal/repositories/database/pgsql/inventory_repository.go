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
	"github.com/shopspring/decimal"
)

type PgxInventoryRepository struct {
	BaseRepository
}

// newPgxInventoryRepository creates a new repository for inventory data.
func newPgxInventoryRepository(pool *pgxpool.Pool) portsrepo.InventoryRepositoryFacade {
	return &PgxInventoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxInventoryRepository implements portsrepo.InventoryRepositoryFacade
var _ portsrepo.InventoryRepositoryFacade = (*PgxInventoryRepository)(nil)

func toModelInventoryItem(d domain.InventoryItem) models.InventoryItem {
	return models.InventoryItem{
		InventoryItemID: d.InventoryItemID,
		SKU:             d.SKU,
		Name:            d.Name,
		Quantity:        d.Quantity,
		UnitWeight:      d.UnitWeight,
		UnitVolume:      d.UnitVolume,
		MinQuantity:     d.MinQuantity,
		IsActive:        d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainInventoryItem(m models.InventoryItem) domain.InventoryItem {
	return domain.InventoryItem{
		InventoryItemID: m.InventoryItemID,
		SKU:             m.SKU,
		Name:            m.Name,
		Quantity:        m.Quantity,
		UnitWeight:      m.UnitWeight,
		UnitVolume:      m.UnitVolume,
		MinQuantity:     m.MinQuantity,
		IsActive:        m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const inventoryItemColumns = `inventory_item_id, sku, name, quantity, unit_weight, unit_volume, min_quantity, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanInventoryItemRow(row pgx.Row) (models.InventoryItem, error) {
	var m models.InventoryItem
	err := row.Scan(
		&m.InventoryItemID,
		&m.SKU,
		&m.Name,
		&m.Quantity,
		&m.UnitWeight,
		&m.UnitVolume,
		&m.MinQuantity,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveInventoryItem inserts a new inventory item.
func (r *PgxInventoryRepository) SaveInventoryItem(ctx context.Context, item domain.InventoryItem) error {
	modelItem := toModelInventoryItem(item)

	query := `
		INSERT INTO inventory_items (` + inventoryItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelItem.InventoryItemID,
		modelItem.SKU,
		modelItem.Name,
		modelItem.Quantity,
		modelItem.UnitWeight,
		modelItem.UnitVolume,
		modelItem.MinQuantity,
		modelItem.IsActive,
		modelItem.CreatedAt,
		modelItem.CreatedBy,
		modelItem.LastUpdatedAt,
		modelItem.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation on sku
			return fmt.Errorf("%w: SKU %s already exists", apperrors.ErrDuplicate, modelItem.SKU)
		}
		return fmt.Errorf("failed to save inventory item %s: %w", modelItem.InventoryItemID, err)
	}
	return nil
}

// FindInventoryItemByID retrieves an inventory item by its ID.
func (r *PgxInventoryRepository) FindInventoryItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	query := `
		SELECT ` + inventoryItemColumns + `
		FROM inventory_items
		WHERE inventory_item_id = $1;
	`
	modelItem, err := scanInventoryItemRow(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find inventory item by ID %s: %w", itemID, err)
	}

	domainItem := toDomainInventoryItem(modelItem)
	return &domainItem, nil
}

// FindInventoryItemBySKU retrieves an inventory item by its SKU.
func (r *PgxInventoryRepository) FindInventoryItemBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	query := `
		SELECT ` + inventoryItemColumns + `
		FROM inventory_items
		WHERE sku = $1;
	`
	modelItem, err := scanInventoryItemRow(r.Pool.QueryRow(ctx, query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find inventory item by SKU %s: %w", sku, err)
	}

	domainItem := toDomainInventoryItem(modelItem)
	return &domainItem, nil
}

// ListInventoryItems retrieves a paginated list of active inventory items,
// optionally restricted to items at or below their minimum quantity.
func (r *PgxInventoryRepository) ListInventoryItems(ctx context.Context, lowStockOnly bool, limit int, offset int) ([]domain.InventoryItem, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + inventoryItemColumns + `
		FROM inventory_items
		WHERE is_active = TRUE
	`
	if lowStockOnly {
		query += ` AND quantity <= min_quantity`
	}
	query += ` ORDER BY sku LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory items: %w", err)
	}
	defer rows.Close()

	items := []domain.InventoryItem{}
	for rows.Next() {
		modelItem, err := scanInventoryItemRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item row: %w", err)
		}
		items = append(items, toDomainInventoryItem(modelItem))
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating inventory item rows: %w", rows.Err())
	}

	return items, nil
}

// UpdateInventoryItem persists changes to an existing inventory item.
// Quantity is deliberately excluded; only ApplyStockMovement writes it.
func (r *PgxInventoryRepository) UpdateInventoryItem(ctx context.Context, item domain.InventoryItem) error {
	modelItem := toModelInventoryItem(item)

	query := `
		UPDATE inventory_items
		SET name = $2, unit_weight = $3, unit_volume = $4, min_quantity = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE inventory_item_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelItem.InventoryItemID,
		modelItem.Name,
		modelItem.UnitWeight,
		modelItem.UnitVolume,
		modelItem.MinQuantity,
		modelItem.IsActive,
		modelItem.LastUpdatedAt,
		modelItem.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update inventory item %s: %w", modelItem.InventoryItemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ApplyStockMovement inserts the movement and adjusts the item quantity by
// its signed delta within one database transaction. The item row is locked
// first so concurrent movements serialise.
func (r *PgxInventoryRepository) ApplyStockMovement(ctx context.Context, movement domain.StockMovement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	// 1. Lock the item row
	lockQuery := `
		SELECT quantity
		FROM inventory_items
		WHERE inventory_item_id = $1
		FOR UPDATE;
	`
	var currentQuantity decimal.Decimal
	if err := tx.QueryRow(ctx, lockQuery, movement.InventoryItemID).Scan(&currentQuantity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock inventory item "+movement.InventoryItemID, err)
	}

	// On-hand stock may never go negative, checked under the row lock.
	if currentQuantity.Add(movement.QuantityDelta()).IsNegative() {
		return fmt.Errorf("%w: movement would drive item %s stock below zero", apperrors.ErrValidation, movement.InventoryItemID)
	}

	// 2. Insert the movement row
	movementQuery := `
		INSERT INTO stock_movements (movement_id, inventory_item_id, movement_type, quantity, order_id, note, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, movementQuery,
		movement.MovementID,
		movement.InventoryItemID,
		string(movement.MovementType),
		movement.Quantity,
		movement.OrderID,
		movement.Note,
		movement.CreatedAt,
		movement.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert stock movement "+movement.MovementID, err)
	}

	// 3. Apply the signed delta to the on-hand quantity
	updateQuery := `
		UPDATE inventory_items
		SET quantity = quantity + $2, last_updated_at = $3, last_updated_by = $4
		WHERE inventory_item_id = $1;
	`
	_, err = tx.Exec(ctx, updateQuery,
		movement.InventoryItemID,
		movement.QuantityDelta(),
		movement.CreatedAt,
		movement.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to adjust quantity for item "+movement.InventoryItemID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit stock movement "+movement.MovementID, err)
	}

	return nil
}

// ListStockMovements retrieves a paginated movement history for an item,
// newest first.
func (r *PgxInventoryRepository) ListStockMovements(ctx context.Context, itemID string, limit int, offset int) ([]domain.StockMovement, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT movement_id, inventory_item_id, movement_type, quantity, order_id, note, created_at, created_by
		FROM stock_movements
		WHERE inventory_item_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements for item %s: %w", itemID, err)
	}
	defer rows.Close()

	movements := []domain.StockMovement{}
	for rows.Next() {
		var m models.StockMovement
		var orderID sql.NullString
		if err := rows.Scan(
			&m.MovementID,
			&m.InventoryItemID,
			&m.MovementType,
			&m.Quantity,
			&orderID,
			&m.Note,
			&m.CreatedAt,
			&m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan movement row for item %s: %w", itemID, err)
		}
		if orderID.Valid {
			m.OrderID = &orderID.String
		}
		movements = append(movements, domain.StockMovement{
			MovementID:      m.MovementID,
			InventoryItemID: m.InventoryItemID,
			MovementType:    domain.MovementType(m.MovementType),
			Quantity:        m.Quantity,
			OrderID:         m.OrderID,
			Note:            m.Note,
			CreatedAt:       m.CreatedAt,
			CreatedBy:       m.CreatedBy,
		})
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating movement rows for item %s: %w", itemID, rows.Err())
	}

	return movements, nil
}
