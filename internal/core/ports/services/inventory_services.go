package services

import (
	"context"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
)

// InventoryReaderSvc defines read operations for inventory data
type InventoryReaderSvc interface {
	// GetInventoryItemByID retrieves an inventory item by its unique identifier.
	GetInventoryItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error)

	// ListInventoryItems retrieves a paginated list of inventory items.
	ListInventoryItems(ctx context.Context, params dto.ListInventoryItemsParams) ([]domain.InventoryItem, error)

	// ListStockMovements retrieves an item's movement history, newest first.
	ListStockMovements(ctx context.Context, itemID string, params dto.ListStockMovementsParams) ([]domain.StockMovement, error)
}

// InventoryWriterSvc defines write operations for inventory data
type InventoryWriterSvc interface {
	// CreateInventoryItem persists a new inventory item.
	CreateInventoryItem(ctx context.Context, req dto.CreateInventoryItemRequest, userID string) (*domain.InventoryItem, error)

	// UpdateInventoryItem updates an item's details. Quantity moves only
	// through stock movements.
	UpdateInventoryItem(ctx context.Context, itemID string, req dto.UpdateInventoryItemRequest, userID string) (*domain.InventoryItem, error)

	// RecordStockMovement appends a movement and adjusts the item's on-hand
	// quantity atomically.
	RecordStockMovement(ctx context.Context, itemID string, req dto.CreateStockMovementRequest, userID string) (*domain.StockMovement, error)
}

// InventorySvcFacade combines all inventory-related service interfaces
type InventorySvcFacade interface {
	InventoryReaderSvc
	InventoryWriterSvc
}
