package repositories

import (
	"context"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
)

// InventoryReader defines read operations for inventory data
type InventoryReader interface {
	// FindInventoryItemByID retrieves an inventory item by its unique identifier.
	FindInventoryItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error)

	// FindInventoryItemBySKU retrieves an inventory item by its SKU.
	FindInventoryItemBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error)

	// ListInventoryItems retrieves a paginated list of inventory items,
	// optionally restricted to items at or below their minimum quantity.
	ListInventoryItems(ctx context.Context, lowStockOnly bool, limit int, offset int) ([]domain.InventoryItem, error)

	// ListStockMovements retrieves a paginated movement history for an item,
	// newest first.
	ListStockMovements(ctx context.Context, itemID string, limit int, offset int) ([]domain.StockMovement, error)
}

// InventoryWriter defines write operations for inventory data
type InventoryWriter interface {
	// SaveInventoryItem persists a new inventory item.
	SaveInventoryItem(ctx context.Context, item domain.InventoryItem) error

	// UpdateInventoryItem persists changes to an existing inventory item.
	// Quantity is never written by this method; movements own it.
	UpdateInventoryItem(ctx context.Context, item domain.InventoryItem) error

	// ApplyStockMovement inserts the movement and adjusts the item quantity
	// by its signed delta within a single database transaction.
	ApplyStockMovement(ctx context.Context, movement domain.StockMovement) error
}

// InventoryRepositoryFacade combines all inventory repository interfaces
type InventoryRepositoryFacade interface {
	InventoryReader
	InventoryWriter
}
