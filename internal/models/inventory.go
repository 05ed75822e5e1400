package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem represents a row of the inventory_items table.
type InventoryItem struct {
	InventoryItemID string          `db:"inventory_item_id"`
	SKU             string          `db:"sku"`
	Name            string          `db:"name"`
	Quantity        decimal.Decimal `db:"quantity"`
	UnitWeight      decimal.Decimal `db:"unit_weight"`
	UnitVolume      decimal.Decimal `db:"unit_volume"`
	MinQuantity     decimal.Decimal `db:"min_quantity"`
	IsActive        bool            `db:"is_active"`
	AuditFields
}

// StockMovement represents a row of the stock_movements table.
type StockMovement struct {
	MovementID      string          `db:"movement_id"`
	InventoryItemID string          `db:"inventory_item_id"`
	MovementType    string          `db:"movement_type"`
	Quantity        decimal.Decimal `db:"quantity"`
	OrderID         *string         `db:"order_id"`
	Note            string          `db:"note"`
	CreatedAt       time.Time       `db:"created_at"`
	CreatedBy       string          `db:"created_by"`
}
