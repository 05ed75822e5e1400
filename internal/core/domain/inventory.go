package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is one SKU held in the warehouse.
type InventoryItem struct {
	InventoryItemID string          `json:"inventoryItemID"` // Primary Key (UUID)
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitWeight      decimal.Decimal `json:"unitWeight"`
	UnitVolume      decimal.Decimal `json:"unitVolume"`
	MinQuantity     decimal.Decimal `json:"minQuantity"` // Low-stock threshold
	IsActive        bool            `json:"isActive"`
	AuditFields
}

// IsLowStock reports whether the on-hand quantity is at or below the threshold.
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity.LessThanOrEqual(i.MinQuantity)
}

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementReceipt    MovementType = "RECEIPT"
	MovementIssue      MovementType = "ISSUE"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// IsValid reports whether the movement type is known.
func (m MovementType) IsValid() bool {
	switch m {
	case MovementReceipt, MovementIssue, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement is one append-only change to an inventory item's quantity.
// RECEIPT adds, ISSUE subtracts, ADJUSTMENT applies the signed quantity as-is.
type StockMovement struct {
	MovementID      string          `json:"movementID"` // Primary Key (UUID)
	InventoryItemID string          `json:"inventoryItemID"`
	MovementType    MovementType    `json:"movementType"`
	Quantity        decimal.Decimal `json:"quantity"`
	OrderID         *string         `json:"orderID,omitempty"` // Optional link to the order served
	Note            string          `json:"note"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// QuantityDelta is the signed change the movement applies to on-hand stock.
func (m StockMovement) QuantityDelta() decimal.Decimal {
	switch m.MovementType {
	case MovementIssue:
		return m.Quantity.Neg()
	default:
		return m.Quantity
	}
}
