package dto

import (
	"time"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInventoryItemRequest defines the data needed to create an inventory item.
type CreateInventoryItemRequest struct {
	SKU         string          `json:"sku" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitWeight  decimal.Decimal `json:"unitWeight"`
	UnitVolume  decimal.Decimal `json:"unitVolume"`
	MinQuantity decimal.Decimal `json:"minQuantity"`
}

// UpdateInventoryItemRequest defines the data allowed for updating an item.
// Quantity is not writable here; it moves only through stock movements.
type UpdateInventoryItemRequest struct {
	Name        *string          `json:"name"`
	UnitWeight  *decimal.Decimal `json:"unitWeight"`
	UnitVolume  *decimal.Decimal `json:"unitVolume"`
	MinQuantity *decimal.Decimal `json:"minQuantity"`
	IsActive    *bool            `json:"isActive"`
}

// InventoryItemResponse defines the data returned for an inventory item.
type InventoryItemResponse struct {
	InventoryItemID string          `json:"inventoryItemID"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitWeight      decimal.Decimal `json:"unitWeight"`
	UnitVolume      decimal.Decimal `json:"unitVolume"`
	MinQuantity     decimal.Decimal `json:"minQuantity"`
	IsLowStock      bool            `json:"isLowStock"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
	LastUpdatedAt   time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy   string          `json:"lastUpdatedBy"`
}

// ToInventoryItemResponse converts a domain.InventoryItem to DTO.
func ToInventoryItemResponse(it *domain.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		InventoryItemID: it.InventoryItemID,
		SKU:             it.SKU,
		Name:            it.Name,
		Quantity:        it.Quantity,
		UnitWeight:      it.UnitWeight,
		UnitVolume:      it.UnitVolume,
		MinQuantity:     it.MinQuantity,
		IsLowStock:      it.IsLowStock(),
		IsActive:        it.IsActive,
		CreatedAt:       it.CreatedAt,
		CreatedBy:       it.CreatedBy,
		LastUpdatedAt:   it.LastUpdatedAt,
		LastUpdatedBy:   it.LastUpdatedBy,
	}
}

// ListInventoryItemsParams defines query parameters for listing inventory items.
type ListInventoryItemsParams struct {
	LowStockOnly bool `form:"lowStockOnly,default=false"`
	Limit        int  `form:"limit,default=20"`
	Offset       int  `form:"offset,default=0"`
}

// ListInventoryItemsResponse wraps the list of inventory items.
type ListInventoryItemsResponse struct {
	Items []InventoryItemResponse `json:"items"`
}

// ToListInventoryItemsResponse converts a slice of domain.InventoryItem to DTO.
func ToListInventoryItemsResponse(items []domain.InventoryItem) ListInventoryItemsResponse {
	res := make([]InventoryItemResponse, len(items))
	for i, it := range items {
		res[i] = ToInventoryItemResponse(&it)
	}
	return ListInventoryItemsResponse{Items: res}
}

// CreateStockMovementRequest defines the data needed to record a stock movement.
// Quantity must be positive for RECEIPT and ISSUE; ADJUSTMENT takes a signed
// quantity applied as-is.
type CreateStockMovementRequest struct {
	MovementType domain.MovementType `json:"movementType" binding:"required,oneof=RECEIPT ISSUE ADJUSTMENT"`
	Quantity     decimal.Decimal     `json:"quantity" binding:"required"`
	OrderID      *string             `json:"orderID"`
	Note         string              `json:"note"`
}

// StockMovementResponse defines the data returned for a stock movement.
type StockMovementResponse struct {
	MovementID      string              `json:"movementID"`
	InventoryItemID string              `json:"inventoryItemID"`
	MovementType    domain.MovementType `json:"movementType"`
	Quantity        decimal.Decimal     `json:"quantity"`
	OrderID         *string             `json:"orderID,omitempty"`
	Note            string              `json:"note"`
	CreatedAt       time.Time           `json:"createdAt"`
	CreatedBy       string              `json:"createdBy"`
}

// ToStockMovementResponse converts a domain.StockMovement to DTO.
func ToStockMovementResponse(m *domain.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		MovementID:      m.MovementID,
		InventoryItemID: m.InventoryItemID,
		MovementType:    m.MovementType,
		Quantity:        m.Quantity,
		OrderID:         m.OrderID,
		Note:            m.Note,
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
	}
}

// ListStockMovementsParams defines query parameters for a movement history.
type ListStockMovementsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListStockMovementsResponse wraps an item's movement history.
type ListStockMovementsResponse struct {
	Movements []StockMovementResponse `json:"movements"`
}

// ToListStockMovementsResponse converts a slice of domain.StockMovement to DTO.
func ToListStockMovementsResponse(movements []domain.StockMovement) ListStockMovementsResponse {
	res := make([]StockMovementResponse, len(movements))
	for i, m := range movements {
		res[i] = ToStockMovementResponse(&m)
	}
	return ListStockMovementsResponse{Movements: res}
}
