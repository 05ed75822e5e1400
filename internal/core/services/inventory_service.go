package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fulfillops/fulfillment_crm_app/internal/apperrors"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
)

// inventoryService implements the InventorySvcFacade interface
type inventoryService struct {
	BaseService
	inventoryRepo portsrepo.InventoryRepositoryFacade
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(inventoryRepo portsrepo.InventoryRepositoryFacade) portssvc.InventorySvcFacade {
	return &inventoryService{inventoryRepo: inventoryRepo}
}

// Ensure inventoryService implements the InventorySvcFacade interface
var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

func (s *inventoryService) CreateInventoryItem(ctx context.Context, req dto.CreateInventoryItemRequest, userID string) (*domain.InventoryItem, error) {
	if req.Quantity.IsNegative() {
		return nil, apperrors.NewValidationError("initial quantity must not be negative")
	}

	// SKU is the external identifier and must be unique.
	existing, err := s.inventoryRepo.FindInventoryItemBySKU(ctx, req.SKU)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check SKU uniqueness", slog.String("sku", req.SKU))
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: inventory item with SKU %s already exists", apperrors.ErrDuplicate, req.SKU)
	}

	now := time.Now()
	item := domain.InventoryItem{
		InventoryItemID: uuid.NewString(),
		SKU:             req.SKU,
		Name:            req.Name,
		Quantity:        req.Quantity,
		UnitWeight:      req.UnitWeight,
		UnitVolume:      req.UnitVolume,
		MinQuantity:     req.MinQuantity,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.inventoryRepo.SaveInventoryItem(ctx, item); err != nil {
		s.LogError(ctx, err, "Failed to save inventory item", slog.String("sku", item.SKU))
		return nil, err
	}

	s.LogInfo(ctx, "Inventory item created successfully",
		slog.String("inventory_item_id", item.InventoryItemID),
		slog.String("sku", item.SKU))
	return &item, nil
}

func (s *inventoryService) GetInventoryItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	item, err := s.inventoryRepo.FindInventoryItemByID(ctx, itemID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find inventory item by ID", slog.String("inventory_item_id", itemID))
		}
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) ListInventoryItems(ctx context.Context, params dto.ListInventoryItemsParams) ([]domain.InventoryItem, error) {
	items, err := s.inventoryRepo.ListInventoryItems(ctx, params.LowStockOnly, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list inventory items",
			slog.Bool("low_stock_only", params.LowStockOnly))
		return nil, err
	}
	if items == nil {
		return []domain.InventoryItem{}, nil
	}
	return items, nil
}

func (s *inventoryService) ListStockMovements(ctx context.Context, itemID string, params dto.ListStockMovementsParams) ([]domain.StockMovement, error) {
	if _, err := s.GetInventoryItemByID(ctx, itemID); err != nil {
		return nil, err
	}

	movements, err := s.inventoryRepo.ListStockMovements(ctx, itemID, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list stock movements", slog.String("inventory_item_id", itemID))
		return nil, err
	}
	if movements == nil {
		return []domain.StockMovement{}, nil
	}
	return movements, nil
}

func (s *inventoryService) UpdateInventoryItem(ctx context.Context, itemID string, req dto.UpdateInventoryItemRequest, userID string) (*domain.InventoryItem, error) {
	item, err := s.GetInventoryItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		item.Name = *req.Name
		updated = true
	}
	if req.UnitWeight != nil {
		item.UnitWeight = *req.UnitWeight
		updated = true
	}
	if req.UnitVolume != nil {
		item.UnitVolume = *req.UnitVolume
		updated = true
	}
	if req.MinQuantity != nil {
		item.MinQuantity = *req.MinQuantity
		updated = true
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for inventory item update", slog.String("inventory_item_id", itemID))
		return item, nil
	}

	now := time.Now()
	item.LastUpdatedAt = now
	item.LastUpdatedBy = userID

	if err := s.inventoryRepo.UpdateInventoryItem(ctx, *item); err != nil {
		s.LogError(ctx, err, "Failed to update inventory item", slog.String("inventory_item_id", itemID))
		return nil, err
	}

	s.LogInfo(ctx, "Inventory item updated successfully", slog.String("inventory_item_id", itemID))
	return item, nil
}

// RecordStockMovement appends a movement and applies its delta to the item's
// on-hand quantity. RECEIPT and ISSUE require a positive quantity; ADJUSTMENT
// takes a signed, non-zero quantity applied as-is.
func (s *inventoryService) RecordStockMovement(ctx context.Context, itemID string, req dto.CreateStockMovementRequest, userID string) (*domain.StockMovement, error) {
	item, err := s.GetInventoryItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, apperrors.NewValidationError("cannot record a movement for an inactive inventory item")
	}

	if !req.MovementType.IsValid() {
		return nil, apperrors.NewValidationError("invalid movement type: " + string(req.MovementType))
	}
	switch req.MovementType {
	case domain.MovementReceipt, domain.MovementIssue:
		if !req.Quantity.IsPositive() {
			return nil, apperrors.NewValidationError(string(req.MovementType) + " quantity must be positive")
		}
	case domain.MovementAdjustment:
		if req.Quantity.IsZero() {
			return nil, apperrors.NewValidationError("ADJUSTMENT quantity must not be zero")
		}
	}

	movement := domain.StockMovement{
		MovementID:      uuid.NewString(),
		InventoryItemID: item.InventoryItemID,
		MovementType:    req.MovementType,
		Quantity:        req.Quantity,
		OrderID:         req.OrderID,
		Note:            req.Note,
		CreatedAt:       time.Now(),
		CreatedBy:       userID,
	}

	if err := s.inventoryRepo.ApplyStockMovement(ctx, movement); err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to apply stock movement",
				slog.String("inventory_item_id", itemID),
				slog.String("movement_type", string(movement.MovementType)))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Stock movement recorded",
		slog.String("inventory_item_id", itemID),
		slog.String("movement_type", string(movement.MovementType)),
		slog.String("quantity", movement.Quantity.String()))
	return &movement, nil
}
