package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fulfillops/fulfillment_crm_app/internal/apperrors"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
)

var hundred = decimal.NewFromInt(100)

// orderService provides order CRUD, item management and the cost
// recalculation path. The five cached aggregate columns on an order are
// written only by RecalculateOrder; every other write path leaves them alone.
type orderService struct {
	orderRepo   portsrepo.OrderRepositoryWithTx
	expenseRepo portsrepo.OrderExpenseReader
	clientRepo  portsrepo.ClientReader
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo portsrepo.OrderRepositoryWithTx, expenseRepo portsrepo.OrderExpenseReader, clientRepo portsrepo.ClientReader) portssvc.OrderSvcFacade {
	return &orderService{
		orderRepo:   orderRepo,
		expenseRepo: expenseRepo,
		clientRepo:  clientRepo,
	}
}

// Ensure orderService implements the portssvc.OrderSvcFacade interface
var _ portssvc.OrderSvcFacade = (*orderService)(nil)

// requireActiveClient checks that the client exists and is active.
func (s *orderService) requireActiveClient(ctx context.Context, clientID string) error {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
		}
		return fmt.Errorf("failed to fetch client %s: %w", clientID, err)
	}
	if !client.IsActive {
		return fmt.Errorf("%w: client %s is inactive", apperrors.ErrValidation, clientID)
	}
	return nil
}

func newOrderItem(orderID string, req dto.AddOrderItemRequest, userID string, now time.Time) (domain.OrderItem, error) {
	if !req.Quantity.IsPositive() {
		return domain.OrderItem{}, fmt.Errorf("%w: item quantity must be positive", apperrors.ErrValidation)
	}
	if req.UnitWeight.IsNegative() || req.UnitVolume.IsNegative() || req.UnitCost.IsNegative() || req.UnitPrice.IsNegative() {
		return domain.OrderItem{}, fmt.Errorf("%w: item unit values must not be negative", apperrors.ErrValidation)
	}
	return domain.OrderItem{
		OrderItemID: uuid.NewString(),
		OrderID:     orderID,
		Name:        req.Name,
		Quantity:    req.Quantity,
		UnitWeight:  req.UnitWeight,
		UnitVolume:  req.UnitVolume,
		UnitCost:    req.UnitCost,
		UnitPrice:   req.UnitPrice,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}, nil
}

// CreateOrder creates an order in status NEW with its optional item lines.
// When items are supplied the cached aggregates are recalculated once at the
// end, so the returned order already carries the item contributions.
func (s *orderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, userID string) (*domain.Order, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireActiveClient(ctx, req.ClientID); err != nil {
		return nil, err
	}

	now := time.Now()
	order := domain.Order{
		OrderID:       uuid.NewString(),
		OrderNumber:   req.OrderNumber,
		ClientID:      req.ClientID,
		Status:        domain.OrderNew,
		Description:   req.Description,
		EstimatedCost: decimal.Zero,
		ActualCost:    decimal.Zero,
		TotalIncome:   decimal.Zero,
		Profit:        decimal.Zero,
		MarginPercent: decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.orderRepo.SaveOrder(ctx, order); err != nil {
		logger.Error("Failed to save order", slog.String("error", err.Error()), slog.String("order_number", req.OrderNumber))
		return nil, err
	}

	for _, itemReq := range req.Items {
		item, err := newOrderItem(order.OrderID, dto.AddOrderItemRequest(itemReq), userID, now)
		if err != nil {
			return nil, err
		}
		if err := s.orderRepo.SaveOrderItem(ctx, item); err != nil {
			logger.Error("Failed to save order item", slog.String("error", err.Error()), slog.String("order_id", order.OrderID))
			return nil, err
		}
	}

	logger.Info("Order created successfully",
		slog.String("order_id", order.OrderID),
		slog.String("order_number", order.OrderNumber),
		slog.Int("items", len(req.Items)))

	if len(req.Items) > 0 {
		return s.RecalculateOrder(ctx, order.OrderID, userID)
	}
	return &order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger := middleware.GetLoggerFromCtx(ctx)
			logger.Error("Failed to find order by ID", slog.String("error", err.Error()), slog.String("order_id", orderID))
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error) {
	status := domain.OrderStatus(params.Status)
	if status != "" && !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid order status %q", apperrors.ErrValidation, params.Status)
	}

	filter := portsrepo.ListOrdersFilter{
		ClientID: params.ClientID,
		Status:   status,
		FromDate: params.FromDate,
		ToDate:   params.ToDate,
	}
	orders, nextToken, err := s.orderRepo.ListOrders(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Error("Failed to list orders", slog.String("error", err.Error()))
		return nil, err
	}

	resp := dto.ToListOrdersResponse(orders, nextToken)
	return &resp, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, orderID string, req dto.UpdateOrderRequest, userID string) (*domain.Order, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	order, err := s.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.OrderNumber != nil {
		order.OrderNumber = *req.OrderNumber
		updated = true
	}
	if req.ClientID != nil && *req.ClientID != order.ClientID {
		if err := s.requireActiveClient(ctx, *req.ClientID); err != nil {
			return nil, err
		}
		order.ClientID = *req.ClientID
		updated = true
	}
	if req.Description != nil {
		order.Description = *req.Description
		updated = true
	}
	if !updated {
		logger.Debug("No fields provided for order update", slog.String("order_id", orderID))
		return order, nil
	}

	now := time.Now()
	order.LastUpdatedAt = now
	order.LastUpdatedBy = userID

	if err := s.orderRepo.UpdateOrder(ctx, *order); err != nil {
		logger.Error("Failed to update order", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}

	logger.Info("Order updated successfully", slog.String("order_id", orderID))
	return order, nil
}

// UpdateOrderStatus moves an order along the workflow. COMPLETED and CANCELLED
// are terminal; leaving them is a conflict. The first transition to SHIPPED
// stamps shippedAt.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, userID string) (*domain.Order, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid order status %q", apperrors.ErrValidation, status)
	}

	order, err := s.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		logger.Debug("Order already in requested status", slog.String("order_id", orderID), slog.String("status", string(status)))
		return order, nil
	}
	if order.Status == domain.OrderCompleted || order.Status == domain.OrderCancelled {
		return nil, fmt.Errorf("%w: order %s is %s", apperrors.ErrConflict, orderID, order.Status)
	}

	now := time.Now()
	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status, userID, now); err != nil {
		logger.Error("Failed to update order status", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}

	logger.Info("Order status updated",
		slog.String("order_id", orderID),
		slog.String("from", string(order.Status)),
		slog.String("to", string(status)))

	return s.GetOrderByID(ctx, orderID)
}

// fetchOwnedItem loads an item and checks it belongs to the order. Items of a
// different order surface as NotFound rather than leaking their existence.
func (s *orderService) fetchOwnedItem(ctx context.Context, orderID, itemID string) (*domain.OrderItem, error) {
	item, err := s.orderRepo.FindOrderItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OrderID != orderID {
		return nil, fmt.Errorf("%w: order item %s", apperrors.ErrNotFound, itemID)
	}
	return item, nil
}

func (s *orderService) ListOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	if _, err := s.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}

	items, err := s.orderRepo.ListOrderItems(ctx, orderID)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Error("Failed to list order items", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}
	if items == nil {
		return []domain.OrderItem{}, nil
	}
	return items, nil
}

func (s *orderService) AddOrderItem(ctx context.Context, orderID string, req dto.AddOrderItemRequest, userID string) (*domain.OrderItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}

	item, err := newOrderItem(orderID, req, userID, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveOrderItem(ctx, item); err != nil {
		logger.Error("Failed to save order item", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}

	if _, err := s.RecalculateOrder(ctx, orderID, userID); err != nil {
		return nil, err
	}

	logger.Info("Order item added", slog.String("order_id", orderID), slog.String("order_item_id", item.OrderItemID))
	return &item, nil
}

func (s *orderService) UpdateOrderItem(ctx context.Context, orderID string, itemID string, req dto.UpdateOrderItemRequest, userID string) (*domain.OrderItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	item, err := s.fetchOwnedItem(ctx, orderID, itemID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		item.Name = *req.Name
		updated = true
	}
	if req.Quantity != nil {
		if !req.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: item quantity must be positive", apperrors.ErrValidation)
		}
		item.Quantity = *req.Quantity
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
	if req.UnitCost != nil {
		item.UnitCost = *req.UnitCost
		updated = true
	}
	if req.UnitPrice != nil {
		item.UnitPrice = *req.UnitPrice
		updated = true
	}
	if !updated {
		logger.Debug("No fields provided for order item update", slog.String("order_item_id", itemID))
		return item, nil
	}
	if item.UnitWeight.IsNegative() || item.UnitVolume.IsNegative() || item.UnitCost.IsNegative() || item.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: item unit values must not be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	item.LastUpdatedAt = now
	item.LastUpdatedBy = userID

	if err := s.orderRepo.UpdateOrderItem(ctx, *item); err != nil {
		logger.Error("Failed to update order item", slog.String("error", err.Error()), slog.String("order_item_id", itemID))
		return nil, err
	}

	if _, err := s.RecalculateOrder(ctx, orderID, userID); err != nil {
		return nil, err
	}

	logger.Info("Order item updated", slog.String("order_id", orderID), slog.String("order_item_id", itemID))
	return item, nil
}

func (s *orderService) RemoveOrderItem(ctx context.Context, orderID string, itemID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.fetchOwnedItem(ctx, orderID, itemID); err != nil {
		return err
	}

	if err := s.orderRepo.DeleteOrderItem(ctx, itemID); err != nil {
		logger.Error("Failed to delete order item", slog.String("error", err.Error()), slog.String("order_item_id", itemID))
		return err
	}

	if _, err := s.RecalculateOrder(ctx, orderID, userID); err != nil {
		return err
	}

	logger.Info("Order item removed", slog.String("order_id", orderID), slog.String("order_item_id", itemID))
	return nil
}

// RecalculateOrder recomputes the cached aggregates from the order's current
// expense and item rows:
//
//	estimatedCost = Σ expense.EffectiveAmount()
//	actualCost    = estimatedCost + Σ item.CostContribution()
//	totalIncome   = Σ item.RevenueContribution() when positive, else unchanged
//	profit        = totalIncome − actualCost
//	marginPercent = profit / totalIncome × 100 when totalIncome > 0, else 0
//
// The order row is locked FOR UPDATE for the duration, so concurrent triggers
// on the same order serialise instead of clobbering each other. The operation
// is idempotent.
func (s *orderService) RecalculateOrder(ctx context.Context, orderID string, userID string) (*domain.Order, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.orderRepo.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin recalculation transaction", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, fmt.Errorf("failed to begin recalculation: %w", err)
	}
	defer s.orderRepo.Rollback(ctx, tx)

	order, err := s.orderRepo.FindOrderByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to lock order for recalculation", slog.String("error", err.Error()), slog.String("order_id", orderID))
		}
		return nil, err
	}

	expenses, err := s.expenseRepo.ListExpensesByOrderIDInTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("Failed to load expenses for recalculation", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	items, err := s.orderRepo.ListOrderItemsInTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("Failed to load items for recalculation", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	expensesTotal := decimal.Zero
	for _, e := range expenses {
		expensesTotal = expensesTotal.Add(e.EffectiveAmount())
	}

	itemsCost := decimal.Zero
	itemsRevenue := decimal.Zero
	for _, it := range items {
		itemsCost = itemsCost.Add(it.CostContribution())
		itemsRevenue = itemsRevenue.Add(it.RevenueContribution())
	}

	order.EstimatedCost = expensesTotal
	order.ActualCost = expensesTotal.Add(itemsCost)
	// Income from item prices replaces the cached value only when present;
	// an order whose income was recorded elsewhere keeps it.
	if itemsRevenue.IsPositive() {
		order.TotalIncome = itemsRevenue
	}
	order.Profit = order.TotalIncome.Sub(order.ActualCost)
	if order.TotalIncome.IsPositive() {
		order.MarginPercent = order.Profit.Div(order.TotalIncome).Mul(hundred)
	} else {
		order.MarginPercent = decimal.Zero
	}

	now := time.Now()
	if err := s.orderRepo.UpdateOrderAggregatesInTx(ctx, tx, *order, userID, now); err != nil {
		logger.Error("Failed to write order aggregates", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, fmt.Errorf("failed to write aggregates: %w", err)
	}

	if err := s.orderRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit recalculation", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}

	order.LastUpdatedAt = now
	order.LastUpdatedBy = userID

	logger.Debug("Order aggregates recalculated",
		slog.String("order_id", orderID),
		slog.String("actual_cost", order.ActualCost.String()),
		slog.String("profit", order.Profit.String()))
	return order, nil
}
