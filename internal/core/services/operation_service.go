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

// operationService provides cost and income operations of an order. Cost
// operation mutations trigger a recalculation of the parent order; income
// operations feed reporting only and never touch the cached aggregates.
type operationService struct {
	operationRepo     portsrepo.OperationRepositoryFacade
	vendorServiceRepo portsrepo.VendorServiceReader
	orderSvc          portssvc.OrderSvcFacade
}

// NewOperationService creates a new operation service.
func NewOperationService(operationRepo portsrepo.OperationRepositoryFacade, vendorServiceRepo portsrepo.VendorServiceReader, orderSvc portssvc.OrderSvcFacade) portssvc.OperationSvcFacade {
	return &operationService{
		operationRepo:     operationRepo,
		vendorServiceRepo: vendorServiceRepo,
		orderSvc:          orderSvc,
	}
}

// Ensure operationService implements the portssvc.OperationSvcFacade interface
var _ portssvc.OperationSvcFacade = (*operationService)(nil)

func (s *operationService) requireVendorService(ctx context.Context, vendorServiceID string) (*domain.VendorService, error) {
	svc, err := s.vendorServiceRepo.FindVendorServiceByID(ctx, vendorServiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: vendor service %s", apperrors.ErrNotFound, vendorServiceID)
		}
		return nil, fmt.Errorf("failed to fetch vendor service %s: %w", vendorServiceID, err)
	}
	if !svc.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrVendorServiceInactive, vendorServiceID)
	}
	return svc, nil
}

// --- Cost operations ---

func (s *operationService) CreateCostOperation(ctx context.Context, orderID string, req dto.CreateCostOperationRequest, userID string) (*domain.CostOperation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.orderSvc.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}
	if !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: invalid expense category %q", apperrors.ErrValidation, req.Category)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: operation amount must be positive", apperrors.ErrValidation)
	}

	status := req.Status
	if status == "" {
		status = domain.OperationPlanned
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid operation status %q", apperrors.ErrValidation, status)
	}

	var vendorServiceID *string
	if req.VendorServiceID != nil && *req.VendorServiceID != "" {
		svc, err := s.requireVendorService(ctx, *req.VendorServiceID)
		if err != nil {
			return nil, err
		}
		vendorServiceID = &svc.VendorServiceID
	}

	now := time.Now()
	operationDate := now
	if req.OperationDate != nil {
		operationDate = *req.OperationDate
	}

	op := domain.CostOperation{
		CostOperationID: uuid.NewString(),
		OrderID:         orderID,
		VendorServiceID: vendorServiceID,
		Category:        req.Category,
		Amount:          req.Amount,
		Status:          status,
		OperationDate:   operationDate,
		Description:     req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.operationRepo.SaveCostOperation(ctx, op); err != nil {
		logger.Error("Failed to save cost operation", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}

	if _, err := s.orderSvc.RecalculateOrder(ctx, orderID, userID); err != nil {
		return nil, err
	}

	logger.Info("Cost operation created successfully",
		slog.String("cost_operation_id", op.CostOperationID),
		slog.String("order_id", orderID))
	return &op, nil
}

func (s *operationService) GetCostOperationByID(ctx context.Context, operationID string) (*domain.CostOperation, error) {
	op, err := s.operationRepo.FindCostOperationByID(ctx, operationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger := middleware.GetLoggerFromCtx(ctx)
			logger.Error("Failed to find cost operation by ID", slog.String("error", err.Error()), slog.String("cost_operation_id", operationID))
		}
		return nil, err
	}
	return op, nil
}

func (s *operationService) ListCostOperationsByOrder(ctx context.Context, orderID string) ([]domain.CostOperation, error) {
	if _, err := s.orderSvc.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}

	ops, err := s.operationRepo.ListCostOperationsByOrderID(ctx, orderID)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Error("Failed to list cost operations", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}
	if ops == nil {
		return []domain.CostOperation{}, nil
	}
	return ops, nil
}

func (s *operationService) fetchOwnedCostOperation(ctx context.Context, orderID, operationID string) (*domain.CostOperation, error) {
	op, err := s.GetCostOperationByID(ctx, operationID)
	if err != nil {
		return nil, err
	}
	if op.OrderID != orderID {
		return nil, fmt.Errorf("%w: cost operation %s", apperrors.ErrNotFound, operationID)
	}
	return op, nil
}

func (s *operationService) UpdateCostOperation(ctx context.Context, orderID string, operationID string, req dto.UpdateCostOperationRequest, userID string) (*domain.CostOperation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	op, err := s.fetchOwnedCostOperation(ctx, orderID, operationID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.VendorServiceID != nil {
		newID := *req.VendorServiceID
		switch {
		case newID == "":
			if op.VendorServiceID != nil {
				op.VendorServiceID = nil
				updated = true
			}
		case op.VendorServiceID == nil || *op.VendorServiceID != newID:
			svc, err := s.requireVendorService(ctx, newID)
			if err != nil {
				return nil, err
			}
			op.VendorServiceID = &svc.VendorServiceID
			updated = true
		}
	}
	if req.Category != nil {
		if !req.Category.IsValid() {
			return nil, fmt.Errorf("%w: invalid expense category %q", apperrors.ErrValidation, *req.Category)
		}
		op.Category = *req.Category
		updated = true
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: operation amount must be positive", apperrors.ErrValidation)
		}
		op.Amount = *req.Amount
		updated = true
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: invalid operation status %q", apperrors.ErrValidation, *req.Status)
		}
		op.Status = *req.Status
		updated = true
	}
	if req.OperationDate != nil {
		op.OperationDate = *req.OperationDate
		updated = true
	}
	if req.Description != nil {
		op.Description = *req.Description
		updated = true
	}
	if !updated {
		logger.Debug("No fields provided for cost operation update", slog.String("cost_operation_id", operationID))
		return op, nil
	}

	now := time.Now()
	op.LastUpdatedAt = now
	op.LastUpdatedBy = userID

	if err := s.operationRepo.UpdateCostOperation(ctx, *op); err != nil {
		logger.Error("Failed to update cost operation", slog.String("error", err.Error()), slog.String("cost_operation_id", operationID))
		return nil, err
	}

	if _, err := s.orderSvc.RecalculateOrder(ctx, orderID, userID); err != nil {
		return nil, err
	}

	logger.Info("Cost operation updated successfully", slog.String("cost_operation_id", operationID), slog.String("order_id", orderID))
	return op, nil
}

func (s *operationService) DeleteCostOperation(ctx context.Context, orderID string, operationID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.fetchOwnedCostOperation(ctx, orderID, operationID); err != nil {
		return err
	}

	if err := s.operationRepo.DeleteCostOperation(ctx, operationID); err != nil {
		logger.Error("Failed to delete cost operation", slog.String("error", err.Error()), slog.String("cost_operation_id", operationID))
		return err
	}

	if _, err := s.orderSvc.RecalculateOrder(ctx, orderID, userID); err != nil {
		return err
	}

	logger.Info("Cost operation deleted successfully", slog.String("cost_operation_id", operationID), slog.String("order_id", orderID))
	return nil
}

// --- Income operations ---

func (s *operationService) CreateIncomeOperation(ctx context.Context, orderID string, req dto.CreateIncomeOperationRequest, userID string) (*domain.IncomeOperation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.orderSvc.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: invoiced amount must be positive", apperrors.ErrValidation)
	}

	paidAmount := decimal.Zero
	if req.PaidAmount != nil {
		if req.PaidAmount.IsNegative() {
			return nil, fmt.Errorf("%w: paid amount must not be negative", apperrors.ErrValidation)
		}
		paidAmount = *req.PaidAmount
	}

	now := time.Now()
	operationDate := now
	if req.OperationDate != nil {
		operationDate = *req.OperationDate
	}

	op := domain.IncomeOperation{
		IncomeOperationID: uuid.NewString(),
		OrderID:           orderID,
		Amount:            req.Amount,
		PaidAmount:        paidAmount,
		Status:            domain.DeriveIncomeStatus(req.Amount, paidAmount),
		OperationDate:     operationDate,
		Description:       req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if paidAmount.IsPositive() {
		op.PaidAt = &now
	}

	if err := s.operationRepo.SaveIncomeOperation(ctx, op); err != nil {
		logger.Error("Failed to save income operation", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}

	logger.Info("Income operation created successfully",
		slog.String("income_operation_id", op.IncomeOperationID),
		slog.String("order_id", orderID),
		slog.String("status", string(op.Status)))
	return &op, nil
}

func (s *operationService) GetIncomeOperationByID(ctx context.Context, operationID string) (*domain.IncomeOperation, error) {
	op, err := s.operationRepo.FindIncomeOperationByID(ctx, operationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger := middleware.GetLoggerFromCtx(ctx)
			logger.Error("Failed to find income operation by ID", slog.String("error", err.Error()), slog.String("income_operation_id", operationID))
		}
		return nil, err
	}
	return op, nil
}

func (s *operationService) ListIncomeOperationsByOrder(ctx context.Context, orderID string) ([]domain.IncomeOperation, error) {
	if _, err := s.orderSvc.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}

	ops, err := s.operationRepo.ListIncomeOperationsByOrderID(ctx, orderID)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Error("Failed to list income operations", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}
	if ops == nil {
		return []domain.IncomeOperation{}, nil
	}
	return ops, nil
}

func (s *operationService) fetchOwnedIncomeOperation(ctx context.Context, orderID, operationID string) (*domain.IncomeOperation, error) {
	op, err := s.GetIncomeOperationByID(ctx, operationID)
	if err != nil {
		return nil, err
	}
	if op.OrderID != orderID {
		return nil, fmt.Errorf("%w: income operation %s", apperrors.ErrNotFound, operationID)
	}
	return op, nil
}

// UpdateIncomeOperation patches an income operation, re-deriving the status
// from paid vs invoiced amounts. PaidAt stamps when payment first arrives and
// clears when the paid amount drops back to zero.
func (s *operationService) UpdateIncomeOperation(ctx context.Context, orderID string, operationID string, req dto.UpdateIncomeOperationRequest, userID string) (*domain.IncomeOperation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	op, err := s.fetchOwnedIncomeOperation(ctx, orderID, operationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updated := false
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: invoiced amount must be positive", apperrors.ErrValidation)
		}
		op.Amount = *req.Amount
		updated = true
	}
	if req.PaidAmount != nil {
		if req.PaidAmount.IsNegative() {
			return nil, fmt.Errorf("%w: paid amount must not be negative", apperrors.ErrValidation)
		}
		op.PaidAmount = *req.PaidAmount
		updated = true
	}
	if req.OperationDate != nil {
		op.OperationDate = *req.OperationDate
		updated = true
	}
	if req.Description != nil {
		op.Description = *req.Description
		updated = true
	}
	if !updated {
		logger.Debug("No fields provided for income operation update", slog.String("income_operation_id", operationID))
		return op, nil
	}

	op.Status = domain.DeriveIncomeStatus(op.Amount, op.PaidAmount)
	if op.PaidAmount.IsPositive() {
		if op.PaidAt == nil {
			op.PaidAt = &now
		}
	} else {
		op.PaidAt = nil
	}

	op.LastUpdatedAt = now
	op.LastUpdatedBy = userID

	if err := s.operationRepo.UpdateIncomeOperation(ctx, *op); err != nil {
		logger.Error("Failed to update income operation", slog.String("error", err.Error()), slog.String("income_operation_id", operationID))
		return nil, err
	}

	logger.Info("Income operation updated successfully",
		slog.String("income_operation_id", operationID),
		slog.String("order_id", orderID),
		slog.String("status", string(op.Status)))
	return op, nil
}

func (s *operationService) DeleteIncomeOperation(ctx context.Context, orderID string, operationID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.fetchOwnedIncomeOperation(ctx, orderID, operationID); err != nil {
		return err
	}

	if err := s.operationRepo.DeleteIncomeOperation(ctx, operationID); err != nil {
		logger.Error("Failed to delete income operation", slog.String("error", err.Error()), slog.String("income_operation_id", operationID))
		return err
	}

	logger.Info("Income operation deleted successfully", slog.String("income_operation_id", operationID), slog.String("order_id", orderID))
	return nil
}
