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
	"github.com/fulfillops/fulfillment_crm_app/internal/utils/formula"
)

var (
	ErrExpensePriceRequired  = fmt.Errorf("%w: unit price is required when no vendor service is bound", apperrors.ErrValidation)
	ErrVendorServiceInactive = fmt.Errorf("%w: vendor service is inactive", apperrors.ErrValidation)
	ErrTemplateInactive      = fmt.Errorf("%w: expense template is inactive", apperrors.ErrValidation)
	ErrCloneSameOrder        = fmt.Errorf("%w: cannot clone expenses onto the same order", apperrors.ErrValidation)
)

// orderExpenseService provides the expense ledger of an order: CRUD, bulk
// creation, cloning between orders, template expansion and the price-drift
// report. Every mutation ends with exactly one recalculation of the parent
// order's cached aggregates.
type orderExpenseService struct {
	expenseRepo       portsrepo.OrderExpenseRepositoryFacade
	vendorServiceRepo portsrepo.VendorServiceReader
	templateRepo      portsrepo.ExpenseTemplateReader
	orderSvc          portssvc.OrderSvcFacade
}

// NewOrderExpenseService creates a new order expense service.
func NewOrderExpenseService(
	expenseRepo portsrepo.OrderExpenseRepositoryFacade,
	vendorServiceRepo portsrepo.VendorServiceReader,
	templateRepo portsrepo.ExpenseTemplateReader,
	orderSvc portssvc.OrderSvcFacade,
) portssvc.OrderExpenseSvcFacade {
	return &orderExpenseService{
		expenseRepo:       expenseRepo,
		vendorServiceRepo: vendorServiceRepo,
		templateRepo:      templateRepo,
		orderSvc:          orderSvc,
	}
}

// Ensure orderExpenseService implements the portssvc.OrderExpenseSvcFacade interface
var _ portssvc.OrderExpenseSvcFacade = (*orderExpenseService)(nil)

// requireActiveVendorService resolves a vendor service that will act as a
// price source.
func (s *orderExpenseService) requireActiveVendorService(ctx context.Context, vendorServiceID string) (*domain.VendorService, error) {
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

// newExpenseFromRequest builds one PLANNED expense line. A bound vendor
// service supplies the unit price (the request may override it) and its
// current price becomes the originalPrice drift snapshot.
func (s *orderExpenseService) newExpenseFromRequest(ctx context.Context, orderID string, req dto.CreateOrderExpenseRequest, userID string, now time.Time) (domain.OrderExpense, error) {
	if !req.Category.IsValid() {
		return domain.OrderExpense{}, fmt.Errorf("%w: invalid expense category %q", apperrors.ErrValidation, req.Category)
	}
	if !req.Quantity.IsPositive() {
		return domain.OrderExpense{}, fmt.Errorf("%w: expense quantity must be positive", apperrors.ErrValidation)
	}

	var vendorServiceID *string
	var unitPrice, originalPrice decimal.Decimal

	if req.VendorServiceID != nil && *req.VendorServiceID != "" {
		svc, err := s.requireActiveVendorService(ctx, *req.VendorServiceID)
		if err != nil {
			return domain.OrderExpense{}, err
		}
		vendorServiceID = &svc.VendorServiceID
		unitPrice = svc.Price
		originalPrice = svc.Price
		if req.UnitPrice != nil {
			unitPrice = *req.UnitPrice
		}
	} else {
		if req.UnitPrice == nil {
			return domain.OrderExpense{}, ErrExpensePriceRequired
		}
		unitPrice = *req.UnitPrice
		originalPrice = *req.UnitPrice
	}
	if unitPrice.IsNegative() {
		return domain.OrderExpense{}, fmt.Errorf("%w: unit price must not be negative", apperrors.ErrValidation)
	}

	totalAmount := req.Quantity.Mul(unitPrice)
	return domain.OrderExpense{
		OrderExpenseID:  uuid.NewString(),
		OrderID:         orderID,
		Category:        req.Category,
		VendorServiceID: vendorServiceID,
		Name:            req.Name,
		Quantity:        req.Quantity,
		UnitPrice:       unitPrice,
		TotalAmount:     totalAmount,
		PlannedAmount:   totalAmount,
		ActualAmount:    decimal.Zero,
		Status:          domain.ExpensePlanned,
		IsPriceLocked:   false,
		OriginalPrice:   originalPrice,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}, nil
}

func (s *orderExpenseService) CreateExpense(ctx context.Context, orderID string, req dto.CreateOrderExpenseRequest, userID string) (*domain.OrderExpense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.orderSvc.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}

	expense, err := s.newExpenseFromRequest(ctx, orderID, req, userID, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		logger.Error("Failed to save expense", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}

	if _, err := s.orderSvc.RecalculateOrder(ctx, orderID, userID); err != nil {
		return nil, err
	}

	logger.Info("Expense created successfully",
		slog.String("order_expense_id", expense.OrderExpenseID),
		slog.String("order_id", orderID))
	return &expense, nil
}

func (s *orderExpenseService) BulkCreateExpenses(ctx context.Context, orderID string, req dto.BulkCreateOrderExpensesRequest, userID string) ([]domain.OrderExpense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Expenses) == 0 {
		return nil, fmt.Errorf("%w: at least one expense is required", apperrors.ErrValidation)
	}
	if _, err := s.orderSvc.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}

	now := time.Now()
	expenses := make([]domain.OrderExpense, 0, len(req.Expenses))
	for _, expenseReq := range req.Expenses {
		expense, err := s.newExpenseFromRequest(ctx, orderID, expenseReq, userID, now)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	if err := s.expenseRepo.SaveExpenses(ctx, expenses); err != nil {
		logger.Error("Failed to save expense batch", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}

	if _, err := s.orderSvc.RecalculateOrder(ctx, orderID, userID); err != nil {
		return nil, err
	}

	logger.Info("Expense batch created successfully",
		slog.String("order_id", orderID),
		slog.Int("count", len(expenses)))
	return expenses, nil
}

func (s *orderExpenseService) GetExpenseByID(ctx context.Context, expenseID string) (*domain.OrderExpense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger := middleware.GetLoggerFromCtx(ctx)
			logger.Error("Failed to find expense by ID", slog.String("error", err.Error()), slog.String("order_expense_id", expenseID))
		}
		return nil, err
	}
	return expense, nil
}

func (s *orderExpenseService) ListExpensesByOrder(ctx context.Context, orderID string) ([]domain.OrderExpense, error) {
	if _, err := s.orderSvc.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.ListExpensesByOrderID(ctx, orderID)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Error("Failed to list expenses", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}
	if expenses == nil {
		return []domain.OrderExpense{}, nil
	}
	return expenses, nil
}

// fetchOwnedExpense loads an expense and checks it belongs to the order.
func (s *orderExpenseService) fetchOwnedExpense(ctx context.Context, orderID, expenseID string) (*domain.OrderExpense, error) {
	expense, err := s.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.OrderID != orderID {
		return nil, fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
	}
	return expense, nil
}

// UpdateExpense patches an expense line.
//
// Price resolution on update: binding a different vendor service always takes
// a fresh originalPrice snapshot from it, and additionally pulls its current
// price into unitPrice unless the expense is price-locked or the request
// overrides the price. originalPrice is never rewritten on any other path.
// The first lock stamps priceLockedAt; unlocking keeps the timestamp.
func (s *orderExpenseService) UpdateExpense(ctx context.Context, orderID string, expenseID string, req dto.UpdateOrderExpenseRequest, userID string) (*domain.OrderExpense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expense, err := s.fetchOwnedExpense(ctx, orderID, expenseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updated := false

	if req.Category != nil {
		if !req.Category.IsValid() {
			return nil, fmt.Errorf("%w: invalid expense category %q", apperrors.ErrValidation, *req.Category)
		}
		expense.Category = *req.Category
		updated = true
	}
	if req.Name != nil {
		expense.Name = *req.Name
		updated = true
	}

	// Lock state changes first so a binding change in the same request sees
	// the final lock state.
	if req.IsPriceLocked != nil && *req.IsPriceLocked != expense.IsPriceLocked {
		expense.IsPriceLocked = *req.IsPriceLocked
		if expense.IsPriceLocked && expense.PriceLockedAt == nil {
			expense.PriceLockedAt = &now
		}
		updated = true
	}

	if req.VendorServiceID != nil {
		newID := *req.VendorServiceID
		switch {
		case newID == "":
			if expense.VendorServiceID != nil {
				expense.VendorServiceID = nil
				updated = true
			}
		case expense.VendorServiceID == nil || *expense.VendorServiceID != newID:
			svc, err := s.requireActiveVendorService(ctx, newID)
			if err != nil {
				return nil, err
			}
			expense.VendorServiceID = &svc.VendorServiceID
			expense.OriginalPrice = svc.Price
			if !expense.IsPriceLocked && req.UnitPrice == nil {
				expense.UnitPrice = svc.Price
			}
			updated = true
		}
	}

	if req.Quantity != nil {
		if !req.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: expense quantity must be positive", apperrors.ErrValidation)
		}
		expense.Quantity = *req.Quantity
		updated = true
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit price must not be negative", apperrors.ErrValidation)
		}
		expense.UnitPrice = *req.UnitPrice
		updated = true
	}
	if req.PlannedAmount != nil {
		if req.PlannedAmount.IsNegative() {
			return nil, fmt.Errorf("%w: planned amount must not be negative", apperrors.ErrValidation)
		}
		expense.PlannedAmount = *req.PlannedAmount
		updated = true
	}
	if req.ActualAmount != nil {
		if req.ActualAmount.IsNegative() {
			return nil, fmt.Errorf("%w: actual amount must not be negative", apperrors.ErrValidation)
		}
		expense.ActualAmount = *req.ActualAmount
		updated = true
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: invalid expense status %q", apperrors.ErrValidation, *req.Status)
		}
		expense.Status = *req.Status
		updated = true
	}

	if !updated {
		logger.Debug("No fields provided for expense update", slog.String("order_expense_id", expenseID))
		return expense, nil
	}

	expense.TotalAmount = expense.Quantity.Mul(expense.UnitPrice)
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = userID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		logger.Error("Failed to update expense", slog.String("error", err.Error()), slog.String("order_expense_id", expenseID))
		return nil, err
	}

	if _, err := s.orderSvc.RecalculateOrder(ctx, orderID, userID); err != nil {
		return nil, err
	}

	logger.Info("Expense updated successfully", slog.String("order_expense_id", expenseID), slog.String("order_id", orderID))
	return expense, nil
}

func (s *orderExpenseService) DeleteExpense(ctx context.Context, orderID string, expenseID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.fetchOwnedExpense(ctx, orderID, expenseID); err != nil {
		return err
	}

	if err := s.expenseRepo.DeleteExpense(ctx, expenseID); err != nil {
		logger.Error("Failed to delete expense", slog.String("error", err.Error()), slog.String("order_expense_id", expenseID))
		return err
	}

	if _, err := s.orderSvc.RecalculateOrder(ctx, orderID, userID); err != nil {
		return err
	}

	logger.Info("Expense deleted successfully", slog.String("order_expense_id", expenseID), slog.String("order_id", orderID))
	return nil
}

// CloneExpenses copies the source order's expense lines onto the target.
// Vendor-bound lines re-pull the service's current price and take a fresh
// snapshot; price-locked lines and keepPrices requests carry the source
// values instead. Realisation state never travels: actualAmount resets to
// zero and status to PLANNED.
func (s *orderExpenseService) CloneExpenses(ctx context.Context, targetOrderID string, req dto.CloneExpensesRequest, userID string) ([]domain.OrderExpense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if targetOrderID == req.SourceOrderID {
		return nil, ErrCloneSameOrder
	}
	if _, err := s.orderSvc.GetOrderByID(ctx, targetOrderID); err != nil {
		return nil, err
	}
	if _, err := s.orderSvc.GetOrderByID(ctx, req.SourceOrderID); err != nil {
		return nil, err
	}

	sourceExpenses, err := s.expenseRepo.ListExpensesByOrderID(ctx, req.SourceOrderID)
	if err != nil {
		logger.Error("Failed to list source expenses for clone", slog.String("error", err.Error()), slog.String("source_order_id", req.SourceOrderID))
		return nil, err
	}
	if len(sourceExpenses) == 0 {
		return []domain.OrderExpense{}, nil
	}

	var services map[string]domain.VendorService
	if !req.KeepPrices {
		ids := make([]string, 0)
		for _, e := range sourceExpenses {
			if e.VendorServiceID != nil && !e.IsPriceLocked {
				ids = append(ids, *e.VendorServiceID)
			}
		}
		if len(ids) > 0 {
			services, err = s.vendorServiceRepo.FindVendorServicesByIDs(ctx, ids)
			if err != nil {
				logger.Error("Failed to resolve vendor services for clone", slog.String("error", err.Error()))
				return nil, err
			}
		}
	}

	now := time.Now()
	clones := make([]domain.OrderExpense, 0, len(sourceExpenses))
	for _, src := range sourceExpenses {
		clone := src
		clone.OrderExpenseID = uuid.NewString()
		clone.OrderID = targetOrderID
		clone.ActualAmount = decimal.Zero
		clone.Status = domain.ExpensePlanned
		clone.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		}

		if !req.KeepPrices && src.VendorServiceID != nil && !src.IsPriceLocked {
			if svc, ok := services[*src.VendorServiceID]; ok && svc.IsActive {
				clone.UnitPrice = svc.Price
				clone.OriginalPrice = svc.Price
			} else {
				logger.Debug("Vendor service unavailable during clone, keeping source price",
					slog.String("vendor_service_id", *src.VendorServiceID))
			}
		}

		clone.TotalAmount = clone.Quantity.Mul(clone.UnitPrice)
		clone.PlannedAmount = clone.TotalAmount
		clones = append(clones, clone)
	}

	if err := s.expenseRepo.SaveExpenses(ctx, clones); err != nil {
		logger.Error("Failed to save cloned expenses", slog.String("error", err.Error()), slog.String("order_id", targetOrderID))
		return nil, err
	}

	if _, err := s.orderSvc.RecalculateOrder(ctx, targetOrderID, userID); err != nil {
		return nil, err
	}

	logger.Info("Expenses cloned successfully",
		slog.String("source_order_id", req.SourceOrderID),
		slog.String("order_id", targetOrderID),
		slog.Int("count", len(clones)))
	return clones, nil
}

// ApplyTemplate expands a template's lines into PLANNED expenses on the order.
// Quantity formulas are evaluated against the order's item aggregates; any
// evaluation failure or non-positive result falls back silently to the line's
// default quantity. Vendor-bound lines resolve the service's current price.
func (s *orderExpenseService) ApplyTemplate(ctx context.Context, orderID string, req dto.ApplyTemplateRequest, userID string) ([]domain.OrderExpense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	template, err := s.templateRepo.FindTemplateByID(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: template %s", apperrors.ErrNotFound, req.TemplateID)
		}
		logger.Error("Failed to fetch template", slog.String("error", err.Error()), slog.String("template_id", req.TemplateID))
		return nil, err
	}
	if !template.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrTemplateInactive, template.TemplateID)
	}
	if len(template.Items) == 0 {
		return []domain.OrderExpense{}, nil
	}

	// ListOrderItems also checks that the order exists.
	items, err := s.orderSvc.ListOrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	agg := domain.AggregateItems(items)
	vars := formula.Vars{
		ItemsCount:  agg.ItemsCount,
		TotalWeight: agg.TotalWeight,
		TotalVolume: agg.TotalVolume,
	}

	ids := make([]string, 0)
	for _, item := range template.Items {
		if item.VendorServiceID != nil {
			ids = append(ids, *item.VendorServiceID)
		}
	}
	var services map[string]domain.VendorService
	if len(ids) > 0 {
		services, err = s.vendorServiceRepo.FindVendorServicesByIDs(ctx, ids)
		if err != nil {
			logger.Error("Failed to resolve vendor services for template", slog.String("error", err.Error()), slog.String("template_id", template.TemplateID))
			return nil, err
		}
	}

	now := time.Now()
	expenses := make([]domain.OrderExpense, 0, len(template.Items))
	for _, item := range template.Items {
		quantity := item.DefaultQuantity
		if item.QuantityFormula != "" {
			evaluated, evalErr := formula.Eval(item.QuantityFormula, vars)
			if evalErr != nil || !evaluated.IsPositive() {
				logger.Debug("Quantity formula fell back to default",
					slog.String("template_item_id", item.TemplateItemID),
					slog.String("formula", item.QuantityFormula))
			} else {
				quantity = evaluated
			}
		}
		if !quantity.IsPositive() {
			logger.Debug("Template item skipped, no positive quantity",
				slog.String("template_item_id", item.TemplateItemID))
			continue
		}

		var vendorServiceID *string
		unitPrice := item.UnitPrice
		originalPrice := item.UnitPrice
		if item.VendorServiceID != nil {
			if svc, ok := services[*item.VendorServiceID]; ok && svc.IsActive {
				vendorServiceID = item.VendorServiceID
				unitPrice = svc.Price
				originalPrice = svc.Price
			} else {
				logger.Debug("Vendor service unavailable for template item, using template price",
					slog.String("template_item_id", item.TemplateItemID),
					slog.String("vendor_service_id", *item.VendorServiceID))
			}
		}

		totalAmount := quantity.Mul(unitPrice)
		expenses = append(expenses, domain.OrderExpense{
			OrderExpenseID:  uuid.NewString(),
			OrderID:         orderID,
			Category:        item.Category,
			VendorServiceID: vendorServiceID,
			Name:            item.Name,
			Quantity:        quantity,
			UnitPrice:       unitPrice,
			TotalAmount:     totalAmount,
			PlannedAmount:   totalAmount,
			ActualAmount:    decimal.Zero,
			Status:          domain.ExpensePlanned,
			OriginalPrice:   originalPrice,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}

	if len(expenses) == 0 {
		return []domain.OrderExpense{}, nil
	}

	if err := s.expenseRepo.SaveExpenses(ctx, expenses); err != nil {
		logger.Error("Failed to save template expenses", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}

	if _, err := s.orderSvc.RecalculateOrder(ctx, orderID, userID); err != nil {
		return nil, err
	}

	logger.Info("Template applied successfully",
		slog.String("template_id", template.TemplateID),
		slog.String("order_id", orderID),
		slog.Int("expenses", len(expenses)))
	return expenses, nil
}

// GetExpensePriceChanges reports vendor-bound expenses whose price snapshot
// differs from the service's current price.
func (s *orderExpenseService) GetExpensePriceChanges(ctx context.Context, orderID string) (*dto.ExpensePriceChangesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expenses, err := s.ListExpensesByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0)
	for _, e := range expenses {
		if e.VendorServiceID != nil {
			ids = append(ids, *e.VendorServiceID)
		}
	}

	changes := []dto.ExpensePriceChangeRow{}
	if len(ids) == 0 {
		return &dto.ExpensePriceChangesResponse{Changes: changes}, nil
	}

	services, err := s.vendorServiceRepo.FindVendorServicesByIDs(ctx, ids)
	if err != nil {
		logger.Error("Failed to resolve vendor services for price changes", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}

	for _, e := range expenses {
		if e.VendorServiceID == nil {
			continue
		}
		svc, ok := services[*e.VendorServiceID]
		if !ok || svc.Price.Equal(e.OriginalPrice) {
			continue
		}
		difference := svc.Price.Sub(e.OriginalPrice)
		percent := decimal.Zero
		if e.OriginalPrice.IsPositive() {
			percent = difference.Div(e.OriginalPrice).Mul(hundred)
		}
		changes = append(changes, dto.ExpensePriceChangeRow{
			OrderExpenseID: e.OrderExpenseID,
			ServiceName:    svc.Name,
			OriginalPrice:  e.OriginalPrice,
			CurrentPrice:   svc.Price,
			Difference:     difference,
			Percent:        percent,
			PriceLockedAt:  e.PriceLockedAt,
		})
	}

	return &dto.ExpensePriceChangesResponse{Changes: changes}, nil
}
