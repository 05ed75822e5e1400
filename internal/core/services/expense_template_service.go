package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fulfillops/fulfillment_crm_app/internal/apperrors"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
)

// expenseTemplateService implements the ExpenseTemplateSvcFacade interface
type expenseTemplateService struct {
	BaseService
	templateRepo portsrepo.ExpenseTemplateRepositoryFacade
}

// NewExpenseTemplateService creates a new expense template service.
func NewExpenseTemplateService(templateRepo portsrepo.ExpenseTemplateRepositoryFacade) portssvc.ExpenseTemplateSvcFacade {
	return &expenseTemplateService{templateRepo: templateRepo}
}

// Ensure expenseTemplateService implements the ExpenseTemplateSvcFacade interface
var _ portssvc.ExpenseTemplateSvcFacade = (*expenseTemplateService)(nil)

// buildTemplateItems converts request lines to domain items with fresh IDs.
// Formula syntax is not checked here; a formula that fails to evaluate at
// apply time falls back to the line's default quantity.
func buildTemplateItems(templateID string, reqItems []dto.CreateExpenseTemplateItemRequest) ([]domain.ExpenseTemplateItem, error) {
	items := make([]domain.ExpenseTemplateItem, 0, len(reqItems))
	for _, reqItem := range reqItems {
		if !reqItem.Category.IsValid() {
			return nil, apperrors.NewValidationError("invalid expense category: " + string(reqItem.Category))
		}
		if reqItem.DefaultQuantity.IsNegative() {
			return nil, apperrors.NewValidationError("default quantity must not be negative")
		}
		if reqItem.UnitPrice.IsNegative() {
			return nil, apperrors.NewValidationError("unit price must not be negative")
		}
		items = append(items, domain.ExpenseTemplateItem{
			TemplateItemID:  uuid.NewString(),
			TemplateID:      templateID,
			Category:        reqItem.Category,
			VendorServiceID: reqItem.VendorServiceID,
			Name:            reqItem.Name,
			DefaultQuantity: reqItem.DefaultQuantity,
			QuantityFormula: reqItem.QuantityFormula,
			UnitPrice:       reqItem.UnitPrice,
			SortOrder:       reqItem.SortOrder,
		})
	}
	return items, nil
}

func (s *expenseTemplateService) CreateTemplate(ctx context.Context, req dto.CreateExpenseTemplateRequest, userID string) (*domain.ExpenseTemplate, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.NewValidationError("a template needs at least one item")
	}

	now := time.Now()
	template := domain.ExpenseTemplate{
		TemplateID:  uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	items, err := buildTemplateItems(template.TemplateID, req.Items)
	if err != nil {
		return nil, err
	}
	template.Items = items

	if err := s.templateRepo.SaveTemplate(ctx, template); err != nil {
		s.LogError(ctx, err, "Failed to save expense template", slog.String("template_id", template.TemplateID))
		return nil, err
	}

	s.LogInfo(ctx, "Expense template created successfully",
		slog.String("template_id", template.TemplateID),
		slog.Int("items", len(template.Items)))
	return &template, nil
}

func (s *expenseTemplateService) GetTemplateByID(ctx context.Context, templateID string) (*domain.ExpenseTemplate, error) {
	template, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find expense template by ID", slog.String("template_id", templateID))
		}
		return nil, err
	}
	return template, nil
}

func (s *expenseTemplateService) ListTemplates(ctx context.Context, params dto.ListExpenseTemplatesParams) ([]domain.ExpenseTemplate, error) {
	templates, err := s.templateRepo.ListTemplates(ctx, params.IncludeInactive, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expense templates")
		return nil, err
	}
	if templates == nil {
		return []domain.ExpenseTemplate{}, nil
	}
	return templates, nil
}

// UpdateTemplate updates template fields. A non-nil Items set replaces the
// whole item list; a nil one leaves the existing lines untouched.
func (s *expenseTemplateService) UpdateTemplate(ctx context.Context, templateID string, req dto.UpdateExpenseTemplateRequest, userID string) (*domain.ExpenseTemplate, error) {
	template, err := s.GetTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		template.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		template.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
		updated = true
	}
	if req.Items != nil {
		if len(req.Items) == 0 {
			return nil, apperrors.NewValidationError("a template needs at least one item")
		}
		items, err := buildTemplateItems(template.TemplateID, req.Items)
		if err != nil {
			return nil, err
		}
		template.Items = items
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for template update", slog.String("template_id", templateID))
		return template, nil
	}

	now := time.Now()
	template.LastUpdatedAt = now
	template.LastUpdatedBy = userID

	if err := s.templateRepo.UpdateTemplate(ctx, *template); err != nil {
		s.LogError(ctx, err, "Failed to update expense template", slog.String("template_id", templateID))
		return nil, err
	}

	s.LogInfo(ctx, "Expense template updated successfully", slog.String("template_id", templateID))
	return template, nil
}

func (s *expenseTemplateService) DeactivateTemplate(ctx context.Context, templateID string, userID string) error {
	now := time.Now()
	if err := s.templateRepo.DeactivateTemplate(ctx, templateID, userID, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate expense template", slog.String("template_id", templateID))
		}
		return err
	}

	s.LogInfo(ctx, "Expense template deactivated successfully", slog.String("template_id", templateID))
	return nil
}
