package services

import (
	"context"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
)

// ExpenseTemplateReaderSvc defines read operations for template data
type ExpenseTemplateReaderSvc interface {
	// GetTemplateByID retrieves a template with its items, sorted by sort order.
	GetTemplateByID(ctx context.Context, templateID string) (*domain.ExpenseTemplate, error)

	// ListTemplates retrieves a paginated list of templates.
	ListTemplates(ctx context.Context, params dto.ListExpenseTemplatesParams) ([]domain.ExpenseTemplate, error)
}

// ExpenseTemplateWriterSvc defines write operations for template data
type ExpenseTemplateWriterSvc interface {
	// CreateTemplate persists a new template with its items.
	CreateTemplate(ctx context.Context, req dto.CreateExpenseTemplateRequest, userID string) (*domain.ExpenseTemplate, error)

	// UpdateTemplate updates a template. A non-nil item set replaces the
	// existing lines wholesale.
	UpdateTemplate(ctx context.Context, templateID string, req dto.UpdateExpenseTemplateRequest, userID string) (*domain.ExpenseTemplate, error)

	// DeactivateTemplate marks a template as inactive.
	DeactivateTemplate(ctx context.Context, templateID string, userID string) error
}

// ExpenseTemplateSvcFacade combines all template-related service interfaces
type ExpenseTemplateSvcFacade interface {
	ExpenseTemplateReaderSvc
	ExpenseTemplateWriterSvc
}
