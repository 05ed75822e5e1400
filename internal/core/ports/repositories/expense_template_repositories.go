package repositories

import (
	"context"
	"time"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
)

// ExpenseTemplateReader defines read operations for expense template data
type ExpenseTemplateReader interface {
	// FindTemplateByID retrieves a template with its items, ordered by sort order.
	FindTemplateByID(ctx context.Context, templateID string) (*domain.ExpenseTemplate, error)

	// ListTemplates retrieves a paginated list of templates without items.
	ListTemplates(ctx context.Context, includeInactive bool, limit, offset int) ([]domain.ExpenseTemplate, error)
}

// ExpenseTemplateWriter defines write operations for expense template data
type ExpenseTemplateWriter interface {
	// SaveTemplate persists a new template together with its items.
	SaveTemplate(ctx context.Context, template domain.ExpenseTemplate) error

	// UpdateTemplate updates a template and replaces its item set atomically.
	UpdateTemplate(ctx context.Context, template domain.ExpenseTemplate) error

	// DeactivateTemplate marks a template as inactive.
	DeactivateTemplate(ctx context.Context, templateID string, userID string, now time.Time) error
}

// ExpenseTemplateRepositoryFacade combines all template repository interfaces
type ExpenseTemplateRepositoryFacade interface {
	ExpenseTemplateReader
	ExpenseTemplateWriter
}
