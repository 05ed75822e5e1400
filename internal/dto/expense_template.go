package dto

import (
	"time"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseTemplateItemRequest defines one line of a template.
// QuantityFormula is an arithmetic expression over itemsCount, totalWeight
// and totalVolume; when empty or invalid, DefaultQuantity applies.
type CreateExpenseTemplateItemRequest struct {
	Category        domain.ExpenseCategory `json:"category" binding:"required,oneof=PACKAGING LABOR RENT LOGISTICS MATERIALS OTHER"`
	VendorServiceID *string                `json:"vendorServiceID"`
	Name            string                 `json:"name" binding:"required"`
	DefaultQuantity decimal.Decimal        `json:"defaultQuantity"`
	QuantityFormula string                 `json:"quantityFormula" binding:"omitempty,max=256"`
	UnitPrice       decimal.Decimal        `json:"unitPrice"`
	SortOrder       int                    `json:"sortOrder"`
}

// CreateExpenseTemplateRequest defines the data needed to create a template.
type CreateExpenseTemplateRequest struct {
	Name        string                             `json:"name" binding:"required"`
	Description string                             `json:"description"`
	Items       []CreateExpenseTemplateItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateExpenseTemplateRequest defines the data allowed for updating a template.
// When Items is non-nil the whole item set is replaced.
type UpdateExpenseTemplateRequest struct {
	Name        *string                            `json:"name"`
	Description *string                            `json:"description"`
	IsActive    *bool                              `json:"isActive"`
	Items       []CreateExpenseTemplateItemRequest `json:"items" binding:"omitempty,dive"`
}

// ExpenseTemplateItemResponse defines the data returned for a template line.
type ExpenseTemplateItemResponse struct {
	TemplateItemID  string                 `json:"templateItemID"`
	TemplateID      string                 `json:"templateID"`
	Category        domain.ExpenseCategory `json:"category"`
	VendorServiceID *string                `json:"vendorServiceID,omitempty"`
	Name            string                 `json:"name"`
	DefaultQuantity decimal.Decimal        `json:"defaultQuantity"`
	QuantityFormula string                 `json:"quantityFormula,omitempty"`
	UnitPrice       decimal.Decimal        `json:"unitPrice"`
	SortOrder       int                    `json:"sortOrder"`
}

// ExpenseTemplateResponse defines the data returned for a template.
type ExpenseTemplateResponse struct {
	TemplateID    string                        `json:"templateID"`
	Name          string                        `json:"name"`
	Description   string                        `json:"description"`
	IsActive      bool                          `json:"isActive"`
	Items         []ExpenseTemplateItemResponse `json:"items"`
	CreatedAt     time.Time                     `json:"createdAt"`
	CreatedBy     string                        `json:"createdBy"`
	LastUpdatedAt time.Time                     `json:"lastUpdatedAt"`
	LastUpdatedBy string                        `json:"lastUpdatedBy"`
}

// ToExpenseTemplateResponse converts a domain.ExpenseTemplate to DTO.
func ToExpenseTemplateResponse(t *domain.ExpenseTemplate) ExpenseTemplateResponse {
	items := make([]ExpenseTemplateItemResponse, len(t.Items))
	for i, it := range t.Items {
		items[i] = ExpenseTemplateItemResponse{
			TemplateItemID:  it.TemplateItemID,
			TemplateID:      it.TemplateID,
			Category:        it.Category,
			VendorServiceID: it.VendorServiceID,
			Name:            it.Name,
			DefaultQuantity: it.DefaultQuantity,
			QuantityFormula: it.QuantityFormula,
			UnitPrice:       it.UnitPrice,
			SortOrder:       it.SortOrder,
		}
	}
	return ExpenseTemplateResponse{
		TemplateID:    t.TemplateID,
		Name:          t.Name,
		Description:   t.Description,
		IsActive:      t.IsActive,
		Items:         items,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
		LastUpdatedAt: t.LastUpdatedAt,
		LastUpdatedBy: t.LastUpdatedBy,
	}
}

// ListExpenseTemplatesParams defines query parameters for listing templates.
type ListExpenseTemplatesParams struct {
	IncludeInactive bool `form:"includeInactive,default=false"`
	Limit           int  `form:"limit,default=20"`
	Offset          int  `form:"offset,default=0"`
}

// ListExpenseTemplatesResponse wraps the list of templates.
type ListExpenseTemplatesResponse struct {
	Templates []ExpenseTemplateResponse `json:"templates"`
}

// ToListExpenseTemplatesResponse converts a slice of domain.ExpenseTemplate to DTO.
func ToListExpenseTemplatesResponse(templates []domain.ExpenseTemplate) ListExpenseTemplatesResponse {
	res := make([]ExpenseTemplateResponse, len(templates))
	for i, t := range templates {
		res[i] = ToExpenseTemplateResponse(&t)
	}
	return ListExpenseTemplatesResponse{Templates: res}
}
