package domain

import "github.com/shopspring/decimal"

// ExpenseTemplate is a reusable blueprint of expense lines applied to orders.
type ExpenseTemplate struct {
	TemplateID  string `json:"templateID"` // Primary Key (UUID)
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	AuditFields
	Items []ExpenseTemplateItem `json:"items,omitempty"`
}

// ExpenseTemplateItem is one line of a template. QuantityFormula, when set,
// is an arithmetic expression over the order aggregates itemsCount,
// totalWeight and totalVolume; evaluation failures fall back to
// DefaultQuantity.
type ExpenseTemplateItem struct {
	TemplateItemID  string          `json:"templateItemID"` // Primary Key (UUID)
	TemplateID      string          `json:"templateID"`     // FK -> expense_templates.template_id
	Category        ExpenseCategory `json:"category"`
	VendorServiceID *string         `json:"vendorServiceID,omitempty"` // Nullable FK, price source
	Name            string          `json:"name"`
	DefaultQuantity decimal.Decimal `json:"defaultQuantity"`
	QuantityFormula string          `json:"quantityFormula,omitempty"`
	UnitPrice       decimal.Decimal `json:"unitPrice"` // Used when no vendor service is bound
	SortOrder       int             `json:"sortOrder"`
}
