package models

import "github.com/shopspring/decimal"

// ExpenseTemplate represents a row of the expense_templates table.
type ExpenseTemplate struct {
	TemplateID  string `db:"template_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}

// ExpenseTemplateItem represents a row of the expense_template_items table.
type ExpenseTemplateItem struct {
	TemplateItemID  string          `db:"template_item_id"`
	TemplateID      string          `db:"template_id"`
	Category        string          `db:"category"`
	VendorServiceID *string         `db:"vendor_service_id"`
	Name            string          `db:"name"`
	DefaultQuantity decimal.Decimal `db:"default_quantity"`
	QuantityFormula string          `db:"quantity_formula"`
	UnitPrice       decimal.Decimal `db:"unit_price"`
	SortOrder       int             `db:"sort_order"`
}
