package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a row of the orders table. The five aggregate columns are
// written only by the recalculation path.
type Order struct {
	OrderID     string `db:"order_id"`
	OrderNumber string `db:"order_number"`
	ClientID    string `db:"client_id"`
	Status      string `db:"status"`
	Description string `db:"description"`

	EstimatedCost decimal.Decimal `db:"estimated_cost"`
	ActualCost    decimal.Decimal `db:"actual_cost"`
	TotalIncome   decimal.Decimal `db:"total_income"`
	Profit        decimal.Decimal `db:"profit"`
	MarginPercent decimal.Decimal `db:"margin_percent"`

	ShippedAt *time.Time `db:"shipped_at"`
	AuditFields
}

// OrderItem represents a row of the order_items table.
type OrderItem struct {
	OrderItemID string          `db:"order_item_id"`
	OrderID     string          `db:"order_id"`
	Name        string          `db:"name"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitWeight  decimal.Decimal `db:"unit_weight"`
	UnitVolume  decimal.Decimal `db:"unit_volume"`
	UnitCost    decimal.Decimal `db:"unit_cost"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	AuditFields
}
