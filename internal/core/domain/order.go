package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment workflow state of an order.
type OrderStatus string

const (
	OrderNew        OrderStatus = "NEW"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderAssembly   OrderStatus = "ASSEMBLY"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// IsValid reports whether the status is a known workflow state.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderNew, OrderProcessing, OrderAssembly, OrderShipped, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order is the unit against which cost and profit are tracked.
//
// EstimatedCost, ActualCost, TotalIncome, Profit and MarginPercent are cached
// aggregates derived from child rows. They are written only by the
// recalculation path; no other code may touch them.
type Order struct {
	OrderID     string      `json:"orderID"` // Primary Key (UUID)
	OrderNumber string      `json:"orderNumber"`
	ClientID    string      `json:"clientID"` // FK -> clients.client_id
	Status      OrderStatus `json:"status"`
	Description string      `json:"description"`

	EstimatedCost decimal.Decimal `json:"estimatedCost"`
	ActualCost    decimal.Decimal `json:"actualCost"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"marginPercent"`

	ShippedAt *time.Time `json:"shippedAt,omitempty"`
	AuditFields
}

// OrderItem is one line of goods on an order.
type OrderItem struct {
	OrderItemID string          `json:"orderItemID"` // Primary Key (UUID)
	OrderID     string          `json:"orderID"`     // FK -> orders.order_id
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitWeight  decimal.Decimal `json:"unitWeight"` // kg per unit
	UnitVolume  decimal.Decimal `json:"unitVolume"` // m3 per unit
	UnitCost    decimal.Decimal `json:"unitCost"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	AuditFields
}

// CostContribution is the item's share of order cost.
func (i OrderItem) CostContribution() decimal.Decimal {
	return i.UnitCost.Mul(i.Quantity)
}

// RevenueContribution is the item's share of order revenue.
func (i OrderItem) RevenueContribution() decimal.Decimal {
	return i.UnitPrice.Mul(i.Quantity)
}

// OrderAggregates summarises item rows for formula evaluation and reporting.
type OrderAggregates struct {
	ItemsCount  decimal.Decimal `json:"itemsCount"`
	TotalWeight decimal.Decimal `json:"totalWeight"`
	TotalVolume decimal.Decimal `json:"totalVolume"`
}

// AggregateItems folds item rows into count/weight/volume totals.
func AggregateItems(items []OrderItem) OrderAggregates {
	agg := OrderAggregates{
		ItemsCount:  decimal.Zero,
		TotalWeight: decimal.Zero,
		TotalVolume: decimal.Zero,
	}
	for _, it := range items {
		agg.ItemsCount = agg.ItemsCount.Add(it.Quantity)
		agg.TotalWeight = agg.TotalWeight.Add(it.UnitWeight.Mul(it.Quantity))
		agg.TotalVolume = agg.TotalVolume.Add(it.UnitVolume.Mul(it.Quantity))
	}
	return agg
}
