package domain_test

import (
	"testing"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderExpense_EffectiveAmount(t *testing.T) {
	tests := []struct {
		name    string
		expense domain.OrderExpense
		want    decimal.Decimal
	}{
		{
			name: "actual amount wins when realised",
			expense: domain.OrderExpense{
				TotalAmount:  decimal.NewFromInt(100),
				ActualAmount: decimal.NewFromInt(85),
			},
			want: decimal.NewFromInt(85),
		},
		{
			name: "zero actual falls back to total",
			expense: domain.OrderExpense{
				TotalAmount:  decimal.NewFromInt(100),
				ActualAmount: decimal.Zero,
			},
			want: decimal.NewFromInt(100),
		},
		{
			name: "actual larger than total still wins",
			expense: domain.OrderExpense{
				TotalAmount:  decimal.NewFromInt(100),
				ActualAmount: decimal.NewFromInt(130),
			},
			want: decimal.NewFromInt(130),
		},
		{
			name:    "both zero",
			expense: domain.OrderExpense{TotalAmount: decimal.Zero, ActualAmount: decimal.Zero},
			want:    decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.expense.EffectiveAmount()),
				"expected %s, got %s", tt.want, tt.expense.EffectiveAmount())
		})
	}
}

func TestAggregateItems(t *testing.T) {
	items := []domain.OrderItem{
		{
			Quantity:   decimal.NewFromInt(10),
			UnitWeight: decimal.NewFromFloat(0.5),
			UnitVolume: decimal.NewFromFloat(0.02),
		},
		{
			Quantity:   decimal.NewFromInt(4),
			UnitWeight: decimal.NewFromFloat(2),
			UnitVolume: decimal.NewFromFloat(0.1),
		},
	}

	agg := domain.AggregateItems(items)

	assert.True(t, decimal.NewFromInt(14).Equal(agg.ItemsCount), "items count: %s", agg.ItemsCount)
	assert.True(t, decimal.NewFromInt(13).Equal(agg.TotalWeight), "total weight: %s", agg.TotalWeight)
	assert.True(t, decimal.NewFromFloat(0.6).Equal(agg.TotalVolume), "total volume: %s", agg.TotalVolume)
}

func TestAggregateItems_Empty(t *testing.T) {
	agg := domain.AggregateItems(nil)

	assert.True(t, agg.ItemsCount.IsZero())
	assert.True(t, agg.TotalWeight.IsZero())
	assert.True(t, agg.TotalVolume.IsZero())
}

func TestDeriveIncomeStatus(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		paid   decimal.Decimal
		want   domain.IncomeStatus
	}{
		{"nothing paid", decimal.NewFromInt(1000), decimal.Zero, domain.IncomePending},
		{"partially paid", decimal.NewFromInt(1000), decimal.NewFromInt(400), domain.IncomePartial},
		{"fully paid", decimal.NewFromInt(1000), decimal.NewFromInt(1000), domain.IncomePaid},
		{"overpaid", decimal.NewFromInt(1000), decimal.NewFromInt(1100), domain.IncomePaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.DeriveIncomeStatus(tt.amount, tt.paid))
		})
	}
}
