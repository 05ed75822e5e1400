package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/fulfillops/fulfillment_crm_app/internal/utils/export"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOrdersReportCSV(t *testing.T) {
	report := domain.OrdersReport{
		Rows: []domain.OrderPnl{
			{
				OrderID:        "ord_1",
				OrderNumber:    "FF-1001",
				Status:         domain.OrderCompleted,
				TotalIncome:    decimal.NewFromInt(1000),
				TotalCost:      decimal.NewFromInt(300),
				Profit:         decimal.NewFromInt(700),
				MarginPercent:  decimal.NewFromInt(70),
				TotalQuantity:  decimal.NewFromInt(4),
				RevenuePerItem: decimal.NewFromInt(250),
				CostPerItem:    decimal.NewFromInt(75),
				ProfitPerItem:  decimal.NewFromInt(175),
			},
			{
				OrderID:     "ord_2",
				OrderNumber: "FF-1002",
				Status:      domain.OrderShipped,
				TotalIncome: decimal.NewFromInt(500),
				TotalCost:   decimal.NewFromInt(600),
				Profit:      decimal.NewFromInt(-100),
				MarginPercent: decimal.NewFromInt(-100).
					Div(decimal.NewFromInt(500)).
					Mul(decimal.NewFromInt(100)),
			},
		},
		Summary: domain.OrdersReportSummary{
			OrdersCount:   2,
			TotalRevenue:  decimal.NewFromInt(1500),
			TotalCost:     decimal.NewFromInt(900),
			TotalProfit:   decimal.NewFromInt(600),
			AverageMargin: decimal.NewFromInt(40),
		},
	}

	var buf bytes.Buffer
	err := export.WriteOrdersReportCSV(&buf, report)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4) // header + 2 rows + total

	assert.Equal(t, "Order Number", records[0][0])
	assert.Equal(t, "Margin %", records[0][5])

	assert.Equal(t, []string{"FF-1001", "COMPLETED", "1000.00", "300.00", "700.00", "70.00", "4", "250.00", "75.00", "175.00"}, records[1])

	assert.Equal(t, "FF-1002", records[2][0])
	assert.Equal(t, "-100.00", records[2][4])
	assert.Equal(t, "-20.00", records[2][5])

	assert.Equal(t, "TOTAL", records[3][0])
	assert.Equal(t, "2 orders", records[3][1])
	assert.Equal(t, "600.00", records[3][4])
	assert.Equal(t, "40.00", records[3][5])
}

func TestWriteOrdersReportCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := export.WriteOrdersReportCSV(&buf, domain.OrdersReport{
		Summary: domain.OrdersReportSummary{
			TotalRevenue:  decimal.Zero,
			TotalCost:     decimal.Zero,
			TotalProfit:   decimal.Zero,
			AverageMargin: decimal.Zero,
		},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2) // header + total only
	assert.Equal(t, "TOTAL", records[1][0])
}
