// Package export serialises report rows to tabular formats for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
)

var ordersReportHeader = []string{
	"Order Number",
	"Status",
	"Total Income",
	"Total Cost",
	"Profit",
	"Margin %",
	"Total Quantity",
	"Revenue Per Item",
	"Cost Per Item",
	"Profit Per Item",
}

// WriteOrdersReportCSV streams the batch P&L report to w as CSV: a header,
// one row per order, and a trailing TOTAL row from the summary.
func WriteOrdersReportCSV(w io.Writer, report domain.OrdersReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ordersReportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range report.Rows {
		record := []string{
			row.OrderNumber,
			string(row.Status),
			row.TotalIncome.StringFixed(2),
			row.TotalCost.StringFixed(2),
			row.Profit.StringFixed(2),
			row.MarginPercent.StringFixed(2),
			row.TotalQuantity.String(),
			row.RevenuePerItem.StringFixed(2),
			row.CostPerItem.StringFixed(2),
			row.ProfitPerItem.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row for order %s: %w", row.OrderID, err)
		}
	}

	total := []string{
		"TOTAL",
		fmt.Sprintf("%d orders", report.Summary.OrdersCount),
		report.Summary.TotalRevenue.StringFixed(2),
		report.Summary.TotalCost.StringFixed(2),
		report.Summary.TotalProfit.StringFixed(2),
		report.Summary.AverageMargin.StringFixed(2),
		"", "", "", "",
	}
	if err := cw.Write(total); err != nil {
		return fmt.Errorf("failed to write csv summary row: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
