package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fulfillops/fulfillment_crm_app/internal/apperrors"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
)

// reportingService assembles profitability reports from operations and items.
// Reports are computed on the fly and never write back to the orders they
// describe; the cached aggregates on the order row belong to the recalculation
// path, not to reporting.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	orderRepo     portsrepo.OrderReader
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, orderRepo portsrepo.OrderReader) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
		orderRepo:     orderRepo,
	}
}

// Ensure reportingService implements the portssvc.ReportingSvcFacade interface
var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// buildOrderPnl folds one order's cost breakdown, paid income and item
// quantity into a P&L row. Margin is zero when there is no income; per-unit
// figures are zero when the order has no item quantity.
func buildOrderPnl(order domain.Order, breakdown []domain.CostBreakdownRow, paidIncome, totalQuantity decimal.Decimal) domain.OrderPnl {
	if breakdown == nil {
		breakdown = []domain.CostBreakdownRow{}
	}

	totalCost := decimal.Zero
	for _, row := range breakdown {
		totalCost = totalCost.Add(row.Amount)
	}

	profit := paidIncome.Sub(totalCost)
	marginPercent := decimal.Zero
	if paidIncome.IsPositive() {
		marginPercent = profit.Div(paidIncome).Mul(hundred)
	}

	revenuePerItem := decimal.Zero
	costPerItem := decimal.Zero
	profitPerItem := decimal.Zero
	if totalQuantity.IsPositive() {
		revenuePerItem = paidIncome.Div(totalQuantity)
		costPerItem = totalCost.Div(totalQuantity)
		profitPerItem = profit.Div(totalQuantity)
	}

	return domain.OrderPnl{
		OrderID:        order.OrderID,
		OrderNumber:    order.OrderNumber,
		ClientID:       order.ClientID,
		Status:         order.Status,
		TotalCost:      totalCost,
		TotalIncome:    paidIncome,
		Profit:         profit,
		MarginPercent:  marginPercent,
		CostBreakdown:  breakdown,
		TotalQuantity:  totalQuantity,
		RevenuePerItem: revenuePerItem,
		CostPerItem:    costPerItem,
		ProfitPerItem:  profitPerItem,
	}
}

func (s *reportingService) GetOrderPnl(ctx context.Context, orderID string) (*domain.OrderPnl, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.reportingRepo.GetOrderCostBreakdown(ctx, orderID)
	if err != nil {
		logger.Error("Failed to fetch order cost breakdown", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}

	paidIncome, err := s.reportingRepo.GetOrderPaidIncome(ctx, orderID)
	if err != nil {
		logger.Error("Failed to fetch order paid income", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}

	totalQuantity, err := s.reportingRepo.GetOrderItemQuantity(ctx, orderID)
	if err != nil {
		logger.Error("Failed to fetch order item quantity", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}

	pnl := buildOrderPnl(*order, breakdown, paidIncome, totalQuantity)
	return &pnl, nil
}

// GetOrdersReport assembles P&L rows for every order created in the requested
// date range, with a portfolio summary. An open fromDate starts at the
// beginning of time; an open toDate ends now. The average margin weights by
// revenue rather than averaging the per-order margins.
func (s *reportingService) GetOrdersReport(ctx context.Context, params dto.OrdersReportParams) (*domain.OrdersReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	status := domain.OrderStatus(params.Status)
	if params.Status != "" && !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid order status: %s", apperrors.ErrValidation, params.Status)
	}

	var from time.Time
	to := time.Now()
	if params.FromDate != nil {
		from = *params.FromDate
	}
	if params.ToDate != nil {
		to = *params.ToDate
	}
	if params.FromDate != nil && params.ToDate != nil && to.Before(from) {
		return nil, fmt.Errorf("%w: toDate must not be before fromDate", apperrors.ErrValidation)
	}

	orders, err := s.orderRepo.ListOrdersByDateRange(ctx, from, to, status)
	if err != nil {
		logger.Error("Failed to list orders for report", slog.String("error", err.Error()))
		return nil, err
	}

	report := domain.OrdersReport{Rows: []domain.OrderPnl{}}
	report.Summary.TotalRevenue = decimal.Zero
	report.Summary.TotalCost = decimal.Zero
	report.Summary.TotalProfit = decimal.Zero
	report.Summary.AverageMargin = decimal.Zero
	if len(orders) == 0 {
		return &report, nil
	}

	orderIDs := make([]string, len(orders))
	for i, order := range orders {
		orderIDs[i] = order.OrderID
	}

	breakdowns, err := s.reportingRepo.GetCostBreakdownForOrders(ctx, orderIDs)
	if err != nil {
		logger.Error("Failed to fetch cost breakdowns for report", slog.String("error", err.Error()))
		return nil, err
	}
	incomes, err := s.reportingRepo.GetPaidIncomeForOrders(ctx, orderIDs)
	if err != nil {
		logger.Error("Failed to fetch paid incomes for report", slog.String("error", err.Error()))
		return nil, err
	}
	quantities, err := s.reportingRepo.GetItemQuantityForOrders(ctx, orderIDs)
	if err != nil {
		logger.Error("Failed to fetch item quantities for report", slog.String("error", err.Error()))
		return nil, err
	}

	report.Rows = make([]domain.OrderPnl, len(orders))
	for i, order := range orders {
		pnl := buildOrderPnl(order, breakdowns[order.OrderID], incomes[order.OrderID], quantities[order.OrderID])
		report.Rows[i] = pnl

		report.Summary.TotalRevenue = report.Summary.TotalRevenue.Add(pnl.TotalIncome)
		report.Summary.TotalCost = report.Summary.TotalCost.Add(pnl.TotalCost)
		report.Summary.TotalProfit = report.Summary.TotalProfit.Add(pnl.Profit)
	}

	report.Summary.OrdersCount = len(orders)
	if report.Summary.TotalRevenue.IsPositive() {
		report.Summary.AverageMargin = report.Summary.TotalProfit.Div(report.Summary.TotalRevenue).Mul(hundred)
	}

	logger.Debug("Orders report assembled",
		slog.Int("orders_count", report.Summary.OrdersCount),
		slog.String("total_revenue", report.Summary.TotalRevenue.String()))
	return &report, nil
}
