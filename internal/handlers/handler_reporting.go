package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
	"github.com/fulfillops/fulfillment_crm_app/internal/utils/export"
)

// reportingHandler handles HTTP requests related to profitability reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers routes related to reports. Reports are
// read-only and open to every authenticated role, analysts included.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	rg.GET("/orders/:order_id/pnl", h.getOrderPnl)

	reports := rg.Group("/reports")
	{
		reports.GET("/orders", h.getOrdersReport)
	}
}

// getOrderPnl godoc
// @Summary Get the P&L of an order
// @Description Assembles the profit and loss view of a single order: realised income, cost grouped by vendor-service type, and per-unit economics.
// @Tags reports
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} dto.APIResponse{data=dto.OrderPnlResponse}
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Failure 500 {object} dto.APIResponse "Failed to build order P&L"
// @Security BearerAuth
// @Router /orders/{order_id}/pnl [get]
func (h *reportingHandler) getOrderPnl(c *gin.Context) {
	orderID := c.Param("order_id")

	pnl, err := h.reportingService.GetOrderPnl(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToOrderPnlResponse(pnl)))
}

// getOrdersReport godoc
// @Summary Generate the batch P&L report
// @Description Assembles the P&L report over a date-filtered order set with a portfolio summary. format=csv streams the report as a file download.
// @Tags reports
// @Produce json
// @Produce text/csv
// @Param fromDate query string false "Creation date lower bound (YYYY-MM-DD)"
// @Param toDate query string false "Creation date upper bound (YYYY-MM-DD)" default(today)
// @Param status query string false "Filter by order status" Enums(NEW, PROCESSING, ASSEMBLY, SHIPPED, COMPLETED, CANCELLED)
// @Param format query string false "Response encoding" Enums(json, csv) default(json)
// @Success 200 {object} dto.APIResponse{data=dto.OrdersReportResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 500 {object} dto.APIResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/orders [get]
func (h *reportingHandler) getOrdersReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.OrdersReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for GetOrdersReport", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	logger.Info("Received request to generate orders report", slog.String("format", params.Format))

	report, err := h.reportingService.GetOrdersReport(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	if params.Format == "csv" {
		filename := fmt.Sprintf("orders-report-%s.csv", time.Now().Format("2006-01-02"))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Status(http.StatusOK)
		if err := export.WriteOrdersReportCSV(c.Writer, *report); err != nil {
			// Headers are already on the wire; the truncated download is all
			// the client can observe at this point.
			logger.Error("Failed to stream orders report CSV", slog.String("error", err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToOrdersReportResponse(report)))
}
