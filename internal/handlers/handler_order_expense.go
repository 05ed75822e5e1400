package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
)

// orderExpenseHandler handles HTTP requests related to an order's expense
// lines.
type orderExpenseHandler struct {
	expenseService portssvc.OrderExpenseSvcFacade
}

// newOrderExpenseHandler creates a new orderExpenseHandler.
func newOrderExpenseHandler(es portssvc.OrderExpenseSvcFacade) *orderExpenseHandler {
	return &orderExpenseHandler{expenseService: es}
}

// registerOrderExpenseRoutes registers routes for an order's expense lines.
// Reads are open to every authenticated role; writes happen inside the
// caller's manage group.
func registerOrderExpenseRoutes(readGroup *gin.RouterGroup, manageGroup *gin.RouterGroup, expenseService portssvc.OrderExpenseSvcFacade) {
	h := newOrderExpenseHandler(expenseService)

	expenses := readGroup.Group("/orders/:order_id/expenses")
	{
		expenses.GET("", h.listExpenses)
		expenses.GET("/price-changes", h.getExpensePriceChanges)
		expenses.GET("/:expense_id", h.getExpense)
	}

	manage := manageGroup.Group("/orders/:order_id/expenses")
	{
		manage.POST("", h.createExpense)
		manage.POST("/bulk", h.bulkCreateExpenses)
		manage.POST("/clone", h.cloneExpenses)
		manage.POST("/apply-template", h.applyTemplate)
		manage.PUT("/:expense_id", h.updateExpense)
		manage.DELETE("/:expense_id", h.deleteExpense)
	}
}

// createExpense godoc
// @Summary Create an expense line
// @Description Adds an expense line to an order. A vendor-bound line locks the service's current price unless the request overrides it. The order is recalculated.
// @Tags expenses
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Param expense body dto.CreateOrderExpenseRequest true "Expense details"
// @Success 201 {object} dto.APIResponse{data=dto.OrderExpenseResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Order or vendor service not found"
// @Failure 500 {object} dto.APIResponse "Failed to create expense"
// @Security BearerAuth
// @Router /orders/{order_id}/expenses [post]
func (h *orderExpenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")

	var req dto.CreateOrderExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExpense", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), orderID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToOrderExpenseResponse(expense)))
}

// bulkCreateExpenses godoc
// @Summary Create expense lines in bulk
// @Description Adds several expense lines to an order in one call with a single recalculation at the end.
// @Tags expenses
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Param expenses body dto.BulkCreateOrderExpensesRequest true "Expense lines"
// @Success 201 {object} dto.APIResponse{data=dto.ListOrderExpensesResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Order or vendor service not found"
// @Failure 500 {object} dto.APIResponse "Failed to create expenses"
// @Security BearerAuth
// @Router /orders/{order_id}/expenses/bulk [post]
func (h *orderExpenseHandler) bulkCreateExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")

	var req dto.BulkCreateOrderExpensesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BulkCreateExpenses", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	logger.Info("Received request to bulk create expenses",
		slog.String("order_id", orderID), slog.Int("count", len(req.Expenses)))

	expenses, err := h.expenseService.BulkCreateExpenses(c.Request.Context(), orderID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToListOrderExpensesResponse(expenses)))
}

// getExpense godoc
// @Summary Get an expense line
// @Description Retrieves a single expense line by ID.
// @Tags expenses
// @Produce json
// @Param order_id path string true "Order ID"
// @Param expense_id path string true "Expense ID"
// @Success 200 {object} dto.APIResponse{data=dto.OrderExpenseResponse}
// @Failure 404 {object} dto.APIResponse "Expense not found"
// @Failure 500 {object} dto.APIResponse "Failed to get expense"
// @Security BearerAuth
// @Router /orders/{order_id}/expenses/{expense_id} [get]
func (h *orderExpenseHandler) getExpense(c *gin.Context) {
	expenseID := c.Param("expense_id")

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), expenseID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToOrderExpenseResponse(expense)))
}

// listExpenses godoc
// @Summary List expense lines of an order
// @Description Retrieves all expense lines of an order.
// @Tags expenses
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} dto.APIResponse{data=dto.ListOrderExpensesResponse}
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Failure 500 {object} dto.APIResponse "Failed to list expenses"
// @Security BearerAuth
// @Router /orders/{order_id}/expenses [get]
func (h *orderExpenseHandler) listExpenses(c *gin.Context) {
	orderID := c.Param("order_id")

	expenses, err := h.expenseService.ListExpensesByOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToListOrderExpensesResponse(expenses)))
}

// updateExpense godoc
// @Summary Update an expense line
// @Description Updates an expense line and recalculates the order. Changing the vendor service re-locks the price.
// @Tags expenses
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Param expense_id path string true "Expense ID"
// @Param expense body dto.UpdateOrderExpenseRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.OrderExpenseResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Expense not found"
// @Failure 500 {object} dto.APIResponse "Failed to update expense"
// @Security BearerAuth
// @Router /orders/{order_id}/expenses/{expense_id} [put]
func (h *orderExpenseHandler) updateExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")
	expenseID := c.Param("expense_id")

	var req dto.UpdateOrderExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateExpense", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), orderID, expenseID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToOrderExpenseResponse(expense)))
}

// deleteExpense godoc
// @Summary Delete an expense line
// @Description Removes an expense line and recalculates the order.
// @Tags expenses
// @Produce json
// @Param order_id path string true "Order ID"
// @Param expense_id path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.APIResponse "Expense not found"
// @Failure 500 {object} dto.APIResponse "Failed to delete expense"
// @Security BearerAuth
// @Router /orders/{order_id}/expenses/{expense_id} [delete]
func (h *orderExpenseHandler) deleteExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")
	expenseID := c.Param("expense_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), orderID, expenseID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// cloneExpenses godoc
// @Summary Clone expenses from another order
// @Description Copies all expense lines from a source order onto this order. Vendor-bound lines re-pull current prices unless keepPrices is set.
// @Tags expenses
// @Accept json
// @Produce json
// @Param order_id path string true "Target order ID"
// @Param clone body dto.CloneExpensesRequest true "Source order and price policy"
// @Success 201 {object} dto.APIResponse{data=dto.ListOrderExpensesResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Failure 500 {object} dto.APIResponse "Failed to clone expenses"
// @Security BearerAuth
// @Router /orders/{order_id}/expenses/clone [post]
func (h *orderExpenseHandler) cloneExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")

	var req dto.CloneExpensesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CloneExpenses", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	logger.Info("Received request to clone expenses",
		slog.String("target_order_id", orderID), slog.String("source_order_id", req.SourceOrderID))

	expenses, err := h.expenseService.CloneExpenses(c.Request.Context(), orderID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToListOrderExpensesResponse(expenses)))
}

// applyTemplate godoc
// @Summary Apply an expense template
// @Description Instantiates a template's lines as PLANNED expenses on the order, evaluating quantity formulas against the order's items.
// @Tags expenses
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Param template body dto.ApplyTemplateRequest true "Template to apply"
// @Success 201 {object} dto.APIResponse{data=dto.ListOrderExpensesResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input or inactive template"
// @Failure 404 {object} dto.APIResponse "Order or template not found"
// @Failure 500 {object} dto.APIResponse "Failed to apply template"
// @Security BearerAuth
// @Router /orders/{order_id}/expenses/apply-template [post]
func (h *orderExpenseHandler) applyTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")

	var req dto.ApplyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApplyTemplate", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	logger.Info("Received request to apply expense template",
		slog.String("order_id", orderID), slog.String("template_id", req.TemplateID))

	expenses, err := h.expenseService.ApplyTemplate(c.Request.Context(), orderID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToListOrderExpensesResponse(expenses)))
}

// getExpensePriceChanges godoc
// @Summary Report price drift on an order's expenses
// @Description Lists expenses whose locked vendor price differs from the service's current price.
// @Tags expenses
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} dto.APIResponse{data=dto.ExpensePriceChangesResponse}
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Failure 500 {object} dto.APIResponse "Failed to report price changes"
// @Security BearerAuth
// @Router /orders/{order_id}/expenses/price-changes [get]
func (h *orderExpenseHandler) getExpensePriceChanges(c *gin.Context) {
	orderID := c.Param("order_id")

	report, err := h.expenseService.GetExpensePriceChanges(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(report))
}
