package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
)

// operationHandler handles HTTP requests related to an order's cost and
// income operations.
type operationHandler struct {
	operationService portssvc.OperationSvcFacade
}

// newOperationHandler creates a new operationHandler.
func newOperationHandler(os portssvc.OperationSvcFacade) *operationHandler {
	return &operationHandler{operationService: os}
}

// registerOperationRoutes registers routes for cost and income operations.
// Reads are open to every authenticated role; writes happen inside the
// caller's manage group.
func registerOperationRoutes(readGroup *gin.RouterGroup, manageGroup *gin.RouterGroup, operationService portssvc.OperationSvcFacade) {
	h := newOperationHandler(operationService)

	costs := readGroup.Group("/orders/:order_id/cost-operations")
	{
		costs.GET("", h.listCostOperations)
		costs.GET("/:operation_id", h.getCostOperation)
	}

	incomes := readGroup.Group("/orders/:order_id/income-operations")
	{
		incomes.GET("", h.listIncomeOperations)
		incomes.GET("/:operation_id", h.getIncomeOperation)
	}

	manageCosts := manageGroup.Group("/orders/:order_id/cost-operations")
	{
		manageCosts.POST("", h.createCostOperation)
		manageCosts.PUT("/:operation_id", h.updateCostOperation)
		manageCosts.DELETE("/:operation_id", h.deleteCostOperation)
	}

	manageIncomes := manageGroup.Group("/orders/:order_id/income-operations")
	{
		manageIncomes.POST("", h.createIncomeOperation)
		manageIncomes.PUT("/:operation_id", h.updateIncomeOperation)
		manageIncomes.DELETE("/:operation_id", h.deleteIncomeOperation)
	}
}

// createCostOperation godoc
// @Summary Record a cost operation
// @Description Records money spent fulfilling an order and recalculates the order.
// @Tags operations
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Param operation body dto.CreateCostOperationRequest true "Cost operation details"
// @Success 201 {object} dto.APIResponse{data=dto.CostOperationResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Order or vendor service not found"
// @Failure 500 {object} dto.APIResponse "Failed to create cost operation"
// @Security BearerAuth
// @Router /orders/{order_id}/cost-operations [post]
func (h *operationHandler) createCostOperation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")

	var req dto.CreateCostOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCostOperation", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	op, err := h.operationService.CreateCostOperation(c.Request.Context(), orderID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToCostOperationResponse(op)))
}

// getCostOperation godoc
// @Summary Get a cost operation
// @Description Retrieves a single cost operation by ID.
// @Tags operations
// @Produce json
// @Param order_id path string true "Order ID"
// @Param operation_id path string true "Cost operation ID"
// @Success 200 {object} dto.APIResponse{data=dto.CostOperationResponse}
// @Failure 404 {object} dto.APIResponse "Cost operation not found"
// @Failure 500 {object} dto.APIResponse "Failed to get cost operation"
// @Security BearerAuth
// @Router /orders/{order_id}/cost-operations/{operation_id} [get]
func (h *operationHandler) getCostOperation(c *gin.Context) {
	operationID := c.Param("operation_id")

	op, err := h.operationService.GetCostOperationByID(c.Request.Context(), operationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToCostOperationResponse(op)))
}

// listCostOperations godoc
// @Summary List cost operations of an order
// @Description Retrieves the cost operations of an order.
// @Tags operations
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} dto.APIResponse{data=dto.ListCostOperationsResponse}
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Failure 500 {object} dto.APIResponse "Failed to list cost operations"
// @Security BearerAuth
// @Router /orders/{order_id}/cost-operations [get]
func (h *operationHandler) listCostOperations(c *gin.Context) {
	orderID := c.Param("order_id")

	ops, err := h.operationService.ListCostOperationsByOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToListCostOperationsResponse(ops)))
}

// updateCostOperation godoc
// @Summary Update a cost operation
// @Description Updates a cost operation and recalculates the order.
// @Tags operations
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Param operation_id path string true "Cost operation ID"
// @Param operation body dto.UpdateCostOperationRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.CostOperationResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Cost operation not found"
// @Failure 500 {object} dto.APIResponse "Failed to update cost operation"
// @Security BearerAuth
// @Router /orders/{order_id}/cost-operations/{operation_id} [put]
func (h *operationHandler) updateCostOperation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")
	operationID := c.Param("operation_id")

	var req dto.UpdateCostOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCostOperation", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	op, err := h.operationService.UpdateCostOperation(c.Request.Context(), orderID, operationID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToCostOperationResponse(op)))
}

// deleteCostOperation godoc
// @Summary Delete a cost operation
// @Description Removes a cost operation and recalculates the order.
// @Tags operations
// @Produce json
// @Param order_id path string true "Order ID"
// @Param operation_id path string true "Cost operation ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.APIResponse "Cost operation not found"
// @Failure 500 {object} dto.APIResponse "Failed to delete cost operation"
// @Security BearerAuth
// @Router /orders/{order_id}/cost-operations/{operation_id} [delete]
func (h *operationHandler) deleteCostOperation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")
	operationID := c.Param("operation_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	if err := h.operationService.DeleteCostOperation(c.Request.Context(), orderID, operationID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// createIncomeOperation godoc
// @Summary Record an income operation
// @Description Records invoiced income for an order. Status derives from paid vs invoiced amounts. The order is recalculated.
// @Tags operations
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Param operation body dto.CreateIncomeOperationRequest true "Income operation details"
// @Success 201 {object} dto.APIResponse{data=dto.IncomeOperationResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Failure 500 {object} dto.APIResponse "Failed to create income operation"
// @Security BearerAuth
// @Router /orders/{order_id}/income-operations [post]
func (h *operationHandler) createIncomeOperation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")

	var req dto.CreateIncomeOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateIncomeOperation", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	op, err := h.operationService.CreateIncomeOperation(c.Request.Context(), orderID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToIncomeOperationResponse(op)))
}

// getIncomeOperation godoc
// @Summary Get an income operation
// @Description Retrieves a single income operation by ID.
// @Tags operations
// @Produce json
// @Param order_id path string true "Order ID"
// @Param operation_id path string true "Income operation ID"
// @Success 200 {object} dto.APIResponse{data=dto.IncomeOperationResponse}
// @Failure 404 {object} dto.APIResponse "Income operation not found"
// @Failure 500 {object} dto.APIResponse "Failed to get income operation"
// @Security BearerAuth
// @Router /orders/{order_id}/income-operations/{operation_id} [get]
func (h *operationHandler) getIncomeOperation(c *gin.Context) {
	operationID := c.Param("operation_id")

	op, err := h.operationService.GetIncomeOperationByID(c.Request.Context(), operationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToIncomeOperationResponse(op)))
}

// listIncomeOperations godoc
// @Summary List income operations of an order
// @Description Retrieves the income operations of an order.
// @Tags operations
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} dto.APIResponse{data=dto.ListIncomeOperationsResponse}
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Failure 500 {object} dto.APIResponse "Failed to list income operations"
// @Security BearerAuth
// @Router /orders/{order_id}/income-operations [get]
func (h *operationHandler) listIncomeOperations(c *gin.Context) {
	orderID := c.Param("order_id")

	ops, err := h.operationService.ListIncomeOperationsByOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToListIncomeOperationsResponse(ops)))
}

// updateIncomeOperation godoc
// @Summary Update an income operation
// @Description Updates an income operation, re-derives its status and recalculates the order.
// @Tags operations
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Param operation_id path string true "Income operation ID"
// @Param operation body dto.UpdateIncomeOperationRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.IncomeOperationResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Income operation not found"
// @Failure 500 {object} dto.APIResponse "Failed to update income operation"
// @Security BearerAuth
// @Router /orders/{order_id}/income-operations/{operation_id} [put]
func (h *operationHandler) updateIncomeOperation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")
	operationID := c.Param("operation_id")

	var req dto.UpdateIncomeOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateIncomeOperation", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	op, err := h.operationService.UpdateIncomeOperation(c.Request.Context(), orderID, operationID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToIncomeOperationResponse(op)))
}

// deleteIncomeOperation godoc
// @Summary Delete an income operation
// @Description Removes an income operation and recalculates the order.
// @Tags operations
// @Produce json
// @Param order_id path string true "Order ID"
// @Param operation_id path string true "Income operation ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.APIResponse "Income operation not found"
// @Failure 500 {object} dto.APIResponse "Failed to delete income operation"
// @Security BearerAuth
// @Router /orders/{order_id}/income-operations/{operation_id} [delete]
func (h *operationHandler) deleteIncomeOperation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")
	operationID := c.Param("operation_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	if err := h.operationService.DeleteIncomeOperation(c.Request.Context(), orderID, operationID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
