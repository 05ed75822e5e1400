package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
)

// orderHandler handles HTTP requests related to orders and their item lines.
type orderHandler struct {
	orderService portssvc.OrderSvcFacade
}

// newOrderHandler creates a new orderHandler.
func newOrderHandler(os portssvc.OrderSvcFacade) *orderHandler {
	return &orderHandler{orderService: os}
}

// RegisterOrderRoutes registers routes related to orders. Reads are open to
// every authenticated role; writes happen inside the caller's manage group.
func RegisterOrderRoutes(readGroup *gin.RouterGroup, manageGroup *gin.RouterGroup, orderService portssvc.OrderSvcFacade) {
	h := newOrderHandler(orderService)

	orders := readGroup.Group("/orders")
	{
		orders.GET("", h.listOrders)
		orders.GET("/:order_id", h.getOrder)
		orders.GET("/:order_id/items", h.listOrderItems)
	}

	manage := manageGroup.Group("/orders")
	{
		manage.POST("", h.createOrder)
		manage.PUT("/:order_id", h.updateOrder)
		manage.PUT("/:order_id/status", h.updateOrderStatus)
		manage.POST("/:order_id/recalculate", h.recalculateOrder)

		manage.POST("/:order_id/items", h.addOrderItem)
		manage.PUT("/:order_id/items/:item_id", h.updateOrderItem)
		manage.DELETE("/:order_id/items/:item_id", h.removeOrderItem)
	}
}

// createOrder godoc
// @Summary Create a new order
// @Description Creates a fulfillment order with its optional item lines and computes the initial cost aggregates.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderRequest true "Order details"
// @Success 201 {object} dto.APIResponse{data=dto.OrderResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Client not found"
// @Failure 409 {object} dto.APIResponse "Order number already exists"
// @Failure 500 {object} dto.APIResponse "Failed to create order"
// @Security BearerAuth
// @Router /orders [post]
func (h *orderHandler) createOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateOrder", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	logger.Info("Received request to create order", slog.String("order_number", req.OrderNumber))

	order, err := h.orderService.CreateOrder(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToOrderResponse(order)))
}

// getOrder godoc
// @Summary Get an order
// @Description Retrieves a single order with its cached cost aggregates.
// @Tags orders
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} dto.APIResponse{data=dto.OrderResponse}
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Failure 500 {object} dto.APIResponse "Failed to get order"
// @Security BearerAuth
// @Router /orders/{order_id} [get]
func (h *orderHandler) getOrder(c *gin.Context) {
	orderID := c.Param("order_id")

	order, err := h.orderService.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToOrderResponse(order)))
}

// listOrders godoc
// @Summary List orders
// @Description Retrieves a token-paginated list of orders, optionally filtered by client, status and creation date range.
// @Tags orders
// @Produce json
// @Param clientID query string false "Filter by client"
// @Param status query string false "Filter by status" Enums(NEW, PROCESSING, ASSEMBLY, SHIPPED, COMPLETED, CANCELLED)
// @Param fromDate query string false "Creation date lower bound (YYYY-MM-DD)"
// @Param toDate query string false "Creation date upper bound (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.APIResponse{data=dto.ListOrdersResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 500 {object} dto.APIResponse "Failed to list orders"
// @Security BearerAuth
// @Router /orders [get]
func (h *orderHandler) listOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListOrders", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	page, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(page))
}

// updateOrder godoc
// @Summary Update an order
// @Description Updates an order's number, client or description. Cost aggregates are not writable here.
// @Tags orders
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Param order body dto.UpdateOrderRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.OrderResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Failure 409 {object} dto.APIResponse "Order number already exists"
// @Failure 500 {object} dto.APIResponse "Failed to update order"
// @Security BearerAuth
// @Router /orders/{order_id} [put]
func (h *orderHandler) updateOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")

	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateOrder", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), orderID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToOrderResponse(order)))
}

// updateOrderStatus godoc
// @Summary Update order status
// @Description Moves an order to a new workflow status. Entering SHIPPED stamps the shipping time.
// @Tags orders
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Param status body dto.UpdateOrderStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.OrderResponse}
// @Failure 400 {object} dto.APIResponse "Invalid status or transition"
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Failure 500 {object} dto.APIResponse "Failed to update order status"
// @Security BearerAuth
// @Router /orders/{order_id}/status [put]
func (h *orderHandler) updateOrderStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateOrderStatus", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	logger.Info("Received request to update order status",
		slog.String("order_id", orderID), slog.String("status", string(req.Status)))

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToOrderResponse(order)))
}

// recalculateOrder godoc
// @Summary Recalculate an order
// @Description Recomputes the order's cached cost aggregates from its current expenses, operations and items.
// @Tags orders
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} dto.APIResponse{data=dto.OrderResponse}
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Failure 500 {object} dto.APIResponse "Failed to recalculate order"
// @Security BearerAuth
// @Router /orders/{order_id}/recalculate [post]
func (h *orderHandler) recalculateOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	logger.Info("Received request to recalculate order", slog.String("order_id", orderID))

	order, err := h.orderService.RecalculateOrder(c.Request.Context(), orderID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToOrderResponse(order)))
}

// listOrderItems godoc
// @Summary List order items
// @Description Retrieves the item lines of an order.
// @Tags orders
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} dto.APIResponse{data=dto.ListOrderItemsResponse}
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Failure 500 {object} dto.APIResponse "Failed to list order items"
// @Security BearerAuth
// @Router /orders/{order_id}/items [get]
func (h *orderHandler) listOrderItems(c *gin.Context) {
	orderID := c.Param("order_id")

	items, err := h.orderService.ListOrderItems(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToListOrderItemsResponse(items)))
}

// addOrderItem godoc
// @Summary Add an order item
// @Description Appends an item line to an order and recalculates the order.
// @Tags orders
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Param item body dto.AddOrderItemRequest true "Item details"
// @Success 201 {object} dto.APIResponse{data=dto.OrderItemResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Failure 500 {object} dto.APIResponse "Failed to add order item"
// @Security BearerAuth
// @Router /orders/{order_id}/items [post]
func (h *orderHandler) addOrderItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")

	var req dto.AddOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddOrderItem", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	item, err := h.orderService.AddOrderItem(c.Request.Context(), orderID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToOrderItemResponse(item)))
}

// updateOrderItem godoc
// @Summary Update an order item
// @Description Updates an item line and recalculates the order.
// @Tags orders
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Param item_id path string true "Order item ID"
// @Param item body dto.UpdateOrderItemRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.OrderItemResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Order or item not found"
// @Failure 500 {object} dto.APIResponse "Failed to update order item"
// @Security BearerAuth
// @Router /orders/{order_id}/items/{item_id} [put]
func (h *orderHandler) updateOrderItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")
	itemID := c.Param("item_id")

	var req dto.UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateOrderItem", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	item, err := h.orderService.UpdateOrderItem(c.Request.Context(), orderID, itemID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToOrderItemResponse(item)))
}

// removeOrderItem godoc
// @Summary Remove an order item
// @Description Deletes an item line and recalculates the order.
// @Tags orders
// @Produce json
// @Param order_id path string true "Order ID"
// @Param item_id path string true "Order item ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.APIResponse "Order or item not found"
// @Failure 500 {object} dto.APIResponse "Failed to remove order item"
// @Security BearerAuth
// @Router /orders/{order_id}/items/{item_id} [delete]
func (h *orderHandler) removeOrderItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("order_id")
	itemID := c.Param("item_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	if err := h.orderService.RemoveOrderItem(c.Request.Context(), orderID, itemID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
