package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
)

// inventoryHandler handles HTTP requests related to inventory items and
// stock movements.
type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

// newInventoryHandler creates a new inventoryHandler.
func newInventoryHandler(is portssvc.InventorySvcFacade) *inventoryHandler {
	return &inventoryHandler{inventoryService: is}
}

// registerInventoryRoutes registers routes related to inventory. Reads are
// open to every authenticated role; writes happen inside the caller's manage
// group.
func registerInventoryRoutes(readGroup *gin.RouterGroup, manageGroup *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := newInventoryHandler(inventoryService)

	items := readGroup.Group("/inventory")
	{
		items.GET("", h.listInventoryItems)
		items.GET("/:item_id", h.getInventoryItem)
		items.GET("/:item_id/movements", h.listStockMovements)
	}

	manage := manageGroup.Group("/inventory")
	{
		manage.POST("", h.createInventoryItem)
		manage.PUT("/:item_id", h.updateInventoryItem)
		manage.POST("/:item_id/movements", h.recordStockMovement)
	}
}

// createInventoryItem godoc
// @Summary Create an inventory item
// @Description Registers a warehouse item with its physical attributes and low-stock threshold.
// @Tags inventory
// @Accept json
// @Produce json
// @Param item body dto.CreateInventoryItemRequest true "Item details"
// @Success 201 {object} dto.APIResponse{data=dto.InventoryItemResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 409 {object} dto.APIResponse "SKU already exists"
// @Failure 500 {object} dto.APIResponse "Failed to create inventory item"
// @Security BearerAuth
// @Router /inventory [post]
func (h *inventoryHandler) createInventoryItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInventoryItem", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	item, err := h.inventoryService.CreateInventoryItem(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToInventoryItemResponse(item)))
}

// getInventoryItem godoc
// @Summary Get an inventory item
// @Description Retrieves a single inventory item with its on-hand quantity.
// @Tags inventory
// @Produce json
// @Param item_id path string true "Inventory item ID"
// @Success 200 {object} dto.APIResponse{data=dto.InventoryItemResponse}
// @Failure 404 {object} dto.APIResponse "Item not found"
// @Failure 500 {object} dto.APIResponse "Failed to get inventory item"
// @Security BearerAuth
// @Router /inventory/{item_id} [get]
func (h *inventoryHandler) getInventoryItem(c *gin.Context) {
	itemID := c.Param("item_id")

	item, err := h.inventoryService.GetInventoryItemByID(c.Request.Context(), itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToInventoryItemResponse(item)))
}

// listInventoryItems godoc
// @Summary List inventory items
// @Description Retrieves a paginated list of inventory items, optionally restricted to items at or below their low-stock threshold.
// @Tags inventory
// @Produce json
// @Param lowStockOnly query bool false "Only items at or below the threshold" default(false)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.APIResponse{data=dto.ListInventoryItemsResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 500 {object} dto.APIResponse "Failed to list inventory items"
// @Security BearerAuth
// @Router /inventory [get]
func (h *inventoryHandler) listInventoryItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListInventoryItemsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListInventoryItems", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	items, err := h.inventoryService.ListInventoryItems(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToListInventoryItemsResponse(items)))
}

// listStockMovements godoc
// @Summary List stock movements for an item
// @Description Retrieves a paginated movement history for an inventory item, newest first.
// @Tags inventory
// @Produce json
// @Param item_id path string true "Inventory item ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.APIResponse{data=dto.ListStockMovementsResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Item not found"
// @Failure 500 {object} dto.APIResponse "Failed to list stock movements"
// @Security BearerAuth
// @Router /inventory/{item_id}/movements [get]
func (h *inventoryHandler) listStockMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("item_id")

	var params dto.ListStockMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListStockMovements", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	movements, err := h.inventoryService.ListStockMovements(c.Request.Context(), itemID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToListStockMovementsResponse(movements)))
}

// updateInventoryItem godoc
// @Summary Update an inventory item
// @Description Updates an item's details. On-hand quantity moves only through stock movements.
// @Tags inventory
// @Accept json
// @Produce json
// @Param item_id path string true "Inventory item ID"
// @Param item body dto.UpdateInventoryItemRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.InventoryItemResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Item not found"
// @Failure 500 {object} dto.APIResponse "Failed to update inventory item"
// @Security BearerAuth
// @Router /inventory/{item_id} [put]
func (h *inventoryHandler) updateInventoryItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("item_id")

	var req dto.UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateInventoryItem", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	item, err := h.inventoryService.UpdateInventoryItem(c.Request.Context(), itemID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToInventoryItemResponse(item)))
}

// recordStockMovement godoc
// @Summary Record a stock movement
// @Description Appends a receipt, issue or adjustment and updates the item's on-hand quantity atomically. Movements that would drive stock negative are rejected.
// @Tags inventory
// @Accept json
// @Produce json
// @Param item_id path string true "Inventory item ID"
// @Param movement body dto.CreateStockMovementRequest true "Movement details"
// @Success 201 {object} dto.APIResponse{data=dto.StockMovementResponse}
// @Failure 400 {object} dto.APIResponse "Invalid movement or insufficient stock"
// @Failure 404 {object} dto.APIResponse "Item not found"
// @Failure 500 {object} dto.APIResponse "Failed to record stock movement"
// @Security BearerAuth
// @Router /inventory/{item_id}/movements [post]
func (h *inventoryHandler) recordStockMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("item_id")

	var req dto.CreateStockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordStockMovement", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	logger.Info("Received request to record stock movement",
		slog.String("item_id", itemID), slog.String("movement_type", string(req.MovementType)))

	movement, err := h.inventoryService.RecordStockMovement(c.Request.Context(), itemID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToStockMovementResponse(movement)))
}
