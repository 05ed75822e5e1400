package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
)

// clientHandler handles HTTP requests related to clients.
type clientHandler struct {
	clientService portssvc.ClientSvcFacade
}

// newClientHandler creates a new clientHandler.
func newClientHandler(cs portssvc.ClientSvcFacade) *clientHandler {
	return &clientHandler{clientService: cs}
}

// registerClientRoutes registers routes related to clients. Reads are open to
// every authenticated role; writes happen inside the caller's manage group.
func registerClientRoutes(readGroup *gin.RouterGroup, manageGroup *gin.RouterGroup, clientService portssvc.ClientSvcFacade) {
	h := newClientHandler(clientService)

	clients := readGroup.Group("/clients")
	{
		clients.GET("", h.listClients)
		clients.GET("/:client_id", h.getClient)
	}

	manage := manageGroup.Group("/clients")
	{
		manage.POST("", h.createClient)
		manage.PUT("/:client_id", h.updateClient)
		manage.DELETE("/:client_id", h.deactivateClient)
	}
}

// createClient godoc
// @Summary Create a new client
// @Description Creates a new client of the fulfillment operation.
// @Tags clients
// @Accept json
// @Produce json
// @Param client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} dto.APIResponse{data=dto.ClientResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Failed to create client"
// @Security BearerAuth
// @Router /clients [post]
func (h *clientHandler) createClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateClient", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToClientResponse(client)))
}

// getClient godoc
// @Summary Get a client
// @Description Retrieves a single client by ID.
// @Tags clients
// @Produce json
// @Param client_id path string true "Client ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClientResponse}
// @Failure 404 {object} dto.APIResponse "Client not found"
// @Failure 500 {object} dto.APIResponse "Failed to get client"
// @Security BearerAuth
// @Router /clients/{client_id} [get]
func (h *clientHandler) getClient(c *gin.Context) {
	clientID := c.Param("client_id")

	client, err := h.clientService.GetClientByID(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToClientResponse(client)))
}

// listClients godoc
// @Summary List clients
// @Description Retrieves a paginated list of clients, optionally filtered by a search term.
// @Tags clients
// @Produce json
// @Param search query string false "Search term matched against name and contact name"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.APIResponse{data=dto.ListClientsResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 500 {object} dto.APIResponse "Failed to list clients"
// @Security BearerAuth
// @Router /clients [get]
func (h *clientHandler) listClients(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListClientsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListClients", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	clients, err := h.clientService.ListClients(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToListClientsResponse(clients)))
}

// updateClient godoc
// @Summary Update a client
// @Description Updates a client's details. Omitted fields are left unchanged.
// @Tags clients
// @Accept json
// @Produce json
// @Param client_id path string true "Client ID"
// @Param client body dto.UpdateClientRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ClientResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Client not found"
// @Failure 500 {object} dto.APIResponse "Failed to update client"
// @Security BearerAuth
// @Router /clients/{client_id} [put]
func (h *clientHandler) updateClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("client_id")

	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateClient", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), clientID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToClientResponse(client)))
}

// deactivateClient godoc
// @Summary Deactivate a client
// @Description Marks a client as inactive. Existing orders keep referencing it.
// @Tags clients
// @Produce json
// @Param client_id path string true "Client ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.APIResponse "Client not found"
// @Failure 500 {object} dto.APIResponse "Failed to deactivate client"
// @Security BearerAuth
// @Router /clients/{client_id} [delete]
func (h *clientHandler) deactivateClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("client_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	if err := h.clientService.DeactivateClient(c.Request.Context(), clientID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
