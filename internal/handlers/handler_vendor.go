package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
)

// vendorHandler handles HTTP requests related to vendors and their service
// catalog.
type vendorHandler struct {
	vendorService        portssvc.VendorSvcFacade
	vendorServiceService portssvc.VendorServiceSvcFacade
}

// newVendorHandler creates a new vendorHandler.
func newVendorHandler(vs portssvc.VendorSvcFacade, vss portssvc.VendorServiceSvcFacade) *vendorHandler {
	return &vendorHandler{vendorService: vs, vendorServiceService: vss}
}

// registerVendorRoutes registers routes related to vendors and vendor
// services. Reads are open to every authenticated role; writes happen inside
// the caller's manage group.
func registerVendorRoutes(readGroup *gin.RouterGroup, manageGroup *gin.RouterGroup, vendorService portssvc.VendorSvcFacade, vendorServiceService portssvc.VendorServiceSvcFacade) {
	h := newVendorHandler(vendorService, vendorServiceService)

	vendors := readGroup.Group("/vendors")
	{
		vendors.GET("", h.listVendors)
		vendors.GET("/:vendor_id", h.getVendor)
	}

	services := readGroup.Group("/vendor-services")
	{
		services.GET("", h.listVendorServices)
		services.GET("/:service_id", h.getVendorService)
		services.GET("/:service_id/price-changes", h.listPriceChanges)
	}

	manageVendors := manageGroup.Group("/vendors")
	{
		manageVendors.POST("", h.createVendor)
		manageVendors.PUT("/:vendor_id", h.updateVendor)
		manageVendors.DELETE("/:vendor_id", h.deactivateVendor)
	}

	manageServices := manageGroup.Group("/vendor-services")
	{
		manageServices.POST("", h.createVendorService)
		manageServices.PUT("/:service_id", h.updateVendorService)
		manageServices.DELETE("/:service_id", h.deactivateVendorService)
	}
}

// createVendor godoc
// @Summary Create a new vendor
// @Description Registers a new external service provider.
// @Tags vendors
// @Accept json
// @Produce json
// @Param vendor body dto.CreateVendorRequest true "Vendor details"
// @Success 201 {object} dto.APIResponse{data=dto.VendorResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Failed to create vendor"
// @Security BearerAuth
// @Router /vendors [post]
func (h *vendorHandler) createVendor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateVendor", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	vendor, err := h.vendorService.CreateVendor(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToVendorResponse(vendor)))
}

// getVendor godoc
// @Summary Get a vendor
// @Description Retrieves a single vendor by ID.
// @Tags vendors
// @Produce json
// @Param vendor_id path string true "Vendor ID"
// @Success 200 {object} dto.APIResponse{data=dto.VendorResponse}
// @Failure 404 {object} dto.APIResponse "Vendor not found"
// @Failure 500 {object} dto.APIResponse "Failed to get vendor"
// @Security BearerAuth
// @Router /vendors/{vendor_id} [get]
func (h *vendorHandler) getVendor(c *gin.Context) {
	vendorID := c.Param("vendor_id")

	vendor, err := h.vendorService.GetVendorByID(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToVendorResponse(vendor)))
}

// listVendors godoc
// @Summary List vendors
// @Description Retrieves a paginated list of vendors, optionally filtered by a search term.
// @Tags vendors
// @Produce json
// @Param search query string false "Search term matched against name and contact name"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.APIResponse{data=dto.ListVendorsResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 500 {object} dto.APIResponse "Failed to list vendors"
// @Security BearerAuth
// @Router /vendors [get]
func (h *vendorHandler) listVendors(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListVendorsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListVendors", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	vendors, err := h.vendorService.ListVendors(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToListVendorsResponse(vendors)))
}

// updateVendor godoc
// @Summary Update a vendor
// @Description Updates a vendor's details. Omitted fields are left unchanged.
// @Tags vendors
// @Accept json
// @Produce json
// @Param vendor_id path string true "Vendor ID"
// @Param vendor body dto.UpdateVendorRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.VendorResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Vendor not found"
// @Failure 500 {object} dto.APIResponse "Failed to update vendor"
// @Security BearerAuth
// @Router /vendors/{vendor_id} [put]
func (h *vendorHandler) updateVendor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	vendorID := c.Param("vendor_id")

	var req dto.UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateVendor", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	vendor, err := h.vendorService.UpdateVendor(c.Request.Context(), vendorID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToVendorResponse(vendor)))
}

// deactivateVendor godoc
// @Summary Deactivate a vendor
// @Description Marks a vendor as inactive. Its services stay on historical expenses.
// @Tags vendors
// @Produce json
// @Param vendor_id path string true "Vendor ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.APIResponse "Vendor not found"
// @Failure 500 {object} dto.APIResponse "Failed to deactivate vendor"
// @Security BearerAuth
// @Router /vendors/{vendor_id} [delete]
func (h *vendorHandler) deactivateVendor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	vendorID := c.Param("vendor_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	if err := h.vendorService.DeactivateVendor(c.Request.Context(), vendorID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// createVendorService godoc
// @Summary Create a vendor service
// @Description Adds a priced service to a vendor's catalog.
// @Tags vendor-services
// @Accept json
// @Produce json
// @Param service body dto.CreateVendorServiceRequest true "Service details"
// @Success 201 {object} dto.APIResponse{data=dto.VendorServiceResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Vendor not found"
// @Failure 500 {object} dto.APIResponse "Failed to create vendor service"
// @Security BearerAuth
// @Router /vendor-services [post]
func (h *vendorHandler) createVendorService(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateVendorServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateVendorService", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	service, err := h.vendorServiceService.CreateVendorService(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToVendorServiceResponse(service)))
}

// getVendorService godoc
// @Summary Get a vendor service
// @Description Retrieves a single vendor service by ID.
// @Tags vendor-services
// @Produce json
// @Param service_id path string true "Vendor service ID"
// @Success 200 {object} dto.APIResponse{data=dto.VendorServiceResponse}
// @Failure 404 {object} dto.APIResponse "Vendor service not found"
// @Failure 500 {object} dto.APIResponse "Failed to get vendor service"
// @Security BearerAuth
// @Router /vendor-services/{service_id} [get]
func (h *vendorHandler) getVendorService(c *gin.Context) {
	serviceID := c.Param("service_id")

	service, err := h.vendorServiceService.GetVendorServiceByID(c.Request.Context(), serviceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToVendorServiceResponse(service)))
}

// listVendorServices godoc
// @Summary List vendor services
// @Description Retrieves a paginated list of vendor services, optionally filtered by vendor and service type.
// @Tags vendor-services
// @Produce json
// @Param vendorID query string false "Filter by vendor"
// @Param serviceType query string false "Filter by service type" Enums(STORAGE, PICKING, PACKING, DELIVERY, SUPPLY, OTHER)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.APIResponse{data=dto.ListVendorServicesResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 500 {object} dto.APIResponse "Failed to list vendor services"
// @Security BearerAuth
// @Router /vendor-services [get]
func (h *vendorHandler) listVendorServices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListVendorServicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListVendorServices", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	services, err := h.vendorServiceService.ListVendorServices(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToListVendorServicesResponse(services)))
}

// updateVendorService godoc
// @Summary Update a vendor service
// @Description Updates a vendor service. A price change appends an entry to the price history; locked expense prices stay untouched.
// @Tags vendor-services
// @Accept json
// @Produce json
// @Param service_id path string true "Vendor service ID"
// @Param service body dto.UpdateVendorServiceRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.VendorServiceResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 404 {object} dto.APIResponse "Vendor service not found"
// @Failure 500 {object} dto.APIResponse "Failed to update vendor service"
// @Security BearerAuth
// @Router /vendor-services/{service_id} [put]
func (h *vendorHandler) updateVendorService(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	serviceID := c.Param("service_id")

	var req dto.UpdateVendorServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateVendorService", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	service, err := h.vendorServiceService.UpdateVendorService(c.Request.Context(), serviceID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToVendorServiceResponse(service)))
}

// deactivateVendorService godoc
// @Summary Deactivate a vendor service
// @Description Marks a vendor service as inactive so new expenses cannot reference it.
// @Tags vendor-services
// @Produce json
// @Param service_id path string true "Vendor service ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.APIResponse "Vendor service not found"
// @Failure 500 {object} dto.APIResponse "Failed to deactivate vendor service"
// @Security BearerAuth
// @Router /vendor-services/{service_id} [delete]
func (h *vendorHandler) deactivateVendorService(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	serviceID := c.Param("service_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	if err := h.vendorServiceService.DeactivateVendorService(c.Request.Context(), serviceID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// listPriceChanges godoc
// @Summary List price changes of a vendor service
// @Description Retrieves a vendor service's price history, newest first.
// @Tags vendor-services
// @Produce json
// @Param service_id path string true "Vendor service ID"
// @Success 200 {object} dto.APIResponse{data=dto.ListPriceChangesResponse}
// @Failure 404 {object} dto.APIResponse "Vendor service not found"
// @Failure 500 {object} dto.APIResponse "Failed to list price changes"
// @Security BearerAuth
// @Router /vendor-services/{service_id}/price-changes [get]
func (h *vendorHandler) listPriceChanges(c *gin.Context) {
	serviceID := c.Param("service_id")

	changes, err := h.vendorServiceService.ListPriceChanges(c.Request.Context(), serviceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToListPriceChangesResponse(changes)))
}
