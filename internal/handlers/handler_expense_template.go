package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
)

// expenseTemplateHandler handles HTTP requests related to expense templates.
type expenseTemplateHandler struct {
	templateService portssvc.ExpenseTemplateSvcFacade
}

// newExpenseTemplateHandler creates a new expenseTemplateHandler.
func newExpenseTemplateHandler(ts portssvc.ExpenseTemplateSvcFacade) *expenseTemplateHandler {
	return &expenseTemplateHandler{templateService: ts}
}

// registerExpenseTemplateRoutes registers routes related to templates. Reads
// are open to every authenticated role; writes happen inside the caller's
// manage group.
func registerExpenseTemplateRoutes(readGroup *gin.RouterGroup, manageGroup *gin.RouterGroup, templateService portssvc.ExpenseTemplateSvcFacade) {
	h := newExpenseTemplateHandler(templateService)

	templates := readGroup.Group("/expense-templates")
	{
		templates.GET("", h.listTemplates)
		templates.GET("/:template_id", h.getTemplate)
	}

	manage := manageGroup.Group("/expense-templates")
	{
		manage.POST("", h.createTemplate)
		manage.PUT("/:template_id", h.updateTemplate)
		manage.DELETE("/:template_id", h.deactivateTemplate)
	}
}

// createTemplate godoc
// @Summary Create an expense template
// @Description Creates a reusable set of expense lines with optional quantity formulas.
// @Tags expense-templates
// @Accept json
// @Produce json
// @Param template body dto.CreateExpenseTemplateRequest true "Template details"
// @Success 201 {object} dto.APIResponse{data=dto.ExpenseTemplateResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input or malformed formula"
// @Failure 404 {object} dto.APIResponse "Vendor service not found"
// @Failure 500 {object} dto.APIResponse "Failed to create template"
// @Security BearerAuth
// @Router /expense-templates [post]
func (h *expenseTemplateHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExpenseTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTemplate", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	logger.Info("Received request to create expense template",
		slog.String("name", req.Name), slog.Int("item_count", len(req.Items)))

	template, err := h.templateService.CreateTemplate(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToExpenseTemplateResponse(template)))
}

// getTemplate godoc
// @Summary Get an expense template
// @Description Retrieves a template with its items, sorted by sort order.
// @Tags expense-templates
// @Produce json
// @Param template_id path string true "Template ID"
// @Success 200 {object} dto.APIResponse{data=dto.ExpenseTemplateResponse}
// @Failure 404 {object} dto.APIResponse "Template not found"
// @Failure 500 {object} dto.APIResponse "Failed to get template"
// @Security BearerAuth
// @Router /expense-templates/{template_id} [get]
func (h *expenseTemplateHandler) getTemplate(c *gin.Context) {
	templateID := c.Param("template_id")

	template, err := h.templateService.GetTemplateByID(c.Request.Context(), templateID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToExpenseTemplateResponse(template)))
}

// listTemplates godoc
// @Summary List expense templates
// @Description Retrieves a paginated list of templates. Inactive templates are hidden unless requested.
// @Tags expense-templates
// @Produce json
// @Param includeInactive query bool false "Include inactive templates" default(false)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.APIResponse{data=dto.ListExpenseTemplatesResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 500 {object} dto.APIResponse "Failed to list templates"
// @Security BearerAuth
// @Router /expense-templates [get]
func (h *expenseTemplateHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListExpenseTemplatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTemplates", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	templates, err := h.templateService.ListTemplates(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToListExpenseTemplatesResponse(templates)))
}

// updateTemplate godoc
// @Summary Update an expense template
// @Description Updates a template. A non-nil item set replaces the existing lines wholesale; orders already built from the template keep their expenses.
// @Tags expense-templates
// @Accept json
// @Produce json
// @Param template_id path string true "Template ID"
// @Param template body dto.UpdateExpenseTemplateRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ExpenseTemplateResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input or malformed formula"
// @Failure 404 {object} dto.APIResponse "Template not found"
// @Failure 500 {object} dto.APIResponse "Failed to update template"
// @Security BearerAuth
// @Router /expense-templates/{template_id} [put]
func (h *expenseTemplateHandler) updateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("template_id")

	var req dto.UpdateExpenseTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTemplate", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	template, err := h.templateService.UpdateTemplate(c.Request.Context(), templateID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToExpenseTemplateResponse(template)))
}

// deactivateTemplate godoc
// @Summary Deactivate an expense template
// @Description Marks a template as inactive so it can no longer be applied to orders.
// @Tags expense-templates
// @Produce json
// @Param template_id path string true "Template ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.APIResponse "Template not found"
// @Failure 500 {object} dto.APIResponse "Failed to deactivate template"
// @Security BearerAuth
// @Router /expense-templates/{template_id} [delete]
func (h *expenseTemplateHandler) deactivateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("template_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	if err := h.templateService.DeactivateTemplate(c.Request.Context(), templateID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
