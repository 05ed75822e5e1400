package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers all user-related routes. Reading or updating
// one's own record is open to every authenticated user; everything else is
// admin only.
func registerUserRoutes(rg *gin.RouterGroup, adminGroup *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("/:user_id", h.getUser)    // Own record, or any record for admins
		users.PUT("/:user_id", h.updateUser) // Own record, or any record for admins
	}

	admin := adminGroup.Group("/users")
	{
		admin.GET("", h.listUsers)
		admin.POST("", h.createUser)
		admin.DELETE("/:user_id", h.deleteUser)
	}
}

// canActOnUser reports whether the caller may read or modify the target
// user's record: admins may touch anyone, everyone else only themselves.
func canActOnUser(c *gin.Context, callerID, targetID string) bool {
	if callerID == targetID {
		return true
	}
	role, ok := middleware.GetUserRoleFromContext(c)
	return ok && role == domain.RoleAdmin
}

// createUser godoc
// @Summary Create a new user
// @Description Creates a local user account with an assigned role.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 409 {object} dto.APIResponse "Username already taken"
// @Failure 500 {object} dto.APIResponse "Failed to create user"
// @Security BearerAuth
// @Router /users [post]
func (h *userHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateUser", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	logger.Info("Received request to create user", slog.String("username", req.Username), slog.String("role", string(req.Role)))

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToUserResponse(user)))
}

// getUser godoc
// @Summary Get a user by ID
// @Description Retrieves a user's details. Non-admins can only read their own record.
// @Tags users
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 500 {object} dto.APIResponse "Failed to retrieve user"
// @Security BearerAuth
// @Router /users/{user_id} [get]
func (h *userHandler) getUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetID := c.Param("user_id")

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	if !canActOnUser(c, callerID, targetID) {
		logger.Warn("User forbidden to access another user's details",
			slog.String("caller_id", callerID), slog.String("target_id", targetID))
		c.JSON(http.StatusForbidden, dto.ErrorResponse("Forbidden"))
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToUserResponse(user)))
}

// listUsers godoc
// @Summary List users
// @Description Retrieves a paginated list of users.
// @Tags users
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.APIResponse{data=dto.ListUsersResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 500 {object} dto.APIResponse "Failed to list users"
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListUsers", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToListUsersResponse(users)))
}

// updateUser godoc
// @Summary Update a user
// @Description Updates a user's name, email or role. Non-admins can only update their own record.
// @Tags users
// @Accept json
// @Produce json
// @Param user_id path string true "User ID to update"
// @Param user body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 500 {object} dto.APIResponse "Failed to update user"
// @Security BearerAuth
// @Router /users/{user_id} [put]
func (h *userHandler) updateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetID := c.Param("user_id")

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateUser", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	if !canActOnUser(c, callerID, targetID) {
		logger.Warn("User forbidden to update another user's details",
			slog.String("caller_id", callerID), slog.String("target_id", targetID))
		c.JSON(http.StatusForbidden, dto.ErrorResponse("Forbidden"))
		return
	}

	// Role changes are an admin power even on one's own record.
	if req.Role != nil {
		if role, ok := middleware.GetUserRoleFromContext(c); !ok || role != domain.RoleAdmin {
			logger.Warn("Non-admin attempted role change", slog.String("caller_id", callerID))
			c.JSON(http.StatusForbidden, dto.ErrorResponse("Only admins may change roles"))
			return
		}
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), targetID, req, callerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToUserResponse(user)))
}

// deleteUser godoc
// @Summary Delete a user
// @Description Marks a user as deleted. The record is kept for audit references.
// @Tags users
// @Produce json
// @Param user_id path string true "User ID to delete"
// @Success 204 "No Content"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 500 {object} dto.APIResponse "Failed to delete user"
// @Security BearerAuth
// @Router /users/{user_id} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetID := c.Param("user_id")

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	logger.Info("Received request to delete user",
		slog.String("caller_id", callerID), slog.String("target_id", targetID))

	if err := h.userService.DeleteUser(c.Request.Context(), targetID, callerID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
