package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/fulfillops/fulfillment_crm_app/internal/apperrors"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
	"github.com/fulfillops/fulfillment_crm_app/internal/platform/config"
	"github.com/fulfillops/fulfillment_crm_app/internal/utils"
)

// AuthHandler handles authentication related requests: local login,
// self-registration, refresh token rotation and logout.
type AuthHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	cfg          *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService:  us,
		tokenService: ts,
		cfg:          cfg,
	}
}

// registerAuthRoutes sets up the public authentication routes. Login is rate
// limited per client IP; logout runs behind the auth middleware because it
// needs the caller's identity.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services.User, services.TokenService, cfg)

	rate, err := limiter.NewRateFromFormatted(cfg.LoginRateLimit)
	if err != nil {
		// A malformed rate would silently disable the brake on login.
		rate, _ = limiter.NewRateFromFormatted("5-M")
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/login", middleware.RateLimit(ipLimiter), h.Login)
		auth.POST("/register", h.Register)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", middleware.AuthMiddleware(cfg.JWTSecret), h.Logout)
	}

	registerGoogleOAuthRoutes(auth, services)
}

// issueTokenPair mints an access and refresh token for the user, persists the
// refresh token hash and sets the refresh cookie. The raw refresh token is
// returned to the client exactly once.
func (h *AuthHandler) issueTokenPair(c *gin.Context, user *domain.User) (dto.LoginResponse, error) {
	ctx := c.Request.Context()

	accessToken, accessExpiry, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	refreshToken, refreshExpiry, err := h.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	if err := h.userService.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(refreshToken), refreshExpiry); err != nil {
		return dto.LoginResponse{}, err
	}

	h.setRefreshTokenCookie(c, refreshToken, refreshExpiry)

	return dto.LoginResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpiry.Format(time.RFC3339),
	}, nil
}

// setRefreshTokenCookie sets the HttpOnly refresh cookie scoped to the auth
// route group.
func (h *AuthHandler) setRefreshTokenCookie(c *gin.Context, token string, expiry time.Time) {
	maxAge := int(time.Until(expiry).Seconds())
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cfg.RefreshTokenCookieName, token, maxAge, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
}

// clearRefreshTokenCookie expires the refresh cookie immediately.
func (h *AuthHandler) clearRefreshTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cfg.RefreshTokenCookieName, "", -1, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
}

// Login godoc
// @Summary User login
// @Description Authenticates a user and returns an access token plus a rotating refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse}
// @Failure 400 {object} dto.APIResponse "Invalid request body"
// @Failure 401 {object} dto.APIResponse "Invalid username or password"
// @Failure 429 {object} dto.APIResponse "Too many login attempts"
// @Failure 500 {object} dto.APIResponse "Failed to log in"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Invalid username or password"))
			return
		}
		logger.Error("Login failed unexpectedly", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Failed to log in"))
		return
	}

	resp, err := h.issueTokenPair(c, user)
	if err != nil {
		logger.Error("Failed to issue token pair", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Failed to generate tokens"))
		return
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.SuccessResponse(resp))
}

// Register godoc
// @Summary Register new user
// @Description Creates a local user account. Self-registered users start with the analyst role.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 409 {object} dto.APIResponse "Username already taken"
// @Failure 500 {object} dto.APIResponse "Failed to register user"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), dto.CreateUserRequest{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Role:     domain.RoleAnalyst,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToUserResponse(user)))
}

// Refresh godoc
// @Summary Refresh the token pair
// @Description Exchanges a valid refresh token for a new access and refresh token pair. The old refresh token is invalidated.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "User ID and refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.RefreshTokenResponse}
// @Failure 400 {object} dto.APIResponse "Invalid request body"
// @Failure 401 {object} dto.APIResponse "Invalid or expired refresh token"
// @Failure 500 {object} dto.APIResponse "Failed to refresh tokens"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrRefreshTokenExpired) {
			h.clearRefreshTokenCookie(c)
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Refresh token expired, please log in again"))
			return
		}
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Invalid refresh token"))
			return
		}
		logger.Error("Refresh token validation failed unexpectedly", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Failed to refresh tokens"))
		return
	}

	resp, err := h.issueTokenPair(c, user)
	if err != nil {
		logger.Error("Failed to rotate token pair", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Failed to refresh tokens"))
		return
	}

	logger.Info("Token pair rotated", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.SuccessResponse(dto.RefreshTokenResponse{
		Token:        resp.Token,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    resp.ExpiresAt,
	}))
}

// Logout godoc
// @Summary Log out
// @Description Clears the caller's stored refresh token and expires the refresh cookie. The access token stays valid until its natural expiry.
// @Tags auth
// @Produce json
// @Success 204 "No Content"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Failed to log out"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	if err := h.userService.ClearRefreshToken(c.Request.Context(), userID); err != nil {
		logger.Error("Failed to clear refresh token", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Failed to log out"))
		return
	}

	h.clearRefreshTokenCookie(c)

	logger.Info("User logged out", slog.String("user_id", userID))
	c.Status(http.StatusNoContent)
}
