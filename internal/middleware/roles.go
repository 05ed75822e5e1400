package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
)

// RequireRoles creates a Gin middleware that allows the request through only
// when the authenticated user's role is one of the given roles. It must run
// after AuthMiddleware, which stores the role in the request context.
func RequireRoles(roles ...domain.UserRole) gin.HandlerFunc {
	allowed := make(map[domain.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, ok := GetUserRoleFromContext(c)
		if !ok {
			GetLoggerFromCtx(c.Request.Context()).Warn("Role missing from authenticated request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse("Authentication required"))
			return
		}

		if _, ok := allowed[role]; !ok {
			GetLoggerFromCtx(c.Request.Context()).Warn("Role not permitted for route", "role", string(role))
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse("Insufficient permissions"))
			return
		}

		c.Next()
	}
}
