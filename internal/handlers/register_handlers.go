package handlers

import (
	"github.com/fulfillops/fulfillment_crm_app/cmd/docs"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
	"github.com/fulfillops/fulfillment_crm_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/", getHome)

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Register public authentication routes
	registerAuthRoutes(r, cfg, services)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations.
//
// Three access tiers share the group: every authenticated role can read,
// admins and managers can perform operational writes, and user/account
// administration is admin only.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	manage := v1.Group("", middleware.RequireRoles(domain.RoleAdmin, domain.RoleManager))
	admin := v1.Group("", middleware.RequireRoles(domain.RoleAdmin))

	// Delegate route registration to specific handlers, passing required services
	registerUserRoutes(v1, admin, services.User)
	registerClientRoutes(v1, manage, services.Client)
	registerVendorRoutes(v1, manage, services.Vendor, services.VendorService)
	RegisterOrderRoutes(v1, manage, services.Order)
	registerOrderExpenseRoutes(v1, manage, services.Expense)
	registerOperationRoutes(v1, manage, services.Operation)
	registerExpenseTemplateRoutes(v1, manage, services.Template)
	registerAccountRoutes(v1, admin, services.Account)
	RegisterTransactionRoutes(v1, manage, services.Transaction)
	registerInventoryRoutes(v1, manage, services.Inventory)
	registerReportingRoutes(v1, services.Reporting)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
