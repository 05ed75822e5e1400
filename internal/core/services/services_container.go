package services

import (
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Standalone entity services first
	container.User = NewUserService(repos.UserRepo)
	container.Client = NewClientService(repos.ClientRepo)
	container.Vendor = NewVendorService(repos.VendorRepo)
	container.VendorService = NewVendorServiceSvc(repos.VendorServiceRepo, repos.VendorRepo)
	container.Template = NewExpenseTemplateService(repos.TemplateRepo)
	container.Account = NewAccountService(repos.AccountRepo)
	container.Inventory = NewInventoryService(repos.InventoryRepo)

	// Order service owns the recalculation path; expense and operation
	// services trigger it through the facade.
	container.Order = NewOrderService(repos.OrderRepo, repos.ExpenseRepo, repos.ClientRepo)
	container.Expense = NewOrderExpenseService(repos.ExpenseRepo, repos.VendorServiceRepo, repos.TemplateRepo, container.Order)
	container.Operation = NewOperationService(repos.OperationRepo, repos.VendorServiceRepo, container.Order)

	container.Transaction = NewFinTransactionService(repos.TransactionRepo, repos.AccountRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.OrderRepo)

	// Initialize TokenService
	container.TokenService = NewTokenService(cfg, container.User)

	// Initialize GoogleOAuthHandlerSvcFacade
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
