package pgsql

import (
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	clientRepo := newPgxClientRepository(dbPool)
	vendorRepo := newPgxVendorRepository(dbPool)
	vendorServiceRepo := newPgxVendorServiceRepository(dbPool)
	expenseRepo := newPgxOrderExpenseRepository(dbPool)
	orderRepo := newPgxOrderRepository(dbPool)
	templateRepo := newPgxExpenseTemplateRepository(dbPool)
	operationRepo := newPgxOperationRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	transactionRepo := newPgxFinTransactionRepository(dbPool, accountRepo)
	inventoryRepo := newPgxInventoryRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:          userRepo,
		ClientRepo:        clientRepo,
		VendorRepo:        vendorRepo,
		VendorServiceRepo: vendorServiceRepo,
		OrderRepo:         orderRepo,
		ExpenseRepo:       expenseRepo,
		TemplateRepo:      templateRepo,
		OperationRepo:     operationRepo,
		AccountRepo:       accountRepo,
		TransactionRepo:   transactionRepo,
		InventoryRepo:     inventoryRepo,
		ReportingRepo:     reportingRepo,
	}
}
