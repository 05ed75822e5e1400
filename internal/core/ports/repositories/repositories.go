package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UserRepo          UserRepositoryFacade
	ClientRepo        ClientRepositoryFacade
	VendorRepo        VendorRepositoryFacade
	VendorServiceRepo VendorServiceRepositoryFacade
	OrderRepo         OrderRepositoryWithTx
	ExpenseRepo       OrderExpenseRepositoryFacade
	TemplateRepo      ExpenseTemplateRepositoryFacade
	OperationRepo     OperationRepositoryFacade
	AccountRepo       AccountRepositoryFacade
	TransactionRepo   FinTransactionRepositoryFacade
	InventoryRepo     InventoryRepositoryFacade
	ReportingRepo     ReportingRepository
}
