package services

// ServiceContainer bundles all core services for injection into the host
// application's handlers.
type ServiceContainer struct {
	Account        AccountService
	Journal        JournalService
	Reporting      ReportingService
	OpeningBalance OpeningBalanceService
}
