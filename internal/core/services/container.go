package services

import (
	portsrepo "github.com/openbookkeeper/ledger/internal/core/ports/repositories"
	portssvc "github.com/openbookkeeper/ledger/internal/core/ports/services"
)

// Repositories bundles the storage collaborators the core needs.
type Repositories struct {
	Account   portsrepo.AccountRepository
	Journal   portsrepo.JournalRepository
	Reporting portsrepo.ReportingRepository
}

// NewServiceContainer wires all core services over the given repositories.
func NewServiceContainer(repos Repositories) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.Account)
	journalSvc := NewJournalService(repos.Journal, accountSvc)
	reportingSvc := NewReportingService(repos.Reporting, accountSvc)
	openingSvc := NewOpeningBalanceService(accountSvc, journalSvc)

	return &portssvc.ServiceContainer{
		Account:        accountSvc,
		Journal:        journalSvc,
		Reporting:      reportingSvc,
		OpeningBalance: openingSvc,
	}
}
