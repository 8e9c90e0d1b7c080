package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/openbookkeeper/ledger/internal/core/ports/repositories"
)

// RepositoryContainer bundles all pgsql repositories over one pool.
type RepositoryContainer struct {
	Account   portsrepo.AccountRepositoryWithTx
	Journal   portsrepo.JournalRepositoryWithTx
	Reporting portsrepo.ReportingRepository
}

// NewRepositoryContainer wires the pgsql repositories.
func NewRepositoryContainer(pool *pgxpool.Pool) *RepositoryContainer {
	return &RepositoryContainer{
		Account:   newPgxAccountRepository(pool),
		Journal:   newPgxJournalRepository(pool),
		Reporting: newReportingRepository(pool),
	}
}
