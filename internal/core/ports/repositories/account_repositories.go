package repositories

import (
	"context"
	"time"

	"github.com/openbookkeeper/ledger/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByKey retrieves an account by its business key.
	FindAccountByKey(ctx context.Context, accountKey string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its numeric-string code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByKeys retrieves multiple accounts in one batch, keyed by
	// account key. Missing keys are simply absent from the result map.
	FindAccountsByKeys(ctx context.Context, accountKeys []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a filtered, paginated account list plus the
	// total matching count.
	ListAccounts(ctx context.Context, filter domain.AccountFilter, limit, offset int) ([]domain.Account, int64, error)

	// ListAllAccounts retrieves the full chart of accounts, used for the
	// hierarchy view and the forest integrity diagnostic.
	ListAllAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account. Duplicate key or code surfaces
	// apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's mutable fields.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountKey string, now time.Time) error

	// EnsureAccounts inserts each account only if its key is absent, relying
	// on the storage layer's uniqueness constraint so that concurrent
	// creators cannot both insert. Returns the resulting persisted records.
	EnsureAccounts(ctx context.Context, accounts []domain.Account) ([]domain.Account, error)
}

// AccountRepository combines reads and writes for the chart of accounts.
type AccountRepository interface {
	AccountReader
	AccountWriter
}

// AccountRepositoryWithTx extends AccountRepository with atomic scope control.
type AccountRepositoryWithTx interface {
	AccountRepository
	TransactionManager
}
