package services

import (
	"context"

	"github.com/openbookkeeper/ledger/internal/core/domain"
	"github.com/openbookkeeper/ledger/internal/dto"
)

// AccountService manages the chart of accounts and its hierarchy.
type AccountService interface {
	// CreateAccount validates shape, code format, type/group pairing and
	// parent existence, then persists a new active account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount applies a partial update. Parent reassignment triggers
	// ancestor-chain cycle validation.
	UpdateAccount(ctx context.Context, accountKey string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeactivateAccount gates the account against new postings.
	DeactivateAccount(ctx context.Context, accountKey string) error

	// GetAccountByKey retrieves an account by its business key.
	GetAccountByKey(ctx context.Context, accountKey string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its numeric-string code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// GetAccountsByKeys batch-resolves accounts by key.
	GetAccountsByKeys(ctx context.Context, accountKeys []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a filtered, paginated account listing.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error)

	// GetAccountHierarchy returns the chart of accounts as a forest.
	GetAccountHierarchy(ctx context.Context) ([]*domain.AccountNode, error)

	// ValidateHierarchy is a read-only integrity diagnostic over a full
	// account snapshot; it fails loudly on any cycle.
	ValidateHierarchy(ctx context.Context) error

	// EnsureAccounts idempotently inserts accounts that are absent.
	EnsureAccounts(ctx context.Context, reqs []dto.CreateAccountRequest) ([]domain.Account, error)
}
