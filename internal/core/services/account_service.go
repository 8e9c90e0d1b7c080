package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/openbookkeeper/ledger/internal/apperrors"
	"github.com/openbookkeeper/ledger/internal/core/domain"
	portsrepo "github.com/openbookkeeper/ledger/internal/core/ports/repositories"
	portssvc "github.com/openbookkeeper/ledger/internal/core/ports/services"
	"github.com/openbookkeeper/ledger/internal/dto"
	"github.com/openbookkeeper/ledger/internal/middleware"
	"github.com/openbookkeeper/ledger/internal/utils/accounting"
	"github.com/openbookkeeper/ledger/internal/utils/hierarchy"
)

// Account-rule sentinels wrap apperrors.ErrValidation so handlers can
// classify them uniformly while callers still match the specific rule.
var (
	ErrCircularParent = fmt.Errorf("%w: parent assignment would create a cycle", apperrors.ErrValidation)
	ErrInvalidPairing = fmt.Errorf("%w: account type is not consistent with parent group", apperrors.ErrValidation)
	ErrCodeNotNumeric = fmt.Errorf("%w: account code must be a numeric string", apperrors.ErrValidation)
)

// maxAncestorHops caps the on-write ancestor walk as a safety bound against
// corrupt data. The walk stops silently at the cap; the uncapped integrity
// check lives in ValidateHierarchy.
const maxAncestorHops = 100

var numericCode = regexp.MustCompile(`^[0-9]+$`)

// accountService manages the chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountService {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountService = (*accountService)(nil)

// validateNewAccount checks the shape rules shared by CreateAccount and
// EnsureAccounts.
func (s *accountService) validateNewAccount(req dto.CreateAccountRequest) error {
	if req.AccountKey == "" || req.Code == "" || req.Name == "" || req.AccountType == "" || req.ParentGroup == "" {
		return fmt.Errorf("%w: accountKey, code, name, accountType and parentGroup are required", apperrors.ErrValidation)
	}
	if !numericCode.MatchString(req.Code) {
		return fmt.Errorf("%w: %q", ErrCodeNotNumeric, req.Code)
	}
	if !accounting.IsValidPairing(req.AccountType, req.ParentGroup) {
		return fmt.Errorf("%w: type %s with group %s", ErrInvalidPairing, req.AccountType, req.ParentGroup)
	}
	return nil
}

// CreateAccount validates and persists a new active account.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.validateNewAccount(req); err != nil {
		return nil, err
	}

	if req.ParentAccountKey != "" {
		if _, err := s.accountRepo.FindAccountByKey(ctx, req.ParentAccountKey); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrAccountNotFound, req.ParentAccountKey)
			}
			return nil, fmt.Errorf("failed to resolve parent account: %w", err)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountKey:       req.AccountKey,
		Code:             req.Code,
		Name:             req.Name,
		AccountType:      req.AccountType,
		ParentGroup:      req.ParentGroup,
		ParentAccountKey: req.ParentAccountKey,
		IsActive:         true,
		Extra:            req.Extra,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("account_key", req.AccountKey), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_key", account.AccountKey), slog.String("code", account.Code))
	return &account, nil
}

// UpdateAccount applies a partial update of name/group/active/parent/extra.
func (s *accountService) UpdateAccount(ctx context.Context, accountKey string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByKey(ctx, accountKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountKey)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountKey, err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", apperrors.ErrValidation)
		}
		account.Name = *req.Name
	}
	if req.ParentGroup != nil {
		if !accounting.IsValidPairing(account.AccountType, *req.ParentGroup) {
			return nil, fmt.Errorf("%w: type %s with group %s", ErrInvalidPairing, account.AccountType, *req.ParentGroup)
		}
		account.ParentGroup = *req.ParentGroup
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	if req.Extra != nil {
		account.Extra = req.Extra
	}
	if req.ParentAccountKey != nil && *req.ParentAccountKey != account.ParentAccountKey {
		if *req.ParentAccountKey != "" {
			if err := s.validateNoCycle(ctx, accountKey, *req.ParentAccountKey); err != nil {
				return nil, err
			}
		}
		account.ParentAccountKey = *req.ParentAccountKey
	}

	account.LastUpdatedAt = time.Now().UTC()

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("account_key", accountKey), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Account updated", slog.String("account_key", accountKey))
	return account, nil
}

// validateNoCycle rejects a parent assignment that would make the account
// its own ancestor. The walk starts at the proposed parent's own parent: if
// the chain reaches the account, the assignment closes a cycle. A repeated
// node means a pre-existing cycle elsewhere; the walk stops without
// propagating that error. The hop cap bounds the walk over corrupt data.
func (s *accountService) validateNoCycle(ctx context.Context, accountKey, parentKey string) error {
	if parentKey == accountKey {
		return fmt.Errorf("%w: account %s cannot be its own parent", ErrCircularParent, accountKey)
	}

	parent, err := s.accountRepo.FindAccountByKey(ctx, parentKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: parent account %s", apperrors.ErrAccountNotFound, parentKey)
		}
		return fmt.Errorf("failed to resolve parent account %s: %w", parentKey, err)
	}

	visited := map[string]bool{parentKey: true}
	current := parent.ParentAccountKey
	for hops := 0; hops < maxAncestorHops && current != ""; hops++ {
		if current == accountKey {
			return fmt.Errorf("%w: %s is an ancestor of %s", ErrCircularParent, accountKey, parentKey)
		}
		if visited[current] {
			return nil
		}
		visited[current] = true

		ancestor, err := s.accountRepo.FindAccountByKey(ctx, current)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil // dangling reference terminates the chain
			}
			return fmt.Errorf("failed to walk ancestor chain at %s: %w", current, err)
		}
		current = ancestor.ParentAccountKey
	}
	return nil
}

// DeactivateAccount gates the account against new postings.
func (s *accountService) DeactivateAccount(ctx context.Context, accountKey string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByKey(ctx, accountKey); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountKey)
		}
		return fmt.Errorf("failed to find account %s: %w", accountKey, err)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountKey, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("account_key", accountKey), slog.String("error", err.Error()))
		return err
	}

	logger.Info("Account deactivated", slog.String("account_key", accountKey))
	return nil
}

// GetAccountByKey retrieves an account by business key.
func (s *accountService) GetAccountByKey(ctx context.Context, accountKey string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByKey(ctx, accountKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountKey)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountKey, err)
	}
	return account, nil
}

// GetAccountByCode retrieves an account by its numeric-string code.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: code %s", apperrors.ErrAccountNotFound, code)
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return account, nil
}

// GetAccountsByKeys batch-resolves accounts. Missing keys are absent from
// the map; callers decide whether absence is an error.
func (s *accountService) GetAccountsByKeys(ctx context.Context, accountKeys []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByKeys(ctx, accountKeys)
}

// ListAccounts retrieves a filtered, paginated account listing.
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	filter := domain.AccountFilter{
		AccountType: params.AccountType,
		ParentGroup: params.ParentGroup,
		IsActive:    params.IsActive,
	}
	accounts, total, err := s.accountRepo.ListAccounts(ctx, filter, limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return &dto.ListAccountsResponse{
		Accounts: dto.ToAccountResponses(accounts),
		Total:    total,
	}, nil
}

// GetAccountHierarchy returns the chart of accounts as a forest, children
// sorted by code.
func (s *accountService) GetAccountHierarchy(ctx context.Context) ([]*domain.AccountNode, error) {
	accounts, err := s.accountRepo.ListAllAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load account snapshot: %w", err)
	}
	return hierarchy.BuildForest(accounts), nil
}

// ValidateHierarchy runs the uncapped forest integrity diagnostic.
func (s *accountService) ValidateHierarchy(ctx context.Context) error {
	accounts, err := s.accountRepo.ListAllAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load account snapshot: %w", err)
	}
	return hierarchy.Validate(accounts)
}

// EnsureAccounts idempotently inserts the accounts that are absent and
// returns the resulting records, in request order.
func (s *accountService) EnsureAccounts(ctx context.Context, reqs []dto.CreateAccountRequest) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	accounts := make([]domain.Account, len(reqs))
	for i, req := range reqs {
		if err := s.validateNewAccount(req); err != nil {
			return nil, err
		}
		accounts[i] = domain.Account{
			AccountKey:       req.AccountKey,
			Code:             req.Code,
			Name:             req.Name,
			AccountType:      req.AccountType,
			ParentGroup:      req.ParentGroup,
			ParentAccountKey: req.ParentAccountKey,
			IsActive:         true,
			Extra:            req.Extra,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
	}

	result, err := s.accountRepo.EnsureAccounts(ctx, accounts)
	if err != nil {
		logger.Error("Failed to ensure accounts", slog.Int("count", len(accounts)), slog.String("error", err.Error()))
		return nil, err
	}
	return result, nil
}
