package services

import (
	"context"

	"github.com/openbookkeeper/ledger/internal/core/domain"
	"github.com/openbookkeeper/ledger/internal/dto"
)

// OpeningBalanceService seeds initial account positions against the system
// opening-balance equity account.
type OpeningBalanceService interface {
	// ApplyOpeningBalance voids any prior opening journal for the account,
	// then posts a fresh 2-line balanced journal for a non-zero amount.
	// Returns the posted journal, or nil when the amount rounds to zero.
	ApplyOpeningBalance(ctx context.Context, accountKey string, req dto.ApplyOpeningBalanceRequest) (*domain.Journal, error)
}
