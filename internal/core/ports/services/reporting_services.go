package services

import (
	"context"
	"time"

	"github.com/openbookkeeper/ledger/internal/core/domain"
	"github.com/openbookkeeper/ledger/internal/dto"
)

// ReportingService derives balances and financial statements by replaying
// recorded, non-voided entries.
type ReportingService interface {
	// GetAccountBalance sums debit/credit over matching entries and converts
	// the raw sums into the account's signed normal balance.
	GetAccountBalance(ctx context.Context, accountKey string, params dto.BalanceParams) (*domain.AccountBalance, error)

	// GetAccountLedger returns a paginated ledger page: opening balance
	// strictly before the range, time-ordered entries with running balances,
	// and the total matching count.
	GetAccountLedger(ctx context.Context, accountKey string, params dto.LedgerParams) (*domain.AccountLedger, error)

	// GetTrialBalance groups all entries by account and reports per-account
	// signed balances plus grand debit/credit totals.
	GetTrialBalance(ctx context.Context, params dto.RangeParams) (*domain.TrialBalance, error)

	// GetProfitAndLoss nets the income and expense groups over a period.
	GetProfitAndLoss(ctx context.Context, params dto.RangeParams, meta map[string]string) (*domain.ProfitAndLoss, error)

	// GetBalanceSheet nets asset/liability/equity up to asOf, folding net
	// income into equity as calculated retained earnings.
	GetBalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)
}
