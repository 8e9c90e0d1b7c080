package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openbookkeeper/ledger/internal/core/domain"
	portssvc "github.com/openbookkeeper/ledger/internal/core/ports/services"
	"github.com/openbookkeeper/ledger/internal/dto"
	"github.com/openbookkeeper/ledger/internal/middleware"
	"github.com/openbookkeeper/ledger/internal/utils/accounting"
)

// OpeningBalanceReference tags opening-balance journals so a reseed can find
// and void the previous issue. The reference ID is the target account key.
const OpeningBalanceReference = "OPENING_BALANCE"

// The system offset account is lazily created with a fixed identity. The
// uniqueness constraint at the storage layer arbitrates racing creators.
const (
	openingEquityKey  = "OBE"
	openingEquityCode = "3900"
	openingEquityName = "Opening Balance Equity"
)

// openingBalanceService composes the account manager and the posting engine
// to seed initial balances.
type openingBalanceService struct {
	accountSvc portssvc.AccountService
	journalSvc portssvc.JournalService
}

// NewOpeningBalanceService creates a new OpeningBalanceService.
func NewOpeningBalanceService(accountSvc portssvc.AccountService, journalSvc portssvc.JournalService) portssvc.OpeningBalanceService {
	return &openingBalanceService{
		accountSvc: accountSvc,
		journalSvc: journalSvc,
	}
}

var _ portssvc.OpeningBalanceService = (*openingBalanceService)(nil)

// ApplyOpeningBalance voids any prior opening journal for the account, then
// posts a fresh 2-line balanced journal against the system equity offset
// account. The split follows the signed amount and each account's
// normal-balance polarity. A zero amount leaves only the void in place and
// returns nil.
func (s *openingBalanceService) ApplyOpeningBalance(ctx context.Context, accountKey string, req dto.ApplyOpeningBalanceRequest) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountSvc.GetAccountByKey(ctx, accountKey)
	if err != nil {
		return nil, err
	}

	// Idempotent reseed: retire the previous opening journal first.
	summary, err := s.journalSvc.VoidJournalsByIdentifier(ctx, dto.VoidJournalsRequest{
		ReferenceType: OpeningBalanceReference,
		ReferenceID:   accountKey,
		Reason:        "opening balance reissued",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to void prior opening balance for %s: %w", accountKey, err)
	}
	if summary.JournalsVoided > 0 {
		logger.Info("Prior opening balance voided",
			slog.String("account_key", accountKey),
			slog.Int64("journals_voided", summary.JournalsVoided),
		)
	}

	amount := accounting.Round(req.Amount)
	if amount.IsZero() {
		return nil, nil
	}

	offset, err := s.ensureOpeningEquityAccount(ctx)
	if err != nil {
		return nil, err
	}

	magnitude := amount.Abs()
	targetDebit := accounting.IsDebitNormal(*account) == amount.IsPositive()

	targetLine := dto.EntryLineRequest{AccountKey: account.AccountKey}
	offsetLine := dto.EntryLineRequest{AccountKey: offset.AccountKey}
	if targetDebit {
		targetLine.Debit = magnitude
		offsetLine.Credit = magnitude
	} else {
		targetLine.Credit = magnitude
		offsetLine.Debit = magnitude
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}
	memo := req.Memo
	if memo == "" {
		memo = fmt.Sprintf("Opening balance for %s", account.Name)
	}

	journal, err := s.journalSvc.CreateJournal(ctx, dto.CreateJournalRequest{
		Memo:          memo,
		Date:          date,
		ReferenceType: OpeningBalanceReference,
		ReferenceID:   accountKey,
		Lines:         []dto.EntryLineRequest{targetLine, offsetLine},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to post opening balance for %s: %w", accountKey, err)
	}

	logger.Info("Opening balance applied",
		slog.String("account_key", accountKey),
		slog.String("amount", amount.String()),
		slog.String("journal_id", journal.JournalID),
	)
	return journal, nil
}

// ensureOpeningEquityAccount resolves the system offset account, creating it
// if absent. EnsureAccounts relies on the unique key constraint, so racing
// processes converge on a single record.
func (s *openingBalanceService) ensureOpeningEquityAccount(ctx context.Context) (*domain.Account, error) {
	accounts, err := s.accountSvc.EnsureAccounts(ctx, []dto.CreateAccountRequest{{
		AccountKey:  openingEquityKey,
		Code:        openingEquityCode,
		Name:        openingEquityName,
		AccountType: domain.Equity,
		ParentGroup: domain.GroupEquity,
		Extra:       map[string]any{"system": true},
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure opening balance equity account: %w", err)
	}
	if len(accounts) != 1 {
		return nil, fmt.Errorf("unexpected ensure result for opening balance equity account")
	}
	return &accounts[0], nil
}
