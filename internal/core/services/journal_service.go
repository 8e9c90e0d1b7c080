package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbookkeeper/ledger/internal/apperrors"
	"github.com/openbookkeeper/ledger/internal/core/domain"
	portsrepo "github.com/openbookkeeper/ledger/internal/core/ports/repositories"
	portssvc "github.com/openbookkeeper/ledger/internal/core/ports/services"
	"github.com/openbookkeeper/ledger/internal/dto"
	"github.com/openbookkeeper/ledger/internal/middleware"
	"github.com/openbookkeeper/ledger/internal/utils/accounting"
)

// Posting-rule sentinels wrap apperrors.ErrValidation so handlers can
// classify them uniformly while callers still match the specific rule.
var (
	ErrJournalMinEntries  = fmt.Errorf("%w: journal must have at least two entry lines", apperrors.ErrValidation)
	ErrMemoMissing        = fmt.Errorf("%w: journal memo is required", apperrors.ErrValidation)
	ErrDateMissing        = fmt.Errorf("%w: journal datetime is required", apperrors.ErrValidation)
	ErrLineBothSides      = fmt.Errorf("%w: entry line cannot carry both a debit and a credit", apperrors.ErrValidation)
	ErrLineNoSides        = fmt.Errorf("%w: entry line must carry a debit or a credit", apperrors.ErrValidation)
	ErrLineNegativeAmount = fmt.Errorf("%w: entry line amounts must not be negative", apperrors.ErrValidation)
	ErrAlreadyVoided      = fmt.Errorf("%w: journal is already voided", apperrors.ErrValidation)
	ErrVoidReasonMissing  = fmt.Errorf("%w: void reason is required", apperrors.ErrValidation)
)

// journalService is the posting/voiding engine.
type journalService struct {
	journalRepo portsrepo.JournalRepository
	accountSvc  portssvc.AccountService
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepository, accountSvc portssvc.AccountService) portssvc.JournalService {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.JournalService = (*journalService)(nil)

// validateLine enforces the debit-xor-credit shape of a single entry line.
func validateLine(line dto.EntryLineRequest) error {
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("%w: account %s", ErrLineNegativeAmount, line.AccountKey)
	}
	debitSet := line.Debit.IsPositive()
	creditSet := line.Credit.IsPositive()
	if debitSet && creditSet {
		return fmt.Errorf("%w: account %s", ErrLineBothSides, line.AccountKey)
	}
	if !debitSet && !creditSet {
		return fmt.Errorf("%w: account %s", ErrLineNoSides, line.AccountKey)
	}
	return nil
}

// CreateJournal validates the double-entry invariants and atomically
// persists one journal with its entries.
func (s *journalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Memo == "" {
		return nil, fmt.Errorf("%w", ErrMemoMissing)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w", ErrDateMissing)
	}
	if len(req.Lines) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrJournalMinEntries, len(req.Lines))
	}
	if (req.ReferenceType == "") != (req.ReferenceID == "") {
		return nil, fmt.Errorf("%w: referenceType and referenceID must be set together", apperrors.ErrValidation)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	accountKeys := make([]string, 0, len(req.Lines))
	for _, line := range req.Lines {
		if err := validateLine(line); err != nil {
			return nil, err
		}
		totalDebit = accounting.Round(totalDebit.Add(line.Debit))
		totalCredit = accounting.Round(totalCredit.Add(line.Credit))
		accountKeys = append(accountKeys, line.AccountKey)
	}

	if !totalDebit.Equal(totalCredit) {
		return nil, fmt.Errorf("%w: debits %s, credits %s",
			apperrors.ErrDoubleEntry, totalDebit.String(), totalCredit.String())
	}

	// Resolve every referenced account in one batch and gate on state.
	uniqueKeys := uniqueStrings(accountKeys)
	accountsMap, err := s.accountSvc.GetAccountsByKeys(ctx, uniqueKeys)
	if err != nil {
		logger.Error("Failed to resolve accounts for posting", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to resolve accounts: %w", err)
	}
	for _, key := range uniqueKeys {
		acc, found := accountsMap[key]
		if !found {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, key)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, key)
		}
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()

	entries := make([]domain.Entry, len(req.Lines))
	for i, line := range req.Lines {
		acc := accountsMap[line.AccountKey]
		entries[i] = domain.Entry{
			EntryID:     uuid.NewString(),
			JournalID:   journalID,
			AccountKey:  line.AccountKey,
			AccountCode: acc.Code, // denormalized for report range scans
			Debit:       accounting.Round(line.Debit),
			Credit:      accounting.Round(line.Credit),
			EntryDate:   req.Date,
			Voided:      false,
			Meta:        line.Meta,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
	}

	journal := domain.Journal{
		JournalID:     journalID,
		Memo:          req.Memo,
		JournalDate:   req.Date,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Voided:        false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.journalRepo.SaveJournal(ctx, journal, entries); err != nil {
		logger.Error("Failed to save journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	logger.Info("Journal posted",
		slog.String("journal_id", journalID),
		slog.Int("entry_count", len(entries)),
		slog.String("total", totalDebit.String()),
	)
	journal.Entries = entries
	return &journal, nil
}

// GetJournalByID retrieves a journal with its entries. An absent ID is a
// normal result, not an error.
func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		logger.Error("Failed to find journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to find journal %s: %w", journalID, err)
	}

	entries, err := s.journalRepo.FindEntriesByJournalID(ctx, journalID)
	if err != nil {
		logger.Error("Failed to fetch entries for journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve entries for journal %s: %w", journalID, err)
	}
	journal.Entries = entries
	return journal, nil
}

// VoidJournal transitions a journal to voided and cascades to its entries.
// The transition is conditional at the storage layer, so two racing voiders
// cannot both succeed.
func (s *journalService) VoidJournal(ctx context.Context, journalID, reason string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if reason == "" {
		return nil, fmt.Errorf("%w", ErrVoidReasonMissing)
	}

	matched, entriesVoided, err := s.journalRepo.VoidJournal(ctx, journalID, reason, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to void journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to void journal %s: %w", journalID, err)
	}
	if !matched {
		// Distinguish missing from already-voided for the caller's message;
		// both are validation failures.
		journal, ferr := s.journalRepo.FindJournalByID(ctx, journalID)
		if ferr != nil {
			if errors.Is(ferr, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: journal %s does not exist", apperrors.ErrValidation, journalID)
			}
			return nil, fmt.Errorf("failed to inspect journal %s: %w", journalID, ferr)
		}
		if journal.Voided {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyVoided, journalID)
		}
		return nil, fmt.Errorf("%w: journal %s could not be voided", apperrors.ErrValidation, journalID)
	}

	logger.Info("Journal voided",
		slog.String("journal_id", journalID),
		slog.Int64("entries_voided", entriesVoided),
	)
	return s.GetJournalByID(ctx, journalID)
}

// VoidJournalsByIdentifier bulk-voids journals by ID or external reference,
// used by idempotent reissue flows. Voiding zero matches is not an error.
func (s *journalService) VoidJournalsByIdentifier(ctx context.Context, req dto.VoidJournalsRequest) (domain.VoidSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Reason == "" {
		return domain.VoidSummary{}, fmt.Errorf("%w", ErrVoidReasonMissing)
	}
	byID := req.JournalID != ""
	byRef := req.ReferenceType != "" && req.ReferenceID != ""
	if byID == byRef {
		return domain.VoidSummary{}, fmt.Errorf("%w: provide either journalID or referenceType and referenceID", apperrors.ErrValidation)
	}

	filter := domain.VoidFilter{
		JournalID:     req.JournalID,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
	}
	summary, err := s.journalRepo.VoidJournalsByFilter(ctx, filter, req.Reason, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to bulk void journals", slog.String("error", err.Error()))
		return domain.VoidSummary{}, fmt.Errorf("failed to void journals: %w", err)
	}

	logger.Info("Journals voided by identifier",
		slog.Int64("journals_voided", summary.JournalsVoided),
		slog.Int64("entries_voided", summary.EntriesVoided),
	)
	return summary, nil
}

// ListJournals retrieves a paginated journal listing.
func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	journals, total, err := s.journalRepo.ListJournals(ctx, params.IncludeVoided, limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}

	responses := make([]dto.JournalResponse, len(journals))
	for i := range journals {
		responses[i] = dto.ToJournalResponse(&journals[i])
	}
	return &dto.ListJournalsResponse{Journals: responses, Total: total}, nil
}

// uniqueStrings returns the distinct values of a slice, preserving first
// occurrence order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
