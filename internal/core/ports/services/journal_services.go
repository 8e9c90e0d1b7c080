package services

import (
	"context"

	"github.com/openbookkeeper/ledger/internal/core/domain"
	"github.com/openbookkeeper/ledger/internal/dto"
)

// JournalService posts and voids balanced journals.
type JournalService interface {
	// CreateJournal validates the double-entry invariants and atomically
	// persists one journal with its entries, returning both.
	CreateJournal(ctx context.Context, req dto.CreateJournalRequest) (*domain.Journal, error)

	// GetJournalByID retrieves a journal with its entries. An absent ID is a
	// normal result: (nil, nil), not an error.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// VoidJournal transitions a journal to voided and cascades to entries.
	// Fails if the journal does not exist or is already voided.
	VoidJournal(ctx context.Context, journalID, reason string) (*domain.Journal, error)

	// VoidJournalsByIdentifier bulk-voids by journal ID or by external
	// reference, reporting counts. Zero matches is not an error.
	VoidJournalsByIdentifier(ctx context.Context, req dto.VoidJournalsRequest) (domain.VoidSummary, error)

	// ListJournals retrieves a paginated journal listing.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}
