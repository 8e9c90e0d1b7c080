package repositories

import (
	"context"
	"time"

	"github.com/openbookkeeper/ledger/internal/core/domain"
)

// JournalReader defines read operations for journal data.
type JournalReader interface {
	// FindJournalByID retrieves a journal header by its unique identifier.
	// Absence surfaces apperrors.ErrNotFound.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindEntriesByJournalID retrieves all entries of one journal in
	// insertion order.
	FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.Entry, error)

	// ListJournals retrieves a paginated journal list ordered by business
	// time descending, plus the total matching count.
	ListJournals(ctx context.Context, includeVoided bool, limit, offset int) ([]domain.Journal, int64, error)
}

// JournalWriter defines write operations for journal data.
type JournalWriter interface {
	// SaveJournal persists one journal and its entries as a single
	// all-or-nothing write. No partial journal may ever be observable.
	SaveJournal(ctx context.Context, journal domain.Journal, entries []domain.Entry) error

	// VoidJournal conditionally transitions a journal from voided=false to
	// voided=true and cascades the flag to its entries. The condition is
	// part of the same update, so two racing voiders cannot both succeed.
	// Returns whether the journal matched (existed and was un-voided) and
	// how many entries were cascaded.
	VoidJournal(ctx context.Context, journalID, reason string, now time.Time) (bool, int64, error)

	// VoidJournalsByFilter bulk-voids all un-voided journals matching the
	// filter and cascades to their entries. Zero matches is not an error.
	VoidJournalsByFilter(ctx context.Context, filter domain.VoidFilter, reason string, now time.Time) (domain.VoidSummary, error)
}

// JournalRepository combines reads and writes for journals and entries.
type JournalRepository interface {
	JournalReader
	JournalWriter
}

// JournalRepositoryWithTx extends JournalRepository with atomic scope control.
type JournalRepositoryWithTx interface {
	JournalRepository
	TransactionManager
}
