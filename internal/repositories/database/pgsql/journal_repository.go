package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbookkeeper/ledger/internal/apperrors"
	"github.com/openbookkeeper/ledger/internal/core/domain"
	portsrepo "github.com/openbookkeeper/ledger/internal/core/ports/repositories"
)

// PgxJournalRepository persists journals and their entries.
type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

const journalColumns = `journal_id, memo, journal_date, reference_type, reference_id, voided, void_reason, created_at, last_updated_at`

const entryColumns = `entry_id, seq, journal_id, account_key, account_code, debit, credit, entry_date, voided, meta, created_at, last_updated_at`

func scanJournal(row pgx.Row) (*domain.Journal, error) {
	var j domain.Journal
	var refType, refID, voidReason sql.NullString
	err := row.Scan(
		&j.JournalID,
		&j.Memo,
		&j.JournalDate,
		&refType,
		&refID,
		&j.Voided,
		&voidReason,
		&j.CreatedAt,
		&j.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	j.ReferenceType = refType.String
	j.ReferenceID = refID.String
	j.VoidReason = voidReason.String
	return &j, nil
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var e domain.Entry
	err := row.Scan(
		&e.EntryID,
		&e.Seq,
		&e.JournalID,
		&e.AccountKey,
		&e.AccountCode,
		&e.Debit,
		&e.Credit,
		&e.EntryDate,
		&e.Voided,
		&e.Meta,
		&e.CreatedAt,
		&e.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// SaveJournal persists one journal and its entries inside a single database
// transaction. Either everything lands or nothing does; a journal without
// entries is never observable.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, entries []domain.Entry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	journalQuery := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, journalQuery,
		journal.JournalID,
		journal.Memo,
		journal.JournalDate,
		nullString(journal.ReferenceType),
		nullString(journal.ReferenceID),
		journal.Voided,
		nullString(journal.VoidReason),
		journal.CreatedAt,
		journal.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to insert journal %s: %w", apperrors.ErrStorage, journal.JournalID, err)
	}

	entryQuery := `
		INSERT INTO entries (entry_id, journal_id, account_key, account_code, debit, credit, entry_date, voided, meta, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(entryQuery,
			e.EntryID,
			e.JournalID,
			e.AccountKey,
			e.AccountCode,
			e.Debit,
			e.Credit,
			e.EntryDate,
			e.Voided,
			e.Meta,
			e.CreatedAt,
			e.LastUpdatedAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%w: failed to insert entries for journal %s: %w", apperrors.ErrStorage, journal.JournalID, err)
	}

	return r.Commit(ctx, tx)
}

// FindJournalByID retrieves a journal header.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`
	j, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, journalID)
		}
		return nil, fmt.Errorf("%w: failed to find journal %s: %w", apperrors.ErrStorage, journalID, err)
	}
	return j, nil
}

// FindEntriesByJournalID retrieves a journal's entries in insertion order.
func (r *PgxJournalRepository) FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE journal_id = $1 ORDER BY seq ASC;`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query entries for journal %s: %w", apperrors.ErrStorage, journalID, err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan entry row: %w", apperrors.ErrStorage, err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate entry rows: %w", apperrors.ErrStorage, err)
	}
	return entries, nil
}

// ListJournals retrieves a page of journals ordered by business time
// descending, plus the total matching count.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, includeVoided bool, limit, offset int) ([]domain.Journal, int64, error) {
	where := ""
	if !includeVoided {
		where = " WHERE voided = FALSE"
	}

	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM journals`+where+`;`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: failed to count journals: %w", apperrors.ErrStorage, err)
	}

	query := `SELECT ` + journalColumns + ` FROM journals` + where + `
		ORDER BY journal_date DESC, created_at DESC LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to list journals: %w", apperrors.ErrStorage, err)
	}
	defer rows.Close()

	var journals []domain.Journal
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: failed to scan journal row: %w", apperrors.ErrStorage, err)
		}
		journals = append(journals, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: failed to iterate journal rows: %w", apperrors.ErrStorage, err)
	}
	return journals, total, nil
}

// VoidJournal conditionally flips a journal to voided and cascades to its
// entries. The voided=false predicate is part of the update itself, so of
// two racing voiders only one observes the un-voided row.
func (r *PgxJournalRepository) VoidJournal(ctx context.Context, journalID, reason string, now time.Time) (bool, int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return false, 0, err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE journals SET voided = TRUE, void_reason = $2, last_updated_at = $3
		WHERE journal_id = $1 AND voided = FALSE;
	`, journalID, reason, now)
	if err != nil {
		return false, 0, fmt.Errorf("%w: failed to void journal %s: %w", apperrors.ErrStorage, journalID, err)
	}
	if tag.RowsAffected() == 0 {
		return false, 0, nil
	}

	entriesTag, err := tx.Exec(ctx, `
		UPDATE entries SET voided = TRUE, last_updated_at = $2
		WHERE journal_id = $1 AND voided = FALSE;
	`, journalID, now)
	if err != nil {
		return false, 0, fmt.Errorf("%w: failed to cascade void to entries of %s: %w", apperrors.ErrStorage, journalID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return false, 0, err
	}
	return true, entriesTag.RowsAffected(), nil
}

// VoidJournalsByFilter bulk-voids all un-voided journals matching the filter
// and cascades to their entries within one transaction.
func (r *PgxJournalRepository) VoidJournalsByFilter(ctx context.Context, filter domain.VoidFilter, reason string, now time.Time) (domain.VoidSummary, error) {
	var summary domain.VoidSummary

	tx, err := r.Begin(ctx)
	if err != nil {
		return summary, err
	}
	defer r.Rollback(ctx, tx)

	var query string
	var args []any
	if filter.JournalID != "" {
		query = `
			UPDATE journals SET voided = TRUE, void_reason = $2, last_updated_at = $3
			WHERE journal_id = $1 AND voided = FALSE
			RETURNING journal_id;
		`
		args = []any{filter.JournalID, reason, now}
	} else {
		query = `
			UPDATE journals SET voided = TRUE, void_reason = $3, last_updated_at = $4
			WHERE reference_type = $1 AND reference_id = $2 AND voided = FALSE
			RETURNING journal_id;
		`
		args = []any{filter.ReferenceType, filter.ReferenceID, reason, now}
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return summary, fmt.Errorf("%w: failed to bulk void journals: %w", apperrors.ErrStorage, err)
	}
	var voidedIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return summary, fmt.Errorf("%w: failed to scan voided journal id: %w", apperrors.ErrStorage, err)
		}
		voidedIDs = append(voidedIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return summary, fmt.Errorf("%w: failed to iterate voided journal ids: %w", apperrors.ErrStorage, err)
	}

	if len(voidedIDs) > 0 {
		tag, err := tx.Exec(ctx, `
			UPDATE entries SET voided = TRUE, last_updated_at = $2
			WHERE journal_id = ANY($1) AND voided = FALSE;
		`, voidedIDs, now)
		if err != nil {
			return summary, fmt.Errorf("%w: failed to cascade bulk void to entries: %w", apperrors.ErrStorage, err)
		}
		summary.EntriesVoided = tag.RowsAffected()
	}
	summary.JournalsVoided = int64(len(voidedIDs))

	if err := r.Commit(ctx, tx); err != nil {
		return domain.VoidSummary{}, err
	}
	return summary, nil
}
