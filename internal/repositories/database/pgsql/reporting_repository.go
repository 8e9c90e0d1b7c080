package pgsql

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openbookkeeper/ledger/internal/apperrors"
	"github.com/openbookkeeper/ledger/internal/core/domain"
	portsrepo "github.com/openbookkeeper/ledger/internal/core/ports/repositories"
)

// reportingRepository implements the aggregation scans behind balances and
// statements. Voided entries are excluded at the query level.
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository.
func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// entryConditions builds the shared WHERE clause for entry scans.
func entryConditions(filter domain.EntryFilter) (string, []any, error) {
	where := " WHERE e.voided = FALSE"
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		where += " AND " + cond + "$" + strconv.Itoa(len(args))
	}
	if filter.AccountKey != "" {
		add("e.account_key = ", filter.AccountKey)
	}
	if filter.From != nil {
		add("e.entry_date >= ", *filter.From)
	}
	if filter.To != nil {
		add("e.entry_date <= ", *filter.To)
	}
	if len(filter.Meta) > 0 {
		metaJSON, err := json.Marshal(filter.Meta)
		if err != nil {
			return "", nil, fmt.Errorf("%w: failed to encode meta filter: %w", apperrors.ErrValidation, err)
		}
		args = append(args, string(metaJSON))
		where += " AND e.meta @> $" + strconv.Itoa(len(args)) + "::jsonb"
	}
	return where, args, nil
}

// SumEntries returns raw debit/credit totals over non-voided entries
// matching the filter, computed by the storage layer in one aggregation.
func (r *reportingRepository) SumEntries(ctx context.Context, filter domain.EntryFilter) (decimal.Decimal, decimal.Decimal, error) {
	where, args, err := entryConditions(filter)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	query := `
		SELECT COALESCE(SUM(e.debit), 0), COALESCE(SUM(e.credit), 0)
		FROM entries e` + where + `;`

	var debit, credit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: failed to sum entries: %w", apperrors.ErrStorage, err)
	}
	return debit, credit, nil
}

// ListAccountEntries returns a time-ordered page of non-voided entries with
// the insertion-order sequence as tie-break, plus the total matching count.
func (r *reportingRepository) ListAccountEntries(ctx context.Context, filter domain.EntryFilter, limit, offset int) ([]domain.Entry, int64, error) {
	where, args, err := entryConditions(filter)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM entries e`+where+`;`, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: failed to count ledger entries: %w", apperrors.ErrStorage, err)
	}

	pageArgs := append(args, limit, offset)
	query := `SELECT ` + entryColumns + ` FROM entries e` + where + `
		ORDER BY e.entry_date ASC, e.seq ASC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2) + `;`

	rows, err := r.Pool.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to list ledger entries: %w", apperrors.ErrStorage, err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: failed to scan ledger entry: %w", apperrors.ErrStorage, err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: failed to iterate ledger entries: %w", apperrors.ErrStorage, err)
	}
	return entries, total, nil
}

// TrialBalanceRows groups non-voided entries in range by account, ordered by
// the numeric value of the account code (codes are validated numeric
// strings, so the cast is safe).
func (r *reportingRepository) TrialBalanceRows(ctx context.Context, from, to *time.Time) ([]domain.TrialBalanceRow, error) {
	where, args, err := entryConditions(domain.EntryFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	query := `
		SELECT a.account_key, a.code, a.name, a.account_type, a.parent_group,
			COALESCE(SUM(e.debit), 0) AS total_debit,
			COALESCE(SUM(e.credit), 0) AS total_credit
		FROM entries e
		JOIN accounts a ON e.account_key = a.account_key` + where + `
		GROUP BY a.account_key, a.code, a.name, a.account_type, a.parent_group
		ORDER BY a.code::numeric ASC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query trial balance: %w", apperrors.ErrStorage, err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(
			&row.AccountKey,
			&row.AccountCode,
			&row.AccountName,
			&row.AccountType,
			&row.ParentGroup,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("%w: failed to scan trial balance row: %w", apperrors.ErrStorage, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate trial balance rows: %w", apperrors.ErrStorage, err)
	}
	return result, nil
}

// SumByParentGroup returns raw debit/credit totals per parent group over
// non-voided entries in range, restricted to the given groups.
func (r *reportingRepository) SumByParentGroup(ctx context.Context, groups []domain.ParentGroup, from, to *time.Time, meta map[string]string) (map[domain.ParentGroup]domain.GroupSum, error) {
	where, args, err := entryConditions(domain.EntryFilter{From: from, To: to, Meta: meta})
	if err != nil {
		return nil, err
	}

	groupNames := make([]string, len(groups))
	for i, g := range groups {
		groupNames[i] = string(g)
	}
	args = append(args, groupNames)
	where += " AND a.parent_group = ANY($" + strconv.Itoa(len(args)) + ")"

	query := `
		SELECT a.parent_group,
			COALESCE(SUM(e.debit), 0) AS total_debit,
			COALESCE(SUM(e.credit), 0) AS total_credit
		FROM entries e
		JOIN accounts a ON e.account_key = a.account_key` + where + `
		GROUP BY a.parent_group;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to sum by parent group: %w", apperrors.ErrStorage, err)
	}
	defer rows.Close()

	result := make(map[domain.ParentGroup]domain.GroupSum, len(groups))
	for rows.Next() {
		var group domain.ParentGroup
		var sum domain.GroupSum
		if err := rows.Scan(&group, &sum.Debit, &sum.Credit); err != nil {
			return nil, fmt.Errorf("%w: failed to scan group sum: %w", apperrors.ErrStorage, err)
		}
		result[group] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate group sums: %w", apperrors.ErrStorage, err)
	}
	return result, nil
}
