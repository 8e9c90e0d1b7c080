package repositories

import (
	"context"
	"time"

	"github.com/openbookkeeper/ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines the aggregation scans behind balances and
// financial statements. Every operation excludes voided entries.
type ReportingRepository interface {
	// SumEntries returns the raw debit and credit totals over non-voided
	// entries matching the filter.
	SumEntries(ctx context.Context, filter domain.EntryFilter) (debit, credit decimal.Decimal, err error)

	// ListAccountEntries returns a time-ordered (insertion-order tie-break)
	// page of non-voided entries for one account, plus the total matching
	// count for pagination.
	ListAccountEntries(ctx context.Context, filter domain.EntryFilter, limit, offset int) ([]domain.Entry, int64, error)

	// TrialBalanceRows groups non-voided entries in range by account and
	// returns per-account debit/credit totals with account metadata,
	// ordered by numeric account code ascending.
	TrialBalanceRows(ctx context.Context, from, to *time.Time) ([]domain.TrialBalanceRow, error)

	// SumByParentGroup returns raw debit/credit totals per parent group over
	// non-voided entries in range, restricted to the given groups.
	SumByParentGroup(ctx context.Context, groups []domain.ParentGroup, from, to *time.Time, meta map[string]string) (map[domain.ParentGroup]domain.GroupSum, error)
}
