package dto

import "time"

// BalanceParams narrows a balance computation to an optional business-time
// range and optional equality filters on entry metadata.
type BalanceParams struct {
	From *time.Time
	To   *time.Time
	Meta map[string]string
}

// LedgerParams holds the range and page for an account ledger query.
type LedgerParams struct {
	From     *time.Time
	To       *time.Time
	Page     int // 1-based
	PageSize int
}

// RangeParams is an optional business-time range for statement queries.
type RangeParams struct {
	From *time.Time
	To   *time.Time
}
