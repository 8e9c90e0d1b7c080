package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the raw debit/credit sums over matching entries plus the
// signed normal balance derived from the account's polarity.
type AccountBalance struct {
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Balance decimal.Decimal `json:"balance"`
}

// LedgerLine is one entry in an account ledger, annotated with the running
// balance after applying the entry.
type LedgerLine struct {
	Entry          Entry           `json:"entry"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AccountLedger is a paginated, time-ordered view of one account's entries.
// OpeningBalance is the account's balance strictly before the requested
// range; TotalCount is the number of matching entries across all pages.
type AccountLedger struct {
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Lines          []LedgerLine    `json:"lines"`
	TotalCount     int64           `json:"totalCount"`
}

// TrialBalanceRow is one account's net position in a trial balance.
type TrialBalanceRow struct {
	AccountKey  string          `json:"accountKey"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	ParentGroup ParentGroup     `json:"parentGroup"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalance lists every account's net balance over a range. For a
// consistent ledger TotalDebit equals TotalCredit; this is a derived
// invariant check, not a write-time one.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// GroupSum is the raw debit/credit totals for one parent group.
type GroupSum struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// ProfitAndLoss nets income and expense groups over a period.
type ProfitAndLoss struct {
	From         *time.Time      `json:"from,omitempty"`
	To           *time.Time      `json:"to,omitempty"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetProfit    decimal.Decimal `json:"netProfit"`
}

// BalanceSheet nets all entries up to AsOf by parent group. RetainedEarnings
// is net income as of that date folded into equity so that
// Assets == Liabilities + Equity holds by construction.
type BalanceSheet struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           decimal.Decimal `json:"assets"`
	Liabilities      decimal.Decimal `json:"liabilities"`
	Equity           decimal.Decimal `json:"equity"` // Includes RetainedEarnings
	RetainedEarnings decimal.Decimal `json:"retainedEarnings"`
}
