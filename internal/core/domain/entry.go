package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one debit or credit line within a journal, against exactly one
// account. Exactly one of Debit/Credit is positive; the other is zero.
// AccountCode and EntryDate are denormalized from the account and journal at
// write time so reports can range-scan entries without joins.
type Entry struct {
	EntryID     string            `json:"entryID"`   // Primary Key (UUID)
	Seq         int64             `json:"seq"`       // Insertion order, assigned by storage
	JournalID   string            `json:"journalID"` // FK -> Journal
	AccountKey  string            `json:"accountKey"`
	AccountCode string            `json:"accountCode"`
	Debit       decimal.Decimal   `json:"debit"`
	Credit      decimal.Decimal   `json:"credit"`
	EntryDate   time.Time         `json:"entryDate"` // Mirrors the journal's business time
	Voided      bool              `json:"voided"`    // Mirrors the parent journal's void state
	Meta        map[string]string `json:"meta,omitempty"`
	AuditFields
}

// EntryFilter narrows entry scans for balances and ledgers. Voided entries
// are always excluded by the aggregator.
type EntryFilter struct {
	AccountKey string
	From       *time.Time // Inclusive business-time lower bound
	To         *time.Time // Inclusive business-time upper bound
	Meta       map[string]string
}
