package domain

import "time"

// Journal represents a single, balanced financial event composed of at
// least two entries. Once voided it is immutable.
type Journal struct {
	JournalID     string    `json:"journalID"`     // Primary Key (UUID)
	Memo          string    `json:"memo"`          // Required description
	JournalDate   time.Time `json:"journalDate"`   // Business-effective time, independent of write time
	ReferenceType string    `json:"referenceType"` // Optional link to an external business object
	ReferenceID   string    `json:"referenceID"`   // Paired with ReferenceType
	Voided        bool      `json:"voided"`        // Monotonic false -> true
	VoidReason    string    `json:"voidReason"`    // Set on void
	Entries       []Entry   `json:"entries,omitempty"`
	AuditFields
}

// VoidFilter selects journals for bulk voiding, either by journal ID or by
// the (referenceType, referenceID) pair. Exactly one selector is used.
type VoidFilter struct {
	JournalID     string
	ReferenceType string
	ReferenceID   string
}

// VoidSummary reports the effect of a bulk void. Voiding zero matches is
// not an error.
type VoidSummary struct {
	JournalsVoided int64 `json:"journalsVoided"`
	EntriesVoided  int64 `json:"entriesVoided"`
}
