package dto

import (
	"time"

	"github.com/openbookkeeper/ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest is one debit or credit line of a journal request.
// Exactly one of Debit/Credit must be positive; the other must be zero.
type EntryLineRequest struct {
	AccountKey string            `json:"accountKey" binding:"required"`
	Debit      decimal.Decimal   `json:"debit"`
	Credit     decimal.Decimal   `json:"credit"`
	Meta       map[string]string `json:"meta"`
}

// CreateJournalRequest defines the input for posting a journal.
type CreateJournalRequest struct {
	Memo          string             `json:"memo" binding:"required"`
	Date          time.Time          `json:"datetime" binding:"required"`
	ReferenceType string             `json:"referenceType"`
	ReferenceID   string             `json:"referenceID"`
	Lines         []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// VoidJournalRequest carries the reason for voiding a single journal.
type VoidJournalRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// VoidJournalsRequest selects journals for bulk voiding, by journal ID or by
// external reference.
type VoidJournalsRequest struct {
	JournalID     string `json:"journalID"`
	ReferenceType string `json:"referenceType"`
	ReferenceID   string `json:"referenceID"`
	Reason        string `json:"reason" binding:"required"`
}

// ListJournalsParams holds pagination for journal listings.
type ListJournalsParams struct {
	IncludeVoided bool
	Limit         int
	Offset        int
}

// EntryResponse defines the data returned for a single entry.
type EntryResponse struct {
	EntryID     string            `json:"entryID"`
	JournalID   string            `json:"journalID"`
	AccountKey  string            `json:"accountKey"`
	AccountCode string            `json:"accountCode"`
	Debit       decimal.Decimal   `json:"debit"`
	Credit      decimal.Decimal   `json:"credit"`
	EntryDate   time.Time         `json:"entryDate"`
	Voided      bool              `json:"voided"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// JournalResponse defines the data returned for a journal.
type JournalResponse struct {
	JournalID     string          `json:"journalID"`
	Memo          string          `json:"memo"`
	Date          time.Time       `json:"datetime"`
	ReferenceType string          `json:"referenceType,omitempty"`
	ReferenceID   string          `json:"referenceID,omitempty"`
	Voided        bool            `json:"voided"`
	VoidReason    string          `json:"voidReason,omitempty"`
	Entries       []EntryResponse `json:"entries,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListJournalsResponse is a paginated journal listing.
type ListJournalsResponse struct {
	Journals []JournalResponse `json:"journals"`
	Total    int64             `json:"total"`
}

// ToEntryResponse converts a domain.Entry to its response DTO.
func ToEntryResponse(e *domain.Entry) EntryResponse {
	return EntryResponse{
		EntryID:     e.EntryID,
		JournalID:   e.JournalID,
		AccountKey:  e.AccountKey,
		AccountCode: e.AccountCode,
		Debit:       e.Debit,
		Credit:      e.Credit,
		EntryDate:   e.EntryDate,
		Voided:      e.Voided,
		Meta:        e.Meta,
	}
}

// ToJournalResponse converts a domain.Journal (with entries, if loaded) to
// its response DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:     j.JournalID,
		Memo:          j.Memo,
		Date:          j.JournalDate,
		ReferenceType: j.ReferenceType,
		ReferenceID:   j.ReferenceID,
		Voided:        j.Voided,
		VoidReason:    j.VoidReason,
		CreatedAt:     j.CreatedAt,
	}
	if len(j.Entries) > 0 {
		resp.Entries = make([]EntryResponse, len(j.Entries))
		for i := range j.Entries {
			resp.Entries[i] = ToEntryResponse(&j.Entries[i])
		}
	}
	return resp
}
