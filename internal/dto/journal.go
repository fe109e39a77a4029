package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
)

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineNo    int    `json:"lineNo"`
	AccountID string `json:"accountID"`
	Side      string `json:"side"`
	Amount    string `json:"amount"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID           string                `json:"entryID"`
	Reference         string                `json:"reference"`
	DocumentID        string                `json:"documentID,omitempty"`
	Status            string                `json:"status"`
	OriginalEntryID   *string               `json:"originalEntryID,omitempty"`
	ReversedByEntryID *string               `json:"reversedByEntryID,omitempty"`
	TotalDebit        string                `json:"totalDebit"`
	TotalCredit       string                `json:"totalCredit"`
	Lines             []JournalLineResponse `json:"lines"`
	CreatedAt         time.Time             `json:"createdAt"`
	CreatedBy         string                `json:"createdBy"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineNo:    l.LineNo,
			AccountID: l.AccountID,
			Side:      string(l.Side),
			Amount:    l.Amount.String(),
		}
	}
	debits, credits := e.Totals()
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		Reference:         e.Reference,
		DocumentID:        e.DocumentID,
		Status:            string(e.Status),
		OriginalEntryID:   e.OriginalEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		TotalDebit:        debits.String(),
		TotalCredit:       credits.String(),
		Lines:             lines,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
	}
}
