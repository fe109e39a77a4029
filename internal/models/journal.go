package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the journal_entries table row. Lines live in journal_lines.
type JournalEntry struct {
	EntryID           string    `db:"entry_id"`
	TenantID          string    `db:"tenant_id"`
	Reference         string    `db:"reference"`
	DocumentID        *string   `db:"document_id"`
	Status            string    `db:"status"`
	OriginalEntryID   *string   `db:"original_entry_id"`
	ReversedByEntryID *string   `db:"reversed_by_entry_id"`
	CreatedAt         time.Time `db:"created_at"`
	CreatedBy         string    `db:"created_by"`
}

// JournalLine is the journal_lines table row. Amount is NUMERIC(19,4).
type JournalLine struct {
	LineID    string          `db:"line_id"`
	EntryID   string          `db:"entry_id"`
	TenantID  string          `db:"tenant_id"`
	LineNo    int             `db:"line_no"`
	AccountID string          `db:"account_id"`
	Side      string          `db:"side"`
	Amount    decimal.Decimal `db:"amount"`
}
