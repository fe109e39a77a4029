package mapping

import (
	"fmt"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	"github.com/SscSPs/bookkeeping_engine/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to its header row.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           d.EntryID,
		TenantID:          d.TenantID,
		Reference:         d.Reference,
		DocumentID:        optionalString(d.DocumentID),
		Status:            string(d.Status),
		OriginalEntryID:   d.OriginalEntryID,
		ReversedByEntryID: d.ReversedByEntryID,
		CreatedAt:         d.CreatedAt,
		CreatedBy:         d.CreatedBy,
	}
}

// ToModelJournalLines converts the entry's lines to rows carrying the entry's tenant.
func ToModelJournalLines(d domain.JournalEntry) []models.JournalLine {
	out := make([]models.JournalLine, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = models.JournalLine{
			LineID:    l.LineID,
			EntryID:   d.EntryID,
			TenantID:  d.TenantID,
			LineNo:    l.LineNo,
			AccountID: l.AccountID,
			Side:      string(l.Side),
			Amount:    l.Amount.Decimal(),
		}
	}
	return out
}

// ToDomainJournalEntry assembles a domain entry from its header and line rows.
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalLine) (domain.JournalEntry, error) {
	entry := domain.JournalEntry{
		EntryID:           m.EntryID,
		TenantID:          m.TenantID,
		Reference:         m.Reference,
		DocumentID:        derefString(m.DocumentID),
		Status:            domain.JournalStatus(m.Status),
		OriginalEntryID:   m.OriginalEntryID,
		ReversedByEntryID: m.ReversedByEntryID,
		CreatedAt:         m.CreatedAt,
		CreatedBy:         m.CreatedBy,
		Lines:             make([]domain.JournalLine, len(lines)),
	}
	for i, l := range lines {
		amount, err := domain.NewMoneyFromDecimal(l.Amount)
		if err != nil {
			return domain.JournalEntry{}, fmt.Errorf("journal line %s: %w", l.LineID, err)
		}
		entry.Lines[i] = domain.JournalLine{
			LineID:    l.LineID,
			EntryID:   l.EntryID,
			LineNo:    l.LineNo,
			AccountID: l.AccountID,
			Side:      domain.Side(l.Side),
			Amount:    amount,
		}
	}
	return entry, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
