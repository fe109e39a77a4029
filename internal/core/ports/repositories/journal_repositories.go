package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindEntryByID loads an entry with its lines. A foreign tenant's entry yields
	// CrossTenantAccessError and none of its data.
	FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	// FindEntryByIDForUpdate is FindEntryByID that also locks the entry row for the
	// rest of the surrounding transaction.
	FindEntryByIDForUpdate(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal entries. There is no update or
// delete of lines; entries only ever gain a reversal link.
type JournalWriter interface {
	// SaveEntry inserts the entry and all of its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// MarkEntryReversed moves a POSTED entry to REVERSED and links the reversal. It fails
	// with AlreadyReversedError if the entry is no longer POSTED.
	MarkEntryReversed(ctx context.Context, tenantID, entryID, reversedByEntryID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
