package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
)

// LedgerReaderSvc defines read operations for journal entries
type LedgerReaderSvc interface {
	GetEntry(ctx context.Context, tc domain.TenantContext, entryID string) (*domain.JournalEntry, error)
}

// LedgerWriterSvc posts and reverses balanced journal entries. Each call is a single
// all-or-nothing unit covering validation, numbering, persistence and audit.
type LedgerWriterSvc interface {
	// Post builds the entry for a DRAFT document from its tax breakdown and the mapping.
	Post(ctx context.Context, tc domain.TenantContext, document domain.Document, mapping domain.AccountMapping) (*domain.JournalEntry, error)

	// Reverse creates the side-flipped entry for a POSTED entry and marks the original REVERSED.
	Reverse(ctx context.Context, tc domain.TenantContext, entryID string) (*domain.JournalEntry, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
