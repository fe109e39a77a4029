package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
)

// DocumentPosting carries everything written onto a document when it is posted.
type DocumentPosting struct {
	TenantID       string
	DocumentID     string
	DocumentNumber string
	JournalEntryID string
	Breakdown      domain.TaxBreakdown
	PostedBy       string
	PostedAt       time.Time
}

// DocumentReader defines read operations for documents
type DocumentReader interface {
	FindDocumentByID(ctx context.Context, tenantID, documentID string) (*domain.Document, error)

	// FindDocumentByIDForUpdate locks the document row for the surrounding transaction.
	FindDocumentByIDForUpdate(ctx context.Context, tenantID, documentID string) (*domain.Document, error)

	// SumPostedBoxes totals the stored box amounts of documents that are currently POSTED
	// with an issue date in [from, to]. It also returns how many documents contributed.
	SumPostedBoxes(ctx context.Context, tenantID string, from, to time.Time) (map[domain.RegulatoryBox]domain.Money, int, error)
}

// DocumentWriter defines write operations for documents
type DocumentWriter interface {
	SaveDocument(ctx context.Context, document domain.Document) error

	// UpdateDraftDocument replaces the header fields, totals, lines and preview boxes
	// of a stored DRAFT. It fails with InvalidStateError once the document left DRAFT.
	UpdateDraftDocument(ctx context.Context, document domain.Document) error

	// MarkDocumentPosted moves a DRAFT document to POSTED and stores its number, entry
	// link and breakdown totals.
	MarkDocumentPosted(ctx context.Context, posting DocumentPosting) error

	// UpdateDocumentStatus moves a document from one status to another. It fails with
	// InvalidStateError when the stored status is not from.
	UpdateDocumentStatus(ctx context.Context, tenantID, documentID string, from, to domain.DocumentStatus, userID string, at time.Time) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
