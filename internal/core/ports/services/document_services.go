package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	"github.com/SscSPs/bookkeeping_engine/internal/dto"
)

// DocumentSvcFacade manages the draft side of the document lifecycle.
type DocumentSvcFacade interface {
	CreateDraft(ctx context.Context, tc domain.TenantContext, req dto.CreateDocumentRequest) (*domain.Document, error)
	GetDocument(ctx context.Context, tc domain.TenantContext, documentID string) (*domain.Document, error)

	// UpdateDraft, AddLine and RemoveLine edit a DRAFT and recalculate its preview
	// totals. Any other status fails with InvalidStateError.
	UpdateDraft(ctx context.Context, tc domain.TenantContext, documentID string, req dto.UpdateDocumentRequest) (*domain.Document, error)
	AddLine(ctx context.Context, tc domain.TenantContext, documentID string, req dto.DocumentLineRequest) (*domain.Document, error)
	RemoveLine(ctx context.Context, tc domain.TenantContext, documentID string, lineNo int) (*domain.Document, error)

	// VoidDraft moves a DRAFT document to VOID_DRAFT without touching the ledger.
	VoidDraft(ctx context.Context, tc domain.TenantContext, documentID string) (*domain.Document, error)
}
