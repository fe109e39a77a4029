package services

import (
	"context"
	"log/slog"
	"slices"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_engine/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_engine/internal/dto"
	"github.com/google/uuid"
)

type documentService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	documentRepo portsrepo.DocumentRepositoryFacade
	tax          portssvc.TaxSvcFacade
	audit        portssvc.AuditRecorderSvc
}

// NewDocumentService creates the draft document service.
func NewDocumentService(
	txManager portsrepo.TransactionManager,
	documentRepo portsrepo.DocumentRepositoryFacade,
	tax portssvc.TaxSvcFacade,
	audit portssvc.AuditRecorderSvc,
	opts ...ServiceOption,
) portssvc.DocumentSvcFacade {
	return &documentService{
		BaseService:  newBaseService(opts...),
		txManager:    txManager,
		documentRepo: documentRepo,
		tax:          tax,
		audit:        audit,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

func (s *documentService) CreateDraft(ctx context.Context, tc domain.TenantContext, req dto.CreateDocumentRequest) (*domain.Document, error) {
	documentType, err := domain.ParseDocumentType(req.DocumentType)
	if err != nil {
		return nil, err
	}
	mode, err := domain.ParseTaxMode(req.TaxMode)
	if err != nil {
		return nil, err
	}
	issueDate, err := req.ParsedIssueDate()
	if err != nil {
		return nil, err
	}
	lines, err := req.ToDocumentLines()
	if err != nil {
		return nil, err
	}

	now := s.Now()
	document := domain.Document{
		DocumentID:   uuid.NewString(),
		TenantID:     tc.TenantID,
		DocumentType: documentType,
		Status:       domain.DocumentDraft,
		TaxMode:      mode,
		IssueDate:    issueDate,
		Reference:    req.Reference,
		Notes:        req.Notes,
		Lines:        lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     tc.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: tc.UserID,
		},
	}

	// A draft's totals are a preview; posting recalculates them under the lock.
	breakdown, err := s.tax.Calculate(ctx, tc, document.TaxLines(), mode)
	if err != nil {
		return nil, err
	}
	if err := checkTotalsStorable(breakdown); err != nil {
		return nil, err
	}
	document.ApplyBreakdown(breakdown)

	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.documentRepo.SaveDocument(txCtx, document); err != nil {
			return err
		}
		return s.audit.Record(txCtx, tc, domain.EntityDocument, document.DocumentID, domain.AuditCreate, nil, document)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create draft document", slog.String("document_type", string(documentType)))
		return nil, err
	}

	s.LogInfo(ctx, "Draft document created",
		slog.String("document_id", document.DocumentID),
		slog.String("document_type", string(documentType)))
	return &document, nil
}

func (s *documentService) GetDocument(ctx context.Context, tc domain.TenantContext, documentID string) (*domain.Document, error) {
	document, err := s.documentRepo.FindDocumentByID(ctx, tc.TenantID, documentID)
	if err != nil {
		s.LogIsolationViolation(ctx, err)
		return nil, err
	}
	return document, nil
}

func (s *documentService) UpdateDraft(ctx context.Context, tc domain.TenantContext, documentID string, req dto.UpdateDocumentRequest) (*domain.Document, error) {
	return s.editDraft(ctx, tc, documentID, "update draft", req.Apply)
}

func (s *documentService) AddLine(ctx context.Context, tc domain.TenantContext, documentID string, req dto.DocumentLineRequest) (*domain.Document, error) {
	line, err := req.ToDocumentLine()
	if err != nil {
		return nil, err
	}
	return s.editDraft(ctx, tc, documentID, "add line", func(d *domain.Document) error {
		d.AddLine(line)
		return nil
	})
}

func (s *documentService) RemoveLine(ctx context.Context, tc domain.TenantContext, documentID string, lineNo int) (*domain.Document, error) {
	return s.editDraft(ctx, tc, documentID, "remove line", func(d *domain.Document) error {
		return d.RemoveLine(lineNo)
	})
}

// editDraft locks the draft, applies mutate, recalculates the preview totals and stores
// the result with its audit record in one unit of work.
func (s *documentService) editDraft(ctx context.Context, tc domain.TenantContext, documentID, op string, mutate func(*domain.Document) error) (*domain.Document, error) {
	var updated domain.Document
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		current, err := s.documentRepo.FindDocumentByIDForUpdate(txCtx, tc.TenantID, documentID)
		if err != nil {
			return err
		}
		if err := current.RequireDraft(); err != nil {
			return err
		}

		next := *current
		next.Lines = slices.Clone(current.Lines)
		if err := mutate(&next); err != nil {
			return err
		}
		breakdown, err := s.tax.Calculate(txCtx, tc, next.TaxLines(), next.TaxMode)
		if err != nil {
			return err
		}
		if err := checkTotalsStorable(breakdown); err != nil {
			return err
		}
		next.ApplyBreakdown(breakdown)
		next.LastUpdatedAt = s.Now()
		next.LastUpdatedBy = tc.UserID

		if err := s.documentRepo.UpdateDraftDocument(txCtx, next); err != nil {
			return err
		}
		updated = next
		return s.audit.Record(txCtx, tc, domain.EntityDocument, documentID, domain.AuditUpdate, current, next)
	})
	if err != nil {
		s.LogIsolationViolation(ctx, err)
		s.LogError(ctx, err, "Failed to "+op, slog.String("document_id", documentID))
		return nil, err
	}

	s.LogInfo(ctx, "Draft document updated",
		slog.String("document_id", documentID),
		slog.String("operation", op),
		slog.Int("lines", len(updated.Lines)))
	return &updated, nil
}

// checkTotalsStorable rejects a breakdown whose gross no longer fits the amount columns.
// Net and tax are never larger than gross.
func checkTotalsStorable(b *domain.TaxBreakdown) error {
	return b.Gross.CheckStorable("document gross")
}

func (s *documentService) VoidDraft(ctx context.Context, tc domain.TenantContext, documentID string) (*domain.Document, error) {
	var voided domain.Document
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		current, err := s.documentRepo.FindDocumentByIDForUpdate(txCtx, tc.TenantID, documentID)
		if err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(domain.DocumentVoidDraft) {
			return &apperrors.InvalidStateError{
				Entity:        "document " + documentID,
				CurrentStatus: string(current.Status),
				Wanted:        string(domain.DocumentVoidDraft),
			}
		}

		now := s.Now()
		if err := s.documentRepo.UpdateDocumentStatus(txCtx, tc.TenantID, documentID, domain.DocumentDraft, domain.DocumentVoidDraft, tc.UserID, now); err != nil {
			return err
		}

		voided = *current
		voided.Status = domain.DocumentVoidDraft
		voided.LastUpdatedAt = now
		voided.LastUpdatedBy = tc.UserID
		return s.audit.Record(txCtx, tc, domain.EntityDocument, documentID, domain.AuditVoid, current, voided)
	})
	if err != nil {
		s.LogIsolationViolation(ctx, err)
		s.LogError(ctx, err, "Failed to void draft", slog.String("document_id", documentID))
		return nil, err
	}

	s.LogInfo(ctx, "Draft document voided", slog.String("document_id", documentID))
	return &voided, nil
}
