package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
)

var _ portsrepo.DocumentRepositoryFacade = (*Store)(nil)

func (s *Store) SaveDocument(ctx context.Context, document domain.Document) error {
	unlock := s.write(ctx)
	defer unlock()

	if _, exists := s.documents[document.DocumentID]; exists {
		return fmt.Errorf("%w: document %s", apperrors.ErrDuplicate, document.DocumentID)
	}
	s.documents[document.DocumentID] = cloneDocument(document)
	return nil
}

func (s *Store) UpdateDraftDocument(ctx context.Context, document domain.Document) error {
	unlock := s.write(ctx)
	defer unlock()

	stored, err := s.findDocument(document.TenantID, document.DocumentID)
	if err != nil {
		return err
	}
	if stored.Status != domain.DocumentDraft {
		return &apperrors.InvalidStateError{Entity: "document " + stored.DocumentID, CurrentStatus: string(stored.Status), Wanted: string(domain.DocumentDraft)}
	}
	// Identity and audit-creation fields stay as stored.
	document.DocumentType = stored.DocumentType
	document.Status = stored.Status
	document.CreatedAt = stored.CreatedAt
	document.CreatedBy = stored.CreatedBy
	s.documents[document.DocumentID] = cloneDocument(document)
	return nil
}

func (s *Store) FindDocumentByID(ctx context.Context, tenantID, documentID string) (*domain.Document, error) {
	unlock := s.read(ctx)
	defer unlock()
	return s.findDocument(tenantID, documentID)
}

func (s *Store) FindDocumentByIDForUpdate(ctx context.Context, tenantID, documentID string) (*domain.Document, error) {
	return s.FindDocumentByID(ctx, tenantID, documentID)
}

func (s *Store) MarkDocumentPosted(ctx context.Context, posting portsrepo.DocumentPosting) error {
	unlock := s.write(ctx)
	defer unlock()

	doc, err := s.findDocument(posting.TenantID, posting.DocumentID)
	if err != nil {
		return err
	}
	if doc.Status != domain.DocumentDraft {
		return &apperrors.InvalidStateError{Entity: "document " + doc.DocumentID, CurrentStatus: string(doc.Status), Wanted: string(domain.DocumentPosted)}
	}
	number, entryID := posting.DocumentNumber, posting.JournalEntryID
	doc.Status = domain.DocumentPosted
	doc.DocumentNumber = &number
	doc.JournalEntryID = &entryID
	doc.NetTotal = posting.Breakdown.Net
	doc.TaxTotal = posting.Breakdown.Tax
	doc.GrossTotal = posting.Breakdown.Gross
	doc.Boxes = maps.Clone(posting.Breakdown.Boxes)
	doc.LastUpdatedAt = posting.PostedAt
	doc.LastUpdatedBy = posting.PostedBy
	s.documents[doc.DocumentID] = *doc
	return nil
}

func (s *Store) UpdateDocumentStatus(ctx context.Context, tenantID, documentID string, from, to domain.DocumentStatus, userID string, at time.Time) error {
	unlock := s.write(ctx)
	defer unlock()

	doc, err := s.findDocument(tenantID, documentID)
	if err != nil {
		return err
	}
	if doc.Status != from || !from.CanTransitionTo(to) {
		return &apperrors.InvalidStateError{Entity: "document " + documentID, CurrentStatus: string(doc.Status), Wanted: string(to)}
	}
	doc.Status = to
	doc.LastUpdatedAt = at
	doc.LastUpdatedBy = userID
	s.documents[documentID] = *doc
	return nil
}

func (s *Store) SumPostedBoxes(ctx context.Context, tenantID string, from, to time.Time) (map[domain.RegulatoryBox]domain.Money, int, error) {
	unlock := s.read(ctx)
	defer unlock()

	totals := domain.NewBoxTotals()
	count := 0
	for _, d := range s.documents {
		if d.TenantID != tenantID || d.Status != domain.DocumentPosted {
			continue
		}
		if d.IssueDate.Before(from) || d.IssueDate.After(to) {
			continue
		}
		count++
		for box, amount := range d.Boxes {
			totals[box] = totals[box].Add(amount)
		}
	}
	return totals, count, nil
}

func (s *Store) findDocument(tenantID, documentID string) (*domain.Document, error) {
	d, ok := s.documents[documentID]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, documentID)
	}
	if d.TenantID != tenantID {
		return nil, &apperrors.CrossTenantAccessError{Resource: "document " + documentID, ContextTenant: tenantID, TargetTenant: d.TenantID}
	}
	d = cloneDocument(d)
	return &d, nil
}

func cloneDocument(d domain.Document) domain.Document {
	d.Lines = slices.Clone(d.Lines)
	d.Boxes = maps.Clone(d.Boxes)
	return d
}
