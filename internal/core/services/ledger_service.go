package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_engine/internal/core/ports/services"
	"github.com/google/uuid"
)

type ledgerService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	journalRepo  portsrepo.JournalRepositoryFacade
	documentRepo portsrepo.DocumentRepositoryFacade
	accounts     portssvc.AccountReaderSvc
	tax          portssvc.TaxSvcFacade
	sequences    portssvc.SequenceSvc
	audit        portssvc.AuditRecorderSvc
}

// LedgerDeps groups the collaborators of the posting engine.
type LedgerDeps struct {
	TxManager    portsrepo.TransactionManager
	JournalRepo  portsrepo.JournalRepositoryFacade
	DocumentRepo portsrepo.DocumentRepositoryFacade
	Accounts     portssvc.AccountReaderSvc
	Tax          portssvc.TaxSvcFacade
	Sequences    portssvc.SequenceSvc
	Audit        portssvc.AuditRecorderSvc
}

// NewLedgerService creates the posting engine.
func NewLedgerService(deps LedgerDeps, opts ...ServiceOption) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService:  newBaseService(opts...),
		txManager:    deps.TxManager,
		journalRepo:  deps.JournalRepo,
		documentRepo: deps.DocumentRepo,
		accounts:     deps.Accounts,
		tax:          deps.Tax,
		sequences:    deps.Sequences,
		audit:        deps.Audit,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetEntry(ctx context.Context, tc domain.TenantContext, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, tc.TenantID, entryID)
	if err != nil {
		s.LogIsolationViolation(ctx, err)
		return nil, err
	}
	return entry, nil
}

// Post turns a DRAFT document into a numbered, balanced journal entry. The stored
// document is locked and recalculated inside the transaction; the caller's copy only
// identifies it. Nothing is written unless every step succeeds.
func (s *ledgerService) Post(ctx context.Context, tc domain.TenantContext, document domain.Document, mapping domain.AccountMapping) (entry *domain.JournalEntry, err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordPosting(string(document.DocumentType), err)
		s.metrics.ObserveDuration("post", start)
	}()

	logger := s.GetLogger(ctx).With(slog.String("document_id", document.DocumentID))

	if err := tc.Authorize("document "+document.DocumentID, document.TenantID); err != nil {
		s.LogIsolationViolation(ctx, err)
		return nil, err
	}
	if document.Status != domain.DocumentDraft {
		return nil, &apperrors.InvalidStateError{
			Entity:        "document " + document.DocumentID,
			CurrentStatus: string(document.Status),
			Wanted:        string(domain.DocumentPosted),
		}
	}

	var posted domain.JournalEntry
	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		current, err := s.documentRepo.FindDocumentByIDForUpdate(txCtx, tc.TenantID, document.DocumentID)
		if err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(domain.DocumentPosted) {
			return &apperrors.InvalidStateError{
				Entity:        "document " + current.DocumentID,
				CurrentStatus: string(current.Status),
				Wanted:        string(domain.DocumentPosted),
			}
		}

		rules, err := s.tax.RuleSetFor(txCtx, tc)
		if err != nil {
			return err
		}
		breakdown, err := s.tax.CalculateDocument(rules, current.TaxLines(), current.TaxMode)
		if err != nil {
			return err
		}

		lines, err := buildPostingLines(breakdown, mapping)
		if err != nil {
			return err
		}
		if err := s.resolveAccounts(txCtx, tc, lines); err != nil {
			return err
		}

		now := s.Now()
		posted = newEntry(tc, current.DocumentID, lines, now)
		if err := posted.ValidateBalanced(); err != nil {
			return err
		}

		n, err := s.sequences.Next(txCtx, tc, tc.TenantID, current.DocumentType)
		if err != nil {
			return err
		}
		number := current.DocumentType.FormatNumber(n)
		posted.Reference = number

		if err := s.journalRepo.SaveEntry(txCtx, posted); err != nil {
			return err
		}
		if err := s.documentRepo.MarkDocumentPosted(txCtx, portsrepo.DocumentPosting{
			TenantID:       tc.TenantID,
			DocumentID:     current.DocumentID,
			DocumentNumber: number,
			JournalEntryID: posted.EntryID,
			Breakdown:      *breakdown,
			PostedBy:       tc.UserID,
			PostedAt:       now,
		}); err != nil {
			return err
		}

		after := *current
		after.Status = domain.DocumentPosted
		after.DocumentNumber = &number
		after.JournalEntryID = &posted.EntryID
		after.NetTotal, after.TaxTotal, after.GrossTotal = breakdown.Net, breakdown.Tax, breakdown.Gross
		after.Boxes = breakdown.Boxes
		after.LastUpdatedAt, after.LastUpdatedBy = now, tc.UserID

		if err := s.audit.Record(txCtx, tc, domain.EntityJournalEntry, posted.EntryID, domain.AuditPost, nil, posted); err != nil {
			return err
		}
		return s.audit.Record(txCtx, tc, domain.EntityDocument, current.DocumentID, domain.AuditPost, current, after)
	})
	if err != nil {
		s.LogIsolationViolation(ctx, err)
		logger.Error("Failed to post document", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Document posted",
		slog.String("entry_id", posted.EntryID),
		slog.String("reference", posted.Reference))
	return &posted, nil
}

// Reverse books the side-flipped copy of a POSTED entry and marks the original REVERSED.
func (s *ledgerService) Reverse(ctx context.Context, tc domain.TenantContext, entryID string) (reversal *domain.JournalEntry, err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordReversal(err)
		s.metrics.ObserveDuration("reverse", start)
	}()

	logger := s.GetLogger(ctx).With(slog.String("entry_id", entryID))

	var rev domain.JournalEntry
	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		original, err := s.journalRepo.FindEntryByIDForUpdate(txCtx, tc.TenantID, entryID)
		if err != nil {
			return err
		}
		if original.Status != domain.Posted {
			return &apperrors.AlreadyReversedError{EntryID: entryID, CurrentStatus: string(original.Status)}
		}
		if original.OriginalEntryID != nil {
			return &apperrors.InvalidStateError{
				Entity:        "journal entry " + entryID,
				CurrentStatus: "REVERSAL",
				Wanted:        string(domain.Reversed),
			}
		}

		now := s.Now()
		rev = newEntry(tc, original.DocumentID, original.ReversalLines(), now)
		rev.OriginalEntryID = &original.EntryID
		if err := rev.ValidateBalanced(); err != nil {
			return err
		}

		n, err := s.sequences.Next(txCtx, tc, tc.TenantID, domain.ReversalDocument)
		if err != nil {
			return err
		}
		rev.Reference = domain.ReversalDocument.FormatNumber(n)

		if err := s.journalRepo.SaveEntry(txCtx, rev); err != nil {
			return err
		}
		if err := s.journalRepo.MarkEntryReversed(txCtx, tc.TenantID, original.EntryID, rev.EntryID); err != nil {
			return err
		}
		if original.DocumentID != "" {
			if err := s.documentRepo.UpdateDocumentStatus(txCtx, tc.TenantID, original.DocumentID,
				domain.DocumentPosted, domain.DocumentReversed, tc.UserID, now); err != nil {
				return err
			}
		}

		after := *original
		after.Status = domain.Reversed
		after.ReversedByEntryID = &rev.EntryID

		if err := s.audit.Record(txCtx, tc, domain.EntityJournalEntry, original.EntryID, domain.AuditReverse, original, after); err != nil {
			return err
		}
		return s.audit.Record(txCtx, tc, domain.EntityJournalEntry, rev.EntryID, domain.AuditCreate, nil, rev)
	})
	if err != nil {
		s.LogIsolationViolation(ctx, err)
		logger.Error("Failed to reverse journal entry", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Journal entry reversed",
		slog.String("reversal_entry_id", rev.EntryID),
		slog.String("reference", rev.Reference))
	return &rev, nil
}

// resolveAccounts checks every account the lines touch with a single lookup.
func (s *ledgerService) resolveAccounts(ctx context.Context, tc domain.TenantContext, lines []domain.JournalLine) error {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if !slices.Contains(ids, l.AccountID) {
			ids = append(ids, l.AccountID)
		}
	}
	_, err := s.accounts.ResolveAccounts(ctx, tc, ids)
	return err
}

// buildPostingLines maps the gross, net and tax components onto their targets in that
// order. Zero components and unmapped components produce no line.
func buildPostingLines(b *domain.TaxBreakdown, mapping domain.AccountMapping) ([]domain.JournalLine, error) {
	components := []struct {
		name   string
		target *domain.PostingTarget
		amount domain.Money
	}{
		{"gross", mapping.Gross, b.Gross},
		{"net", mapping.Net, b.Net},
		{"tax", mapping.Tax, b.Tax},
	}

	lines := make([]domain.JournalLine, 0, len(components))
	for _, c := range components {
		if c.target == nil || c.amount.IsZero() {
			continue
		}
		if c.target.AccountID == "" {
			return nil, fmt.Errorf("%w: %s mapping has no account", apperrors.ErrValidation, c.name)
		}
		if !c.target.Side.Valid() {
			return nil, fmt.Errorf("%w: %s mapping has invalid side %q", apperrors.ErrValidation, c.name, c.target.Side)
		}
		lines = append(lines, domain.JournalLine{
			AccountID: c.target.AccountID,
			Side:      c.target.Side,
			Amount:    c.amount,
		})
	}
	return lines, nil
}

func newEntry(tc domain.TenantContext, documentID string, lines []domain.JournalLine, at time.Time) domain.JournalEntry {
	entry := domain.JournalEntry{
		EntryID:    uuid.NewString(),
		TenantID:   tc.TenantID,
		DocumentID: documentID,
		Status:     domain.Posted,
		CreatedAt:  at,
		CreatedBy:  tc.UserID,
	}
	entry.Lines = make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		l.LineID = uuid.NewString()
		l.EntryID = entry.EntryID
		l.LineNo = i + 1
		entry.Lines[i] = l
	}
	return entry
}
