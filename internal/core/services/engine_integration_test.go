package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portssvc "github.com/SscSPs/bookkeeping_engine/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_engine/internal/core/services"
	"github.com/SscSPs/bookkeeping_engine/internal/dto"
	"github.com/SscSPs/bookkeeping_engine/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

// EngineTestSuite runs the services against the in-memory store end to end.
type EngineTestSuite struct {
	suite.Suite
	store     *memory.Store
	allocator *memory.SequenceAllocator
	svc       *portssvc.ServiceContainer
	ctx       context.Context
	tenantA   domain.TenantContext
	tenantB   domain.TenantContext
	accounts  map[string]string
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	suite.setup()
}

func (suite *EngineTestSuite) setup(opts ...memory.SequenceOption) {
	suite.store = memory.NewStore()
	suite.allocator = memory.NewSequenceAllocator(opts...)
	suite.svc = services.NewServiceContainer(memory.NewRepositoryProvider(suite.store, suite.allocator))
	suite.ctx = context.Background()
	suite.tenantA = domain.TenantContext{TenantID: "tenant-a", UserID: "alice"}
	suite.tenantB = domain.TenantContext{TenantID: "tenant-b", UserID: "bob"}

	suite.accounts = map[string]string{}
	for _, a := range []dto.CreateAccountRequest{
		{Code: "1100", Name: "Accounts Receivable", AccountType: "ASSET"},
		{Code: "4000", Name: "Revenue", AccountType: "INCOME"},
		{Code: "2200", Name: "GST Payable", AccountType: "LIABILITY"},
	} {
		acc, err := suite.svc.Account.CreateAccount(suite.ctx, suite.tenantA, a)
		suite.Require().NoError(err)
		suite.accounts[a.Code] = acc.AccountID
	}
}

func (suite *EngineTestSuite) mapping() domain.AccountMapping {
	return domain.AccountMapping{
		Net:   &domain.PostingTarget{AccountID: suite.accounts["4000"], Side: domain.Credit},
		Tax:   &domain.PostingTarget{AccountID: suite.accounts["2200"], Side: domain.Credit},
		Gross: &domain.PostingTarget{AccountID: suite.accounts["1100"], Side: domain.Debit},
	}
}

func (suite *EngineTestSuite) createDraft(tc domain.TenantContext, mode, amount string) *domain.Document {
	doc, err := suite.svc.Document.CreateDraft(suite.ctx, tc, dto.CreateDocumentRequest{
		DocumentType: "INVOICE",
		TaxMode:      mode,
		IssueDate:    "2026-01-31",
		Lines:        []dto.DocumentLineRequest{{Description: "Consulting", Amount: amount, TaxCode: "SR"}},
	})
	suite.Require().NoError(err)
	return doc
}

func (suite *EngineTestSuite) TestPreviewAndPostAgree() {
	lines := []domain.TaxLine{{Base: money("109.0000"), TaxCode: "SR"}}
	preview, err := suite.svc.Tax.Calculate(suite.ctx, suite.tenantA, lines, domain.TaxInclusive)
	suite.Require().NoError(err)
	suite.Equal("9.0000", preview.Tax.String())
	suite.Equal("100.0000", preview.Net.String())
	suite.Equal("109.0000", preview.Gross.String())

	doc := suite.createDraft(suite.tenantA, "INCLUSIVE", "109.0000")
	entry, err := suite.svc.Ledger.Post(suite.ctx, suite.tenantA, *doc, suite.mapping())
	suite.Require().NoError(err)

	amounts := map[string]string{}
	for _, l := range entry.Lines {
		amounts[l.AccountID] = l.Amount.String()
	}
	suite.Equal(preview.Gross.String(), amounts[suite.accounts["1100"]])
	suite.Equal(preview.Net.String(), amounts[suite.accounts["4000"]])
	suite.Equal(preview.Tax.String(), amounts[suite.accounts["2200"]])
}

func (suite *EngineTestSuite) TestPostThenReverse() {
	doc := suite.createDraft(suite.tenantA, "EXCLUSIVE", "100.0000")
	suite.Equal(domain.DocumentDraft, doc.Status)
	suite.Nil(doc.DocumentNumber)

	entry, err := suite.svc.Ledger.Post(suite.ctx, suite.tenantA, *doc, suite.mapping())
	suite.Require().NoError(err)
	suite.Equal("INV-00001", entry.Reference)
	suite.NoError(entry.ValidateBalanced())

	stored, err := suite.svc.Document.GetDocument(suite.ctx, suite.tenantA, doc.DocumentID)
	suite.Require().NoError(err)
	suite.Equal(domain.DocumentPosted, stored.Status)
	suite.Equal("INV-00001", *stored.DocumentNumber)
	suite.Equal(entry.EntryID, *stored.JournalEntryID)

	// Posting the same draft again is refused.
	_, err = suite.svc.Ledger.Post(suite.ctx, suite.tenantA, *doc, suite.mapping())
	suite.ErrorIs(err, apperrors.ErrInvalidState)

	rev, err := suite.svc.Ledger.Reverse(suite.ctx, suite.tenantA, entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal("RV-00001", rev.Reference)

	net := map[string]domain.Money{}
	for _, l := range append(entry.Lines, rev.Lines...) {
		amount := l.Amount
		if l.Side == domain.Credit {
			amount = amount.Neg()
		}
		net[l.AccountID] = net[l.AccountID].Add(amount)
	}
	for account, v := range net {
		suite.True(v.IsZero(), "account %s nets to %s", account, v)
	}

	original, err := suite.svc.Ledger.GetEntry(suite.ctx, suite.tenantA, entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Reversed, original.Status)
	suite.Equal(rev.EntryID, *original.ReversedByEntryID)

	stored, err = suite.svc.Document.GetDocument(suite.ctx, suite.tenantA, doc.DocumentID)
	suite.Require().NoError(err)
	suite.Equal(domain.DocumentReversed, stored.Status)

	_, err = suite.svc.Ledger.Reverse(suite.ctx, suite.tenantA, entry.EntryID)
	var already *apperrors.AlreadyReversedError
	suite.Require().ErrorAs(err, &already)
	suite.Equal(string(domain.Reversed), already.CurrentStatus)

	trail, err := suite.svc.Audit.ListAuditRecords(suite.ctx, suite.tenantA, dto.ListAuditParams{EntityID: entry.EntryID, Limit: 10})
	suite.Require().NoError(err)
	suite.Require().Len(trail.Records, 2)
	actions := []string{trail.Records[0].Action, trail.Records[1].Action}
	suite.ElementsMatch([]string{"POST", "REVERSE"}, actions)
}

func (suite *EngineTestSuite) TestFailedPostLeavesNoTrace() {
	suite.setup(memory.WithCeiling(1), memory.WithStartingValue("tenant-a", domain.Invoice, 1))
	doc := suite.createDraft(suite.tenantA, "EXCLUSIVE", "100.0000")

	before, err := suite.svc.Audit.ListAuditRecords(suite.ctx, suite.tenantA, dto.ListAuditParams{Limit: 100})
	suite.Require().NoError(err)

	_, err = suite.svc.Ledger.Post(suite.ctx, suite.tenantA, *doc, suite.mapping())
	suite.ErrorIs(err, apperrors.ErrSequenceExhausted)

	stored, err := suite.svc.Document.GetDocument(suite.ctx, suite.tenantA, doc.DocumentID)
	suite.Require().NoError(err)
	suite.Equal(domain.DocumentDraft, stored.Status)
	suite.Nil(stored.JournalEntryID)

	after, err := suite.svc.Audit.ListAuditRecords(suite.ctx, suite.tenantA, dto.ListAuditParams{Limit: 100})
	suite.Require().NoError(err)
	suite.Len(after.Records, len(before.Records))
}

func (suite *EngineTestSuite) TestImbalancedPostLeavesDraft() {
	doc := suite.createDraft(suite.tenantA, "EXCLUSIVE", "100.0000")
	m := suite.mapping()
	m.Tax = nil

	_, err := suite.svc.Ledger.Post(suite.ctx, suite.tenantA, *doc, m)
	suite.ErrorIs(err, apperrors.ErrImbalancedEntry)

	stored, err := suite.svc.Document.GetDocument(suite.ctx, suite.tenantA, doc.DocumentID)
	suite.Require().NoError(err)
	suite.Equal(domain.DocumentDraft, stored.Status)

	// The failed attempt consumed no number.
	entry, err := suite.svc.Ledger.Post(suite.ctx, suite.tenantA, *doc, suite.mapping())
	suite.Require().NoError(err)
	suite.Equal("INV-00001", entry.Reference)
}

func (suite *EngineTestSuite) TestTenantIsolation() {
	doc := suite.createDraft(suite.tenantA, "EXCLUSIVE", "100.0000")
	entry, err := suite.svc.Ledger.Post(suite.ctx, suite.tenantA, *doc, suite.mapping())
	suite.Require().NoError(err)

	_, err = suite.svc.Document.GetDocument(suite.ctx, suite.tenantB, doc.DocumentID)
	suite.ErrorIs(err, apperrors.ErrCrossTenantAccess)

	_, err = suite.svc.Ledger.GetEntry(suite.ctx, suite.tenantB, entry.EntryID)
	suite.ErrorIs(err, apperrors.ErrCrossTenantAccess)

	_, err = suite.svc.Ledger.Reverse(suite.ctx, suite.tenantB, entry.EntryID)
	suite.ErrorIs(err, apperrors.ErrCrossTenantAccess)

	_, err = suite.svc.Document.VoidDraft(suite.ctx, suite.tenantB, doc.DocumentID)
	suite.ErrorIs(err, apperrors.ErrCrossTenantAccess)

	_, err = suite.svc.Account.ResolveAccount(suite.ctx, suite.tenantB, suite.accounts["1100"])
	suite.ErrorIs(err, apperrors.ErrCrossTenantAccess)

	_, err = suite.svc.Sequence.Next(suite.ctx, suite.tenantB, "tenant-a", domain.Invoice)
	suite.ErrorIs(err, apperrors.ErrCrossTenantAccess)

	// Tenant B posting its own draft against tenant A's accounts is refused.
	docB := suite.createDraft(suite.tenantB, "EXCLUSIVE", "100.0000")
	_, err = suite.svc.Ledger.Post(suite.ctx, suite.tenantB, *docB, suite.mapping())
	suite.ErrorIs(err, apperrors.ErrCrossTenantAccess)

	// Tenant B presenting tenant A's document is refused before storage is touched.
	_, err = suite.svc.Ledger.Post(suite.ctx, suite.tenantB, *doc, suite.mapping())
	suite.ErrorIs(err, apperrors.ErrCrossTenantAccess)

	trail, err := suite.svc.Audit.ListAuditRecords(suite.ctx, suite.tenantB, dto.ListAuditParams{Limit: 100})
	suite.Require().NoError(err)
	for _, r := range trail.Records {
		suite.NotEqual(entry.EntryID, r.EntityID)
	}

	// Tenant A's entry is untouched.
	original, err := suite.svc.Ledger.GetEntry(suite.ctx, suite.tenantA, entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, original.Status)
}

func (suite *EngineTestSuite) TestVoidDraft() {
	doc := suite.createDraft(suite.tenantA, "EXCLUSIVE", "100.0000")

	voided, err := suite.svc.Document.VoidDraft(suite.ctx, suite.tenantA, doc.DocumentID)
	suite.Require().NoError(err)
	suite.Equal(domain.DocumentVoidDraft, voided.Status)

	_, err = suite.svc.Ledger.Post(suite.ctx, suite.tenantA, *doc, suite.mapping())
	suite.ErrorIs(err, apperrors.ErrInvalidState)

	_, err = suite.svc.Document.VoidDraft(suite.ctx, suite.tenantA, doc.DocumentID)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *EngineTestSuite) TestEditDraftRecalculatesAndAudits() {
	doc := suite.createDraft(suite.tenantA, "EXCLUSIVE", "100.0000")

	edited, err := suite.svc.Document.AddLine(suite.ctx, suite.tenantA, doc.DocumentID,
		dto.DocumentLineRequest{Description: "Hours", Quantity: "3", UnitPrice: "33.3333", TaxCode: "SR"})
	suite.Require().NoError(err)
	suite.Require().Len(edited.Lines, 2)
	suite.Equal("99.9999", edited.Lines[1].Amount.String())
	suite.Equal("199.9999", edited.NetTotal.String())
	suite.Equal("18.0000", edited.TaxTotal.String())
	suite.Equal("217.9999", edited.GrossTotal.String())

	reference := "PO-1187"
	edited, err = suite.svc.Document.UpdateDraft(suite.ctx, suite.tenantA, doc.DocumentID, dto.UpdateDocumentRequest{Reference: &reference})
	suite.Require().NoError(err)
	suite.Equal("PO-1187", edited.Reference)
	suite.Equal("217.9999", edited.GrossTotal.String())

	edited, err = suite.svc.Document.RemoveLine(suite.ctx, suite.tenantA, doc.DocumentID, 1)
	suite.Require().NoError(err)
	suite.Require().Len(edited.Lines, 1)
	suite.Equal(1, edited.Lines[0].LineNo)
	suite.Equal("108.9999", edited.GrossTotal.String())

	_, err = suite.svc.Document.RemoveLine(suite.ctx, suite.tenantA, doc.DocumentID, 1)
	suite.ErrorIs(err, apperrors.ErrValidation)

	stored, err := suite.svc.Document.GetDocument(suite.ctx, suite.tenantA, doc.DocumentID)
	suite.Require().NoError(err)
	suite.Equal(*edited, *stored)

	trail, err := suite.svc.Audit.ListAuditRecords(suite.ctx, suite.tenantA, dto.ListAuditParams{EntityID: doc.DocumentID, Limit: 50})
	suite.Require().NoError(err)
	updates := 0
	for _, r := range trail.Records {
		if r.Action == string(domain.AuditUpdate) {
			updates++
		}
	}
	suite.Equal(3, updates)

	entry, err := suite.svc.Ledger.Post(suite.ctx, suite.tenantA, *stored, suite.mapping())
	suite.Require().NoError(err)
	debits, _ := entry.Totals()
	suite.Equal("108.9999", debits.String())
}

func (suite *EngineTestSuite) TestEditAfterPostIsRejected() {
	doc := suite.createDraft(suite.tenantA, "EXCLUSIVE", "100.0000")
	_, err := suite.svc.Ledger.Post(suite.ctx, suite.tenantA, *doc, suite.mapping())
	suite.Require().NoError(err)

	notes := "late change"
	_, err = suite.svc.Document.UpdateDraft(suite.ctx, suite.tenantA, doc.DocumentID, dto.UpdateDocumentRequest{Notes: &notes})
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	_, err = suite.svc.Document.AddLine(suite.ctx, suite.tenantA, doc.DocumentID, dto.DocumentLineRequest{Amount: "5", TaxCode: "SR"})
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	_, err = suite.svc.Document.RemoveLine(suite.ctx, suite.tenantA, doc.DocumentID, 1)
	suite.ErrorIs(err, apperrors.ErrInvalidState)

	_, err = suite.svc.Document.UpdateDraft(suite.ctx, suite.tenantB, doc.DocumentID, dto.UpdateDocumentRequest{Notes: &notes})
	suite.ErrorIs(err, apperrors.ErrCrossTenantAccess)

	stored, err := suite.svc.Document.GetDocument(suite.ctx, suite.tenantA, doc.DocumentID)
	suite.Require().NoError(err)
	suite.Equal(domain.DocumentPosted, stored.Status)
	suite.Empty(stored.Notes)
	suite.Len(stored.Lines, 1)
}

func (suite *EngineTestSuite) TestEditRejectsOversizedTotals() {
	doc := suite.createDraft(suite.tenantA, "EXCLUSIVE", "100.0000")

	// Each line fits storage; together with tax the gross does not.
	_, err := suite.svc.Document.AddLine(suite.ctx, suite.tenantA, doc.DocumentID,
		dto.DocumentLineRequest{Amount: "999999999999999", TaxCode: "SR"})
	suite.ErrorIs(err, apperrors.ErrOutOfRange)

	_, err = suite.svc.Document.AddLine(suite.ctx, suite.tenantA, doc.DocumentID,
		dto.DocumentLineRequest{Quantity: "2", UnitPrice: "999999999999999", TaxCode: "SR"})
	suite.ErrorIs(err, apperrors.ErrOutOfRange)

	stored, err := suite.svc.Document.GetDocument(suite.ctx, suite.tenantA, doc.DocumentID)
	suite.Require().NoError(err)
	suite.Len(stored.Lines, 1)
	suite.Equal("109.0000", stored.GrossTotal.String())
}

func (suite *EngineTestSuite) TestTaxReturnCountsOnlyPostedDocuments() {
	posted := suite.createDraft(suite.tenantA, "EXCLUSIVE", "100.0000")
	_, err := suite.svc.Ledger.Post(suite.ctx, suite.tenantA, *posted, suite.mapping())
	suite.Require().NoError(err)

	reversed := suite.createDraft(suite.tenantA, "EXCLUSIVE", "50.0000")
	entry, err := suite.svc.Ledger.Post(suite.ctx, suite.tenantA, *reversed, suite.mapping())
	suite.Require().NoError(err)
	_, err = suite.svc.Ledger.Reverse(suite.ctx, suite.tenantA, entry.EntryID)
	suite.Require().NoError(err)

	suite.createDraft(suite.tenantA, "EXCLUSIVE", "70.0000")

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	ret, err := suite.svc.Tax.TaxReturn(suite.ctx, suite.tenantA, from, to)
	suite.Require().NoError(err)
	suite.Equal(1, ret.DocumentCount)
	suite.Equal("100.0000", ret.Boxes[domain.Box1].String())
	suite.Equal("100.0000", ret.Boxes[domain.Box4].String())
	suite.Equal("9.0000", ret.Boxes[domain.Box6].String())
	suite.Equal("9.0000", ret.Boxes[domain.Box8].String())

	ret, err = suite.svc.Tax.TaxReturn(suite.ctx, suite.tenantB, from, to)
	suite.Require().NoError(err)
	suite.Zero(ret.DocumentCount)
}

func (suite *EngineTestSuite) TestConcurrentPostsGetDistinctNumbers() {
	const n = 50
	docs := make([]*domain.Document, n)
	for i := range docs {
		docs[i] = suite.createDraft(suite.tenantA, "EXCLUSIVE", "10.0000")
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		refs = map[string]bool{}
	)
	for _, d := range docs {
		wg.Add(1)
		go func(d domain.Document) {
			defer wg.Done()
			entry, err := suite.svc.Ledger.Post(suite.ctx, suite.tenantA, d, suite.mapping())
			suite.NoError(err)
			if err != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			suite.False(refs[entry.Reference], "reference %s issued twice", entry.Reference)
			refs[entry.Reference] = true
		}(*d)
	}
	wg.Wait()
	suite.Len(refs, n)
}

func (suite *EngineTestSuite) TestConcurrentPostsOfOneDraftPostOnce() {
	doc := suite.createDraft(suite.tenantA, "EXCLUSIVE", "100.0000")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.svc.Ledger.Post(suite.ctx, suite.tenantA, *doc, suite.mapping())
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			suite.ErrorIs(err, apperrors.ErrInvalidState)
		}()
	}
	wg.Wait()
	suite.Equal(1, successes)
}

func (suite *EngineTestSuite) TestCreateDraftRejectsBadInput() {
	_, err := suite.svc.Document.CreateDraft(suite.ctx, suite.tenantA, dto.CreateDocumentRequest{
		DocumentType: "INVOICE", TaxMode: "EXCLUSIVE", IssueDate: "2026-01-31",
		Lines: []dto.DocumentLineRequest{{Amount: "10", TaxCode: "XX"}},
	})
	suite.ErrorIs(err, apperrors.ErrUnknownTaxCode)

	_, err = suite.svc.Document.CreateDraft(suite.ctx, suite.tenantA, dto.CreateDocumentRequest{
		DocumentType: "INVOICE", TaxMode: "EXCLUSIVE", IssueDate: "2026-01-31",
		Lines: []dto.DocumentLineRequest{{Amount: "10.00001", TaxCode: "SR"}},
	})
	suite.ErrorIs(err, apperrors.ErrPrecision)

	_, err = suite.svc.Document.CreateDraft(suite.ctx, suite.tenantA, dto.CreateDocumentRequest{
		DocumentType: "INVOICE", TaxMode: "EXCLUSIVE", IssueDate: "2026-01-31",
		Lines: []dto.DocumentLineRequest{{Amount: "-5", TaxCode: "SR"}},
	})
	suite.ErrorIs(err, apperrors.ErrNegativeNotAllowed)

	_, err = suite.svc.Document.CreateDraft(suite.ctx, suite.tenantA, dto.CreateDocumentRequest{
		DocumentType: "REVERSAL", TaxMode: "EXCLUSIVE", IssueDate: "2026-01-31",
		Lines: []dto.DocumentLineRequest{{Amount: "5", TaxCode: "SR"}},
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}
