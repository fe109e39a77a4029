package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_engine/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	store *memory.Store
	ctx   context.Context
}

func (suite *StoreTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.ctx = context.Background()
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func draft(id, tenant string) domain.Document {
	return domain.Document{
		DocumentID:   id,
		TenantID:     tenant,
		DocumentType: domain.Invoice,
		Status:       domain.DocumentDraft,
		TaxMode:      domain.TaxExclusive,
		IssueDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []domain.DocumentLine{
			{LineNo: 1, Quantity: domain.OneUnit(), UnitPrice: domain.MustParseMoney("100"), Amount: domain.MustParseMoney("100"), TaxCode: "SR"},
		},
	}
}

func (suite *StoreTestSuite) TestWithinTx_RollsBackOnError() {
	boom := errors.New("boom")

	err := suite.store.WithinTx(suite.ctx, func(ctx context.Context) error {
		suite.Require().NoError(suite.store.SaveDocument(ctx, draft("doc-1", "tenant-a")))
		suite.Require().NoError(suite.store.InsertAuditRecord(ctx, domain.AuditRecord{AuditID: "a1", TenantID: "tenant-a"}))
		return boom
	})
	suite.ErrorIs(err, boom)

	_, err = suite.store.FindDocumentByID(suite.ctx, "tenant-a", "doc-1")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	records, _, err := suite.store.ListAuditRecords(suite.ctx, "tenant-a", domain.AuditFilter{}, 10, nil)
	suite.Require().NoError(err)
	suite.Empty(records)
}

func (suite *StoreTestSuite) TestWithinTx_CommitsAndNests() {
	err := suite.store.WithinTx(suite.ctx, func(ctx context.Context) error {
		return suite.store.WithinTx(ctx, func(inner context.Context) error {
			return suite.store.SaveDocument(inner, draft("doc-1", "tenant-a"))
		})
	})
	suite.Require().NoError(err)

	doc, err := suite.store.FindDocumentByID(suite.ctx, "tenant-a", "doc-1")
	suite.Require().NoError(err)
	suite.Equal(domain.DocumentDraft, doc.Status)
}

func (suite *StoreTestSuite) TestCrossTenantLookupsRevealNothing() {
	suite.Require().NoError(suite.store.SaveDocument(suite.ctx, draft("doc-1", "tenant-a")))
	suite.Require().NoError(suite.store.SaveAccount(suite.ctx, domain.Account{AccountID: "acc-1", TenantID: "tenant-a", Code: "1000"}))
	suite.Require().NoError(suite.store.SaveEntry(suite.ctx, domain.JournalEntry{EntryID: "je-1", TenantID: "tenant-a", Status: domain.Posted}))

	doc, err := suite.store.FindDocumentByID(suite.ctx, "tenant-b", "doc-1")
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrCrossTenantAccess)

	acc, err := suite.store.FindAccountByID(suite.ctx, "tenant-b", "acc-1")
	suite.Nil(acc)
	suite.ErrorIs(err, apperrors.ErrCrossTenantAccess)

	entry, err := suite.store.FindEntryByID(suite.ctx, "tenant-b", "je-1")
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrCrossTenantAccess)

	err = suite.store.MarkEntryReversed(suite.ctx, "tenant-b", "je-1", "je-2")
	suite.ErrorIs(err, apperrors.ErrCrossTenantAccess)

	_, err = suite.store.FindAccountByID(suite.ctx, "tenant-a", "missing")
	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *StoreTestSuite) TestMarkEntryReversedOnlyOnce() {
	suite.Require().NoError(suite.store.SaveEntry(suite.ctx, domain.JournalEntry{EntryID: "je-1", TenantID: "tenant-a", Status: domain.Posted}))

	suite.Require().NoError(suite.store.MarkEntryReversed(suite.ctx, "tenant-a", "je-1", "je-2"))
	err := suite.store.MarkEntryReversed(suite.ctx, "tenant-a", "je-1", "je-3")
	suite.ErrorIs(err, apperrors.ErrAlreadyReversed)

	entry, err := suite.store.FindEntryByID(suite.ctx, "tenant-a", "je-1")
	suite.Require().NoError(err)
	suite.Equal(domain.Reversed, entry.Status)
	suite.Equal("je-2", *entry.ReversedByEntryID)
}

func (suite *StoreTestSuite) TestDocumentStatusTransitions() {
	suite.Require().NoError(suite.store.SaveDocument(suite.ctx, draft("doc-1", "tenant-a")))
	now := time.Now().UTC()

	err := suite.store.UpdateDocumentStatus(suite.ctx, "tenant-a", "doc-1", domain.DocumentPosted, domain.DocumentReversed, "u", now)
	suite.ErrorIs(err, apperrors.ErrInvalidState)

	breakdown := domain.TaxBreakdown{
		Net:   domain.MustParseMoney("100"),
		Tax:   domain.MustParseMoney("9"),
		Gross: domain.MustParseMoney("109"),
		Boxes: domain.NewBoxTotals(),
	}
	breakdown.Boxes[domain.Box1] = domain.MustParseMoney("100")
	breakdown.Boxes[domain.Box6] = domain.MustParseMoney("9")

	posting := portsrepo.DocumentPosting{
		TenantID: "tenant-a", DocumentID: "doc-1", DocumentNumber: "INV-00001",
		JournalEntryID: "je-1", Breakdown: breakdown, PostedBy: "u", PostedAt: now,
	}
	suite.Require().NoError(suite.store.MarkDocumentPosted(suite.ctx, posting))
	suite.ErrorIs(suite.store.MarkDocumentPosted(suite.ctx, posting), apperrors.ErrInvalidState)

	doc, err := suite.store.FindDocumentByID(suite.ctx, "tenant-a", "doc-1")
	suite.Require().NoError(err)
	suite.Equal(domain.DocumentPosted, doc.Status)
	suite.Equal("INV-00001", *doc.DocumentNumber)
	suite.Equal("109.0000", doc.GrossTotal.String())

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	boxes, count, err := suite.store.SumPostedBoxes(suite.ctx, "tenant-a", from, to)
	suite.Require().NoError(err)
	suite.Equal(1, count)
	suite.Equal("100.0000", boxes[domain.Box1].String())
	suite.Equal("9.0000", boxes[domain.Box6].String())

	suite.Require().NoError(suite.store.UpdateDocumentStatus(suite.ctx, "tenant-a", "doc-1", domain.DocumentPosted, domain.DocumentReversed, "u", now))
	_, count, err = suite.store.SumPostedBoxes(suite.ctx, "tenant-a", from, to)
	suite.Require().NoError(err)
	suite.Zero(count)
}

func (suite *StoreTestSuite) TestUpdateDraftDocument() {
	doc := draft("doc-1", "tenant-a")
	suite.Require().NoError(suite.store.SaveDocument(suite.ctx, doc))

	edited := doc
	edited.Notes = "second delivery"
	edited.Status = domain.DocumentPosted // ignored; status only moves through its own transitions
	edited.AddLine(domain.DocumentLine{Quantity: domain.MustParseQuantity("2"), UnitPrice: domain.MustParseMoney("5"), Amount: domain.MustParseMoney("10"), TaxCode: "ZR"})
	suite.Require().NoError(suite.store.UpdateDraftDocument(suite.ctx, edited))

	got, err := suite.store.FindDocumentByID(suite.ctx, "tenant-a", "doc-1")
	suite.Require().NoError(err)
	suite.Equal(domain.DocumentDraft, got.Status)
	suite.Equal("second delivery", got.Notes)
	suite.Require().Len(got.Lines, 2)
	suite.Equal(2, got.Lines[1].LineNo)

	edited.TenantID = "tenant-b"
	suite.ErrorIs(suite.store.UpdateDraftDocument(suite.ctx, edited), apperrors.ErrCrossTenantAccess)

	at := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	suite.Require().NoError(suite.store.UpdateDocumentStatus(suite.ctx, "tenant-a", "doc-1", domain.DocumentDraft, domain.DocumentVoidDraft, "u", at))
	edited.TenantID = "tenant-a"
	suite.ErrorIs(suite.store.UpdateDraftDocument(suite.ctx, edited), apperrors.ErrInvalidState)
}

func (suite *StoreTestSuite) TestDuplicateAccountCodePerTenant() {
	suite.Require().NoError(suite.store.SaveAccount(suite.ctx, domain.Account{AccountID: "a1", TenantID: "t1", Code: "1000"}))
	suite.ErrorIs(suite.store.SaveAccount(suite.ctx, domain.Account{AccountID: "a2", TenantID: "t1", Code: "1000"}), apperrors.ErrDuplicate)
	suite.NoError(suite.store.SaveAccount(suite.ctx, domain.Account{AccountID: "a3", TenantID: "t2", Code: "1000"}))
}

func (suite *StoreTestSuite) TestTenantTaxCodesOverrideSystemCodes() {
	store := memory.NewStore(memory.WithTaxCodes("t1", domain.TaxCode{
		Code: "SR", Name: "Standard 8%", Rate: domain.MustParseRate("8"),
		Category: domain.CategoryStandard, Direction: domain.DirectionSupply,
	}))

	codes, err := store.ListTaxCodes(suite.ctx, "t1")
	suite.Require().NoError(err)
	suite.Len(codes, len(domain.DefaultTaxCodes()))
	for _, c := range codes {
		if c.Code == "SR" {
			suite.Equal("8", c.Rate.String())
		}
	}

	codes, err = store.ListTaxCodes(suite.ctx, "t2")
	suite.Require().NoError(err)
	for _, c := range codes {
		if c.Code == "SR" {
			suite.Equal(domain.StandardGSTRate, c.Rate.String())
		}
	}
}

func TestListAuditRecords_Paginates(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, store.InsertAuditRecord(ctx, domain.AuditRecord{
			AuditID: id, TenantID: "t1", EntityType: domain.EntityDocument, EntityID: "doc",
			Action: domain.AuditCreate, CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, store.InsertAuditRecord(ctx, domain.AuditRecord{AuditID: "z", TenantID: "t2", CreatedAt: base}))

	page, next, err := store.ListAuditRecords(ctx, "t1", domain.AuditFilter{}, 2, nil)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []string{"e", "d"}, ids(page))

	page, next, err = store.ListAuditRecords(ctx, "t1", domain.AuditFilter{}, 2, next)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []string{"c", "b"}, ids(page))

	page, next, err = store.ListAuditRecords(ctx, "t1", domain.AuditFilter{}, 2, next)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, []string{"a"}, ids(page))

	page, _, err = store.ListAuditRecords(ctx, "t1", domain.AuditFilter{EntityType: domain.EntityAccount}, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, page)

	bad := "%%%"
	_, _, err = store.ListAuditRecords(ctx, "t1", domain.AuditFilter{}, 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func ids(records []domain.AuditRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.AuditID
	}
	return out
}
