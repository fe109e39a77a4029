package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
)

// DocumentType selects the numbering sequence and prefix of a document.
type DocumentType string

const (
	Invoice         DocumentType = "INVOICE"
	CreditNote      DocumentType = "CREDIT_NOTE"
	DebitNote       DocumentType = "DEBIT_NOTE"
	PurchaseInvoice DocumentType = "PURCHASE_INVOICE"
	// ReversalDocument numbers reversal entries; it has no document of its own.
	ReversalDocument DocumentType = "REVERSAL"
)

var documentPrefixes = map[DocumentType]string{
	Invoice:          "INV",
	CreditNote:       "CN",
	DebitNote:        "DN",
	PurchaseInvoice:  "PI",
	ReversalDocument: "RV",
}

// ParseDocumentType accepts the types a caller may create. REVERSAL is internal.
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(s)
	if _, ok := documentPrefixes[t]; !ok || t == ReversalDocument {
		return "", fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, s)
	}
	return t, nil
}

// FormatNumber renders an allocated sequence value, e.g. INV-00042.
func (t DocumentType) FormatNumber(n int64) string {
	prefix, ok := documentPrefixes[t]
	if !ok {
		prefix = string(t)
	}
	return fmt.Sprintf("%s-%05d", prefix, n)
}

// DocumentStatus follows DRAFT -> POSTED -> REVERSED, or DRAFT -> VOID_DRAFT.
type DocumentStatus string

const (
	DocumentDraft     DocumentStatus = "DRAFT"
	DocumentPosted    DocumentStatus = "POSTED"
	DocumentReversed  DocumentStatus = "REVERSED"
	DocumentVoidDraft DocumentStatus = "VOID_DRAFT"
)

// CanTransitionTo reports whether next is a legal successor of s.
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	switch s {
	case DocumentDraft:
		return next == DocumentPosted || next == DocumentVoidDraft
	case DocumentPosted:
		return next == DocumentReversed
	}
	return false
}

// DocumentLine is one priced line of a document. Amount is always
// UnitPrice × Quantity at InternalScale; build lines with NewDocumentLine.
type DocumentLine struct {
	LineNo          int      `json:"lineNo"`
	Description     string   `json:"description"`
	Quantity        Quantity `json:"quantity"`
	UnitPrice       Money    `json:"unitPrice"`
	Amount          Money    `json:"amount"`
	TaxCode         string   `json:"taxCode"`
	IsExemptDeposit bool     `json:"isExemptDeposit"`
}

// NewDocumentLine prices a line. The unit price must be non-negative and the resulting
// amount must fit storage.
func NewDocumentLine(description string, quantity Quantity, unitPrice Money, taxCode string, isExemptDeposit bool) (DocumentLine, error) {
	if quantity.IsZero() {
		return DocumentLine{}, fmt.Errorf("%w: quantity is required", apperrors.ErrValidation)
	}
	if unitPrice.IsNegative() {
		return DocumentLine{}, &apperrors.NegativeNotAllowedError{Field: "unit price", Value: unitPrice.String()}
	}
	amount := unitPrice.MultiplyQuantity(quantity)
	if err := amount.CheckStorable("line amount"); err != nil {
		return DocumentLine{}, err
	}
	return DocumentLine{
		Description:     description,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		Amount:          amount,
		TaxCode:         taxCode,
		IsExemptDeposit: isExemptDeposit,
	}, nil
}

// Document is an invoice-like record whose lines feed the tax engine and whose posting
// creates a journal entry.
type Document struct {
	DocumentID     string                  `json:"documentID"`
	TenantID       string                  `json:"tenantID"`
	DocumentType   DocumentType            `json:"documentType"`
	DocumentNumber *string                 `json:"documentNumber,omitempty"`
	Status         DocumentStatus          `json:"status"`
	TaxMode        TaxMode                 `json:"taxMode"`
	IssueDate      time.Time               `json:"issueDate"`
	Reference      string                  `json:"reference"`
	Notes          string                  `json:"notes"`
	Lines          []DocumentLine          `json:"lines"`
	JournalEntryID *string                 `json:"journalEntryID,omitempty"`
	NetTotal       Money                   `json:"netTotal"`
	TaxTotal       Money                   `json:"taxTotal"`
	GrossTotal     Money                   `json:"grossTotal"`
	Boxes          map[RegulatoryBox]Money `json:"boxes,omitempty"`
	AuditFields
}

// TaxLines converts the document lines into calculation inputs.
func (d Document) TaxLines() []TaxLine {
	out := make([]TaxLine, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = TaxLine{Base: l.Amount, TaxCode: l.TaxCode, IsExemptDeposit: l.IsExemptDeposit}
	}
	return out
}

// RequireDraft fails with InvalidStateError unless the document is still a DRAFT.
func (d Document) RequireDraft() error {
	if d.Status != DocumentDraft {
		return &apperrors.InvalidStateError{Entity: "document " + d.DocumentID, CurrentStatus: string(d.Status), Wanted: string(DocumentDraft)}
	}
	return nil
}

// SetLines replaces the lines and numbers them from 1.
func (d *Document) SetLines(lines []DocumentLine) {
	d.Lines = make([]DocumentLine, len(lines))
	for i, l := range lines {
		l.LineNo = i + 1
		d.Lines[i] = l
	}
}

// AddLine appends line as the last line.
func (d *Document) AddLine(line DocumentLine) {
	d.SetLines(append(append([]DocumentLine(nil), d.Lines...), line))
}

// RemoveLine drops line lineNo and renumbers the rest. A document keeps at least one line.
func (d *Document) RemoveLine(lineNo int) error {
	idx := -1
	for i, l := range d.Lines {
		if l.LineNo == lineNo {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: line %d of document %s", apperrors.ErrNotFound, lineNo, d.DocumentID)
	}
	if len(d.Lines) == 1 {
		return fmt.Errorf("%w: a document needs at least one line", apperrors.ErrValidation)
	}
	rest := make([]DocumentLine, 0, len(d.Lines)-1)
	rest = append(rest, d.Lines[:idx]...)
	rest = append(rest, d.Lines[idx+1:]...)
	d.SetLines(rest)
	return nil
}

// ApplyBreakdown overwrites the stored totals with a fresh calculation.
func (d *Document) ApplyBreakdown(b *TaxBreakdown) {
	d.NetTotal = b.Net
	d.TaxTotal = b.Tax
	d.GrossTotal = b.Gross
	d.Boxes = b.Boxes
}

// PostingTarget says where one breakdown component lands.
type PostingTarget struct {
	AccountID string `json:"accountID"`
	Side      Side   `json:"side"`
}

// AccountMapping routes the net, tax and gross components of a breakdown to accounts.
// A nil target skips that component.
type AccountMapping struct {
	Net   *PostingTarget `json:"net,omitempty"`
	Tax   *PostingTarget `json:"tax,omitempty"`
	Gross *PostingTarget `json:"gross,omitempty"`
}
