package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
)

// DocumentLineRequest is one line of a draft. A line is priced either by unitPrice and
// an optional quantity (default 1), or by a single amount, which is the same as a
// quantity of 1 at that price.
type DocumentLineRequest struct {
	Description     string `json:"description" binding:"max=500"`
	Quantity        string `json:"quantity" binding:"excluded_with=Amount,quantity" example:"2"`
	UnitPrice       string `json:"unitPrice" binding:"required_without=Amount,excluded_with=Amount,decimal4" example:"50.00"`
	Amount          string `json:"amount" binding:"required_without=UnitPrice,decimal4" example:"100.00"`
	TaxCode         string `json:"taxCode" binding:"required" example:"SR"`
	IsExemptDeposit bool   `json:"isExemptDeposit"`
}

// ToDocumentLine prices the line. The line number is assigned by the document.
func (l DocumentLineRequest) ToDocumentLine() (domain.DocumentLine, error) {
	priceText := l.UnitPrice
	switch {
	case l.Amount != "" && (l.UnitPrice != "" || l.Quantity != ""):
		return domain.DocumentLine{}, fmt.Errorf("%w: give either amount or unitPrice with quantity", apperrors.ErrValidation)
	case l.Amount != "":
		priceText = l.Amount
	case l.UnitPrice == "":
		return domain.DocumentLine{}, fmt.Errorf("%w: amount or unitPrice is required", apperrors.ErrValidation)
	}

	quantity := domain.OneUnit()
	if l.Quantity != "" {
		q, err := domain.ParseQuantity(l.Quantity)
		if err != nil {
			return domain.DocumentLine{}, err
		}
		quantity = q
	}
	price, err := domain.ParseMoney(priceText)
	if err != nil {
		return domain.DocumentLine{}, err
	}
	return domain.NewDocumentLine(l.Description, quantity, price, l.TaxCode, l.IsExemptDeposit)
}

// ToDocumentLines prices every line and numbers them from 1.
func ToDocumentLines(reqs []DocumentLineRequest) ([]domain.DocumentLine, error) {
	out := make([]domain.DocumentLine, len(reqs))
	for i, l := range reqs {
		line, err := l.ToDocumentLine()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		line.LineNo = i + 1
		out[i] = line
	}
	return out, nil
}

// CreateDocumentRequest defines the data needed to create a draft document.
type CreateDocumentRequest struct {
	DocumentType string                `json:"documentType" binding:"required,oneof=INVOICE CREDIT_NOTE DEBIT_NOTE PURCHASE_INVOICE"`
	TaxMode      string                `json:"taxMode" binding:"required,taxmode"`
	IssueDate    string                `json:"issueDate" binding:"required" example:"2026-01-31"`
	Reference    string                `json:"reference" binding:"max=200" example:"PO-1187"`
	Notes        string                `json:"notes" binding:"max=2000"`
	Lines        []DocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToDocumentLines parses the request lines.
func (r CreateDocumentRequest) ToDocumentLines() ([]domain.DocumentLine, error) {
	return ToDocumentLines(r.Lines)
}

func (r CreateDocumentRequest) ParsedIssueDate() (time.Time, error) {
	return parseIssueDate(r.IssueDate)
}

// UpdateDocumentRequest edits a draft. Absent fields keep their stored value; lines,
// when present, replace every existing line.
type UpdateDocumentRequest struct {
	TaxMode   *string               `json:"taxMode" binding:"omitempty,taxmode"`
	IssueDate *string               `json:"issueDate" example:"2026-01-31"`
	Reference *string               `json:"reference" binding:"omitempty,max=200"`
	Notes     *string               `json:"notes" binding:"omitempty,max=2000"`
	Lines     []DocumentLineRequest `json:"lines" binding:"omitempty,dive"`
}

// Apply writes the requested changes onto d.
func (r UpdateDocumentRequest) Apply(d *domain.Document) error {
	if r.TaxMode != nil {
		mode, err := domain.ParseTaxMode(*r.TaxMode)
		if err != nil {
			return err
		}
		d.TaxMode = mode
	}
	if r.IssueDate != nil {
		date, err := parseIssueDate(*r.IssueDate)
		if err != nil {
			return err
		}
		d.IssueDate = date
	}
	if r.Reference != nil {
		d.Reference = *r.Reference
	}
	if r.Notes != nil {
		d.Notes = *r.Notes
	}
	if r.Lines != nil {
		if len(r.Lines) == 0 {
			return fmt.Errorf("%w: a document needs at least one line", apperrors.ErrValidation)
		}
		lines, err := ToDocumentLines(r.Lines)
		if err != nil {
			return err
		}
		d.SetLines(lines)
	}
	return nil
}

func parseIssueDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: issueDate must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	return d, nil
}

// PostingTargetRequest routes one breakdown component.
type PostingTargetRequest struct {
	AccountID string `json:"accountID" binding:"required"`
	Side      string `json:"side" binding:"required,oneof=DEBIT CREDIT"`
}

// PostDocumentRequest carries the account mapping used to build the journal entry.
type PostDocumentRequest struct {
	Net   *PostingTargetRequest `json:"net"`
	Tax   *PostingTargetRequest `json:"tax"`
	Gross *PostingTargetRequest `json:"gross"`
}

func (r PostDocumentRequest) ToAccountMapping() domain.AccountMapping {
	conv := func(t *PostingTargetRequest) *domain.PostingTarget {
		if t == nil {
			return nil
		}
		return &domain.PostingTarget{AccountID: t.AccountID, Side: domain.Side(t.Side)}
	}
	return domain.AccountMapping{Net: conv(r.Net), Tax: conv(r.Tax), Gross: conv(r.Gross)}
}

// DocumentLineResponse mirrors domain.DocumentLine with exact text amounts.
type DocumentLineResponse struct {
	LineNo          int    `json:"lineNo"`
	Description     string `json:"description"`
	Quantity        string `json:"quantity"`
	UnitPrice       string `json:"unitPrice"`
	Amount          string `json:"amount"`
	TaxCode         string `json:"taxCode"`
	IsExemptDeposit bool   `json:"isExemptDeposit"`
}

// DocumentResponse defines the data returned for a document.
type DocumentResponse struct {
	DocumentID     string                 `json:"documentID"`
	DocumentType   string                 `json:"documentType"`
	DocumentNumber *string                `json:"documentNumber,omitempty"`
	Status         string                 `json:"status"`
	TaxMode        string                 `json:"taxMode"`
	IssueDate      string                 `json:"issueDate"`
	Reference      string                 `json:"reference,omitempty"`
	Notes          string                 `json:"notes,omitempty"`
	JournalEntryID *string                `json:"journalEntryID,omitempty"`
	Lines          []DocumentLineResponse `json:"lines"`
	Net            AmountView             `json:"net"`
	Tax            AmountView             `json:"tax"`
	Gross          AmountView             `json:"gross"`
	CreatedAt      time.Time              `json:"createdAt"`
	CreatedBy      string                 `json:"createdBy"`
	LastUpdatedAt  time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy  string                 `json:"lastUpdatedBy"`
}

func ToDocumentResponse(d *domain.Document) DocumentResponse {
	lines := make([]DocumentLineResponse, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = DocumentLineResponse{
			LineNo:          l.LineNo,
			Description:     l.Description,
			Quantity:        l.Quantity.String(),
			UnitPrice:       l.UnitPrice.String(),
			Amount:          l.Amount.String(),
			TaxCode:         l.TaxCode,
			IsExemptDeposit: l.IsExemptDeposit,
		}
	}
	return DocumentResponse{
		DocumentID:     d.DocumentID,
		DocumentType:   string(d.DocumentType),
		DocumentNumber: d.DocumentNumber,
		Status:         string(d.Status),
		TaxMode:        string(d.TaxMode),
		IssueDate:      d.IssueDate.Format(dateLayout),
		Reference:      d.Reference,
		Notes:          d.Notes,
		JournalEntryID: d.JournalEntryID,
		Lines:          lines,
		Net:            NewAmountView(d.NetTotal),
		Tax:            NewAmountView(d.TaxTotal),
		Gross:          NewAmountView(d.GrossTotal),
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
		LastUpdatedAt:  d.LastUpdatedAt,
		LastUpdatedBy:  d.LastUpdatedBy,
	}
}
