package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is the documents table row.
type Document struct {
	DocumentID     string          `db:"document_id"`
	TenantID       string          `db:"tenant_id"`
	DocumentType   string          `db:"document_type"`
	DocumentNumber *string         `db:"document_number"`
	Status         string          `db:"status"`
	TaxMode        string          `db:"tax_mode"`
	IssueDate      time.Time       `db:"issue_date"`
	Reference      string          `db:"reference"`
	Notes          string          `db:"notes"`
	JournalEntryID *string         `db:"journal_entry_id"`
	NetTotal       decimal.Decimal `db:"net_total"`
	TaxTotal       decimal.Decimal `db:"tax_total"`
	GrossTotal     decimal.Decimal `db:"gross_total"`
	AuditFields
}

// DocumentLine is the document_lines table row.
type DocumentLine struct {
	DocumentID      string          `db:"document_id"`
	LineNo          int             `db:"line_no"`
	Description     string          `db:"description"`
	Quantity        decimal.Decimal `db:"quantity"`
	UnitPrice       decimal.Decimal `db:"unit_price"`
	Amount          decimal.Decimal `db:"amount"`
	TaxCode         string          `db:"tax_code"`
	IsExemptDeposit bool            `db:"is_exempt_deposit"`
}

// DocumentTaxBox is one document_tax_boxes row: a document's contribution to a return box.
type DocumentTaxBox struct {
	DocumentID string          `db:"document_id"`
	Box        string          `db:"box"`
	Amount     decimal.Decimal `db:"amount"`
}
