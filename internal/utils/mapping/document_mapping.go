package mapping

import (
	"fmt"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	"github.com/SscSPs/bookkeeping_engine/internal/models"
)

// ToModelDocument converts a domain Document to its header row.
func ToModelDocument(d domain.Document) models.Document {
	return models.Document{
		DocumentID:     d.DocumentID,
		TenantID:       d.TenantID,
		DocumentType:   string(d.DocumentType),
		DocumentNumber: d.DocumentNumber,
		Status:         string(d.Status),
		TaxMode:        string(d.TaxMode),
		IssueDate:      d.IssueDate,
		Reference:      d.Reference,
		Notes:          d.Notes,
		JournalEntryID: d.JournalEntryID,
		NetTotal:       d.NetTotal.Decimal(),
		TaxTotal:       d.TaxTotal.Decimal(),
		GrossTotal:     d.GrossTotal.Decimal(),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToModelDocumentLines converts the document's lines to rows.
func ToModelDocumentLines(d domain.Document) []models.DocumentLine {
	out := make([]models.DocumentLine, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = models.DocumentLine{
			DocumentID:      d.DocumentID,
			LineNo:          l.LineNo,
			Description:     l.Description,
			Quantity:        l.Quantity.Decimal(),
			UnitPrice:       l.UnitPrice.Decimal(),
			Amount:          l.Amount.Decimal(),
			TaxCode:         l.TaxCode,
			IsExemptDeposit: l.IsExemptDeposit,
		}
	}
	return out
}

// ToModelDocumentTaxBoxes converts box totals to rows, in the fixed box order.
func ToModelDocumentTaxBoxes(documentID string, boxes map[domain.RegulatoryBox]domain.Money) []models.DocumentTaxBox {
	out := make([]models.DocumentTaxBox, 0, len(boxes))
	for _, box := range domain.RegulatoryBoxes {
		amount, ok := boxes[box]
		if !ok {
			continue
		}
		out = append(out, models.DocumentTaxBox{DocumentID: documentID, Box: string(box), Amount: amount.Decimal()})
	}
	return out
}

// ToDomainDocument assembles a domain document from its rows.
func ToDomainDocument(m models.Document, lines []models.DocumentLine, boxes []models.DocumentTaxBox) (domain.Document, error) {
	net, err := domain.NewMoneyFromDecimal(m.NetTotal)
	if err != nil {
		return domain.Document{}, fmt.Errorf("document %s net total: %w", m.DocumentID, err)
	}
	tax, err := domain.NewMoneyFromDecimal(m.TaxTotal)
	if err != nil {
		return domain.Document{}, fmt.Errorf("document %s tax total: %w", m.DocumentID, err)
	}
	gross, err := domain.NewMoneyFromDecimal(m.GrossTotal)
	if err != nil {
		return domain.Document{}, fmt.Errorf("document %s gross total: %w", m.DocumentID, err)
	}

	doc := domain.Document{
		DocumentID:     m.DocumentID,
		TenantID:       m.TenantID,
		DocumentType:   domain.DocumentType(m.DocumentType),
		DocumentNumber: m.DocumentNumber,
		Status:         domain.DocumentStatus(m.Status),
		TaxMode:        domain.TaxMode(m.TaxMode),
		IssueDate:      m.IssueDate,
		Reference:      m.Reference,
		Notes:          m.Notes,
		JournalEntryID: m.JournalEntryID,
		NetTotal:       net,
		TaxTotal:       tax,
		GrossTotal:     gross,
		Lines:          make([]domain.DocumentLine, len(lines)),
		Boxes:          domain.NewBoxTotals(),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	for i, l := range lines {
		line, err := toDomainDocumentLine(l)
		if err != nil {
			return domain.Document{}, fmt.Errorf("document %s line %d: %w", m.DocumentID, l.LineNo, err)
		}
		doc.Lines[i] = line
	}
	for _, b := range boxes {
		amount, err := domain.NewMoneyFromDecimal(b.Amount)
		if err != nil {
			return domain.Document{}, fmt.Errorf("document %s box %s: %w", m.DocumentID, b.Box, err)
		}
		doc.Boxes[domain.RegulatoryBox(b.Box)] = amount
	}
	return doc, nil
}

// toDomainDocumentLine keeps the stored amount rather than repricing it.
func toDomainDocumentLine(l models.DocumentLine) (domain.DocumentLine, error) {
	quantity, err := domain.NewQuantityFromDecimal(l.Quantity)
	if err != nil {
		return domain.DocumentLine{}, err
	}
	unitPrice, err := domain.NewMoneyFromDecimal(l.UnitPrice)
	if err != nil {
		return domain.DocumentLine{}, err
	}
	amount, err := domain.NewMoneyFromDecimal(l.Amount)
	if err != nil {
		return domain.DocumentLine{}, err
	}
	return domain.DocumentLine{
		LineNo:          l.LineNo,
		Description:     l.Description,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		Amount:          amount,
		TaxCode:         l.TaxCode,
		IsExemptDeposit: l.IsExemptDeposit,
	}, nil
}
