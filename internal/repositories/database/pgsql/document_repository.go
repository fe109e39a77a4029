package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_engine/internal/models"
	"github.com/SscSPs/bookkeeping_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for documents, their lines and box totals.
func newPgxDocumentRepository(pool *pgxpool.Pool) *PgxDocumentRepository {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

const documentColumns = `document_id, tenant_id, document_type, document_number, status, tax_mode, issue_date,
	reference, notes, journal_entry_id, net_total, tax_total, gross_total, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, document domain.Document) error {
	q := r.db(ctx)
	m := mapping.ToModelDocument(document)

	query := `INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`
	if _, err := q.Exec(ctx, query,
		m.DocumentID, m.TenantID, m.DocumentType, m.DocumentNumber, m.Status, m.TaxMode, m.IssueDate,
		m.Reference, m.Notes, m.JournalEntryID, m.NetTotal, m.TaxTotal, m.GrossTotal,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	); err != nil {
		return mapWriteError(err, "document "+m.DocumentID)
	}

	batch := &pgx.Batch{}
	queueLines(batch, document)
	queueBoxes(batch, document.DocumentID, document.Boxes)
	return execBatch(ctx, q, batch, "lines of document "+m.DocumentID)
}

func queueLines(batch *pgx.Batch, document domain.Document) {
	for _, l := range mapping.ToModelDocumentLines(document) {
		batch.Queue(`
			INSERT INTO document_lines (document_id, line_no, description, quantity, unit_price, amount, tax_code, is_exempt_deposit)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`, l.DocumentID, l.LineNo, l.Description, l.Quantity, l.UnitPrice, l.Amount, l.TaxCode, l.IsExemptDeposit)
	}
}

// UpdateDraftDocument rewrites the header, lines and preview boxes of a document
// that is still a draft.
func (r *PgxDocumentRepository) UpdateDraftDocument(ctx context.Context, document domain.Document) error {
	q := r.db(ctx)
	m := mapping.ToModelDocument(document)
	tag, err := q.Exec(ctx, `
		UPDATE documents
		SET tax_mode = $3, issue_date = $4, reference = $5, notes = $6,
			net_total = $7, tax_total = $8, gross_total = $9,
			last_updated_at = $10, last_updated_by = $11
		WHERE document_id = $1 AND tenant_id = $2 AND status = $12;
	`, m.DocumentID, m.TenantID, m.TaxMode, m.IssueDate, m.Reference, m.Notes,
		m.NetTotal, m.TaxTotal, m.GrossTotal, m.LastUpdatedAt, m.LastUpdatedBy, string(domain.DocumentDraft))
	if err != nil {
		return mapWriteError(err, "document "+m.DocumentID)
	}
	if tag.RowsAffected() != 1 {
		return r.stateError(ctx, m.TenantID, m.DocumentID, domain.DocumentDraft)
	}

	if _, err := q.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1;`, m.DocumentID); err != nil {
		return fmt.Errorf("failed to clear lines of document %s: %w", m.DocumentID, err)
	}
	if _, err := q.Exec(ctx, `DELETE FROM document_tax_boxes WHERE document_id = $1;`, m.DocumentID); err != nil {
		return fmt.Errorf("failed to clear boxes of document %s: %w", m.DocumentID, err)
	}
	batch := &pgx.Batch{}
	queueLines(batch, document)
	queueBoxes(batch, document.DocumentID, document.Boxes)
	return execBatch(ctx, q, batch, "lines of document "+m.DocumentID)
}

func queueBoxes(batch *pgx.Batch, documentID string, boxes map[domain.RegulatoryBox]domain.Money) {
	for _, b := range mapping.ToModelDocumentTaxBoxes(documentID, boxes) {
		batch.Queue(`INSERT INTO document_tax_boxes (document_id, box, amount) VALUES ($1, $2, $3);`,
			b.DocumentID, b.Box, b.Amount)
	}
}

func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, tenantID, documentID string) (*domain.Document, error) {
	return r.findDocument(ctx, tenantID, documentID, false)
}

func (r *PgxDocumentRepository) FindDocumentByIDForUpdate(ctx context.Context, tenantID, documentID string) (*domain.Document, error) {
	return r.findDocument(ctx, tenantID, documentID, true)
}

func (r *PgxDocumentRepository) findDocument(ctx context.Context, tenantID, documentID string, forUpdate bool) (*domain.Document, error) {
	q := r.db(ctx)
	query := `SELECT ` + documentColumns + ` FROM documents WHERE document_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var m models.Document
	err := q.QueryRow(ctx, query, documentID).Scan(
		&m.DocumentID, &m.TenantID, &m.DocumentType, &m.DocumentNumber, &m.Status, &m.TaxMode, &m.IssueDate,
		&m.Reference, &m.Notes, &m.JournalEntryID, &m.NetTotal, &m.TaxTotal, &m.GrossTotal,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, documentID)
		}
		return nil, fmt.Errorf("failed to find document %s: %w", documentID, err)
	}
	if m.TenantID != tenantID {
		return nil, &apperrors.CrossTenantAccessError{Resource: "document " + documentID, ContextTenant: tenantID, TargetTenant: m.TenantID}
	}

	lines, err := r.findLines(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	boxes, err := r.findBoxes(ctx, q, documentID)
	if err != nil {
		return nil, err
	}

	doc, err := mapping.ToDomainDocument(m, lines, boxes)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *PgxDocumentRepository) findLines(ctx context.Context, q querier, documentID string) ([]models.DocumentLine, error) {
	rows, err := q.Query(ctx, `
		SELECT document_id, line_no, description, quantity, unit_price, amount, tax_code, is_exempt_deposit
		FROM document_lines WHERE document_id = $1 ORDER BY line_no;
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query document lines: %w", err)
	}
	defer rows.Close()

	var lines []models.DocumentLine
	for rows.Next() {
		var l models.DocumentLine
		if err := rows.Scan(&l.DocumentID, &l.LineNo, &l.Description, &l.Quantity, &l.UnitPrice, &l.Amount, &l.TaxCode, &l.IsExemptDeposit); err != nil {
			return nil, fmt.Errorf("failed to scan document line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *PgxDocumentRepository) findBoxes(ctx context.Context, q querier, documentID string) ([]models.DocumentTaxBox, error) {
	rows, err := q.Query(ctx, `SELECT document_id, box, amount FROM document_tax_boxes WHERE document_id = $1;`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query document boxes: %w", err)
	}
	defer rows.Close()

	var boxes []models.DocumentTaxBox
	for rows.Next() {
		var b models.DocumentTaxBox
		if err := rows.Scan(&b.DocumentID, &b.Box, &b.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan document box: %w", err)
		}
		boxes = append(boxes, b)
	}
	return boxes, rows.Err()
}

// MarkDocumentPosted stores the number, entry link and posted totals, replacing the
// draft's preview boxes with the posted ones.
func (r *PgxDocumentRepository) MarkDocumentPosted(ctx context.Context, posting portsrepo.DocumentPosting) error {
	q := r.db(ctx)
	b := posting.Breakdown
	tag, err := q.Exec(ctx, `
		UPDATE documents
		SET status = $3, document_number = $4, journal_entry_id = $5,
			net_total = $6, tax_total = $7, gross_total = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE document_id = $1 AND tenant_id = $2 AND status = $11;
	`, posting.DocumentID, posting.TenantID, string(domain.DocumentPosted), posting.DocumentNumber, posting.JournalEntryID,
		b.Net.Decimal(), b.Tax.Decimal(), b.Gross.Decimal(), posting.PostedAt, posting.PostedBy, string(domain.DocumentDraft))
	if err != nil {
		return mapWriteError(err, "document "+posting.DocumentID)
	}
	if tag.RowsAffected() != 1 {
		return r.stateError(ctx, posting.TenantID, posting.DocumentID, domain.DocumentPosted)
	}

	if _, err := q.Exec(ctx, `DELETE FROM document_tax_boxes WHERE document_id = $1;`, posting.DocumentID); err != nil {
		return fmt.Errorf("failed to clear boxes of document %s: %w", posting.DocumentID, err)
	}
	batch := &pgx.Batch{}
	queueBoxes(batch, posting.DocumentID, b.Boxes)
	return execBatch(ctx, q, batch, "boxes of document "+posting.DocumentID)
}

func (r *PgxDocumentRepository) UpdateDocumentStatus(ctx context.Context, tenantID, documentID string, from, to domain.DocumentStatus, userID string, at time.Time) error {
	if !from.CanTransitionTo(to) {
		return &apperrors.InvalidStateError{Entity: "document " + documentID, CurrentStatus: string(from), Wanted: string(to)}
	}
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE documents SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE document_id = $1 AND tenant_id = $2 AND status = $6;
	`, documentID, tenantID, string(to), at, userID, string(from))
	if err != nil {
		return fmt.Errorf("failed to update document %s status: %w", documentID, err)
	}
	if tag.RowsAffected() != 1 {
		return r.stateError(ctx, tenantID, documentID, to)
	}
	return nil
}

// stateError explains why a guarded update matched no row.
func (r *PgxDocumentRepository) stateError(ctx context.Context, tenantID, documentID string, wanted domain.DocumentStatus) error {
	var owner, status string
	err := r.db(ctx).QueryRow(ctx, `SELECT tenant_id, status FROM documents WHERE document_id = $1;`, documentID).Scan(&owner, &status)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%w: document %s", apperrors.ErrNotFound, documentID)
	case err != nil:
		return fmt.Errorf("failed to read document %s status: %w", documentID, err)
	case owner != tenantID:
		return &apperrors.CrossTenantAccessError{Resource: "document " + documentID, ContextTenant: tenantID, TargetTenant: owner}
	}
	return &apperrors.InvalidStateError{Entity: "document " + documentID, CurrentStatus: status, Wanted: string(wanted)}
}

func (r *PgxDocumentRepository) SumPostedBoxes(ctx context.Context, tenantID string, from, to time.Time) (map[domain.RegulatoryBox]domain.Money, int, error) {
	q := r.db(ctx)
	posted := string(domain.DocumentPosted)

	var count int
	if err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM documents
		WHERE tenant_id = $1 AND status = $2 AND issue_date BETWEEN $3 AND $4;
	`, tenantID, posted, from, to).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count posted documents: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT b.box, SUM(b.amount)
		FROM document_tax_boxes b
		JOIN documents d ON d.document_id = b.document_id
		WHERE d.tenant_id = $1 AND d.status = $2 AND d.issue_date BETWEEN $3 AND $4
		GROUP BY b.box;
	`, tenantID, posted, from, to)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to sum posted boxes: %w", err)
	}
	defer rows.Close()

	totals := domain.NewBoxTotals()
	for rows.Next() {
		var (
			box    string
			amount decimal.Decimal
		)
		if err := rows.Scan(&box, &amount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan box total: %w", err)
		}
		m, err := domain.NewMoneyFromDecimal(amount)
		if err != nil {
			return nil, 0, fmt.Errorf("box %s: %w", box, err)
		}
		totals[domain.RegulatoryBox(box)] = m
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating box totals: %w", err)
	}
	return totals, count, nil
}
