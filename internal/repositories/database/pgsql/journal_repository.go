package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_engine/internal/models"
	"github.com/SscSPs/bookkeeping_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and lines.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, tenant_id, reference, document_id, status, original_entry_id, reversed_by_entry_id, created_at, created_by`

// SaveEntry inserts the entry header and all lines. Lines are insert-only; a trigger
// rejects any later UPDATE or DELETE on journal_lines.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	q := r.db(ctx)
	m := mapping.ToModelJournalEntry(entry)

	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	if _, err := q.Exec(ctx, entryQuery,
		m.EntryID, m.TenantID, m.Reference, m.DocumentID, m.Status,
		m.OriginalEntryID, m.ReversedByEntryID, m.CreatedAt, m.CreatedBy,
	); err != nil {
		return mapWriteError(err, "journal entry "+m.EntryID)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, tenant_id, line_no, account_id, side, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, l := range mapping.ToModelJournalLines(entry) {
		batch.Queue(lineQuery, l.LineID, l.EntryID, l.TenantID, l.LineNo, l.AccountID, l.Side, l.Amount)
	}
	return execBatch(ctx, q, batch, "journal lines of "+m.EntryID)
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, tenantID, entryID, false)
}

func (r *PgxJournalRepository) FindEntryByIDForUpdate(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, tenantID, entryID, true)
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, tenantID, entryID string, forUpdate bool) (*domain.JournalEntry, error) {
	q := r.db(ctx)
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var m models.JournalEntry
	err := q.QueryRow(ctx, query, entryID).Scan(
		&m.EntryID, &m.TenantID, &m.Reference, &m.DocumentID, &m.Status,
		&m.OriginalEntryID, &m.ReversedByEntryID, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if m.TenantID != tenantID {
		return nil, &apperrors.CrossTenantAccessError{Resource: "journal entry " + entryID, ContextTenant: tenantID, TargetTenant: m.TenantID}
	}

	rows, err := q.Query(ctx, `
		SELECT line_id, entry_id, tenant_id, line_no, account_id, side, amount
		FROM journal_lines
		WHERE entry_id = $1 AND tenant_id = $2
		ORDER BY line_no;
	`, entryID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer rows.Close()

	var lines []models.JournalLine
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.TenantID, &l.LineNo, &l.AccountID, &l.Side, &l.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal lines: %w", err)
	}

	entry, err := mapping.ToDomainJournalEntry(m, lines)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MarkEntryReversed flips a POSTED entry to REVERSED. The status guard in the WHERE
// clause makes a concurrent second reversal fail instead of double-linking.
func (r *PgxJournalRepository) MarkEntryReversed(ctx context.Context, tenantID, entryID, reversedByEntryID string) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE journal_entries
		SET status = $4, reversed_by_entry_id = $3
		WHERE entry_id = $1 AND tenant_id = $2 AND status = $5;
	`, entryID, tenantID, reversedByEntryID, string(domain.Reversed), string(domain.Posted))
	if err != nil {
		return fmt.Errorf("failed to mark journal entry %s reversed: %w", entryID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	current, err := r.findEntry(ctx, tenantID, entryID, false)
	if err != nil {
		return err
	}
	return &apperrors.AlreadyReversedError{EntryID: entryID, CurrentStatus: string(current.Status)}
}
