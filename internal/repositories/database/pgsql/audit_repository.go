package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_engine/internal/models"
	"github.com/SscSPs/bookkeeping_engine/internal/utils/mapping"
	"github.com/SscSPs/bookkeeping_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) *PgxAuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// InsertAuditRecord appends a record. A trigger rejects UPDATE and DELETE on audit_records.
func (r *PgxAuditRepository) InsertAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	m := mapping.ToModelAuditRecord(record)
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO audit_records (audit_id, tenant_id, entity_type, entity_id, action, actor, before_snapshot, after_snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, m.AuditID, m.TenantID, m.EntityType, m.EntityID, m.Action, m.Actor, m.Before, m.After, m.CreatedAt)
	if err != nil {
		return mapWriteError(err, "audit record "+m.AuditID)
	}
	return nil
}

// ListAuditRecords pages newest first using a (created_at, audit_id) keyset cursor.
func (r *PgxAuditRepository) ListAuditRecords(ctx context.Context, tenantID string, filter domain.AuditFilter, limit int, nextToken *string) ([]domain.AuditRecord, *string, error) {
	var (
		where = []string{"tenant_id = $1"}
		args  = []any{tenantID}
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.EntityType != "" {
		where = append(where, "entity_type = "+arg(filter.EntityType))
	}
	if filter.EntityID != "" {
		where = append(where, "entity_id = "+arg(filter.EntityID))
	}
	if nextToken != nil && *nextToken != "" {
		at, id, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		where = append(where, fmt.Sprintf("(created_at, audit_id) < (%s, %s)", arg(at), arg(id)))
	}

	query := `SELECT audit_id, tenant_id, entity_type, entity_id, action, actor, before_snapshot, after_snapshot, created_at
		FROM audit_records WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC, audit_id DESC`
	if limit > 0 {
		query += " LIMIT " + arg(limit+1)
	}

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.AuditRecord, 0)
	for rows.Next() {
		var m models.AuditRecord
		if err := rows.Scan(&m.AuditID, &m.TenantID, &m.EntityType, &m.EntityID, &m.Action, &m.Actor, &m.Before, &m.After, &m.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, mapping.ToDomainAuditRecord(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating audit records: %w", err)
	}

	var next *string
	if limit > 0 && len(records) > limit {
		records = records[:limit]
		last := records[len(records)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.AuditID)
		next = &token
	}
	return records, next, nil
}
