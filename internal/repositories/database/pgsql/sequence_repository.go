package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSequenceAllocator keeps one counter row per (tenant, document type). The upsert
// takes a row lock, so callers on one key serialize while other keys proceed. Inside a
// posting transaction the increment rolls back with it, leaving no gap.
type PgxSequenceAllocator struct {
	BaseRepository
	ceiling int64
}

func newPgxSequenceAllocator(pool *pgxpool.Pool, ceiling int64) *PgxSequenceAllocator {
	if ceiling <= 0 {
		ceiling = domain.DefaultSequenceCeiling
	}
	return &PgxSequenceAllocator{BaseRepository: BaseRepository{Pool: pool}, ceiling: ceiling}
}

var _ portsrepo.SequenceAllocator = (*PgxSequenceAllocator)(nil)

func (a *PgxSequenceAllocator) Next(ctx context.Context, tenantID string, documentType domain.DocumentType) (int64, error) {
	if tenantID == "" || documentType == "" {
		return 0, fmt.Errorf("%w: sequence key needs a tenant and a document type", apperrors.ErrValidation)
	}

	var next int64
	err := a.db(ctx).QueryRow(ctx, `
		INSERT INTO document_sequences (tenant_id, document_type, last_value, updated_at)
		SELECT $1, $2, 1, now() WHERE $3::bigint >= 1
		ON CONFLICT (tenant_id, document_type) DO UPDATE
			SET last_value = document_sequences.last_value + 1, updated_at = now()
			WHERE document_sequences.last_value < $3
		RETURNING last_value;
	`, tenantID, string(documentType), a.ceiling).Scan(&next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &apperrors.SequenceExhaustedError{TenantID: tenantID, DocumentType: string(documentType), Ceiling: a.ceiling}
		}
		return 0, fmt.Errorf("failed to allocate %s number: %w", documentType, err)
	}
	return next, nil
}
