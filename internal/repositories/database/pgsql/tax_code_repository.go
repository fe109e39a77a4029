package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_engine/internal/models"
	"github.com/SscSPs/bookkeeping_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTaxCodeRepository struct {
	BaseRepository
}

func newPgxTaxCodeRepository(pool *pgxpool.Pool) *PgxTaxCodeRepository {
	return &PgxTaxCodeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TaxCodeReader = (*PgxTaxCodeRepository)(nil)

// ListTaxCodes returns system codes overlaid with the tenant's own.
func (r *PgxTaxCodeRepository) ListTaxCodes(ctx context.Context, tenantID string) ([]domain.TaxCode, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT DISTINCT ON (code) tenant_id, code, name, rate, category, direction
		FROM tax_codes
		WHERE tenant_id IS NULL OR tenant_id = $1
		ORDER BY code, (tenant_id IS NULL);
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax codes: %w", err)
	}
	defer rows.Close()

	var codes []domain.TaxCode
	for rows.Next() {
		var m models.TaxCode
		if err := rows.Scan(&m.TenantID, &m.Code, &m.Name, &m.Rate, &m.Category, &m.Direction); err != nil {
			return nil, fmt.Errorf("failed to scan tax code: %w", err)
		}
		code, err := mapping.ToDomainTaxCode(m)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax codes: %w", err)
	}
	return codes, nil
}
