package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
)

// SequenceSvc allocates document numbers on behalf of a tenant context.
type SequenceSvc interface {
	// Next fails with CrossTenantAccessError when tenantID is not the context's tenant.
	Next(ctx context.Context, tc domain.TenantContext, tenantID string, documentType domain.DocumentType) (int64, error)
}
