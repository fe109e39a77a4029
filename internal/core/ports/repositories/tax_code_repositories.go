package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
)

// TaxCodeReader loads the codes effective for a tenant: the system codes plus the
// tenant's own, the latter winning on a code clash.
type TaxCodeReader interface {
	ListTaxCodes(ctx context.Context, tenantID string) ([]domain.TaxCode, error)
}
