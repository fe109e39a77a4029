package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
)

// SequenceAllocator issues document numbers. Values for one (tenant, document type) key
// strictly increase and never repeat; gaps are allowed. Calls on the same key serialize,
// calls on different keys do not contend. Once the ceiling is reached every call fails
// with SequenceExhaustedError.
type SequenceAllocator interface {
	Next(ctx context.Context, tenantID string, documentType domain.DocumentType) (int64, error)
}
