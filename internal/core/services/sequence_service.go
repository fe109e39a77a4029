package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_engine/internal/core/ports/services"
)

type sequenceService struct {
	BaseService
	allocator portsrepo.SequenceAllocator
}

// NewSequenceService wraps an allocator with the tenant check.
func NewSequenceService(allocator portsrepo.SequenceAllocator, opts ...ServiceOption) portssvc.SequenceSvc {
	return &sequenceService{BaseService: newBaseService(opts...), allocator: allocator}
}

var _ portssvc.SequenceSvc = (*sequenceService)(nil)

func (s *sequenceService) Next(ctx context.Context, tc domain.TenantContext, tenantID string, documentType domain.DocumentType) (n int64, err error) {
	defer func() { s.metrics.RecordSequenceAllocation(string(documentType), err) }()

	if err := tc.Authorize("document sequence "+string(documentType), tenantID); err != nil {
		s.LogIsolationViolation(ctx, err)
		return 0, err
	}

	n, err = s.allocator.Next(ctx, tenantID, documentType)
	if err != nil {
		s.LogError(ctx, err, "Failed to allocate document number",
			slog.String("tenant_id", tenantID),
			slog.String("document_type", string(documentType)))
		return 0, err
	}
	s.LogDebug(ctx, "Allocated document number", slog.String("document_type", string(documentType)), slog.Int64("number", n))
	return n, nil
}
