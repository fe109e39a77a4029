package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	"github.com/SscSPs/bookkeeping_engine/internal/dto"
)

// AuditRecorderSvc appends immutable before/after records.
type AuditRecorderSvc interface {
	// Record joins the unit of work carried by ctx, if any.
	Record(ctx context.Context, tc domain.TenantContext, entityType, entityID string, action domain.AuditAction, before, after any) error
}

// AuditReaderSvc lists the tenant's audit trail.
type AuditReaderSvc interface {
	ListAuditRecords(ctx context.Context, tc domain.TenantContext, params dto.ListAuditParams) (*dto.ListAuditResponse, error)
}

type AuditSvcFacade interface {
	AuditRecorderSvc
	AuditReaderSvc
}
