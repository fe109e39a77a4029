package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
)

// AuditWriter appends audit records. There is deliberately no update or delete.
type AuditWriter interface {
	InsertAuditRecord(ctx context.Context, record domain.AuditRecord) error
}

// AuditReader lists a tenant's audit trail, newest first, using token-based pagination.
type AuditReader interface {
	ListAuditRecords(ctx context.Context, tenantID string, filter domain.AuditFilter, limit int, nextToken *string) ([]domain.AuditRecord, *string, error)
}

type AuditRepositoryFacade interface {
	AuditReader
	AuditWriter
}
