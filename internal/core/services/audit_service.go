package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_engine/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_engine/internal/dto"
	"github.com/google/uuid"
)

type auditService struct {
	BaseService
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates the append-only audit recorder.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade, opts ...ServiceOption) portssvc.AuditSvcFacade {
	return &auditService{BaseService: newBaseService(opts...), auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

func (s *auditService) Record(ctx context.Context, tc domain.TenantContext, entityType, entityID string, action domain.AuditAction, before, after any) error {
	beforeJSON, err := snapshot(before)
	if err != nil {
		return fmt.Errorf("failed to snapshot %s %s: %w", entityType, entityID, err)
	}
	afterJSON, err := snapshot(after)
	if err != nil {
		return fmt.Errorf("failed to snapshot %s %s: %w", entityType, entityID, err)
	}

	record := domain.AuditRecord{
		AuditID:    uuid.NewString(),
		TenantID:   tc.TenantID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Actor:      tc.UserID,
		Before:     beforeJSON,
		After:      afterJSON,
		CreatedAt:  s.Now(),
	}
	if err := s.auditRepo.InsertAuditRecord(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to append audit record",
			slog.String("entity_type", entityType),
			slog.String("entity_id", entityID),
			slog.String("action", string(action)))
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

func (s *auditService) ListAuditRecords(ctx context.Context, tc domain.TenantContext, params dto.ListAuditParams) (*dto.ListAuditResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}

	filter := domain.AuditFilter{EntityType: params.EntityType, EntityID: params.EntityID}
	records, next, err := s.auditRepo.ListAuditRecords(ctx, tc.TenantID, filter, limit, token)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit records", slog.String("tenant_id", tc.TenantID))
		return nil, err
	}
	return dto.ToListAuditResponse(records, next), nil
}

func snapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}
