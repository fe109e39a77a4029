package dto

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
)

// ListAuditParams defines query parameters for listing the audit trail.
type ListAuditParams struct {
	EntityType string `form:"entity_type"`
	EntityID   string `form:"entity_id"`
	Limit      int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken  string `form:"nextToken"`
}

// AuditRecordResponse defines the data returned for one audit record.
type AuditRecordResponse struct {
	AuditID    string          `json:"auditID"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityID"`
	Action     string          `json:"action"`
	Actor      string          `json:"actor"`
	Before     json.RawMessage `json:"before,omitempty" swaggertype:"object"`
	After      json.RawMessage `json:"after,omitempty" swaggertype:"object"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ListAuditResponse wraps one page of audit records.
type ListAuditResponse struct {
	Records   []AuditRecordResponse `json:"records"`
	NextToken *string               `json:"nextToken,omitempty"`
}

func ToListAuditResponse(records []domain.AuditRecord, nextToken *string) *ListAuditResponse {
	out := make([]AuditRecordResponse, len(records))
	for i, r := range records {
		out[i] = AuditRecordResponse{
			AuditID:    r.AuditID,
			EntityType: r.EntityType,
			EntityID:   r.EntityID,
			Action:     string(r.Action),
			Actor:      r.Actor,
			Before:     r.Before,
			After:      r.After,
			CreatedAt:  r.CreatedAt,
		}
	}
	return &ListAuditResponse{Records: out, NextToken: nextToken}
}
