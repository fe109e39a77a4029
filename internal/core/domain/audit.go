package domain

import (
	"encoding/json"
	"time"
)

// AuditAction names the mutation an AuditRecord describes.
type AuditAction string

const (
	AuditCreate  AuditAction = "CREATE"
	AuditUpdate  AuditAction = "UPDATE"
	AuditPost    AuditAction = "POST"
	AuditReverse AuditAction = "REVERSE"
	AuditVoid    AuditAction = "VOID"
)

// Audited entity types.
const (
	EntityJournalEntry = "journal_entry"
	EntityDocument     = "document"
	EntityAccount      = "account"
)

// AuditRecord is an append-only before/after snapshot of one mutation.
type AuditRecord struct {
	AuditID    string          `json:"auditID"`
	TenantID   string          `json:"tenantID"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityID"`
	Action     AuditAction     `json:"action"`
	Actor      string          `json:"actor"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// AuditFilter narrows an audit trail listing. Empty fields match everything.
type AuditFilter struct {
	EntityType string
	EntityID   string
}
