package models

import "time"

// AuditRecord is the audit_records table row. Before and After are JSONB.
type AuditRecord struct {
	AuditID    string    `db:"audit_id"`
	TenantID   string    `db:"tenant_id"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Action     string    `db:"action"`
	Actor      string    `db:"actor"`
	Before     []byte    `db:"before_snapshot"`
	After      []byte    `db:"after_snapshot"`
	CreatedAt  time.Time `db:"created_at"`
}
