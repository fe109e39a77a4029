package models

// Account is the accounts table row.
type Account struct {
	AccountID   string `db:"account_id"`
	TenantID    string `db:"tenant_id"`
	Code        string `db:"code"`
	Name        string `db:"name"`
	AccountType string `db:"account_type"`
	NormalSide  string `db:"normal_side"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}
