package models

import "github.com/shopspring/decimal"

// TaxCode is the tax_codes table row. A nil TenantID marks a system code.
type TaxCode struct {
	TenantID  *string         `db:"tenant_id"`
	Code      string          `db:"code"`
	Name      string          `db:"name"`
	Rate      decimal.Decimal `db:"rate"`
	Category  string          `db:"category"`
	Direction string          `db:"direction"`
}
