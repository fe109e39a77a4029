package domain

import (
	"fmt"
	"sort"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
)

// TaxCategory is the closed set of tax treatments. Behaviour keyed on a category is
// always an exhaustive switch; adding a category is a compile-time change.
type TaxCategory string

const (
	CategoryStandard      TaxCategory = "STANDARD"
	CategoryZeroRated     TaxCategory = "ZERO_RATED"
	CategoryExempt        TaxCategory = "EXEMPT"
	CategoryOutOfScope    TaxCategory = "OUT_OF_SCOPE"
	CategoryDeemedInput   TaxCategory = "DEEMED_INPUT"
	CategoryBlockedInput  TaxCategory = "BLOCKED_INPUT"
	CategoryReverseCharge TaxCategory = "REVERSE_CHARGE"
)

// ParseTaxCategory maps stored text onto the enumeration.
func ParseTaxCategory(s string) (TaxCategory, error) {
	switch c := TaxCategory(s); c {
	case CategoryStandard, CategoryZeroRated, CategoryExempt, CategoryOutOfScope,
		CategoryDeemedInput, CategoryBlockedInput, CategoryReverseCharge:
		return c, nil
	default:
		return "", fmt.Errorf("%w: unknown tax category %q", apperrors.ErrValidation, s)
	}
}

// ChargesTax reports whether lines under this category carry tax at the code's rate.
func (c TaxCategory) ChargesTax() bool {
	switch c {
	case CategoryStandard, CategoryDeemedInput, CategoryBlockedInput, CategoryReverseCharge:
		return true
	case CategoryZeroRated, CategoryExempt, CategoryOutOfScope:
		return false
	}
	return false
}

// TaxDirection tells whether a code applies to sales or to purchases.
type TaxDirection string

const (
	DirectionSupply   TaxDirection = "SUPPLY"
	DirectionPurchase TaxDirection = "PURCHASE"
)

// ParseTaxDirection maps stored text onto SUPPLY or PURCHASE.
func ParseTaxDirection(s string) (TaxDirection, error) {
	switch d := TaxDirection(s); d {
	case DirectionSupply, DirectionPurchase:
		return d, nil
	default:
		return "", fmt.Errorf("%w: unknown tax direction %q", apperrors.ErrValidation, s)
	}
}

// TaxCode is immutable reference data looked up by Code.
type TaxCode struct {
	Code      string
	Name      string
	Rate      Rate
	Category  TaxCategory
	Direction TaxDirection
}

// TaxRuleSet is a read-only mapping from code to TaxCode plus the deposit-exemption policy.
type TaxRuleSet struct {
	codes             map[string]TaxCode
	depositRestricted map[TaxCategory]bool
}

// TaxRuleSetOption configures a rule set at construction.
type TaxRuleSetOption func(*TaxRuleSet)

// WithDepositRestriction forbids the deposit-exemption flag on lines of these categories.
func WithDepositRestriction(categories ...TaxCategory) TaxRuleSetOption {
	return func(rs *TaxRuleSet) {
		for _, c := range categories {
			rs.depositRestricted[c] = true
		}
	}
}

// NewTaxRuleSet builds a rule set. Later codes replace earlier ones with the same Code.
func NewTaxRuleSet(codes []TaxCode, opts ...TaxRuleSetOption) (*TaxRuleSet, error) {
	rs := &TaxRuleSet{
		codes:             make(map[string]TaxCode, len(codes)),
		depositRestricted: make(map[TaxCategory]bool),
	}
	for _, c := range codes {
		if c.Code == "" {
			return nil, fmt.Errorf("%w: tax code must not be empty", apperrors.ErrValidation)
		}
		if _, err := ParseTaxCategory(string(c.Category)); err != nil {
			return nil, err
		}
		if _, err := ParseTaxDirection(string(c.Direction)); err != nil {
			return nil, err
		}
		rs.codes[c.Code] = c
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs, nil
}

// Lookup returns the code or UnknownTaxCodeError.
func (rs *TaxRuleSet) Lookup(code string) (TaxCode, error) {
	c, ok := rs.codes[code]
	if !ok {
		return TaxCode{}, &apperrors.UnknownTaxCodeError{Code: code}
	}
	return c, nil
}

// DepositExemptionAllowed reports whether a deposit line may use a code of category.
func (rs *TaxRuleSet) DepositExemptionAllowed(category TaxCategory) bool {
	return !rs.depositRestricted[category]
}

// Codes returns every code sorted by Code.
func (rs *TaxRuleSet) Codes() []TaxCode {
	out := make([]TaxCode, 0, len(rs.codes))
	for _, c := range rs.codes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// StandardGSTRate is the prevailing standard rate in percent.
const StandardGSTRate = "9"

// DefaultTaxCodes are the system codes every tenant starts with.
func DefaultTaxCodes() []TaxCode {
	std := MustParseRate(StandardGSTRate)
	zero := MustParseRate("0")
	return []TaxCode{
		{Code: "SR", Name: "Standard-rated supplies", Rate: std, Category: CategoryStandard, Direction: DirectionSupply},
		{Code: "ZR", Name: "Zero-rated supplies", Rate: zero, Category: CategoryZeroRated, Direction: DirectionSupply},
		{Code: "ES", Name: "Exempt supplies", Rate: zero, Category: CategoryExempt, Direction: DirectionSupply},
		{Code: "OS", Name: "Out-of-scope supplies", Rate: zero, Category: CategoryOutOfScope, Direction: DirectionSupply},
		{Code: "TX", Name: "Standard-rated purchases", Rate: std, Category: CategoryStandard, Direction: DirectionPurchase},
		{Code: "ZP", Name: "Zero-rated purchases", Rate: zero, Category: CategoryZeroRated, Direction: DirectionPurchase},
		{Code: "EP", Name: "Exempt purchases", Rate: zero, Category: CategoryExempt, Direction: DirectionPurchase},
		{Code: "OP", Name: "Out-of-scope purchases", Rate: zero, Category: CategoryOutOfScope, Direction: DirectionPurchase},
		{Code: "IM", Name: "Imports with deemed input tax", Rate: std, Category: CategoryDeemedInput, Direction: DirectionPurchase},
		{Code: "BL", Name: "Purchases with blocked input tax", Rate: std, Category: CategoryBlockedInput, Direction: DirectionPurchase},
		{Code: "RC", Name: "Imported services under reverse charge", Rate: std, Category: CategoryReverseCharge, Direction: DirectionPurchase},
	}
}

// DefaultDepositRestriction lists the categories on which a deposit line makes no sense.
func DefaultDepositRestriction() TaxRuleSetOption {
	return WithDepositRestriction(CategoryDeemedInput, CategoryBlockedInput, CategoryReverseCharge)
}

// DefaultTaxRuleSet returns the system codes with the default deposit policy.
func DefaultTaxRuleSet() *TaxRuleSet {
	rs, err := NewTaxRuleSet(DefaultTaxCodes(), DefaultDepositRestriction())
	if err != nil {
		panic(err)
	}
	return rs
}
