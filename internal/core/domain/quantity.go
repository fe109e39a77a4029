package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MaxQuantityScale bounds the fractional digits of a line quantity.
const MaxQuantityScale int32 = 4

// Quantity is a positive exact count of units on a document line, e.g. 2 or 1.5.
type Quantity struct {
	value decimal.Decimal
}

// OneUnit is the quantity of a line given as a single amount.
func OneUnit() Quantity {
	return Quantity{value: decimal.NewFromInt(1)}
}

// ParseQuantity parses exact decimal text. Zero, negative and over-precise values fail.
func ParseQuantity(text string) (Quantity, error) {
	s := strings.TrimSpace(text)
	if !decimalText.MatchString(s) {
		return Quantity{}, &apperrors.ParseError{Input: text, Reason: "quantity must be decimal text"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, &apperrors.ParseError{Input: text, Reason: err.Error()}
	}
	return NewQuantityFromDecimal(d)
}

// NewQuantityFromDecimal validates a quantity read from storage.
func NewQuantityFromDecimal(d decimal.Decimal) (Quantity, error) {
	if s := significantScale(d); s > MaxQuantityScale {
		return Quantity{}, &apperrors.PrecisionError{Scale: s, MaxScale: MaxQuantityScale}
	}
	if d.IsNegative() {
		return Quantity{}, &apperrors.NegativeNotAllowedError{Field: "quantity", Value: d.String()}
	}
	if d.IsZero() {
		return Quantity{}, fmt.Errorf("%w: quantity must be greater than zero", apperrors.ErrValidation)
	}
	if d.GreaterThanOrEqual(maxMagnitude) {
		return Quantity{}, &apperrors.MagnitudeError{Field: "quantity", Value: d.String(), MaxIntegerDigits: MaxIntegerDigits}
	}
	return Quantity{value: d}, nil
}

// MustParseQuantity is ParseQuantity for constants; it panics on invalid input.
func MustParseQuantity(text string) Quantity {
	q, err := ParseQuantity(text)
	if err != nil {
		panic(err)
	}
	return q
}

// IsZero reports the zero value, which only an unset Quantity has.
func (q Quantity) IsZero() bool { return q.value.IsZero() }

// Decimal exposes the value for storage adapters.
func (q Quantity) Decimal() decimal.Decimal { return q.value }

// String renders the quantity without trailing zeros, e.g. "1.5".
func (q Quantity) String() string {
	return q.value.Round(MaxQuantityScale).String()
}

// MarshalJSON writes the quantity as a JSON string.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.String())
}
