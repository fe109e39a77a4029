package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

const (
	// InternalScale is the number of fractional digits every stored amount carries.
	InternalScale int32 = 4
	// DisplayScale is the number of fractional digits shown to people.
	DisplayScale int32 = 2
	// MaxScale bounds intermediate results such as an unrounded amount times a rate.
	MaxScale int32 = 12
	// MaxRateScale bounds the fractional digits of a percentage rate.
	MaxRateScale int32 = 4
	// MaxIntegerDigits is what a NUMERIC(19,4) column holds to the left of the point.
	MaxIntegerDigits int32 = 15
)

var maxMagnitude = decimal.New(1, MaxIntegerDigits)

// RoundingMode names how Round resolves the discarded digits.
type RoundingMode int

const (
	// RoundHalfUp rounds ties away from zero (1.00005 -> 1.0001, -1.00005 -> -1.0001).
	RoundHalfUp RoundingMode = iota
)

var decimalText = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// Money is an immutable exact decimal amount. Values built from text or integers are
// at InternalScale; MultiplyByRate may produce a wider scale until Round is called.
type Money struct {
	value decimal.Decimal
}

// ZeroMoney returns 0.0000.
func ZeroMoney() Money {
	return Money{value: decimal.Zero}
}

// ParseMoney parses exact decimal text such as "109.00" or "-12.3456".
// Exponent notation and more than InternalScale significant fractional digits are
// rejected; trailing zeros are not significant.
func ParseMoney(text string) (Money, error) {
	s := strings.TrimSpace(text)
	if !decimalText.MatchString(s) {
		return Money{}, &apperrors.ParseError{Input: text, Reason: "expected digits with an optional fraction"}
	}
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		if frac := int32(len(strings.TrimRight(s[idx+1:], "0"))); frac > InternalScale {
			return Money{}, &apperrors.PrecisionError{Scale: frac, MaxScale: InternalScale}
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, &apperrors.ParseError{Input: text, Reason: err.Error()}
	}
	m := Money{value: d.Round(InternalScale)}
	if err := m.CheckStorable("amount"); err != nil {
		return Money{}, err
	}
	return m, nil
}

// MustParseMoney is ParseMoney for constants; it panics on invalid input.
func MustParseMoney(text string) Money {
	m, err := ParseMoney(text)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMoneyFromInt returns a whole amount, e.g. 100 -> 100.0000.
func NewMoneyFromInt(v int64) Money {
	return Money{value: decimal.NewFromInt(v).Round(InternalScale)}
}

// NewMoneyFromDecimal adopts a decimal read from storage. Trailing zeros are ignored, so
// 1.500000 is accepted; any significant digit past InternalScale is a PrecisionError.
func NewMoneyFromDecimal(d decimal.Decimal) (Money, error) {
	if s := significantScale(d); s > InternalScale {
		return Money{}, &apperrors.PrecisionError{Scale: s, MaxScale: InternalScale}
	}
	return Money{value: d.Round(InternalScale)}, nil
}

// MoneyFromAny converts a loosely typed input. Binary floating point values are always
// rejected because they cannot represent most decimal fractions exactly.
func MoneyFromAny(v any) (Money, error) {
	switch t := v.(type) {
	case Money:
		return t, nil
	case string:
		return ParseMoney(t)
	case json.Number:
		return ParseMoney(t.String())
	case decimal.Decimal:
		return NewMoneyFromDecimal(t)
	case int:
		return NewMoneyFromInt(int64(t)), nil
	case int32:
		return NewMoneyFromInt(int64(t)), nil
	case int64:
		return NewMoneyFromInt(t), nil
	case float32, float64:
		return Money{}, &apperrors.ParseError{Input: fmt.Sprint(t), Reason: "binary floating point is not accepted for money"}
	default:
		return Money{}, &apperrors.ParseError{Input: fmt.Sprint(t), Reason: fmt.Sprintf("unsupported type %T", v)}
	}
}

// Add returns m + o exactly.
func (m Money) Add(o Money) Money { return Money{value: m.value.Add(o.value)} }

// Sub returns m - o exactly.
func (m Money) Sub(o Money) Money { return Money{value: m.value.Sub(o.value)} }

// Neg returns -m.
func (m Money) Neg() Money { return Money{value: m.value.Neg()} }

// MultiplyQuantity returns m × q rounded half up to InternalScale.
func (m Money) MultiplyQuantity(q Quantity) Money {
	return Money{value: m.value.Mul(q.value).Round(InternalScale)}
}

// CheckStorable fails with MagnitudeError when m does not fit a NUMERIC(19,4) column.
func (m Money) CheckStorable(field string) error {
	if m.value.Abs().GreaterThanOrEqual(maxMagnitude) {
		return &apperrors.MagnitudeError{Field: field, Value: m.String(), MaxIntegerDigits: MaxIntegerDigits}
	}
	return nil
}

// MultiplyByRate returns m × rate/100 without rounding. The result scale is at most
// InternalScale + MaxRateScale + 2; call Round to bring it back to a storage scale.
func (m Money) MultiplyByRate(r Rate) Money {
	return Money{value: m.value.Mul(r.pct).Shift(-2)}
}

// ExtractRate returns the tax embedded in a tax-inclusive amount, m × rate/(100+rate),
// rounded once at scale. The quotient generally does not terminate, so this is the one
// operation where rounding is part of the arithmetic.
func (m Money) ExtractRate(r Rate, scale int32, mode RoundingMode) (Money, error) {
	if err := checkScale(scale); err != nil {
		return Money{}, err
	}
	if r.IsZero() {
		return Money{value: decimal.Zero.Round(scale)}, nil
	}
	numerator := m.value.Mul(r.pct)
	denominator := decimal.NewFromInt(100).Add(r.pct)
	switch mode {
	case RoundHalfUp:
		return Money{value: numerator.DivRound(denominator, scale)}, nil
	default:
		return Money{}, fmt.Errorf("%w: unsupported rounding mode %d", apperrors.ErrValidation, mode)
	}
}

// Round returns m rounded to scale fractional digits.
func (m Money) Round(scale int32, mode RoundingMode) (Money, error) {
	if err := checkScale(scale); err != nil {
		return Money{}, err
	}
	switch mode {
	case RoundHalfUp:
		return Money{value: m.value.Round(scale)}, nil
	default:
		return Money{}, fmt.Errorf("%w: unsupported rounding mode %d", apperrors.ErrValidation, mode)
	}
}

// Scale reports the number of fractional digits currently carried.
func (m Money) Scale() int32 { return scaleOf(m.value) }

// Cmp returns -1, 0 or +1 as m is less than, equal to or greater than o.
func (m Money) Cmp(o Money) int { return m.value.Cmp(o.value) }

// Equal compares values, so 1.5 equals 1.5000.
func (m Money) Equal(o Money) bool { return m.value.Equal(o.value) }

// IsZero reports whether m is 0 at any scale.
func (m Money) IsZero() bool { return m.value.IsZero() }

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool { return m.value.IsNegative() }

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool { return m.value.IsPositive() }

// Decimal exposes the underlying value for storage adapters.
func (m Money) Decimal() decimal.Decimal { return m.value }

// String renders exact decimal text with at least InternalScale digits, e.g. "109.0000".
func (m Money) String() string {
	s := m.Scale()
	if s < InternalScale {
		s = InternalScale
	}
	return m.value.StringFixed(s)
}

// Display renders the 2-place round-half-up view. It never replaces the stored value.
func (m Money) Display() string {
	return m.value.Round(DisplayScale).StringFixed(DisplayScale)
}

// MarshalJSON writes the exact text as a JSON string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts only JSON strings; a bare JSON number is rejected.
func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) == 0 || data[0] != '"' {
		return &apperrors.ParseError{Input: string(data), Reason: "money must be sent as decimal text"}
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &apperrors.ParseError{Input: string(data), Reason: err.Error()}
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// SumMoney adds values exactly.
func SumMoney(values ...Money) Money {
	total := ZeroMoney()
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Rate is a non-negative percentage, e.g. 9 for 9%.
type Rate struct {
	pct decimal.Decimal
}

// ParseRate parses percentage text such as "9" or "7.5".
func ParseRate(text string) (Rate, error) {
	s := strings.TrimSpace(text)
	if !decimalText.MatchString(s) {
		return Rate{}, &apperrors.ParseError{Input: text, Reason: "expected a percentage"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, &apperrors.ParseError{Input: text, Reason: err.Error()}
	}
	return NewRate(d)
}

// NewRate validates a percentage read from storage or configuration.
func NewRate(pct decimal.Decimal) (Rate, error) {
	if pct.IsNegative() {
		return Rate{}, &apperrors.NegativeNotAllowedError{Field: "tax rate", Value: pct.String()}
	}
	if s := significantScale(pct); s > MaxRateScale {
		return Rate{}, &apperrors.PrecisionError{Scale: s, MaxScale: MaxRateScale}
	}
	return Rate{pct: pct}, nil
}

// MustParseRate is ParseRate for constants; it panics on invalid input.
func MustParseRate(text string) Rate {
	r, err := ParseRate(text)
	if err != nil {
		panic(err)
	}
	return r
}

// IsZero reports a 0% rate.
func (r Rate) IsZero() bool { return r.pct.IsZero() }

// Percent exposes the percentage for storage adapters.
func (r Rate) Percent() decimal.Decimal { return r.pct }

// String renders the percentage without a % sign, e.g. "7.5".
func (r Rate) String() string { return r.pct.String() }

// MarshalJSON writes the percentage as a JSON string.
func (r Rate) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

// scaleOf is the number of fractional digits d carries.
func scaleOf(d decimal.Decimal) int32 {
	if exp := d.Exponent(); exp < 0 {
		return -exp
	}
	return 0
}

// significantScale is the scale of d once trailing fractional zeros are dropped.
func significantScale(d decimal.Decimal) int32 {
	s := scaleOf(d)
	for s > 0 && d.Equal(d.Truncate(s-1)) {
		s--
	}
	return s
}

func checkScale(scale int32) error {
	if scale < 0 || scale > MaxScale {
		return &apperrors.PrecisionError{Scale: scale, MaxScale: MaxScale}
	}
	return nil
}
