package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates a lifecycle transition that the current state does not allow.
var ErrInvalidState = errors.New("invalid state transition")

// Financial engine failure modes. Each typed error below matches exactly one of these
// through errors.Is, so callers can branch on the sentinel and still read the details
// with errors.As.
var (
	ErrParse              = errors.New("malformed decimal input")
	ErrPrecision          = errors.New("precision out of range")
	ErrNegativeNotAllowed = errors.New("negative value not allowed")
	ErrUnknownTaxCode     = errors.New("unknown tax code")
	ErrExemptionMisuse    = errors.New("deposit exemption not allowed for tax code")
	ErrImbalancedEntry    = errors.New("journal entry is not balanced")
	ErrCrossTenantAccess  = errors.New("cross-tenant access denied")
	ErrSequenceExhausted  = errors.New("document sequence exhausted")
	ErrAlreadyReversed    = errors.New("journal entry already reversed")
	ErrAccountNotFound    = errors.New("account not found")
	ErrOutOfRange         = errors.New("amount out of range")
)

// ParseError reports text that is not a valid exact decimal.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q (%s)", ErrParse, e.Input, e.Reason)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// PrecisionError reports a scale outside the supported range.
type PrecisionError struct {
	Scale    int32
	MaxScale int32
}

func (e *PrecisionError) Error() string {
	return fmt.Sprintf("%s: scale %d exceeds maximum %d", ErrPrecision, e.Scale, e.MaxScale)
}

func (e *PrecisionError) Is(target error) bool { return target == ErrPrecision }

// MagnitudeError reports an amount with more integer digits than storage holds. It is a
// validation failure as well.
type MagnitudeError struct {
	Field            string
	Value            string
	MaxIntegerDigits int32
}

func (e *MagnitudeError) Error() string {
	return fmt.Sprintf("%s: %s %s exceeds %d integer digits", ErrOutOfRange, e.Field, e.Value, e.MaxIntegerDigits)
}

func (e *MagnitudeError) Is(target error) bool {
	return target == ErrOutOfRange || target == ErrValidation
}

// NegativeNotAllowedError reports a negative magnitude where only non-negative values are valid.
type NegativeNotAllowedError struct {
	Field string
	Value string
}

func (e *NegativeNotAllowedError) Error() string {
	return fmt.Sprintf("%s: %s is %s", ErrNegativeNotAllowed, e.Field, e.Value)
}

func (e *NegativeNotAllowedError) Is(target error) bool { return target == ErrNegativeNotAllowed }

type UnknownTaxCodeError struct {
	Code string
}

func (e *UnknownTaxCodeError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownTaxCode, e.Code)
}

func (e *UnknownTaxCodeError) Is(target error) bool { return target == ErrUnknownTaxCode }

type ExemptionMisuseError struct {
	Code     string
	Category string
}

func (e *ExemptionMisuseError) Error() string {
	return fmt.Sprintf("%s: code %s has category %s", ErrExemptionMisuse, e.Code, e.Category)
}

func (e *ExemptionMisuseError) Is(target error) bool { return target == ErrExemptionMisuse }

// ImbalancedEntryError is raised before anything is written, so it always describes an
// entry that was never persisted.
type ImbalancedEntryError struct {
	Debits  string
	Credits string
}

func (e *ImbalancedEntryError) Error() string {
	return fmt.Sprintf("%s: debits sum is %s and credits sum is %s", ErrImbalancedEntry, e.Debits, e.Credits)
}

func (e *ImbalancedEntryError) Is(target error) bool { return target == ErrImbalancedEntry }

type CrossTenantAccessError struct {
	Resource      string
	ContextTenant string
	TargetTenant  string
}

func (e *CrossTenantAccessError) Error() string {
	return fmt.Sprintf("%s: tenant %s cannot access %s owned by tenant %s", ErrCrossTenantAccess, e.ContextTenant, e.Resource, e.TargetTenant)
}

func (e *CrossTenantAccessError) Is(target error) bool { return target == ErrCrossTenantAccess }

type SequenceExhaustedError struct {
	TenantID     string
	DocumentType string
	Ceiling      int64
}

func (e *SequenceExhaustedError) Error() string {
	return fmt.Sprintf("%s: %s/%s reached ceiling %d", ErrSequenceExhausted, e.TenantID, e.DocumentType, e.Ceiling)
}

func (e *SequenceExhaustedError) Is(target error) bool { return target == ErrSequenceExhausted }

// AlreadyReversedError carries the entry's current status so the caller can decide what to do.
type AlreadyReversedError struct {
	EntryID       string
	CurrentStatus string
}

func (e *AlreadyReversedError) Error() string {
	return fmt.Sprintf("%s: entry %s is %s", ErrAlreadyReversed, e.EntryID, e.CurrentStatus)
}

func (e *AlreadyReversedError) Is(target error) bool { return target == ErrAlreadyReversed }

type AccountNotFoundError struct {
	AccountID string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAccountNotFound, e.AccountID)
}

// Is also matches ErrNotFound so generic not-found handling keeps working.
func (e *AccountNotFoundError) Is(target error) bool {
	return target == ErrAccountNotFound || target == ErrNotFound
}

type InvalidStateError struct {
	Entity        string
	CurrentStatus string
	Wanted        string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: %s is %s, cannot move to %s", ErrInvalidState, e.Entity, e.CurrentStatus, e.Wanted)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }
