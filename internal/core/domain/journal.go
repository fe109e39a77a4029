package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
)

// Side indicates whether a journal line is a Debit or a Credit.
type Side string

const (
	Debit  Side = "DEBIT"
	Credit Side = "CREDIT"
)

// Flip returns the opposite side.
func (s Side) Flip() Side {
	if s == Debit {
		return Credit
	}
	return Debit
}

func (s Side) Valid() bool { return s == Debit || s == Credit }

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// JournalEntry is a balanced financial event. Entries are never edited after posting;
// a reversal is a new entry pointing back at the original.
type JournalEntry struct {
	EntryID           string        `json:"entryID"`
	TenantID          string        `json:"tenantID"`
	Reference         string        `json:"reference"` // formatted document number, e.g. INV-00042
	DocumentID        string        `json:"documentID"`
	Status            JournalStatus `json:"status"`
	OriginalEntryID   *string       `json:"originalEntryID,omitempty"`   // set on a reversal
	ReversedByEntryID *string       `json:"reversedByEntryID,omitempty"` // set on the original once reversed
	Lines             []JournalLine `json:"lines"`
	CreatedAt         time.Time     `json:"createdAt"`
	CreatedBy         string        `json:"createdBy"`
}

// JournalLine is owned by exactly one entry. Amount is strictly positive.
type JournalLine struct {
	LineID    string `json:"lineID"`
	EntryID   string `json:"entryID"`
	LineNo    int    `json:"lineNo"`
	AccountID string `json:"accountID"`
	Side      Side   `json:"side"`
	Amount    Money  `json:"amount"`
}

// Totals returns the debit and credit sums of the lines.
func (e JournalEntry) Totals() (debits, credits Money) {
	debits, credits = ZeroMoney(), ZeroMoney()
	for _, l := range e.Lines {
		if l.Side == Debit {
			debits = debits.Add(l.Amount)
		} else {
			credits = credits.Add(l.Amount)
		}
	}
	return debits, credits
}

// ValidateBalanced checks the line shape and the exact double-entry balance.
func (e JournalEntry) ValidateBalanced() error {
	if len(e.Lines) < 2 {
		return fmt.Errorf("%w: journal entry requires at least two lines", apperrors.ErrValidation)
	}
	for _, l := range e.Lines {
		if !l.Side.Valid() {
			return fmt.Errorf("%w: invalid side %q on line %d", apperrors.ErrValidation, l.Side, l.LineNo)
		}
		if !l.Amount.IsPositive() {
			return &apperrors.NegativeNotAllowedError{Field: "journal line amount", Value: l.Amount.String()}
		}
		if l.Amount.Scale() > InternalScale {
			return &apperrors.PrecisionError{Scale: l.Amount.Scale(), MaxScale: InternalScale}
		}
	}
	debits, credits := e.Totals()
	if !debits.Equal(credits) {
		return &apperrors.ImbalancedEntryError{Debits: debits.String(), Credits: credits.String()}
	}
	return nil
}

// ReversalLines returns copies of the lines with every side flipped and amounts unchanged.
func (e JournalEntry) ReversalLines() []JournalLine {
	out := make([]JournalLine, len(e.Lines))
	for i, l := range e.Lines {
		out[i] = JournalLine{
			LineNo:    l.LineNo,
			AccountID: l.AccountID,
			Side:      l.Side.Flip(),
			Amount:    l.Amount,
		}
	}
	return out
}
