package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
)

// TaxMode states whether line amounts already include tax.
type TaxMode string

const (
	TaxExclusive TaxMode = "EXCLUSIVE"
	TaxInclusive TaxMode = "INCLUSIVE"
)

// ParseTaxMode accepts EXCLUSIVE or INCLUSIVE.
func ParseTaxMode(s string) (TaxMode, error) {
	switch m := TaxMode(s); m {
	case TaxExclusive, TaxInclusive:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown tax mode %q", apperrors.ErrValidation, s)
	}
}

// TaxLine is one calculation input. IsExemptDeposit forces tax to zero for refundable deposits.
type TaxLine struct {
	Base            Money
	TaxCode         string
	IsExemptDeposit bool
}

// LineAmounts is the result of calculating a single line.
type LineAmounts struct {
	Net   Money
	Tax   Money
	Gross Money
}

// LineResult ties a line's amounts to the code it was calculated under.
type LineResult struct {
	TaxCode         string
	Category        TaxCategory
	Direction       TaxDirection
	IsExemptDeposit bool
	LineAmounts
}

// RegulatoryBox identifies a GST return box.
type RegulatoryBox string

const (
	Box1  RegulatoryBox = "BOX1"  // standard-rated supplies
	Box2  RegulatoryBox = "BOX2"  // zero-rated supplies
	Box3  RegulatoryBox = "BOX3"  // exempt supplies
	Box4  RegulatoryBox = "BOX4"  // total supplies
	Box5  RegulatoryBox = "BOX5"  // total taxable purchases
	Box6  RegulatoryBox = "BOX6"  // output tax due
	Box7  RegulatoryBox = "BOX7"  // input tax claimed
	Box8  RegulatoryBox = "BOX8"  // net GST
	Box13 RegulatoryBox = "BOX13" // revenue
	Box14 RegulatoryBox = "BOX14" // imported services under reverse charge
)

// RegulatoryBoxes is the fixed, ordered box set of every breakdown and return.
var RegulatoryBoxes = []RegulatoryBox{Box1, Box2, Box3, Box4, Box5, Box6, Box7, Box8, Box13, Box14}

// NewBoxTotals returns every box at zero.
func NewBoxTotals() map[RegulatoryBox]Money {
	out := make(map[RegulatoryBox]Money, len(RegulatoryBoxes))
	for _, b := range RegulatoryBoxes {
		out[b] = ZeroMoney()
	}
	return out
}

// boxTargets returns the boxes a line's net and tax feed into.
func boxTargets(category TaxCategory, direction TaxDirection) (netBoxes, taxBoxes []RegulatoryBox) {
	switch category {
	case CategoryStandard:
		if direction == DirectionSupply {
			return []RegulatoryBox{Box1}, []RegulatoryBox{Box6}
		}
		return []RegulatoryBox{Box5}, []RegulatoryBox{Box7}
	case CategoryZeroRated:
		if direction == DirectionSupply {
			return []RegulatoryBox{Box2}, nil
		}
		return []RegulatoryBox{Box5}, nil
	case CategoryExempt:
		if direction == DirectionSupply {
			return []RegulatoryBox{Box3}, nil
		}
		return nil, nil
	case CategoryOutOfScope:
		return nil, nil
	case CategoryDeemedInput:
		return []RegulatoryBox{Box5}, []RegulatoryBox{Box7}
	case CategoryBlockedInput:
		return []RegulatoryBox{Box5}, nil
	case CategoryReverseCharge:
		return []RegulatoryBox{Box5, Box14}, []RegulatoryBox{Box6, Box7}
	}
	return nil, nil
}

// AddToBoxes buckets one line into totals and refreshes the derived boxes.
func AddToBoxes(totals map[RegulatoryBox]Money, line LineResult) {
	if !line.IsExemptDeposit {
		netBoxes, taxBoxes := boxTargets(line.Category, line.Direction)
		for _, b := range netBoxes {
			totals[b] = totals[b].Add(line.Net)
		}
		for _, b := range taxBoxes {
			totals[b] = totals[b].Add(line.Tax)
		}
	}
	DeriveBoxes(totals)
}

// DeriveBoxes recomputes BOX4, BOX8 and BOX13 from their components. Revenue counts
// the same standard-rated, zero-rated and exempt supplies as BOX4.
func DeriveBoxes(totals map[RegulatoryBox]Money) {
	totals[Box4] = SumMoney(totals[Box1], totals[Box2], totals[Box3])
	totals[Box8] = totals[Box6].Sub(totals[Box7])
	totals[Box13] = totals[Box4]
}

// TaxBreakdown is the immutable result for a whole document. Totals are sums of the
// already-rounded line amounts.
type TaxBreakdown struct {
	Mode  TaxMode
	Lines []LineResult
	Net   Money
	Tax   Money
	Gross Money
	Boxes map[RegulatoryBox]Money
}

// DisplayAmounts is the 2-place view of a breakdown's totals.
type DisplayAmounts struct {
	Net   string
	Tax   string
	Gross string
	Boxes map[RegulatoryBox]string
}

// Display derives the 2-place view from the 4-place totals.
func (b TaxBreakdown) Display() DisplayAmounts {
	boxes := make(map[RegulatoryBox]string, len(b.Boxes))
	for k, v := range b.Boxes {
		boxes[k] = v.Display()
	}
	return DisplayAmounts{
		Net:   b.Net.Display(),
		Tax:   b.Tax.Display(),
		Gross: b.Gross.Display(),
		Boxes: boxes,
	}
}

// TaxReturn is the box view of a tenant's posted documents over a period.
type TaxReturn struct {
	TenantID      string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	DocumentCount int
	Boxes         map[RegulatoryBox]Money
}
