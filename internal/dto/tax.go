package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
)

// AmountView pairs the exact 4-place text with its 2-place display text.
type AmountView struct {
	Exact   string `json:"exact"`
	Display string `json:"display"`
}

func NewAmountView(m domain.Money) AmountView {
	return AmountView{Exact: m.String(), Display: m.Display()}
}

// TaxLineRequest is one line of a calculation request. Amount is exact decimal text.
type TaxLineRequest struct {
	Amount          string `json:"amount" binding:"required,decimal4" example:"100.00"`
	TaxCode         string `json:"taxCode" binding:"required" example:"SR"`
	IsExemptDeposit bool   `json:"isExemptDeposit"`
}

// CalculateTaxRequest asks for a preview breakdown.
type CalculateTaxRequest struct {
	Mode  string           `json:"mode" binding:"required,taxmode" example:"EXCLUSIVE"`
	Lines []TaxLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToTaxLines parses the request lines into engine inputs.
func ToTaxLines(lines []TaxLineRequest) ([]domain.TaxLine, error) {
	out := make([]domain.TaxLine, len(lines))
	for i, l := range lines {
		amount, err := domain.ParseMoney(l.Amount)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out[i] = domain.TaxLine{Base: amount, TaxCode: l.TaxCode, IsExemptDeposit: l.IsExemptDeposit}
	}
	return out, nil
}

// TaxLineResponse is the calculated result of one line.
type TaxLineResponse struct {
	TaxCode         string `json:"taxCode"`
	Category        string `json:"category"`
	IsExemptDeposit bool   `json:"isExemptDeposit"`
	Net             string `json:"net"`
	Tax             string `json:"tax"`
	Gross           string `json:"gross"`
}

// TaxBreakdownResponse carries every amount as exact text plus its display form.
type TaxBreakdownResponse struct {
	Mode  string                `json:"mode"`
	Lines []TaxLineResponse     `json:"lines"`
	Net   AmountView            `json:"net"`
	Tax   AmountView            `json:"tax"`
	Gross AmountView            `json:"gross"`
	Boxes map[string]AmountView `json:"boxes"`
}

func ToTaxBreakdownResponse(b *domain.TaxBreakdown) TaxBreakdownResponse {
	lines := make([]TaxLineResponse, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = TaxLineResponse{
			TaxCode:         l.TaxCode,
			Category:        string(l.Category),
			IsExemptDeposit: l.IsExemptDeposit,
			Net:             l.Net.String(),
			Tax:             l.Tax.String(),
			Gross:           l.Gross.String(),
		}
	}
	return TaxBreakdownResponse{
		Mode:  string(b.Mode),
		Lines: lines,
		Net:   NewAmountView(b.Net),
		Tax:   NewAmountView(b.Tax),
		Gross: NewAmountView(b.Gross),
		Boxes: toBoxViews(b.Boxes),
	}
}

func toBoxViews(boxes map[domain.RegulatoryBox]domain.Money) map[string]AmountView {
	out := make(map[string]AmountView, len(domain.RegulatoryBoxes))
	for _, box := range domain.RegulatoryBoxes {
		out[string(box)] = NewAmountView(boxes[box])
	}
	return out
}

// TaxCodeResponse describes one effective tax code.
type TaxCodeResponse struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Rate      string `json:"rate"`
	Category  string `json:"category"`
	Direction string `json:"direction"`
}

func ToTaxCodeResponses(codes []domain.TaxCode) []TaxCodeResponse {
	out := make([]TaxCodeResponse, len(codes))
	for i, c := range codes {
		out[i] = TaxCodeResponse{
			Code:      c.Code,
			Name:      c.Name,
			Rate:      c.Rate.String(),
			Category:  string(c.Category),
			Direction: string(c.Direction),
		}
	}
	return out
}

const dateLayout = "2006-01-02"

// TaxReturnParams selects the return period, both dates inclusive.
type TaxReturnParams struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// Period parses and checks the date range.
func (p TaxReturnParams) Period() (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, p.From)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	to, err := time.Parse(dateLayout, p.To)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: period end is before period start", apperrors.ErrValidation)
	}
	return from, to, nil
}

// TaxReturnResponse is the regulatory box view of a period.
type TaxReturnResponse struct {
	PeriodStart   string                `json:"periodStart"`
	PeriodEnd     string                `json:"periodEnd"`
	DocumentCount int                   `json:"documentCount"`
	Boxes         map[string]AmountView `json:"boxes"`
}

func ToTaxReturnResponse(r *domain.TaxReturn) TaxReturnResponse {
	return TaxReturnResponse{
		PeriodStart:   r.PeriodStart.Format(dateLayout),
		PeriodEnd:     r.PeriodEnd.Format(dateLayout),
		DocumentCount: r.DocumentCount,
		Boxes:         toBoxViews(r.Boxes),
	}
}
