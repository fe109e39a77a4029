package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_engine/internal/core/ports/services"
)

// TaxEngine is the stateless calculation core. Every caller that needs tax amounts, the
// preview endpoint as much as the posting path, goes through these two methods so that
// rounding happens in exactly one place.
type TaxEngine struct{}

var _ portssvc.TaxCalculatorSvc = TaxEngine{}

// CalculateLine computes net, tax and gross for a single line. Tax is rounded once,
// half-up at the internal scale, before any aggregation.
func (TaxEngine) CalculateLine(base domain.Money, code domain.TaxCode, isExemptDeposit bool, mode domain.TaxMode, rules *domain.TaxRuleSet) (domain.LineAmounts, error) {
	if base.IsNegative() {
		return domain.LineAmounts{}, &apperrors.NegativeNotAllowedError{Field: "line amount", Value: base.String()}
	}
	if base.Scale() > domain.InternalScale {
		return domain.LineAmounts{}, &apperrors.PrecisionError{Scale: base.Scale(), MaxScale: domain.InternalScale}
	}
	if _, err := domain.ParseTaxMode(string(mode)); err != nil {
		return domain.LineAmounts{}, err
	}

	untaxed := domain.LineAmounts{Net: base, Tax: domain.ZeroMoney(), Gross: base}

	if isExemptDeposit {
		if rules != nil && !rules.DepositExemptionAllowed(code.Category) {
			return domain.LineAmounts{}, &apperrors.ExemptionMisuseError{Code: code.Code, Category: string(code.Category)}
		}
		return untaxed, nil
	}
	if !code.Category.ChargesTax() || code.Rate.IsZero() {
		return untaxed, nil
	}

	switch mode {
	case domain.TaxInclusive:
		tax, err := base.ExtractRate(code.Rate, domain.InternalScale, domain.RoundHalfUp)
		if err != nil {
			return domain.LineAmounts{}, err
		}
		return domain.LineAmounts{Net: base.Sub(tax), Tax: tax, Gross: base}, nil
	default:
		tax, err := base.MultiplyByRate(code.Rate).Round(domain.InternalScale, domain.RoundHalfUp)
		if err != nil {
			return domain.LineAmounts{}, err
		}
		return domain.LineAmounts{Net: base, Tax: tax, Gross: base.Add(tax)}, nil
	}
}

// CalculateDocument calculates every line and sums the rounded line amounts. Totals are
// never re-derived from the sums.
func (e TaxEngine) CalculateDocument(rules *domain.TaxRuleSet, lines []domain.TaxLine, mode domain.TaxMode) (*domain.TaxBreakdown, error) {
	if rules == nil {
		return nil, fmt.Errorf("%w: tax rule set is required", apperrors.ErrValidation)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: document has no lines", apperrors.ErrValidation)
	}

	breakdown := &domain.TaxBreakdown{
		Mode:  mode,
		Lines: make([]domain.LineResult, 0, len(lines)),
		Net:   domain.ZeroMoney(),
		Tax:   domain.ZeroMoney(),
		Gross: domain.ZeroMoney(),
		Boxes: domain.NewBoxTotals(),
	}

	for i, line := range lines {
		code, err := rules.Lookup(line.TaxCode)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		amounts, err := e.CalculateLine(line.Base, code, line.IsExemptDeposit, mode, rules)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		result := domain.LineResult{
			TaxCode:         code.Code,
			Category:        code.Category,
			Direction:       code.Direction,
			IsExemptDeposit: line.IsExemptDeposit,
			LineAmounts:     amounts,
		}
		breakdown.Lines = append(breakdown.Lines, result)
		breakdown.Net = breakdown.Net.Add(amounts.Net)
		breakdown.Tax = breakdown.Tax.Add(amounts.Tax)
		breakdown.Gross = breakdown.Gross.Add(amounts.Gross)
		domain.AddToBoxes(breakdown.Boxes, result)
	}
	return breakdown, nil
}

type taxService struct {
	BaseService
	TaxEngine
	taxCodeRepo  portsrepo.TaxCodeReader
	documentRepo portsrepo.DocumentReader
}

// NewTaxService creates the tax service backed by the tenant tax code store.
func NewTaxService(taxCodeRepo portsrepo.TaxCodeReader, documentRepo portsrepo.DocumentReader, opts ...ServiceOption) portssvc.TaxSvcFacade {
	return &taxService{
		BaseService:  newBaseService(opts...),
		taxCodeRepo:  taxCodeRepo,
		documentRepo: documentRepo,
	}
}

var _ portssvc.TaxSvcFacade = (*taxService)(nil)

func (s *taxService) RuleSetFor(ctx context.Context, tc domain.TenantContext) (*domain.TaxRuleSet, error) {
	codes, err := s.taxCodeRepo.ListTaxCodes(ctx, tc.TenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load tax codes", slog.String("tenant_id", tc.TenantID))
		return nil, fmt.Errorf("failed to load tax codes: %w", err)
	}
	if len(codes) == 0 {
		s.LogWarn(ctx, "No tax codes stored, using system defaults", slog.String("tenant_id", tc.TenantID))
		codes = domain.DefaultTaxCodes()
	}
	return domain.NewTaxRuleSet(codes, domain.DefaultDepositRestriction())
}

func (s *taxService) Calculate(ctx context.Context, tc domain.TenantContext, lines []domain.TaxLine, mode domain.TaxMode) (breakdown *domain.TaxBreakdown, err error) {
	defer func() { s.metrics.RecordTaxCalculation(string(mode), err) }()

	rules, err := s.RuleSetFor(ctx, tc)
	if err != nil {
		return nil, err
	}
	breakdown, err = s.CalculateDocument(rules, lines, mode)
	if err != nil {
		s.LogDebug(ctx, "Tax calculation rejected", slog.String("error", err.Error()))
		return nil, err
	}
	return breakdown, nil
}

func (s *taxService) TaxReturn(ctx context.Context, tc domain.TenantContext, from, to time.Time) (*domain.TaxReturn, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end is before period start", apperrors.ErrValidation)
	}
	sums, count, err := s.documentRepo.SumPostedBoxes(ctx, tc.TenantID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to total return boxes", slog.String("tenant_id", tc.TenantID))
		return nil, fmt.Errorf("failed to total return boxes: %w", err)
	}
	boxes := domain.NewBoxTotals()
	for box, amount := range sums {
		boxes[box] = amount
	}
	domain.DeriveBoxes(boxes)

	return &domain.TaxReturn{
		TenantID:      tc.TenantID,
		PeriodStart:   from,
		PeriodEnd:     to,
		DocumentCount: count,
		Boxes:         boxes,
	}, nil
}
