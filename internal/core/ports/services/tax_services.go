package services

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
)

// TaxCalculatorSvc is the pure calculation engine. Preview and posting both go through it.
type TaxCalculatorSvc interface {
	// CalculateLine computes net, tax and gross for one line, rounding tax once at the
	// internal scale.
	CalculateLine(base domain.Money, code domain.TaxCode, isExemptDeposit bool, mode domain.TaxMode, rules *domain.TaxRuleSet) (domain.LineAmounts, error)

	// CalculateDocument sums the per-line results and buckets them into regulatory boxes.
	CalculateDocument(rules *domain.TaxRuleSet, lines []domain.TaxLine, mode domain.TaxMode) (*domain.TaxBreakdown, error)
}

// TaxReaderSvc resolves tenant tax configuration and period returns.
type TaxReaderSvc interface {
	// RuleSetFor loads the tax codes effective for the context's tenant.
	RuleSetFor(ctx context.Context, tc domain.TenantContext) (*domain.TaxRuleSet, error)

	// TaxReturn totals the boxes of the tenant's posted documents issued within [from, to].
	TaxReturn(ctx context.Context, tc domain.TenantContext, from, to time.Time) (*domain.TaxReturn, error)
}

// TaxSvcFacade combines all tax-related service interfaces
type TaxSvcFacade interface {
	TaxCalculatorSvc
	TaxReaderSvc

	// Calculate runs CalculateDocument against the tenant's rule set.
	Calculate(ctx context.Context, tc domain.TenantContext, lines []domain.TaxLine, mode domain.TaxMode) (*domain.TaxBreakdown, error)
}
