package mapping

import (
	"fmt"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	"github.com/SscSPs/bookkeeping_engine/internal/models"
)

// ToDomainTaxCode converts a stored row, rejecting unknown categories and directions.
func ToDomainTaxCode(m models.TaxCode) (domain.TaxCode, error) {
	rate, err := domain.NewRate(m.Rate)
	if err != nil {
		return domain.TaxCode{}, fmt.Errorf("tax code %s: %w", m.Code, err)
	}
	category, err := domain.ParseTaxCategory(m.Category)
	if err != nil {
		return domain.TaxCode{}, fmt.Errorf("tax code %s: %w", m.Code, err)
	}
	direction, err := domain.ParseTaxDirection(m.Direction)
	if err != nil {
		return domain.TaxCode{}, fmt.Errorf("tax code %s: %w", m.Code, err)
	}
	return domain.TaxCode{
		Code:      m.Code,
		Name:      m.Name,
		Rate:      rate,
		Category:  category,
		Direction: direction,
	}, nil
}
