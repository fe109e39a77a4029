package memory

import (
	"context"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
)

var _ portsrepo.TaxCodeReader = (*Store)(nil)

// ListTaxCodes merges the system codes with the tenant's, the tenant winning on a clash.
func (s *Store) ListTaxCodes(ctx context.Context, tenantID string) ([]domain.TaxCode, error) {
	unlock := s.read(ctx)
	defer unlock()

	byCode := make(map[string]int)
	out := make([]domain.TaxCode, 0, len(s.taxCodes[""])+len(s.taxCodes[tenantID]))
	for _, c := range s.taxCodes[""] {
		byCode[c.Code] = len(out)
		out = append(out, c)
	}
	if tenantID == "" {
		return out, nil
	}
	for _, c := range s.taxCodes[tenantID] {
		if i, ok := byCode[c.Code]; ok {
			out[i] = c
			continue
		}
		byCode[c.Code] = len(out)
		out = append(out, c)
	}
	return out, nil
}
