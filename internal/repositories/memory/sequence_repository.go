package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
)

// SequenceAllocator keeps one counter per (tenant, document type), each behind its own
// mutex so that unrelated keys never wait on each other. Numbers handed to a unit of
// work that later rolls back are not reclaimed.
type SequenceAllocator struct {
	ceiling int64

	mu       sync.Mutex
	counters map[domain.SequenceKey]*counter
}

type counter struct {
	mu   sync.Mutex
	last int64
}

// SequenceOption configures a SequenceAllocator.
type SequenceOption func(*SequenceAllocator)

// WithCeiling sets the highest value any key may issue.
func WithCeiling(ceiling int64) SequenceOption {
	return func(a *SequenceAllocator) {
		if ceiling > 0 {
			a.ceiling = ceiling
		}
	}
}

// WithStartingValue primes a key so that the next call returns last+1.
func WithStartingValue(tenantID string, documentType domain.DocumentType, last int64) SequenceOption {
	return func(a *SequenceAllocator) {
		a.counters[domain.SequenceKey{TenantID: tenantID, DocumentType: documentType}] = &counter{last: last}
	}
}

func NewSequenceAllocator(opts ...SequenceOption) *SequenceAllocator {
	a := &SequenceAllocator{
		ceiling:  domain.DefaultSequenceCeiling,
		counters: make(map[domain.SequenceKey]*counter),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var _ portsrepo.SequenceAllocator = (*SequenceAllocator)(nil)

func (a *SequenceAllocator) Next(ctx context.Context, tenantID string, documentType domain.DocumentType) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if tenantID == "" || documentType == "" {
		return 0, fmt.Errorf("%w: sequence key needs tenant and document type", apperrors.ErrValidation)
	}

	c := a.counterFor(domain.SequenceKey{TenantID: tenantID, DocumentType: documentType})
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last >= a.ceiling {
		return 0, &apperrors.SequenceExhaustedError{TenantID: tenantID, DocumentType: string(documentType), Ceiling: a.ceiling}
	}
	c.last++
	return c.last, nil
}

func (a *SequenceAllocator) counterFor(key domain.SequenceKey) *counter {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.counters[key]
	if !ok {
		c = &counter{}
		a.counters[key] = c
	}
	return c
}
