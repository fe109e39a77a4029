// Package redis allocates document numbers from Redis counters, for deployments that
// share sequences across processes without a Postgres round trip.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	redis "github.com/redis/go-redis/v9"
)

// Returns the next value, or -1 once the counter sits at the ceiling.
const nextSequenceScript = `
local ceiling = tonumber(ARGV[1])
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current >= ceiling then
  return -1
end
return redis.call("INCR", KEYS[1])
`

const keyPrefix = "bookkeeping:seq:"

// SequenceAllocator runs one Lua script per call. Scripts execute atomically, so calls on
// one key serialize inside Redis. Numbers taken by a rolled back posting are not
// returned, which leaves a gap.
type SequenceAllocator struct {
	client  redis.UniversalClient
	script  *redis.Script
	ceiling int64
}

func NewSequenceAllocator(client redis.UniversalClient, ceiling int64) *SequenceAllocator {
	if ceiling <= 0 {
		ceiling = domain.DefaultSequenceCeiling
	}
	return &SequenceAllocator{
		client:  client,
		script:  redis.NewScript(nextSequenceScript),
		ceiling: ceiling,
	}
}

var _ portsrepo.SequenceAllocator = (*SequenceAllocator)(nil)

func sequenceKey(tenantID string, documentType domain.DocumentType) string {
	return keyPrefix + domain.SequenceKey{TenantID: tenantID, DocumentType: documentType}.String()
}

func (a *SequenceAllocator) Next(ctx context.Context, tenantID string, documentType domain.DocumentType) (int64, error) {
	if a == nil || a.client == nil {
		return 0, errors.New("redis sequence allocator not configured")
	}
	if tenantID == "" || documentType == "" {
		return 0, fmt.Errorf("%w: sequence key needs a tenant and a document type", apperrors.ErrValidation)
	}

	n, err := a.script.Run(ctx, a.client, []string{sequenceKey(tenantID, documentType)}, a.ceiling).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s number: %w", documentType, err)
	}
	if n < 0 {
		return 0, &apperrors.SequenceExhaustedError{TenantID: tenantID, DocumentType: string(documentType), Ceiling: a.ceiling}
	}
	return n, nil
}
