package memory

import (
	"context"
	"slices"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_engine/internal/utils/pagination"
)

var _ portsrepo.AuditRepositoryFacade = (*Store)(nil)

func (s *Store) InsertAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	unlock := s.write(ctx)
	defer unlock()

	record.Before = slices.Clone(record.Before)
	record.After = slices.Clone(record.After)
	s.audit = append(s.audit, record)
	return nil
}

// ListAuditRecords pages newest first, ordered by (created_at, audit_id) descending.
func (s *Store) ListAuditRecords(ctx context.Context, tenantID string, filter domain.AuditFilter, limit int, nextToken *string) ([]domain.AuditRecord, *string, error) {
	var (
		cursorAt time.Time
		cursorID string
	)
	if nextToken != nil && *nextToken != "" {
		var err error
		if cursorAt, cursorID, err = pagination.DecodeCursor(*nextToken); err != nil {
			return nil, nil, err
		}
	}

	unlock := s.read(ctx)
	matched := make([]domain.AuditRecord, 0)
	for _, r := range s.audit {
		if r.TenantID != tenantID {
			continue
		}
		if filter.EntityType != "" && r.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != "" && r.EntityID != filter.EntityID {
			continue
		}
		matched = append(matched, r)
	}
	unlock()

	slices.SortFunc(matched, func(a, b domain.AuditRecord) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.AuditID > b.AuditID:
			return -1
		case a.AuditID < b.AuditID:
			return 1
		}
		return 0
	})

	start := 0
	if cursorID != "" {
		for start < len(matched) && !olderThan(matched[start], cursorAt, cursorID) {
			start++
		}
	}
	page := matched[start:]

	var next *string
	if limit > 0 && len(page) > limit {
		page = page[:limit]
		last := page[len(page)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.AuditID)
		next = &token
	}
	return slices.Clone(page), next, nil
}

func olderThan(r domain.AuditRecord, at time.Time, id string) bool {
	if !r.CreatedAt.Equal(at) {
		return r.CreatedAt.Before(at)
	}
	return r.AuditID < id
}
