package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
)

var _ portsrepo.JournalRepositoryFacade = (*Store)(nil)

func (s *Store) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	unlock := s.write(ctx)
	defer unlock()

	if _, exists := s.entries[entry.EntryID]; exists {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	entry.Lines = slices.Clone(entry.Lines)
	s.entries[entry.EntryID] = entry
	return nil
}

func (s *Store) FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	unlock := s.read(ctx)
	defer unlock()
	return s.findEntry(tenantID, entryID)
}

// FindEntryByIDForUpdate relies on the unit of work's write lock for exclusivity.
func (s *Store) FindEntryByIDForUpdate(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return s.FindEntryByID(ctx, tenantID, entryID)
}

func (s *Store) MarkEntryReversed(ctx context.Context, tenantID, entryID, reversedByEntryID string) error {
	unlock := s.write(ctx)
	defer unlock()

	entry, err := s.findEntry(tenantID, entryID)
	if err != nil {
		return err
	}
	if entry.Status != domain.Posted {
		return &apperrors.AlreadyReversedError{EntryID: entryID, CurrentStatus: string(entry.Status)}
	}
	entry.Status = domain.Reversed
	entry.ReversedByEntryID = &reversedByEntryID
	s.entries[entryID] = *entry
	return nil
}

func (s *Store) findEntry(tenantID, entryID string) (*domain.JournalEntry, error) {
	e, ok := s.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	if e.TenantID != tenantID {
		return nil, &apperrors.CrossTenantAccessError{Resource: "journal entry " + entryID, ContextTenant: tenantID, TargetTenant: e.TenantID}
	}
	e.Lines = slices.Clone(e.Lines)
	return &e, nil
}
