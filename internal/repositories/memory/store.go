// Package memory is a process-local implementation of every repository port. It backs
// tests and single-node deployments that run without Postgres.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
)

type txKey struct{}

// Store keeps all tenant data in maps guarded by one lock. A unit of work holds the
// write lock for its whole duration and restores a snapshot when it fails, so
// units of work from different tenants run one at a time. Postgres locks rows instead.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]domain.Account
	entries   map[string]domain.JournalEntry
	documents map[string]domain.Document
	audit     []domain.AuditRecord
	taxCodes  map[string][]domain.TaxCode // keyed by tenant; "" holds the system codes
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTaxCodes stores codes for a tenant. An empty tenant ID sets the system codes.
func WithTaxCodes(tenantID string, codes ...domain.TaxCode) StoreOption {
	return func(s *Store) { s.taxCodes[tenantID] = append([]domain.TaxCode(nil), codes...) }
}

// NewStore returns an empty store seeded with the default system tax codes.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		accounts:  make(map[string]domain.Account),
		entries:   make(map[string]domain.JournalEntry),
		documents: make(map[string]domain.Document),
		taxCodes:  map[string][]domain.TaxCode{"": domain.DefaultTaxCodes()},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portsrepo.TransactionManager = (*Store)(nil)

type snapshot struct {
	accounts  map[string]domain.Account
	entries   map[string]domain.JournalEntry
	documents map[string]domain.Document
	auditLen  int
}

// WithinTx runs fn under the store's write lock. Nested calls join the outer unit.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		accounts:  maps.Clone(s.accounts),
		entries:   maps.Clone(s.entries),
		documents: maps.Clone(s.documents),
		auditLen:  len(s.audit),
	}
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.accounts = snap.accounts
		s.entries = snap.entries
		s.documents = snap.documents
		s.audit = s.audit[:snap.auditLen]
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// read takes the read lock unless ctx already holds the write lock.
func (s *Store) read(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// write takes the write lock unless ctx already holds it.
func (s *Store) write(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// NewRepositoryProvider wires one store and allocator into every repository port.
func NewRepositoryProvider(store *Store, sequences *SequenceAllocator) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:    store,
		AccountRepo:  store,
		JournalRepo:  store,
		DocumentRepo: store,
		AuditRepo:    store,
		TaxCodeRepo:  store,
		Sequences:    sequences,
	}
}
