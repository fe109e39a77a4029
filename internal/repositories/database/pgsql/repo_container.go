package pgsql

import (
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository port onto one pool. A non-nil sequences
// replaces the Postgres counter table, e.g. with the Redis allocator.
func NewRepositoryProvider(pool *pgxpool.Pool, ceiling int64, sequences portsrepo.SequenceAllocator) portsrepo.RepositoryProvider {
	if sequences == nil {
		sequences = newPgxSequenceAllocator(pool, ceiling)
	}
	return portsrepo.RepositoryProvider{
		TxManager:    newTxManager(pool),
		AccountRepo:  newPgxAccountRepository(pool),
		JournalRepo:  newPgxJournalRepository(pool),
		DocumentRepo: newPgxDocumentRepository(pool),
		AuditRepo:    newPgxAuditRepository(pool),
		TaxCodeRepo:  newPgxTaxCodeRepository(pool),
		Sequences:    sequences,
	}
}
