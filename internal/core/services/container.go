package services

import (
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_engine/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with all services initialized
func NewServiceContainer(repos portsrepo.RepositoryProvider, opts ...ServiceOption) *portssvc.ServiceContainer {
	audit := NewAuditService(repos.AuditRepo, opts...)
	tax := NewTaxService(repos.TaxCodeRepo, repos.DocumentRepo, opts...)
	sequences := NewSequenceService(repos.Sequences, opts...)
	accounts := NewAccountService(repos.TxManager, repos.AccountRepo, audit, opts...)
	documents := NewDocumentService(repos.TxManager, repos.DocumentRepo, tax, audit, opts...)
	ledger := NewLedgerService(LedgerDeps{
		TxManager:    repos.TxManager,
		JournalRepo:  repos.JournalRepo,
		DocumentRepo: repos.DocumentRepo,
		Accounts:     accounts,
		Tax:          tax,
		Sequences:    sequences,
		Audit:        audit,
	}, opts...)

	return &portssvc.ServiceContainer{
		Account:  accounts,
		Tax:      tax,
		Ledger:   ledger,
		Document: documents,
		Audit:    audit,
		Sequence: sequences,
	}
}
