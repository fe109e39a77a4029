package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data. Every lookup is
// filtered by tenant.
type AccountReader interface {
	// FindAccountByID fails with AccountNotFoundError when the account does not exist,
	// and with CrossTenantAccessError when it belongs to another tenant.
	FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs returns the accounts keyed by ID, failing like FindAccountByID on the first miss.
	FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
