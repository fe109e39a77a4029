package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	"github.com/SscSPs/bookkeeping_engine/internal/dto"
)

// AccountReaderSvc is the chart-of-accounts lookup the posting engine consumes.
type AccountReaderSvc interface {
	// ResolveAccount fails with AccountNotFoundError or CrossTenantAccessError.
	ResolveAccount(ctx context.Context, tc domain.TenantContext, accountID string) (*domain.Account, error)

	// ResolveAccounts looks up every id in one read and fails like ResolveAccount on
	// the first missing, foreign or inactive account.
	ResolveAccounts(ctx context.Context, tc domain.TenantContext, accountIDs []string) (map[string]domain.Account, error)
}

// AccountWriterSvc defines write operations for accounts
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, tc domain.TenantContext, req dto.CreateAccountRequest) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
