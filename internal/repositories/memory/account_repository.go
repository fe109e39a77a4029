package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
)

var _ portsrepo.AccountRepositoryFacade = (*Store)(nil)

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	unlock := s.write(ctx)
	defer unlock()

	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	for _, a := range s.accounts {
		if a.TenantID == account.TenantID && a.Code == account.Code {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
		}
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	unlock := s.read(ctx)
	defer unlock()
	return s.findAccount(tenantID, accountID)
}

func (s *Store) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	unlock := s.read(ctx)
	defer unlock()

	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		a, err := s.findAccount(tenantID, id)
		if err != nil {
			return nil, err
		}
		out[id] = *a
	}
	return out, nil
}

func (s *Store) findAccount(tenantID, accountID string) (*domain.Account, error) {
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, &apperrors.AccountNotFoundError{AccountID: accountID}
	}
	if a.TenantID != tenantID {
		return nil, &apperrors.CrossTenantAccessError{Resource: "account " + accountID, ContextTenant: tenantID, TargetTenant: a.TenantID}
	}
	return &a, nil
}
