package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_engine/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_engine/internal/dto"
	"github.com/google/uuid"
)

type accountService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
	audit       portssvc.AuditRecorderSvc
}

// NewAccountService creates a new AccountService.
func NewAccountService(txManager portsrepo.TransactionManager, accountRepo portsrepo.AccountRepositoryFacade, audit portssvc.AuditRecorderSvc, opts ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(opts...),
		txManager:   txManager,
		accountRepo: accountRepo,
		audit:       audit,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, tc domain.TenantContext, req dto.CreateAccountRequest) (*domain.Account, error) {
	accountType := domain.AccountType(req.AccountType)
	if !accountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}

	now := s.Now()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    tc.TenantID,
		Code:        code,
		Name:        name,
		AccountType: accountType,
		NormalSide:  accountType.NormalSide(),
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     tc.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: tc.UserID,
		},
	}

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.accountRepo.SaveAccount(txCtx, account); err != nil {
			return err
		}
		return s.audit.Record(txCtx, tc, domain.EntityAccount, account.AccountID, domain.AuditCreate, nil, account)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create account", slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", code))
	return &account, nil
}

func (s *accountService) ResolveAccount(ctx context.Context, tc domain.TenantContext, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, tc.TenantID, accountID)
	if err != nil {
		s.LogIsolationViolation(ctx, err)
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, accountID)
	}
	return account, nil
}

func (s *accountService) ResolveAccounts(ctx context.Context, tc domain.TenantContext, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, tc.TenantID, accountIDs)
	if err != nil {
		s.LogIsolationViolation(ctx, err)
		return nil, err
	}
	for _, id := range accountIDs {
		if !accounts[id].IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}
	return accounts, nil
}
