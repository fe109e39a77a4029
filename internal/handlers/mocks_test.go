package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portssvc "github.com/SscSPs/bookkeeping_engine/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_engine/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) ResolveAccount(ctx context.Context, tc domain.TenantContext, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tc, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ResolveAccounts(ctx context.Context, tc domain.TenantContext, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tc, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, tc domain.TenantContext, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, tc, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock TaxService ---
type MockTaxService struct {
	mock.Mock
}

func (m *MockTaxService) CalculateLine(base domain.Money, code domain.TaxCode, isExemptDeposit bool, mode domain.TaxMode, rules *domain.TaxRuleSet) (domain.LineAmounts, error) {
	args := m.Called(base, code, isExemptDeposit, mode, rules)
	return args.Get(0).(domain.LineAmounts), args.Error(1)
}

func (m *MockTaxService) CalculateDocument(rules *domain.TaxRuleSet, lines []domain.TaxLine, mode domain.TaxMode) (*domain.TaxBreakdown, error) {
	args := m.Called(rules, lines, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxBreakdown), args.Error(1)
}

func (m *MockTaxService) RuleSetFor(ctx context.Context, tc domain.TenantContext) (*domain.TaxRuleSet, error) {
	args := m.Called(ctx, tc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRuleSet), args.Error(1)
}

func (m *MockTaxService) TaxReturn(ctx context.Context, tc domain.TenantContext, from, to time.Time) (*domain.TaxReturn, error) {
	args := m.Called(ctx, tc, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxReturn), args.Error(1)
}

func (m *MockTaxService) Calculate(ctx context.Context, tc domain.TenantContext, lines []domain.TaxLine, mode domain.TaxMode) (*domain.TaxBreakdown, error) {
	args := m.Called(ctx, tc, lines, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxBreakdown), args.Error(1)
}

var _ portssvc.TaxSvcFacade = (*MockTaxService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetEntry(ctx context.Context, tc domain.TenantContext, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tc, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) Post(ctx context.Context, tc domain.TenantContext, document domain.Document, mapping domain.AccountMapping) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tc, document, mapping)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) Reverse(ctx context.Context, tc domain.TenantContext, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tc, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock DocumentService ---
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) CreateDraft(ctx context.Context, tc domain.TenantContext, req dto.CreateDocumentRequest) (*domain.Document, error) {
	args := m.Called(ctx, tc, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) GetDocument(ctx context.Context, tc domain.TenantContext, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, tc, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) VoidDraft(ctx context.Context, tc domain.TenantContext, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, tc, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) UpdateDraft(ctx context.Context, tc domain.TenantContext, documentID string, req dto.UpdateDocumentRequest) (*domain.Document, error) {
	args := m.Called(ctx, tc, documentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) AddLine(ctx context.Context, tc domain.TenantContext, documentID string, req dto.DocumentLineRequest) (*domain.Document, error) {
	args := m.Called(ctx, tc, documentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) RemoveLine(ctx context.Context, tc domain.TenantContext, documentID string, lineNo int) (*domain.Document, error) {
	args := m.Called(ctx, tc, documentID, lineNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

var _ portssvc.DocumentSvcFacade = (*MockDocumentService)(nil)

// --- Mock AuditService ---
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, tc domain.TenantContext, entityType, entityID string, action domain.AuditAction, before, after any) error {
	return m.Called(ctx, tc, entityType, entityID, action, before, after).Error(0)
}

func (m *MockAuditService) ListAuditRecords(ctx context.Context, tc domain.TenantContext, params dto.ListAuditParams) (*dto.ListAuditResponse, error) {
	args := m.Called(ctx, tc, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAuditResponse), args.Error(1)
}

var _ portssvc.AuditSvcFacade = (*MockAuditService)(nil)
