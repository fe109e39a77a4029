package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	"github.com/SscSPs/bookkeeping_engine/internal/core/services"
	"github.com/SscSPs/bookkeeping_engine/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuditService_RecordSnapshotsExactAmounts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	repo := new(MockAuditRepository)
	svc := services.NewAuditService(repo, services.WithClock(func() time.Time { return now }))
	tc := domain.TenantContext{TenantID: "tenant-a", UserID: "user-1"}

	var captured domain.AuditRecord
	repo.On("InsertAuditRecord", ctx, mock.AnythingOfType("domain.AuditRecord")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(domain.AuditRecord) }).
		Return(nil).Once()

	line := domain.JournalLine{AccountID: "ar", Side: domain.Debit, Amount: money("109")}
	require.NoError(t, svc.Record(ctx, tc, domain.EntityJournalEntry, "je-1", domain.AuditPost, nil, line))

	assert.NotEmpty(t, captured.AuditID)
	assert.Equal(t, "tenant-a", captured.TenantID)
	assert.Equal(t, "user-1", captured.Actor)
	assert.Equal(t, now, captured.CreatedAt)
	assert.Nil(t, captured.Before)
	assert.JSONEq(t, `{"lineID":"","entryID":"","lineNo":0,"accountID":"ar","side":"DEBIT","amount":"109.0000"}`, string(captured.After))
}

func TestAuditService_ListPassesTenantAndToken(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAuditRepository)
	svc := services.NewAuditService(repo)
	tc := domain.TenantContext{TenantID: "tenant-a", UserID: "user-1"}

	token := "abc"
	records := []domain.AuditRecord{{AuditID: "a1", Action: domain.AuditVoid}}
	repo.On("ListAuditRecords", ctx, "tenant-a", domain.AuditFilter{EntityType: "document"}, 20, &token).
		Return(records, "next", nil).Once()

	resp, err := svc.ListAuditRecords(ctx, tc, dto.ListAuditParams{EntityType: "document", NextToken: token})
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "VOID", resp.Records[0].Action)
	require.NotNil(t, resp.NextToken)
	assert.Equal(t, "next", *resp.NextToken)
}
