package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
)

// TenantContext identifies who is acting and for which tenant. It is built once per
// inbound operation and passed explicitly to every service call.
type TenantContext struct {
	TenantID string
	UserID   string
}

// NewTenantContext builds a context for one inbound operation. Both ids must be
// non-empty; a missing one is a validation failure.
func NewTenantContext(tenantID, userID string) (TenantContext, error) {
	tenantID = strings.TrimSpace(tenantID)
	userID = strings.TrimSpace(userID)
	if tenantID == "" {
		return TenantContext{}, fmt.Errorf("%w: tenant id is required", apperrors.ErrValidation)
	}
	if userID == "" {
		return TenantContext{}, fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}
	return TenantContext{TenantID: tenantID, UserID: userID}, nil
}

// Authorize fails with CrossTenantAccessError unless ownerTenantID is the context's tenant.
func (tc TenantContext) Authorize(resource, ownerTenantID string) error {
	if tc.TenantID == "" || ownerTenantID != tc.TenantID {
		return &apperrors.CrossTenantAccessError{
			Resource:      resource,
			ContextTenant: tc.TenantID,
			TargetTenant:  ownerTenantID,
		}
	}
	return nil
}
