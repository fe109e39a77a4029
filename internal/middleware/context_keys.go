package middleware

import (
	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// tenantContextKey is the key under which AuthMiddleware stores the request's TenantContext.
const tenantContextKey = "tenantContext"

// GetTenantContext retrieves the TenantContext built by AuthMiddleware.
// Handlers pass the returned value explicitly into every service call.
func GetTenantContext(c *gin.Context) (domain.TenantContext, bool) {
	val, exists := c.Get(tenantContextKey)
	if !exists {
		return domain.TenantContext{}, false
	}
	tc, ok := val.(domain.TenantContext)
	return tc, ok
}

// SetTenantContext stores tc on the gin context. Used by AuthMiddleware and tests.
func SetTenantContext(c *gin.Context, tc domain.TenantContext) {
	c.Set(tenantContextKey, tc)
}
