package handlers

import (
	"net/http"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	"github.com/SscSPs/bookkeeping_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// tenantContext fetches the caller's TenantContext, answering 401 when it is missing.
func tenantContext(c *gin.Context) (domain.TenantContext, bool) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Tenant context not found in request")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return domain.TenantContext{}, false
	}
	return tc, true
}
