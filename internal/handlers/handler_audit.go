package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bookkeeping_engine/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_engine/internal/dto"
	"github.com/gin-gonic/gin"
)

type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

// RegisterAuditRoutes registers the audit trail route.
func RegisterAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := &auditHandler{auditService: auditService}
	rg.GET("/audit", h.listAuditRecords)
}

// listAuditRecords godoc
// @Summary List audit records
// @Description Newest first, with token-based pagination
// @Tags audit
// @Produce  json
// @Param   entity_type query string false "Filter by entity type"
// @Param   entity_id query string false "Filter by entity ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListAuditResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /audit [get]
func (h *auditHandler) listAuditRecords(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}
	var params dto.ListAuditParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondWithBindError(c, err, "ListAudit query")
		return
	}

	resp, err := h.auditService.ListAuditRecords(c.Request.Context(), tc, params)
	if err != nil {
		respondWithError(c, err, "list audit records")
		return
	}
	c.JSON(http.StatusOK, resp)
}
