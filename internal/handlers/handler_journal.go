package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bookkeeping_engine/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_engine/internal/dto"
	"github.com/SscSPs/bookkeeping_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

type journalHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// RegisterJournalRoutes registers journal read and reversal routes.
func RegisterJournalRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &journalHandler{ledgerService: ledgerService}

	journals := rg.Group("/journals")
	{
		journals.GET("/:entryID", h.getEntry)
		journals.POST("/:entryID/reverse", h.reverseEntry)
	}
}

// getEntry godoc
// @Summary Get a journal entry
// @Tags journals
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /journals/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}
	entry, err := h.ledgerService.GetEntry(c.Request.Context(), tc, c.Param("entryID"))
	if err != nil {
		respondWithError(c, err, "retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted journal entry
// @Description Writes the side-flipped entry under a new RV number and marks the original REVERSED
// @Tags journals
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already reversed"
// @Security BearerAuth
// @Router /journals/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}
	reversal, err := h.ledgerService.Reverse(c.Request.Context(), tc, c.Param("entryID"))
	if err != nil {
		respondWithError(c, err, "reverse journal entry")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Journal entry reversed",
		slog.String("entry_id", c.Param("entryID")), slog.String("reversal_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}
