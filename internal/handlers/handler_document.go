package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/bookkeeping_engine/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_engine/internal/dto"
	"github.com/SscSPs/bookkeeping_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
	ledgerService   portssvc.LedgerSvcFacade
}

// RegisterDocumentRoutes registers the document lifecycle routes.
func RegisterDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := &documentHandler{documentService: documentService, ledgerService: ledgerService}

	documents := rg.Group("/documents")
	{
		documents.POST("", h.createDraft)
		documents.GET("/:documentID", h.getDocument)
		documents.PATCH("/:documentID", h.updateDraft)
		documents.POST("/:documentID/lines", h.addLine)
		documents.DELETE("/:documentID/lines/:lineNo", h.removeLine)
		documents.POST("/:documentID/post", h.postDocument)
		documents.POST("/:documentID/void", h.voidDraft)
	}
}

// createDraft godoc
// @Summary Create a draft document
// @Description Stores a DRAFT with its preview totals. No number is allocated until posting.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /documents [post]
func (h *documentHandler) createDraft(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err, "CreateDocument body")
		return
	}

	doc, err := h.documentService.CreateDraft(c.Request.Context(), tc, req)
	if err != nil {
		respondWithError(c, err, "create document")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Draft document created", slog.String("document_id", doc.DocumentID))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// getDocument godoc
// @Summary Get a document
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Document not found"
// @Security BearerAuth
// @Router /documents/{documentID} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}
	doc, err := h.documentService.GetDocument(c.Request.Context(), tc, c.Param("documentID"))
	if err != nil {
		respondWithError(c, err, "retrieve document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// updateDraft godoc
// @Summary Edit a draft document
// @Description Changes header fields or replaces the lines of a DRAFT and recalculates its preview totals
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   changes body dto.UpdateDocumentRequest true "Fields to change"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not a draft"
// @Security BearerAuth
// @Router /documents/{documentID} [patch]
func (h *documentHandler) updateDraft(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}
	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err, "UpdateDocument body")
		return
	}
	doc, err := h.documentService.UpdateDraft(c.Request.Context(), tc, c.Param("documentID"), req)
	if err != nil {
		respondWithError(c, err, "update document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// addLine godoc
// @Summary Add a line to a draft document
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   line body dto.DocumentLineRequest true "Line details"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not a draft"
// @Security BearerAuth
// @Router /documents/{documentID}/lines [post]
func (h *documentHandler) addLine(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}
	var req dto.DocumentLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err, "DocumentLine body")
		return
	}
	doc, err := h.documentService.AddLine(c.Request.Context(), tc, c.Param("documentID"), req)
	if err != nil {
		respondWithError(c, err, "add document line")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// removeLine godoc
// @Summary Remove a line from a draft document
// @Description Remaining lines are renumbered from 1. The last line cannot be removed.
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   lineNo path int true "Line number"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid line number, or last line"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Document or line not found"
// @Failure 409 {object} map[string]string "Document is not a draft"
// @Security BearerAuth
// @Router /documents/{documentID}/lines/{lineNo} [delete]
func (h *documentHandler) removeLine(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}
	lineNo, err := strconv.Atoi(c.Param("lineNo"))
	if err != nil || lineNo < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lineNo must be a positive integer"})
		return
	}
	doc, err := h.documentService.RemoveLine(c.Request.Context(), tc, c.Param("documentID"), lineNo)
	if err != nil {
		respondWithError(c, err, "remove document line")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// postDocument godoc
// @Summary Post a draft document
// @Description Calculates tax, allocates the document number and writes a balanced journal entry in one unit of work
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   mapping body dto.PostDocumentRequest true "Account mapping for net, tax and gross"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Document or account not found"
// @Failure 409 {object} map[string]string "Document is not a draft, or its sequence is exhausted"
// @Failure 422 {object} map[string]string "Mapping produces an imbalanced entry"
// @Security BearerAuth
// @Router /documents/{documentID}/post [post]
func (h *documentHandler) postDocument(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}
	var req dto.PostDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err, "PostDocument body")
		return
	}

	doc, err := h.documentService.GetDocument(c.Request.Context(), tc, c.Param("documentID"))
	if err != nil {
		respondWithError(c, err, "post document")
		return
	}
	entry, err := h.ledgerService.Post(c.Request.Context(), tc, *doc, req.ToAccountMapping())
	if err != nil {
		respondWithError(c, err, "post document")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Document posted",
		slog.String("document_id", doc.DocumentID), slog.String("reference", entry.Reference))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// voidDraft godoc
// @Summary Void a draft document
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not a draft"
// @Security BearerAuth
// @Router /documents/{documentID}/void [post]
func (h *documentHandler) voidDraft(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}
	doc, err := h.documentService.VoidDraft(c.Request.Context(), tc, c.Param("documentID"))
	if err != nil {
		respondWithError(c, err, "void document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}
