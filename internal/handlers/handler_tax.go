package handlers

import (
	"net/http"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	portssvc "github.com/SscSPs/bookkeeping_engine/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_engine/internal/dto"
	"github.com/gin-gonic/gin"
)

type taxHandler struct {
	taxService portssvc.TaxSvcFacade
}

// RegisterTaxRoutes registers the preview calculation, tax code and return routes.
func RegisterTaxRoutes(rg *gin.RouterGroup, taxService portssvc.TaxSvcFacade) {
	h := &taxHandler{taxService: taxService}

	tax := rg.Group("/tax")
	{
		tax.POST("/calculate", h.calculate)
		tax.GET("/codes", h.listCodes)
		tax.GET("/returns", h.taxReturn)
	}
}

// calculate godoc
// @Summary Preview a tax calculation
// @Description Runs the same calculation used at posting time. Every amount is exact 4-place text with a 2-place display value.
// @Tags tax
// @Accept  json
// @Produce  json
// @Param   request body dto.CalculateTaxRequest true "Lines and tax mode"
// @Success 200 {object} dto.TaxBreakdownResponse
// @Failure 400 {object} map[string]string "Malformed amount, unknown tax code or exemption misuse"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /tax/calculate [post]
func (h *taxHandler) calculate(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}
	var req dto.CalculateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err, "CalculateTax body")
		return
	}
	lines, err := dto.ToTaxLines(req.Lines)
	if err != nil {
		respondWithError(c, err, "calculate tax")
		return
	}

	breakdown, err := h.taxService.Calculate(c.Request.Context(), tc, lines, domain.TaxMode(req.Mode))
	if err != nil {
		respondWithError(c, err, "calculate tax")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaxBreakdownResponse(breakdown))
}

// listCodes godoc
// @Summary List effective tax codes
// @Description System codes overlaid with the tenant's own
// @Tags tax
// @Produce  json
// @Success 200 {array} dto.TaxCodeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /tax/codes [get]
func (h *taxHandler) listCodes(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}
	rules, err := h.taxService.RuleSetFor(c.Request.Context(), tc)
	if err != nil {
		respondWithError(c, err, "list tax codes")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaxCodeResponses(rules.Codes()))
}

// taxReturn godoc
// @Summary GST return for a period
// @Description Totals the regulatory boxes of documents currently POSTED with an issue date in the period
// @Tags tax
// @Produce  json
// @Param   from query string true "Period start (YYYY-MM-DD)"
// @Param   to query string true "Period end, inclusive (YYYY-MM-DD)"
// @Success 200 {object} dto.TaxReturnResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /tax/returns [get]
func (h *taxHandler) taxReturn(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}
	var params dto.TaxReturnParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondWithBindError(c, err, "TaxReturn query")
		return
	}
	from, to, err := params.Period()
	if err != nil {
		respondWithError(c, err, "build tax return")
		return
	}

	ret, err := h.taxService.TaxReturn(c.Request.Context(), tc, from, to)
	if err != nil {
		respondWithError(c, err, "build tax return")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaxReturnResponse(ret))
}
