package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusFor maps engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrParse),
		errors.Is(err, apperrors.ErrPrecision),
		errors.Is(err, apperrors.ErrOutOfRange),
		errors.Is(err, apperrors.ErrNegativeNotAllowed),
		errors.Is(err, apperrors.ErrUnknownTaxCode),
		errors.Is(err, apperrors.ErrExemptionMisuse),
		errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrCrossTenantAccess):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrAlreadyReversed),
		errors.Is(err, apperrors.ErrInvalidState),
		errors.Is(err, apperrors.ErrSequenceExhausted),
		errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrImbalancedEntry):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondWithError writes the JSON error body for err. Cross-tenant failures get a
// generic message so the response never confirms that the resource exists elsewhere.
func respondWithError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFor(err)

	switch status {
	case http.StatusInternalServerError:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "Failed to " + action})
	case http.StatusForbidden:
		c.JSON(status, gin.H{"error": "Forbidden"})
	default:
		logger.Warn("Request rejected", slog.String("action", action), slog.Int("status", status), slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": err.Error()})
	}
}

// respondWithBindError reports a malformed request body or query.
func respondWithBindError(c *gin.Context, err error, what string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}
