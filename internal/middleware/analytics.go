package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/bookkeeping_engine/internal/observability/analytics"
	"github.com/gin-gonic/gin"
)

// untrackedPaths are never reported as usage events.
var untrackedPaths = map[string]bool{
	"/healthz": true,
	"/metrics": true,
}

// AnalyticsMiddleware reports each successful authenticated API call as a usage event
// named after its route, e.g. "/api/v1/documents/:documentID/post" becomes
// "api_v1_documents_:documentID_post". Amounts and request bodies are never sent.
func AnalyticsMiddleware(client *analytics.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !client.Enabled() || untrackedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		tc, ok := GetTenantContext(c)
		if !ok {
			return
		}
		eventName := EventName(c.FullPath())
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, p := range c.Params {
				params[p.Key] = p.Value
			}
			props["params"] = params
		}
		client.Capture(tc.UserID, tc.TenantID, eventName, props)
	}
}

// EventName derives the event name from a gin route pattern.
func EventName(fullPath string) string {
	return strings.ReplaceAll(strings.TrimPrefix(fullPath, "/"), "/", "_")
}
