package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	"github.com/SscSPs/bookkeeping_engine/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims middleware.TenantClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func claims(tenantID, userID string, expires time.Duration) middleware.TenantClaims {
	return middleware.TenantClaims{
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    "identity",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expires)),
		},
	}
}

func newRouter(issuer string) (*gin.Engine, *domain.TenantContext) {
	gin.SetMode(gin.TestMode)
	seen := &domain.TenantContext{}
	r := gin.New()
	r.GET("/whoami", middleware.AuthMiddleware(secret, issuer), func(c *gin.Context) {
		tc, ok := middleware.GetTenantContext(c)
		if ok {
			*seen = tc
		}
		c.Status(http.StatusNoContent)
	})
	return r, seen
}

func call(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidTokenSetsTenantContext(t *testing.T) {
	r, seen := newRouter("identity")
	token := sign(t, jwt.SigningMethodHS256, []byte(secret), claims("tenant-a", "user-1", time.Hour))

	w := call(r, "Bearer "+token)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, domain.TenantContext{TenantID: "tenant-a", UserID: "user-1"}, *seen)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	r, seen := newRouter("identity")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), claims("tenant-a", "user-1", -time.Minute))},
		{"wrong secret", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), claims("tenant-a", "user-1", time.Hour))},
		{"unsigned", "Bearer " + sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claims("tenant-a", "user-1", time.Hour))},
		{"missing tenant", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), claims("", "user-1", time.Hour))},
		{"missing subject", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), claims("tenant-a", "", time.Hour))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Empty(t, seen.TenantID)
		})
	}
}

func TestAuthMiddleware_EnforcesIssuer(t *testing.T) {
	r, _ := newRouter("someone-else")
	token := sign(t, jwt.SigningMethodHS256, []byte(secret), claims("tenant-a", "user-1", time.Hour))

	assert.Equal(t, http.StatusUnauthorized, call(r, "Bearer "+token).Code)
}
