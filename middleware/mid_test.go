package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-service/internal/auth"
	"storefront-service/pkg/ctxmanage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*gin.Engine, *auth.Keys) {
	gin.SetMode(gin.TestMode)
	keys, err := auth.NewKeys("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	m, err := NewMid(keys)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Logger())
	r.GET("/trace", func(c *gin.Context) {
		c.String(http.StatusOK, ctxmanage.GetTraceIdOfRequest(c))
	})
	g := r.Group("/admin", m.Authentication())
	g.GET("/only-admin", m.Authorize(func(c *gin.Context) { c.Status(http.StatusNoContent) }, auth.RoleAdmin))
	g.GET("/only-staff", m.Authorize(func(c *gin.Context) { c.Status(http.StatusNoContent) }, "STAFF"))
	return r, keys
}

func TestLoggerAssignsTraceID(t *testing.T) {
	r, _ := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trace", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Body.String())
	require.Equal(t, w.Body.String(), w.Header().Get("X-Trace-Id"))

	req := httptest.NewRequest(http.MethodGet, "/trace", nil)
	req.Header.Set("X-Trace-Id", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "abc-123", w.Body.String())
}

func TestAuthenticationAndAuthorize(t *testing.T) {
	r, keys := newRouter(t)
	token, _, err := keys.GenerateToken("admin@example.com", auth.RoleAdmin)
	require.NoError(t, err)

	for _, tc := range []struct {
		name, path, header string
		want               int
	}{
		{"no header", "/admin/only-admin", "", http.StatusUnauthorized},
		{"not bearer", "/admin/only-admin", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "/admin/only-admin", "Bearer nope", http.StatusUnauthorized},
		{"admin", "/admin/only-admin", "Bearer " + token, http.StatusNoContent},
		{"wrong role", "/admin/only-staff", "Bearer " + token, http.StatusForbidden},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tc.want, w.Code)
		})
	}
}

func TestNewMidRequiresKeys(t *testing.T) {
	_, err := NewMid(nil)
	require.Error(t, err)
}
