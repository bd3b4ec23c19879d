package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shoptobd/internal/middleware"
	"shoptobd/internal/model"
	"shoptobd/internal/security"
	"shoptobd/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequireRole(t *testing.T) {
	tokens := security.NewJWTIssuer("secret", "shoptobd", time.Hour)
	other := security.NewJWTIssuer("other-secret", "shoptobd", time.Hour)

	bearer := func(issuer security.TokenIssuer, role string) string {
		tok, _, err := issuer.Issue("9b2f1c3e-0000-4000-8000-000000000001", role)
		require.NoError(t, err)
		return "Bearer " + tok
	}

	tests := []struct {
		name       string
		header     string
		allowed    []string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Token abc", wantStatus: http.StatusUnauthorized},
		{name: "foreign signature", header: bearer(other, model.RoleAdmin), wantStatus: http.StatusUnauthorized},
		{name: "role not allowed", header: bearer(tokens, model.RoleCustomer), allowed: []string{model.RoleAdmin}, wantStatus: http.StatusForbidden},
		{name: "role allowed", header: bearer(tokens, model.RoleAdmin), allowed: []string{model.RoleAdmin, model.RoleSuperAdmin}, wantStatus: http.StatusOK},
		{name: "any authenticated caller", header: bearer(tokens, model.RoleCustomer), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", middleware.RequireRole(tokens, tt.allowed...), func(c *gin.Context) {
				assert.Equal(t, "9b2f1c3e-0000-4000-8000-000000000001", c.GetString(middleware.ContextUserID))
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.ContextRequestID))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Body.String())
}

func TestRecoveryHidesPanicDetails(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) {
		panic("database password leaked")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), apperror.GenericMessage)
	assert.NotContains(t, w.Body.String(), "password")
}
