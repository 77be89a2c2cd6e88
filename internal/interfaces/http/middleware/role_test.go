package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRoleRouter(role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			c.Set(JWTRoleKey, role)
		}
	})
	r.POST("/write", RequireWriter(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRequireWriter(t *testing.T) {
	tests := []struct {
		role   string
		status int
	}{
		{"admin", http.StatusOK},
		{"accountant", http.StatusOK},
		{"viewer", http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run("role="+tt.role, func(t *testing.T) {
			w := httptest.NewRecorder()
			setupRoleRouter(tt.role).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		role   string
		status int
	}{
		{"admin", http.StatusOK},
		{"accountant", http.StatusForbidden},
		{"viewer", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run("role="+tt.role, func(t *testing.T) {
			w := httptest.NewRecorder()
			setupRoleRouter(tt.role).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
