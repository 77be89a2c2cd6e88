package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kyber/backend/internal/domain/identity"
	"github.com/kyber/backend/internal/interfaces/http/dto"
)

// RequireWriter allows only roles that may create and modify documents.
// Viewers pass GET handlers untouched and get rejected here.
func RequireWriter() gin.HandlerFunc {
	return requireRole(func(role identity.Role) bool {
		return role.CanWrite()
	}, "This action requires accountant or admin access")
}

// RequireAdmin allows only administrators
func RequireAdmin() gin.HandlerFunc {
	return requireRole(func(role identity.Role) bool {
		return role.CanAdminister()
	}, "This action requires admin access")
}

func requireRole(allowed func(identity.Role) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := identity.Role(GetJWTRole(c))
		if !role.IsValid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}
		if !allowed(role) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, message))
			return
		}
		c.Next()
	}
}
