package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/engage-go/internal/application/services"
)

const isAdminKey = "isAdmin"

// AdminMiddleware resolves the admin bypass for a request. The client presents
// its bypass token as a bearer token; an absent or invalid token degrades to a
// normal visitor, never an error.
func AdminMiddleware(adminService *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(isAdminKey, adminService.ResolveBypass(bearerToken(c)))
		c.Next()
	}
}

// RequireAdmin guards operator-only endpoints.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetIsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
			return
		}
		c.Next()
	}
}

// GetIsAdmin reports whether the request resolved to an admin session.
func GetIsAdmin(c *gin.Context) bool {
	isAdmin, exists := c.Get(isAdminKey)
	if !exists {
		return false
	}
	admin, ok := isAdmin.(bool)
	return ok && admin
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}
