package middleware

import (
	"net/http"
	"strings"

	"nursing-home-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"

	ContextUserID = "userID"
	ContextRole   = "role"
)

// AuthMiddleware validates JWT access token from Authorization header
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Check Bearer prefix
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.AbortWithError(c, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
			return
		}

		claims, err := utils.ValidateAccessToken(parts[1])
		if err != nil {
			utils.AbortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Inject claims into context
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// RequireRole lets the request through when the authenticated user holds one
// of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			utils.AbortWithError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		utils.AbortWithError(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// CurrentUserID returns the authenticated user's id, if any
func CurrentUserID(c *gin.Context) *uint {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		return nil
	}
	return &id
}
