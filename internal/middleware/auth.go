package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"salon-booking-server/internal/models"
	"salon-booking-server/internal/utils"
)

const (
	ctxStaffEmail = "staffEmail"
	ctxStaffRole  = "staffRole"
)

// AuthMiddleware creates a middleware for JWT authentication.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], secret)
		if err != nil {
			utils.Unauthorized(c, "Invalid token: "+err.Error())
			c.Abort()
			return
		}

		c.Set(ctxStaffEmail, claims.Email)
		c.Set(ctxStaffRole, claims.Role)

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetStaffRoleFromContext(c)
		if !ok {
			utils.InternalServerError(c, "Staff role not found in context. AuthMiddleware might be missing.")
			c.Abort()
			return
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				c.Next()
				return
			}
		}

		utils.Forbidden(c, "You do not have permission to access this resource.")
		c.Abort()
	}
}

// GetStaffEmailFromContext returns the authenticated staff email.
func GetStaffEmailFromContext(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxStaffEmail)
	if !exists {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

func GetStaffRoleFromContext(c *gin.Context) (models.Role, bool) {
	v, exists := c.Get(ctxStaffRole)
	if !exists {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}
