package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"muawin-server/internal/config"
	"muawin-server/internal/models"
	"muawin-server/internal/utils"
)

const (
	ctxDoctorID   = "doctorID"
	ctxDoctorRole = "doctorRole"
)

// AuthMiddleware creates a middleware for JWT authentication.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
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

		claims, err := utils.ValidateToken(parts[1], cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Invalid token: "+err.Error())
			c.Abort()
			return
		}

		// Set doctor information in context for downstream handlers
		c.Set(ctxDoctorID, claims.DoctorID)
		c.Set(ctxDoctorRole, claims.Role)

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetDoctorRoleFromContext(c)
		if !ok {
			utils.InternalServerError(c, "Doctor role not found in context. AuthMiddleware might be missing.")
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

// GetDoctorIDFromContext returns the authenticated doctor's ID.
func GetDoctorIDFromContext(c *gin.Context) (uint, bool) {
	doctorID, exists := c.Get(ctxDoctorID)
	if !exists {
		return 0, false
	}
	id, ok := doctorID.(uint)
	return id, ok
}

// GetDoctorRoleFromContext returns the authenticated doctor's role.
func GetDoctorRoleFromContext(c *gin.Context) (models.Role, bool) {
	doctorRole, exists := c.Get(ctxDoctorRole)
	if !exists {
		return "", false
	}
	role, ok := doctorRole.(models.Role)
	return role, ok
}
