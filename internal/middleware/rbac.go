package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

// AccessStore answers the row lookups behind every authorization decision.
// Roles and approval live in tables, not in the token, so a revocation takes
// effect on the next request.
type AccessStore interface {
	IsApproved(ctx context.Context, userID uuid.UUID) (bool, error)
	HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error)
	HasPermission(ctx context.Context, userID uuid.UUID, permission string) (bool, error)
}

// RequireStaff gates the dashboard: an approved profile or any admin role
// gets in. Must run after AuthMiddleware.
func RequireStaff(store AccessStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_identity"})
			return
		}

		if ok, err := hasAnyRole(c, store, userID, models.RoleAdmin, models.RoleSuperAdmin); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authorization_check_failed"})
			return
		} else if ok {
			c.Next()
			return
		}

		approved, err := store.IsApproved(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authorization_check_failed"})
			return
		}
		if !approved {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not_approved"})
			return
		}

		c.Next()
	}
}

// RequireRole admits only callers holding at least one of the given roles.
func RequireRole(store AccessStore, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_identity"})
			return
		}

		ok, err := hasAnyRole(c, store, userID, roles...)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authorization_check_failed"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient_role"})
			return
		}

		c.Next()
	}
}

// RequirePermission admits admins outright and everyone else only with the
// named permission row.
func RequirePermission(store AccessStore, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_identity"})
			return
		}

		if ok, err := hasAnyRole(c, store, userID, models.RoleAdmin, models.RoleSuperAdmin); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authorization_check_failed"})
			return
		} else if ok {
			c.Next()
			return
		}

		granted, err := store.HasPermission(c.Request.Context(), userID, permission)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authorization_check_failed"})
			return
		}
		if !granted {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient_permission"})
			return
		}

		c.Next()
	}
}

func hasAnyRole(c *gin.Context, store AccessStore, userID uuid.UUID, roles ...string) (bool, error) {
	for _, role := range roles {
		ok, err := store.HasRole(c.Request.Context(), userID, role)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
