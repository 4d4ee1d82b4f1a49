package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/weaver/internal/server/middleware"
)

const (
	roleAdmin = "Admin"
	roleUser  = "User"
)

// Me reports the caller's identity and role.
func Me(superAdminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := middleware.IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		role := roleUser
		if middleware.IsAdmin(id, superAdminEmail) {
			role = roleAdmin
		}
		c.JSON(http.StatusOK, gin.H{"uid": id.UID, "email": id.Email, "role": role})
	}
}

// Health reports liveness and the configured store driver.
func Health(driver string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": driver})
	}
}
