package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/weaver/internal/domain/models"
	"github.com/mamadbah2/weaver/pkg/clients/identity"
)

const identityKey = "identity"

// Authenticate verifies the bearer credential and stores the identity on the context.
func Authenticate(verifier identity.Verifier, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			return
		}

		id, err := verifier.Verify(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			logger.Debug("bearer verification failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token, please login again"})
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireAdmin rejects identities without admin rights.
// It must run after Authenticate.
func RequireAdmin(superAdminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		if !IsAdmin(id, superAdminEmail) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied for " + id.Email + ", admin rights required"})
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := value.(models.Identity)
	return id, ok
}

// IsAdmin grants admin rights for the admin claim or the configured super-admin email.
func IsAdmin(id models.Identity, superAdminEmail string) bool {
	if id.Admin {
		return true
	}
	return superAdminEmail != "" && strings.EqualFold(id.Email, superAdminEmail)
}
