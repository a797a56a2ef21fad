package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medibook/utils"
)

const revokedKeyPrefix = "revoked:"

// authenticate validates the bearer token, checks it against the revocation
// denylist in Redis, and ensures the role claim matches. Token issuance is
// the identity service's job; the scheduling core only verifies.
func authenticate(c *gin.Context, wantRole string) (string, bool) {
	logger := zap.L()

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return "", false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	subject, role, err := utils.ExtractIdentity(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return "", false
	}
	if role != wantRole {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
		return "", false
	}

	// Revoked tokens are denylisted by hash until they expire.
	authCache := utils.GetAuthCacheClient()
	key := revokedKeyPrefix + utils.HashToken(tokenString)
	if n, err := authCache.Exists(context.Background(), key).Result(); err != nil {
		logger.Error("Error checking token revocation", zap.Error(err))
	} else if n > 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token revoked"})
		return "", false
	}

	return subject, true
}

// JWTAuthProviderMiddleware validates provider tokens and stores providerID
// in the request context.
func JWTAuthProviderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := authenticate(c, utils.RoleProvider)
		if !ok {
			return
		}
		c.Set("providerID", id)
		c.Next()
	}
}

// JWTAuthPatientMiddleware validates patient tokens and stores patientID in
// the request context.
func JWTAuthPatientMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := authenticate(c, utils.RolePatient)
		if !ok {
			return
		}
		c.Set("patientID", id)
		c.Next()
	}
}
