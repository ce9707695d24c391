package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"traininglog/api/internal/security"
)

const (
	currentEmailKey = "current_email"
	accessClaimsKey = "access_claims"
)

type TokenVerifier interface {
	Verify(token string) (*security.AccessClaims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Auth rejects the request with 401 unless it carries a valid bearer token.
// On success the token's email becomes the acting identity.
func Auth(tokens TokenVerifier, revocations RevocationChecker, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Missing Authorization Header"})
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Invalid or expired token"})
			return
		}

		if revocations != nil {
			revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Error().Err(err).Str("email", claims.Email).Msg("revocation check failed")
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"msg": "Token check unavailable"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Token has been revoked"})
				return
			}
		}

		c.Set(accessClaimsKey, *claims)
		c.Set(currentEmailKey, claims.Email)

		c.Next()
	}
}

func CurrentEmail(c *gin.Context) (string, bool) {
	email := c.GetString(currentEmailKey)
	return email, email != ""
}

func CurrentClaims(c *gin.Context) (security.AccessClaims, bool) {
	v, ok := c.Get(accessClaimsKey)
	if !ok {
		return security.AccessClaims{}, false
	}
	claims, ok := v.(security.AccessClaims)
	return claims, ok
}
