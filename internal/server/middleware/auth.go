// Package middleware holds the gin middleware shared by every route group.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	identitydomain "tenant-accounts/backend/internal/identity/domain"
)

const bearerPrefix = "bearer "

// AccessValidator validates access tokens. *security.TokenProvider satisfies it.
type AccessValidator interface {
	ValidateAccess(token string) (userID, email string, err error)
}

// Auth rejects requests without a valid Bearer access token and stores the caller's identity in
// the request context for the services downstream.
func Auth(tokens AccessValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}
		userID, email, err := tokens.ValidateAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Given token not valid for any token type"})
			return
		}
		id := identitydomain.Identity{UserID: userID, Email: email}
		c.Set("user_id", userID)
		c.Request = c.Request.WithContext(identitydomain.NewContext(c.Request.Context(), id))
		c.Next()
	}
}

// extractBearer returns the token from an Authorization header value, or "" if missing or malformed.
func extractBearer(header string) string {
	v := strings.TrimSpace(header)
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
