package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-jose/go-jose/v4"
)

// KeySetSource publishes verification keys. *security.TokenProvider satisfies it.
type KeySetSource interface {
	JWKS() jose.JSONWebKeySet
}

// JWKS serves GET /.well-known/jwks.json so other services can verify access tokens.
func JWKS(keys KeySetSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=300")
		c.JSON(http.StatusOK, keys.JWKS())
	}
}
