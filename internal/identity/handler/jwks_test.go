package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/require"

	"tenant-accounts/backend/internal/security"
)

func TestJWKS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens, err := security.NewTestTokenProvider()
	require.NoError(t, err)

	r := gin.New()
	r.GET("/.well-known/jwks.json", JWKS(tokens))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var set jose.JSONWebKeySet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &set))
	require.Len(t, set.Keys, 1)
	_, kid := tokens.PublicKey()
	require.Equal(t, kid, set.Keys[0].KeyID)
}
