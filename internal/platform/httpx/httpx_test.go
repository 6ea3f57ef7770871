package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tenant-accounts/backend/internal/platform/apperr"
)

type orgBody struct {
	Name string `json:"name" binding:"required"`
}

type signUpBody struct {
	Email        string   `json:"email" binding:"required,email"`
	Password     string   `json:"password" binding:"required,min=8"`
	Organization *orgBody `json:"organization"`
}

func bindRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var body signUpBody
		if !BindJSON(c, &body) {
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/bind", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBindJSON_FieldErrors(t *testing.T) {
	w := post(bindRouter(), `{"email":"nope","password":"short","organization":{}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Enter a valid email address.", resp.Errors["email"])
	require.Equal(t, "Ensure this field has at least 8 characters.", resp.Errors["password"])
	require.Equal(t, "This field is required.", resp.Errors["organization.name"])
}

func TestBindJSON_Malformed(t *testing.T) {
	w := post(bindRouter(), `{"email":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "detail")
}

func TestBindJSON_OK(t *testing.T) {
	w := post(bindRouter(), `{"email":"a@x.io","password":"longenough"}`)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testCases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"validation", apperr.NewValidation("name", "This field is required."), http.StatusBadRequest, `{"errors":{"name":"This field is required."}}`},
		{"credentials", fmt.Errorf("sign in: %w", apperr.ErrInvalidCredentials), http.StatusBadRequest, `{"detail":"Invalid credentials"}`},
		{"not found message", apperr.New(apperr.ErrNotFound, "No member found for the given organization and user"), http.StatusNotFound, `{"message":"No member found for the given organization and user"}`},
		{"bare not found", apperr.ErrNotFound, http.StatusNotFound, `{"detail":"Not found."}`},
		{"conflict", apperr.New(apperr.ErrConflict, "A member with the same role and organization already exists."), http.StatusBadRequest, `{"message":"A member with the same role and organization already exists."}`},
		{"duplicate email", apperr.ErrDuplicateEmail, http.StatusBadRequest, `{"errors":{"email":"user with this email already exists."}}`},
		{"unauthorized", apperr.ErrUnauthorized, http.StatusUnauthorized, `{"detail":"Authentication credentials were not provided."}`},
		{"internal", errors.New("db down"), http.StatusInternalServerError, `{"detail":"Internal server error"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			Error(c, zap.NewNop(), tc.err)
			require.Equal(t, tc.code, w.Code)
			require.JSONEq(t, tc.body, w.Body.String())
		})
	}
}
