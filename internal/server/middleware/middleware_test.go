package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	identitydomain "tenant-accounts/backend/internal/identity/domain"
)

type fakeValidator struct {
	userID, email string
	err           error
}

func (f fakeValidator) ValidateAccess(string) (string, string, error) {
	return f.userID, f.email, f.err
}

func TestExtractBearer(t *testing.T) {
	testCases := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer", ""},
		{"Basic abc", ""},
		{"Bearer abc.def", "abc.def"},
		{"bearer  tok ", "tok"},
		{"BEARER tok", "tok"},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.want, extractBearer(tc.header), "header %q", tc.header)
	}
}

func authRouter(v AccessValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(v), func(c *gin.Context) {
		id, ok := identitydomain.FromContext(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "email": id.Email})
	})
	return r
}

func TestAuth(t *testing.T) {
	ok := fakeValidator{userID: "u1", email: "a@x.io"}
	testCases := []struct {
		name   string
		v      AccessValidator
		header string
		code   int
	}{
		{"missing header", ok, "", http.StatusUnauthorized},
		{"invalid token", fakeValidator{err: errors.New("expired")}, "Bearer t", http.StatusUnauthorized},
		{"valid token", ok, "Bearer t", http.StatusOK},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			authRouter(tc.v).ServeHTTP(w, req)
			require.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusOK {
				require.JSONEq(t, `{"user_id":"u1","email":"a@x.io"}`, w.Body.String())
			}
		})
	}
}

func TestRequestLogger_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, req)
	require.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRateLimiter(t *testing.T) {
	require.Nil(t, NewRateLimiter(0))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	var nilLimiter *RateLimiter
	r.GET("/open", nilLimiter.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/limited", NewRateLimiter(10).Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// Burst is 1 for a budget of 10 per minute.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
	require.Equal(t, http.StatusOK, w.Code)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}
