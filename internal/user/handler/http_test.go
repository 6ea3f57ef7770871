package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	identitydomain "tenant-accounts/backend/internal/identity/domain"
	"tenant-accounts/backend/internal/user/domain"
)

// mockUserRepo implements UserReader for tests.
type mockUserRepo struct {
	usersByID  map[string]*domain.User
	getByIDErr error
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getByIDErr != nil {
		return nil, m.getByIDErr
	}
	return m.usersByID[id], nil
}

func serveMe(h *Handler, userID string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", func(c *gin.Context) {
		if userID != "" {
			ctx := identitydomain.NewContext(c.Request.Context(), identitydomain.Identity{UserID: userID})
			c.Request = c.Request.WithContext(ctx)
		}
		h.Me(c)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	return w
}

func TestMe_Success(t *testing.T) {
	now := time.Now().UTC()
	repo := &mockUserRepo{usersByID: map[string]*domain.User{
		"user-1": {ID: "user-1", Email: "test@example.com", Username: "test1", PasswordHash: "secret-hash", CreatedAt: now, UpdatedAt: now},
	}}
	w := serveMe(NewHandler(repo, nil), "user-1")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "secret-hash")

	var got UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "user-1", got.ID)
	require.Equal(t, "test1", got.Username)
	require.NotNil(t, got.Profile)
}

func TestMe_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		repo   *mockUserRepo
		userID string
		code   int
	}{
		{"anonymous", &mockUserRepo{}, "", http.StatusUnauthorized},
		{"deleted user", &mockUserRepo{}, "gone", http.StatusNotFound},
		{"repo failure", &mockUserRepo{getByIDErr: errors.New("db down")}, "user-1", http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := serveMe(NewHandler(tc.repo, nil), tc.userID)
			require.Equal(t, tc.code, w.Code)
		})
	}
}
