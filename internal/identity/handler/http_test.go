package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"tenant-accounts/backend/internal/db/memstore"
	identitydomain "tenant-accounts/backend/internal/identity/domain"
	"tenant-accounts/backend/internal/identity/service"
	membershipservice "tenant-accounts/backend/internal/membership/service"
	orgservice "tenant-accounts/backend/internal/organization/service"
	roleservice "tenant-accounts/backend/internal/role/service"
	"tenant-accounts/backend/internal/security"
)

func newRouter(t *testing.T) (*gin.Engine, *memstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memstore.New()
	tokens, err := security.NewTestTokenProvider()
	require.NoError(t, err)
	memberships, err := membershipservice.NewService(membershipservice.Deps{
		Memberships: store.Memberships(),
		Users:       store.Users(),
		Orgs:        store.Organizations(),
		Roles:       store.Roles(),
		Provisioner: roleservice.NewService(store.Roles(), store.Organizations(), nil),
	})
	require.NoError(t, err)
	auth := service.NewAuthService(service.Deps{
		Users:             store.Users(),
		Orgs:              orgservice.NewService(store.Organizations(), nil),
		Owners:            memberships,
		Hasher:            security.NewHasher(4),
		Tokens:            tokens,
		PasswordMinLength: 8,
	})
	h := NewHandler(auth, nil)

	r := gin.New()
	r.POST("/sign-up", h.SignUp)
	r.POST("/sign-in", h.SignIn)
	r.POST("/token/refresh", h.Refresh)
	r.POST("/reset-password", func(c *gin.Context) {
		ctx := identitydomain.NewContext(c.Request.Context(), identitydomain.Identity{UserID: "admin"})
		c.Request = c.Request.WithContext(ctx)
		h.ResetPassword(c)
	})
	return r, store
}

func doJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignUp(t *testing.T) {
	r, _ := newRouter(t)

	w := doJSON(r, "/sign-up", `{"email":"a@x.io","password":"password1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Message string `json:"message"`
		User    struct {
			Email    string `json:"email"`
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "User registered successfully", resp.Message)
	require.Equal(t, "a@x.io", resp.User.Email)
	require.NotContains(t, w.Body.String(), "password")

	w = doJSON(r, "/sign-up", `{"email":"b@x.io","password":"password1","organization":{"name":"Acme"}}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "User and organization registered successfully")

	w = doJSON(r, "/sign-up", `{"email":"A@x.io","password":"password1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"errors":{"email":"user with this email already exists."}}`, w.Body.String())
}

func TestSignUp_Validation(t *testing.T) {
	r, store := newRouter(t)

	w := doJSON(r, "/sign-up", `{"email":"a@x.io","password":"password1","organization":{}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "organization.name")

	w = doJSON(r, "/sign-up", `{"email":"not-an-email","password":"short"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), `"errors"`)

	n, err := store.Users().Count(t.Context())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSignInAndRefresh(t *testing.T) {
	r, _ := newRouter(t)
	require.Equal(t, http.StatusCreated, doJSON(r, "/sign-up", `{"email":"a@x.io","password":"password1"}`).Code)

	w := doJSON(r, "/sign-in", `{"email":"a@x.io","password":"wrong-pass"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"detail":"Invalid credentials"}`, w.Body.String())

	w = doJSON(r, "/sign-in", `{"email":"nobody@x.io","password":"password1"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, "/sign-in", `{"email":"a@x.io","password":"password1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)

	w = doJSON(r, "/token/refresh", `{"refresh_token":"`+pair.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "/token/refresh", `{"refresh_token":"`+pair.AccessToken+`"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResetPassword(t *testing.T) {
	r, _ := newRouter(t)
	require.Equal(t, http.StatusCreated, doJSON(r, "/sign-up", `{"email":"a@x.io","password":"password1"}`).Code)

	w := doJSON(r, "/reset-password", `{"email":"a@x.io","new_password":"password2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"message":"Password updated successfully"}`, w.Body.String())

	require.Equal(t, http.StatusOK, doJSON(r, "/sign-in", `{"email":"a@x.io","password":"password2"}`).Code)

	w = doJSON(r, "/reset-password", `{"email":"nobody@x.io","new_password":"password2"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}
