// Package handler exposes registration, sign-in, token refresh and password reset over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identitydomain "tenant-accounts/backend/internal/identity/domain"
	"tenant-accounts/backend/internal/identity/service"
	orghandler "tenant-accounts/backend/internal/organization/handler"
	"tenant-accounts/backend/internal/platform/httpx"
	"tenant-accounts/backend/internal/platform/jsonbag"
	userhandler "tenant-accounts/backend/internal/user/handler"
)

// Handler serves the authentication endpoints.
type Handler struct {
	auth *service.AuthService
	log  *zap.Logger
}

// NewHandler returns an auth Handler.
func NewHandler(auth *service.AuthService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{auth: auth, log: log}
}

type organizationRequest struct {
	Name     string      `json:"name" binding:"required"`
	Personal *bool       `json:"personal"`
	Settings jsonbag.Bag `json:"settings"`
}

type signUpRequest struct {
	Email        string               `json:"email" binding:"required"`
	Password     string               `json:"password" binding:"required"`
	Profile      jsonbag.Bag          `json:"profile"`
	Organization *organizationRequest `json:"organization"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string                    `json:"access_token"`
	RefreshToken string                    `json:"refresh_token"`
	ExpiresAt    time.Time                 `json:"expires_at"`
	User         *userhandler.UserResponse `json:"user"`
}

// SignUp handles POST /sign-up.
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	in := service.SignUpInput{
		RegisterInput: service.RegisterInput{Email: req.Email, Password: req.Password, Profile: req.Profile},
	}
	if req.Organization != nil {
		in.Organization = &service.OrgInput{
			Name:     req.Organization.Name,
			Personal: req.Organization.Personal,
			Settings: req.Organization.Settings,
		}
	}
	res, err := h.auth.SignUp(c.Request.Context(), in)
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	if res.Organization == nil {
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": userhandler.NewUserResponse(res.User)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "User and organization registered successfully",
		"user":         userhandler.NewUserResponse(res.User),
		"organization": orghandler.NewOrgResponse(res.Organization),
	})
}

// SignIn handles POST /sign-in.
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	res, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newTokenResponse(res))
}

// Refresh handles POST /token/refresh.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	res, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newTokenResponse(res))
}

// ResetPassword handles POST /reset-password. Any authenticated caller may reset any account's
// password.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	caller, _ := identitydomain.FromContext(c.Request.Context())
	if err := h.auth.ResetPassword(c.Request.Context(), caller, req.Email, req.NewPassword); err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func newTokenResponse(res *service.SignInResult) tokenResponse {
	return tokenResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    res.ExpiresAt,
		User:         userhandler.NewUserResponse(res.User),
	}
}
