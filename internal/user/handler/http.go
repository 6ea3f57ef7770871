// Package handler exposes user records over HTTP.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identitydomain "tenant-accounts/backend/internal/identity/domain"
	"tenant-accounts/backend/internal/platform/apperr"
	"tenant-accounts/backend/internal/platform/httpx"
	"tenant-accounts/backend/internal/platform/jsonbag"
	"tenant-accounts/backend/internal/user/domain"
)

// UserResponse is the public view of a user. The password hash never leaves the service.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	Profile   jsonbag.Bag `json:"profile"`
	Status    int         `json:"status"`
	Settings  jsonbag.Bag `json:"settings"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewUserResponse converts a domain user into its response form.
func NewUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	profile := u.Profile
	if profile == nil {
		profile = jsonbag.Bag{}
	}
	settings := u.Settings
	if settings == nil {
		settings = jsonbag.Bag{}
	}
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Profile:   profile,
		Status:    u.Status,
		Settings:  settings,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserReader loads users by id.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Handler serves user endpoints.
type Handler struct {
	users UserReader
	log   *zap.Logger
}

// NewHandler returns a user Handler.
func NewHandler(users UserReader, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{users: users, log: log}
}

// Me returns the authenticated caller's account.
func (h *Handler) Me(c *gin.Context) {
	id, ok := identitydomain.FromContext(c.Request.Context())
	if !ok || !id.Authenticated() {
		httpx.Error(c, h.log, apperr.ErrUnauthorized)
		return
	}
	u, err := h.users.GetByID(c.Request.Context(), id.UserID)
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	if u == nil {
		httpx.Error(c, h.log, apperr.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(u))
}
