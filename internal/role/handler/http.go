// Package handler exposes per-organization role management over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tenant-accounts/backend/internal/platform/httpx"
	"tenant-accounts/backend/internal/role/domain"
	"tenant-accounts/backend/internal/role/service"
)

// RoleResponse is the public view of a role.
type RoleResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	OrgID       string  `json:"org_id"`
}

func roleToResponse(r *domain.Role) RoleResponse {
	return RoleResponse{ID: r.ID, Name: r.Name, Description: r.Description, OrgID: r.OrgID}
}

// Handler serves role endpoints under /organizations/:org_id/roles.
type Handler struct {
	roles *service.Service
	log   *zap.Logger
}

// NewHandler returns a role Handler.
func NewHandler(roles *service.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{roles: roles, log: log}
}

type createRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type updateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// List handles GET /organizations/:org_id/roles.
func (h *Handler) List(c *gin.Context) {
	roles, err := h.roles.List(c.Request.Context(), c.Param("org_id"))
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	out := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleToResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

// Create handles POST /organizations/:org_id/roles.
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	role, err := h.roles.Create(c.Request.Context(), c.Param("org_id"), service.CreateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, roleToResponse(role))
}

// Update handles PATCH /organizations/:org_id/roles/:role_id.
func (h *Handler) Update(c *gin.Context) {
	var req updateRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	role, err := h.roles.Update(c.Request.Context(), c.Param("org_id"), c.Param("role_id"), service.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, roleToResponse(role))
}

// Delete handles DELETE /organizations/:org_id/roles/:role_id.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.roles.Delete(c.Request.Context(), c.Param("org_id"), c.Param("role_id")); err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
