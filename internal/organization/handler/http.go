// Package handler exposes organization CRUD over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tenant-accounts/backend/internal/organization/domain"
	"tenant-accounts/backend/internal/organization/service"
	"tenant-accounts/backend/internal/platform/httpx"
	"tenant-accounts/backend/internal/platform/jsonbag"
)

// OrgResponse is the public view of an organization.
type OrgResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Status    int         `json:"status"`
	Personal  bool        `json:"personal"`
	Settings  jsonbag.Bag `json:"settings"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewOrgResponse converts a domain organization into its response form.
func NewOrgResponse(o *domain.Org) OrgResponse {
	resp := OrgResponse{
		ID:        o.ID,
		Name:      o.Name,
		Status:    o.Status,
		Settings:  o.Settings,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.Personal != nil {
		resp.Personal = *o.Personal
	}
	if resp.Settings == nil {
		resp.Settings = jsonbag.Bag{}
	}
	return resp
}

// Handler serves organization endpoints.
type Handler struct {
	orgs *service.Service
	log  *zap.Logger
}

// NewHandler returns an organization Handler.
func NewHandler(orgs *service.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{orgs: orgs, log: log}
}

type createRequest struct {
	Name     string      `json:"name" binding:"required"`
	Status   int         `json:"status"`
	Personal *bool       `json:"personal"`
	Settings jsonbag.Bag `json:"settings"`
}

type updateRequest struct {
	Status   *int        `json:"status"`
	Settings jsonbag.Bag `json:"settings"`
}

// Create handles POST /organizations.
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	org, err := h.orgs.Create(c.Request.Context(), service.CreateInput{
		Name:     req.Name,
		Status:   req.Status,
		Personal: req.Personal,
		Settings: req.Settings,
	})
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, NewOrgResponse(org))
}

// Get handles GET /organizations/:org_id.
func (h *Handler) Get(c *gin.Context) {
	org, err := h.orgs.Get(c.Request.Context(), c.Param("org_id"))
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, NewOrgResponse(org))
}

// Update handles PATCH /organizations/:org_id. The name cannot be changed.
func (h *Handler) Update(c *gin.Context) {
	var req updateRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	org, err := h.orgs.Update(c.Request.Context(), c.Param("org_id"), service.UpdateInput{
		Status:   req.Status,
		Settings: req.Settings,
	})
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, NewOrgResponse(org))
}

// Delete handles DELETE /organizations/:org_id. Roles and memberships go with it.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.orgs.Delete(c.Request.Context(), c.Param("org_id")); err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
