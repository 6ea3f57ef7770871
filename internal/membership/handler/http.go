// Package handler exposes the membership graph over HTTP: invitations, removal, role changes and listing.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tenant-accounts/backend/internal/membership/domain"
	"tenant-accounts/backend/internal/membership/service"
	"tenant-accounts/backend/internal/platform/httpx"
	"tenant-accounts/backend/internal/platform/jsonbag"
)

// MembershipResponse is the public view of a membership.
type MembershipResponse struct {
	ID        string      `json:"id"`
	OrgID     string      `json:"org_id"`
	UserID    string      `json:"user_id"`
	RoleID    string      `json:"role_id"`
	Status    int         `json:"status"`
	Settings  jsonbag.Bag `json:"settings"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func membershipToResponse(m *domain.Membership) MembershipResponse {
	settings := m.Settings
	if settings == nil {
		settings = jsonbag.Bag{}
	}
	return MembershipResponse{
		ID:        m.ID,
		OrgID:     m.OrgID,
		UserID:    m.UserID,
		RoleID:    m.RoleID,
		Status:    m.Status,
		Settings:  settings,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Handler serves membership endpoints.
type Handler struct {
	members *service.Service
	log     *zap.Logger
}

// NewHandler returns a membership Handler.
func NewHandler(members *service.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{members: members, log: log}
}

type inviteRequest struct {
	OrgID     string `json:"org_id" binding:"required"`
	UserEmail string `json:"user_email" binding:"required"`
	RoleID    string `json:"role_id" binding:"required"`
}

type updateRoleRequest struct {
	OrgID  string `json:"org_id" binding:"required"`
	UserID string `json:"user_id" binding:"required"`
	RoleID string `json:"role_id" binding:"required"`
}

// Invite handles POST /invite-member.
func (h *Handler) Invite(c *gin.Context) {
	var req inviteRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	m, err := h.members.Invite(c.Request.Context(), service.InviteInput{
		OrgID:     req.OrgID,
		UserEmail: req.UserEmail,
		RoleID:    req.RoleID,
	})
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member invited successfully", "membership": membershipToResponse(m)})
}

// Delete handles DELETE /delete-member/:org_id/:user_id.
func (h *Handler) Delete(c *gin.Context) {
	n, err := h.members.RemoveAll(c.Request.Context(), c.Param("org_id"), c.Param("user_id"))
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member(s) deleted successfully", "count": n})
}

// UpdateRole handles PATCH /update-member-role.
func (h *Handler) UpdateRole(c *gin.Context) {
	var req updateRoleRequest
	if !httpx.BindJSON(c, &req) {
		return
	}
	n, err := h.members.UpdateRole(c.Request.Context(), req.OrgID, req.UserID, req.RoleID)
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member roles updated successfully", "count": n})
}

// List handles GET /organizations/:org_id/members.
func (h *Handler) List(c *gin.Context) {
	members, err := h.members.ListMembers(c.Request.Context(), c.Param("org_id"))
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	out := make([]MembershipResponse, 0, len(members))
	for _, m := range members {
		out = append(out, membershipToResponse(m))
	}
	c.JSON(http.StatusOK, out)
}

// VerifyInvite handles GET /invites/verify?token=.
func (h *Handler) VerifyInvite(c *gin.Context) {
	orgID, userID, err := h.members.VerifyInvite(c.Request.Context(), c.Query("token"))
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"org_id": orgID, "user_id": userID})
}
