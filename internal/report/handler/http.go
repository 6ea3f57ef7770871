// Package handler serves the membership reports over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tenant-accounts/backend/internal/platform/httpx"
	"tenant-accounts/backend/internal/report/domain"
	"tenant-accounts/backend/internal/report/service"
)

// Handler serves report endpoints. Every report accepts from_date, to_date and status query
// parameters.
type Handler struct {
	reports *service.Service
	log     *zap.Logger
}

// NewHandler returns a report Handler.
func NewHandler(reports *service.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{reports: reports, log: log}
}

func (h *Handler) filter(c *gin.Context) (domain.Filter, bool) {
	f, err := domain.ParseFilter(c.Query("from_date"), c.Query("to_date"), c.Query("status"))
	if err != nil {
		httpx.Error(c, h.log, err)
		return domain.Filter{}, false
	}
	return f, true
}

// RoleWise handles GET /role-wise-user-count.
func (h *Handler) RoleWise(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	rows, err := h.reports.RoleWiseUserCount(c.Request.Context(), f)
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// OrganizationWise handles GET /organization-wise-member-count.
func (h *Handler) OrganizationWise(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	rows, err := h.reports.OrganizationWiseMemberCount(c.Request.Context(), f)
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// OrganizationRoleWise handles GET /organization-role-wise-user-count.
func (h *Handler) OrganizationRoleWise(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	rows, err := h.reports.OrganizationRoleWiseUserCount(c.Request.Context(), f)
	if err != nil {
		httpx.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
