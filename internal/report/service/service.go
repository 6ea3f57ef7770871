// Package service exposes the aggregate membership reports.
package service

import (
	"context"

	"go.uber.org/zap"

	"tenant-accounts/backend/internal/report/domain"
)

// Reports is the aggregation backend.
type Reports interface {
	RoleWiseUserCount(ctx context.Context, f domain.Filter) ([]domain.RoleCount, error)
	OrganizationWiseMemberCount(ctx context.Context, f domain.Filter) ([]domain.OrgCount, error)
	OrganizationRoleWiseUserCount(ctx context.Context, f domain.Filter) ([]domain.OrgRoleCount, error)
}

// Service computes reports. Results are never nil so they encode as empty JSON arrays.
type Service struct {
	reports Reports
	log     *zap.Logger
}

// NewService returns a report Service.
func NewService(reports Reports, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{reports: reports, log: log}
}

// RoleWiseUserCount counts memberships per role name across all organizations.
func (s *Service) RoleWiseUserCount(ctx context.Context, f domain.Filter) ([]domain.RoleCount, error) {
	rows, err := s.reports.RoleWiseUserCount(ctx, f)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.RoleCount{}
	}
	s.log.Debug("role-wise report", zap.Int("rows", len(rows)))
	return rows, nil
}

// OrganizationWiseMemberCount counts memberships per organization name.
func (s *Service) OrganizationWiseMemberCount(ctx context.Context, f domain.Filter) ([]domain.OrgCount, error) {
	rows, err := s.reports.OrganizationWiseMemberCount(ctx, f)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.OrgCount{}
	}
	s.log.Debug("organization-wise report", zap.Int("rows", len(rows)))
	return rows, nil
}

// OrganizationRoleWiseUserCount counts memberships per (organization name, role name).
func (s *Service) OrganizationRoleWiseUserCount(ctx context.Context, f domain.Filter) ([]domain.OrgRoleCount, error) {
	rows, err := s.reports.OrganizationRoleWiseUserCount(ctx, f)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.OrgRoleCount{}
	}
	s.log.Debug("organization-role-wise report", zap.Int("rows", len(rows)))
	return rows, nil
}
