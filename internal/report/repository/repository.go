package repository

import (
	"context"

	"tenant-accounts/backend/internal/report/domain"
)

// Repository computes aggregate membership counts. Each method counts membership rows (a user
// holding the same role twice counts twice) and returns rows ordered ascending by group key.
type Repository interface {
	RoleWiseUserCount(ctx context.Context, f domain.Filter) ([]domain.RoleCount, error)
	OrganizationWiseMemberCount(ctx context.Context, f domain.Filter) ([]domain.OrgCount, error)
	OrganizationRoleWiseUserCount(ctx context.Context, f domain.Filter) ([]domain.OrgRoleCount, error)
}
