package repository

import (
	"context"
	"time"

	"tenant-accounts/backend/internal/membership/domain"
)

// Repository defines persistence for memberships.
type Repository interface {
	GetMembershipByID(ctx context.Context, id string) (*domain.Membership, error)
	// ListByOrg returns the organization's memberships, oldest first.
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Membership, error)
	// ListByOrgAndUser returns every grant the user holds in the organization, oldest first.
	ListByOrgAndUser(ctx context.Context, orgID, userID string) ([]*domain.Membership, error)
	Exists(ctx context.Context, orgID, userID, roleID string) (bool, error)
	// CreateMembership inserts m. An existing (org, user, role) yields domain.ErrDuplicateMembership.
	CreateMembership(ctx context.Context, m *domain.Membership) error
	// DeleteByOrgAndUser removes every grant of the pair and returns how many rows went.
	DeleteByOrgAndUser(ctx context.Context, orgID, userID string) (int64, error)
	// ReassignRole moves every grant of the pair to roleID atomically and returns how many grants
	// the pair held before. Because grants are unique per role, they collapse into the oldest one.
	ReassignRole(ctx context.Context, orgID, userID, roleID string, at time.Time) (int64, error)
}
