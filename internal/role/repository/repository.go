package repository

import (
	"context"

	"tenant-accounts/backend/internal/role/domain"
)

// Repository defines persistence for roles.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByOrgAndName(ctx context.Context, orgID, name string) (*domain.Role, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Role, error)
	// Create inserts r. A duplicate (org, name) yields domain.ErrDuplicateRole.
	Create(ctx context.Context, r *domain.Role) error
	// Update writes name and description. Returns nil, nil when r.ID is unknown.
	Update(ctx context.Context, r *domain.Role) (*domain.Role, error)
	// Delete removes the role and every membership that references it.
	Delete(ctx context.Context, id string) (bool, error)
}
