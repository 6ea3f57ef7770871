package repository

import (
	"context"

	"tenant-accounts/backend/internal/organization/domain"
)

// Repository defines persistence for organizations.
type Repository interface {
	GetOrganizationByID(ctx context.Context, id string) (*domain.Org, error)
	CreateOrganization(ctx context.Context, o *domain.Org) error
	// UpdateOrganization writes status, settings and updated_at. Returns nil, nil when o.ID is unknown.
	UpdateOrganization(ctx context.Context, o *domain.Org) (*domain.Org, error)
	// DeleteOrganization removes the organization with its roles and memberships.
	// Returns false when no organization had id.
	DeleteOrganization(ctx context.Context, id string) (bool, error)
}
