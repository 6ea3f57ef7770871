package repository

import (
	"context"
	"database/sql"
	"errors"

	"tenant-accounts/backend/internal/db/sqlc/gen"
	"tenant-accounts/backend/internal/organization/domain"
)

type PostgresRepository struct {
	queries *gen.Queries
}

// NewPostgresRepository returns an organization repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{queries: gen.New(db)}
}

// GetOrganizationByID returns the organization for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetOrganizationByID(ctx context.Context, id string) (*domain.Org, error) {
	o, err := r.queries.GetOrganization(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return genOrgToDomain(&o), nil
}

// CreateOrganization persists the organization to the database. The organization must have ID set.
func (r *PostgresRepository) CreateOrganization(ctx context.Context, o *domain.Org) error {
	_, err := r.queries.CreateOrganization(ctx, gen.CreateOrganizationParams{
		ID:        o.ID,
		Name:      o.Name,
		Status:    int32(o.Status),
		Personal:  nullBool(o.Personal),
		Settings:  o.Settings,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	})
	return err
}

// UpdateOrganization updates status and settings of the existing organization.
func (r *PostgresRepository) UpdateOrganization(ctx context.Context, o *domain.Org) (*domain.Org, error) {
	updated, err := r.queries.UpdateOrganization(ctx, gen.UpdateOrganizationParams{
		ID: o.ID, Status: int32(o.Status), Settings: o.Settings, UpdatedAt: o.UpdatedAt,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return genOrgToDomain(&updated), nil
}

// DeleteOrganization deletes the organization; roles and memberships go with it via ON DELETE CASCADE.
func (r *PostgresRepository) DeleteOrganization(ctx context.Context, id string) (bool, error) {
	n, err := r.queries.DeleteOrganization(ctx, id)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func genOrgToDomain(o *gen.Organization) *domain.Org {
	if o == nil {
		return nil
	}
	var personal *bool
	if o.Personal.Valid {
		p := o.Personal.Bool
		personal = &p
	}
	return &domain.Org{
		ID:        o.ID,
		Name:      o.Name,
		Status:    int(o.Status),
		Personal:  personal,
		Settings:  o.Settings,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
