package repository

import (
	"context"
	"database/sql"
	"errors"

	"tenant-accounts/backend/internal/db"
	"tenant-accounts/backend/internal/db/sqlc/gen"
	"tenant-accounts/backend/internal/role/domain"
)

type PostgresRepository struct {
	queries *gen.Queries
}

// NewPostgresRepository returns a role repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{queries: gen.New(conn)}
}

// GetByID returns the role for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	row, err := r.queries.GetRole(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return genRoleToDomain(&row), nil
}

// GetByOrgAndName returns the role named name in orgID, or nil if not found.
func (r *PostgresRepository) GetByOrgAndName(ctx context.Context, orgID, name string) (*domain.Role, error) {
	row, err := r.queries.GetRoleByOrgAndName(ctx, gen.GetRoleByOrgAndNameParams{OrgID: orgID, Name: name})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return genRoleToDomain(&row), nil
}

// ListByOrg returns the organization's roles ordered by name.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string) ([]*domain.Role, error) {
	list, err := r.queries.ListRolesByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Role, len(list))
	for i := range list {
		out[i] = genRoleToDomain(&list[i])
	}
	return out, nil
}

func (r *PostgresRepository) Create(ctx context.Context, role *domain.Role) error {
	_, err := r.queries.CreateRole(ctx, gen.CreateRoleParams{
		ID: role.ID, Name: role.Name, Description: nullString(role.Description), OrgID: role.OrgID,
	})
	if constraint, ok := db.UniqueViolation(err); ok && constraint == db.ConstraintRoleOrgName {
		return domain.ErrDuplicateRole
	}
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	row, err := r.queries.UpdateRole(ctx, gen.UpdateRoleParams{
		ID: role.ID, Name: role.Name, Description: nullString(role.Description),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if constraint, ok := db.UniqueViolation(err); ok && constraint == db.ConstraintRoleOrgName {
			return nil, domain.ErrDuplicateRole
		}
		return nil, err
	}
	return genRoleToDomain(&row), nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.queries.DeleteRole(ctx, id)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func genRoleToDomain(r *gen.Role) *domain.Role {
	if r == nil {
		return nil
	}
	var desc *string
	if r.Description.Valid {
		d := r.Description.String
		desc = &d
	}
	return &domain.Role{ID: r.ID, Name: r.Name, Description: desc, OrgID: r.OrgID}
}
