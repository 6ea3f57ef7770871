package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tenant-accounts/backend/internal/db"
	"tenant-accounts/backend/internal/db/sqlc/gen"
	"tenant-accounts/backend/internal/membership/domain"
)

type PostgresRepository struct {
	conn    *sql.DB
	queries *gen.Queries
}

// NewPostgresRepository returns a membership repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn, queries: gen.New(conn)}
}

// GetMembershipByID returns the membership for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetMembershipByID(ctx context.Context, id string) (*domain.Membership, error) {
	m, err := r.queries.GetMembership(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return genMembershipToDomain(&m), nil
}

func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string) ([]*domain.Membership, error) {
	list, err := r.queries.ListMembershipsByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return genMembershipsToDomain(list), nil
}

func (r *PostgresRepository) ListByOrgAndUser(ctx context.Context, orgID, userID string) ([]*domain.Membership, error) {
	list, err := r.queries.ListMembershipsByOrgAndUser(ctx, gen.ListMembershipsByOrgAndUserParams{OrgID: orgID, UserID: userID})
	if err != nil {
		return nil, err
	}
	return genMembershipsToDomain(list), nil
}

func (r *PostgresRepository) Exists(ctx context.Context, orgID, userID, roleID string) (bool, error) {
	return r.queries.MembershipExists(ctx, gen.MembershipExistsParams{OrgID: orgID, UserID: userID, RoleID: roleID})
}

// CreateMembership persists the membership to the database. The membership must have ID set.
func (r *PostgresRepository) CreateMembership(ctx context.Context, m *domain.Membership) error {
	_, err := r.queries.CreateMembership(ctx, gen.CreateMembershipParams{
		ID:        m.ID,
		OrgID:     m.OrgID,
		UserID:    m.UserID,
		RoleID:    m.RoleID,
		Status:    int32(m.Status),
		Settings:  m.Settings,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	})
	return mapUnique(err)
}

func (r *PostgresRepository) DeleteByOrgAndUser(ctx context.Context, orgID, userID string) (int64, error) {
	return r.queries.DeleteMembershipsByOrgAndUser(ctx, gen.DeleteMembershipsByOrgAndUserParams{OrgID: orgID, UserID: userID})
}

// ReassignRole locks the pair's rows, deletes all but the oldest and points the oldest at roleID.
// Deleting first keeps the unique index satisfied when one of the rows already held roleID.
func (r *PostgresRepository) ReassignRole(ctx context.Context, orgID, userID, roleID string, at time.Time) (int64, error) {
	var n int64
	err := db.InTx(ctx, r.conn, func(tx *sql.Tx) error {
		q := r.queries.WithTx(tx)
		rows, err := q.ListMembershipsByOrgAndUserForUpdate(ctx, gen.ListMembershipsByOrgAndUserForUpdateParams{OrgID: orgID, UserID: userID})
		if err != nil {
			return err
		}
		n = int64(len(rows))
		if n == 0 {
			return nil
		}
		for _, m := range rows[1:] {
			if err := q.DeleteMembership(ctx, m.ID); err != nil {
				return err
			}
		}
		return mapUnique(q.SetMembershipRole(ctx, gen.SetMembershipRoleParams{ID: rows[0].ID, RoleID: roleID, UpdatedAt: at}))
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func mapUnique(err error) error {
	if constraint, ok := db.UniqueViolation(err); ok && constraint == db.ConstraintMembershipPair {
		return domain.ErrDuplicateMembership
	}
	return err
}

func genMembershipsToDomain(list []gen.Membership) []*domain.Membership {
	out := make([]*domain.Membership, len(list))
	for i := range list {
		out[i] = genMembershipToDomain(&list[i])
	}
	return out
}

func genMembershipToDomain(m *gen.Membership) *domain.Membership {
	if m == nil {
		return nil
	}
	return &domain.Membership{
		ID:        m.ID,
		OrgID:     m.OrgID,
		UserID:    m.UserID,
		RoleID:    m.RoleID,
		Status:    int(m.Status),
		Settings:  m.Settings,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
