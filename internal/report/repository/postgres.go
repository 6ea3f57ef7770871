package repository

import (
	"context"
	"database/sql"
	"time"

	"tenant-accounts/backend/internal/db/sqlc/gen"
	"tenant-accounts/backend/internal/report/domain"
)

type PostgresRepository struct {
	queries *gen.Queries
}

// NewPostgresRepository returns a report repository that aggregates in SQL.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{queries: gen.New(conn)}
}

func (r *PostgresRepository) RoleWiseUserCount(ctx context.Context, f domain.Filter) ([]domain.RoleCount, error) {
	from, to, status := filterArgs(f)
	rows, err := r.queries.RoleWiseUserCount(ctx, gen.RoleWiseUserCountParams{FromDate: from, ToDate: to, Status: status})
	if err != nil {
		return nil, err
	}
	out := make([]domain.RoleCount, len(rows))
	for i, row := range rows {
		out[i] = domain.RoleCount{RoleName: row.RoleName, Count: row.UserCount}
	}
	return out, nil
}

func (r *PostgresRepository) OrganizationWiseMemberCount(ctx context.Context, f domain.Filter) ([]domain.OrgCount, error) {
	from, to, status := filterArgs(f)
	rows, err := r.queries.OrganizationWiseMemberCount(ctx, gen.OrganizationWiseMemberCountParams{FromDate: from, ToDate: to, Status: status})
	if err != nil {
		return nil, err
	}
	out := make([]domain.OrgCount, len(rows))
	for i, row := range rows {
		out[i] = domain.OrgCount{OrgName: row.OrgName, Count: row.MemberCount}
	}
	return out, nil
}

func (r *PostgresRepository) OrganizationRoleWiseUserCount(ctx context.Context, f domain.Filter) ([]domain.OrgRoleCount, error) {
	from, to, status := filterArgs(f)
	rows, err := r.queries.OrganizationRoleWiseUserCount(ctx, gen.OrganizationRoleWiseUserCountParams{FromDate: from, ToDate: to, Status: status})
	if err != nil {
		return nil, err
	}
	out := make([]domain.OrgRoleCount, len(rows))
	for i, row := range rows {
		out[i] = domain.OrgRoleCount{OrgName: row.OrgName, RoleName: row.RoleName, Count: row.UserCount}
	}
	return out, nil
}

func filterArgs(f domain.Filter) (sql.NullTime, sql.NullTime, sql.NullInt32) {
	return nullTime(f.From), nullTime(f.To), nullInt(f.Status)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt(n *int) sql.NullInt32 {
	if n == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*n), Valid: true}
}
