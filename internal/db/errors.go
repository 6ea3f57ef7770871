package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Unique constraint names from migrations/000001_init.up.sql. Repositories match on these to
// translate a failed insert into a domain error.
const (
	ConstraintUserEmail      = "users_email_key"
	ConstraintUserUsername   = "users_username_key"
	ConstraintRoleOrgName    = "roles_org_id_name_key"
	ConstraintMembershipPair = "memberships_org_id_user_id_role_id_key"
)

// UniqueViolation reports whether err is a Postgres unique violation and returns the constraint name.
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
