package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tenant-accounts/backend/internal/db"
	"tenant-accounts/backend/internal/db/sqlc/gen"
	"tenant-accounts/backend/internal/user/domain"
)

type PostgresRepository struct {
	queries *gen.Queries
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{queries: gen.New(conn)}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.queries.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return genUserToDomain(&u), nil
}

// GetByEmail returns the user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return genUserToDomain(&u), nil
}

// Count returns the number of registered users.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	return r.queries.CountUsers(ctx)
}

// Create persists the user to the database. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.queries.CreateUser(ctx, gen.CreateUserParams{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Profile:      u.Profile,
		Status:       int32(u.Status),
		Settings:     u.Settings,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	})
	if constraint, ok := db.UniqueViolation(err); ok {
		switch constraint {
		case db.ConstraintUserEmail:
			return domain.ErrDuplicateEmail
		case db.ConstraintUserUsername:
			return domain.ErrDuplicateUsername
		}
	}
	return err
}

// UpdatePasswordHash sets the password hash for id. Returns false when the user does not exist.
func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) (bool, error) {
	n, err := r.queries.UpdateUserPassword(ctx, gen.UpdateUserPasswordParams{ID: id, PasswordHash: hash, UpdatedAt: at})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func genUserToDomain(u *gen.User) *domain.User {
	if u == nil {
		return nil
	}
	return &domain.User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Profile:      u.Profile,
		Status:       int(u.Status),
		Settings:     u.Settings,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
