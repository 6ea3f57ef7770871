package repository

import (
	"context"
	"time"

	"tenant-accounts/backend/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
	// Create inserts u. A duplicate email yields domain.ErrDuplicateEmail and a duplicate
	// username domain.ErrDuplicateUsername.
	Create(ctx context.Context, u *domain.User) error
	// UpdatePasswordHash replaces the stored hash. Returns false when no user has id.
	UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) (bool, error)
}
