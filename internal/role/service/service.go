// Package service implements the per-organization role registry.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	orgdomain "tenant-accounts/backend/internal/organization/domain"
	"tenant-accounts/backend/internal/platform/apperr"
	"tenant-accounts/backend/internal/role/domain"
)

// RoleRepo is the role persistence the service needs.
type RoleRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByOrgAndName(ctx context.Context, orgID, name string) (*domain.Role, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Role, error)
	Create(ctx context.Context, r *domain.Role) error
	Update(ctx context.Context, r *domain.Role) (*domain.Role, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// OrgRepo resolves the organization a role is scoped to.
type OrgRepo interface {
	GetOrganizationByID(ctx context.Context, id string) (*orgdomain.Org, error)
}

// CreateInput describes a new role.
type CreateInput struct {
	Name        string
	Description *string
}

// UpdateInput changes a role. Nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Description *string
}

// Service manages roles. Every operation is scoped to one organization.
type Service struct {
	roles RoleRepo
	orgs  OrgRepo
	log   *zap.Logger
}

// NewService returns a role Service.
func NewService(roles RoleRepo, orgs OrgRepo, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{roles: roles, orgs: orgs, log: log}
}

// GetOrCreate returns the organization's role called name, creating it when absent.
// created reports whether this call inserted the row. When a concurrent caller wins the insert,
// the unique index rejects ours and the winner's row is returned.
func (s *Service) GetOrCreate(ctx context.Context, name, orgID string) (role *domain.Role, created bool, err error) {
	if err := s.requireOrg(ctx, orgID); err != nil {
		return nil, false, err
	}
	name = strings.TrimSpace(name)
	existing, err := s.roles.GetByOrgAndName(ctx, orgID, name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	r := &domain.Role{ID: uuid.New().String(), Name: name, OrgID: orgID}
	if err := r.Validate(); err != nil {
		return nil, false, apperr.NewValidation("name", err.Error())
	}
	err = s.roles.Create(ctx, r)
	switch {
	case err == nil:
		return r, true, nil
	case errors.Is(err, domain.ErrDuplicateRole):
		winner, err := s.roles.GetByOrgAndName(ctx, orgID, name)
		if err != nil {
			return nil, false, err
		}
		if winner == nil {
			return nil, false, fmt.Errorf("role %q in org %s vanished after insert race", name, orgID)
		}
		return winner, false, nil
	default:
		return nil, false, err
	}
}

// Create adds a role to the organization. A name already used in the organization is a conflict.
func (s *Service) Create(ctx context.Context, orgID string, in CreateInput) (*domain.Role, error) {
	if err := s.requireOrg(ctx, orgID); err != nil {
		return nil, err
	}
	r := &domain.Role{ID: uuid.New().String(), Name: in.Name, Description: in.Description, OrgID: orgID}
	if err := r.Validate(); err != nil {
		return nil, apperr.NewValidation("name", err.Error())
	}
	if err := s.roles.Create(ctx, r); err != nil {
		if errors.Is(err, domain.ErrDuplicateRole) {
			return nil, fmt.Errorf("role %q: %w", r.Name, apperr.ErrConflict)
		}
		return nil, err
	}
	s.log.Info("role created", zap.String("org_id", orgID), zap.String("role_id", r.ID), zap.String("name", r.Name))
	return r, nil
}

// Get returns the role when it belongs to the organization.
func (s *Service) Get(ctx context.Context, orgID, roleID string) (*domain.Role, error) {
	if err := s.requireOrg(ctx, orgID); err != nil {
		return nil, err
	}
	return s.scoped(ctx, orgID, roleID)
}

// List returns the organization's roles ordered by name.
func (s *Service) List(ctx context.Context, orgID string) ([]*domain.Role, error) {
	if err := s.requireOrg(ctx, orgID); err != nil {
		return nil, err
	}
	return s.roles.ListByOrg(ctx, orgID)
}

// Update renames a role or changes its description.
func (s *Service) Update(ctx context.Context, orgID, roleID string, in UpdateInput) (*domain.Role, error) {
	if err := s.requireOrg(ctx, orgID); err != nil {
		return nil, err
	}
	r, err := s.scoped(ctx, orgID, roleID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		r.Name = *in.Name
	}
	if in.Description != nil {
		r.Description = in.Description
	}
	if err := r.Validate(); err != nil {
		return nil, apperr.NewValidation("name", err.Error())
	}
	updated, err := s.roles.Update(ctx, r)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateRole) {
			return nil, fmt.Errorf("role %q: %w", r.Name, apperr.ErrConflict)
		}
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("role %s: %w", roleID, apperr.ErrNotFound)
	}
	return updated, nil
}

// Delete removes the role and every membership granting it.
func (s *Service) Delete(ctx context.Context, orgID, roleID string) error {
	if err := s.requireOrg(ctx, orgID); err != nil {
		return err
	}
	if _, err := s.scoped(ctx, orgID, roleID); err != nil {
		return err
	}
	ok, err := s.roles.Delete(ctx, roleID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("role %s: %w", roleID, apperr.ErrNotFound)
	}
	s.log.Info("role deleted", zap.String("org_id", orgID), zap.String("role_id", roleID))
	return nil
}

func (s *Service) requireOrg(ctx context.Context, orgID string) error {
	if orgID == "" {
		return apperr.NewValidation("org_id", "This field is required.")
	}
	org, err := s.orgs.GetOrganizationByID(ctx, orgID)
	if err != nil {
		return err
	}
	if org == nil {
		return fmt.Errorf("organization %s: %w", orgID, apperr.ErrNotFound)
	}
	return nil
}

// scoped loads a role and hides roles of other organizations behind NotFound.
func (s *Service) scoped(ctx context.Context, orgID, roleID string) (*domain.Role, error) {
	r, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if r == nil || r.OrgID != orgID {
		return nil, fmt.Errorf("role %s: %w", roleID, apperr.ErrNotFound)
	}
	return r, nil
}
