// Package service implements organization lifecycle operations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tenant-accounts/backend/internal/organization/domain"
	"tenant-accounts/backend/internal/platform/apperr"
	"tenant-accounts/backend/internal/platform/jsonbag"
)

// OrgRepo is the organization persistence the service needs.
type OrgRepo interface {
	GetOrganizationByID(ctx context.Context, id string) (*domain.Org, error)
	CreateOrganization(ctx context.Context, o *domain.Org) error
	UpdateOrganization(ctx context.Context, o *domain.Org) (*domain.Org, error)
	DeleteOrganization(ctx context.Context, id string) (bool, error)
}

// CreateInput describes a new organization. Names need not be unique.
type CreateInput struct {
	Name     string
	Status   int
	Personal *bool
	Settings jsonbag.Bag
}

// UpdateInput changes the mutable parts of an organization. Nil fields are left untouched;
// the name is fixed at creation.
type UpdateInput struct {
	Status   *int
	Settings jsonbag.Bag
}

// Service manages organizations.
type Service struct {
	orgs OrgRepo
	log  *zap.Logger
	now  func() time.Time
}

// NewService returns an organization Service.
func NewService(orgs OrgRepo, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{orgs: orgs, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Create persists a new organization.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Org, error) {
	now := s.now()
	o := &domain.Org{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Status:    in.Status,
		Personal:  in.Personal,
		Settings:  in.Settings.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := o.Validate(); err != nil {
		return nil, apperr.NewValidation("name", err.Error())
	}
	if err := s.orgs.CreateOrganization(ctx, o); err != nil {
		return nil, err
	}
	s.log.Info("organization created", zap.String("org_id", o.ID))
	return o, nil
}

// Get returns the organization or NotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.Org, error) {
	o, err := s.orgs.GetOrganizationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("organization %s: %w", id, apperr.ErrNotFound)
	}
	return o, nil
}

// Update applies in to the organization. A non-nil Settings replaces the stored bag.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Org, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil {
		o.Status = *in.Status
	}
	if in.Settings != nil {
		o.Settings = in.Settings.Clone()
	}
	o.UpdatedAt = s.now()
	updated, err := s.orgs.UpdateOrganization(ctx, o)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("organization %s: %w", id, apperr.ErrNotFound)
	}
	return updated, nil
}

// Delete removes the organization together with its roles and memberships.
func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.orgs.DeleteOrganization(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("organization %s: %w", id, apperr.ErrNotFound)
	}
	s.log.Info("organization deleted", zap.String("org_id", id))
	return nil
}
