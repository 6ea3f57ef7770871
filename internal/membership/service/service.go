// Package service implements the membership graph: invitations, removal and role reassignment.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	identitydomain "tenant-accounts/backend/internal/identity/domain"
	"tenant-accounts/backend/internal/membership/domain"
	orgdomain "tenant-accounts/backend/internal/organization/domain"
	"tenant-accounts/backend/internal/platform/apperr"
	roledomain "tenant-accounts/backend/internal/role/domain"
	"tenant-accounts/backend/internal/telemetry"
	telemetrydomain "tenant-accounts/backend/internal/telemetry/domain"
	userdomain "tenant-accounts/backend/internal/user/domain"
)

const eventSource = "membership"

var (
	// ErrMemberExists is the conflict reported for an (org, user, role) grant that already exists.
	ErrMemberExists = apperr.New(apperr.ErrConflict, "A member with the same role and organization already exists.")
	// ErrNoMembership is returned when the user holds no grant in the organization.
	ErrNoMembership = apperr.New(apperr.ErrNotFound, "No member found for the given organization and user")
)

// MembershipRepo is the membership persistence the service needs.
type MembershipRepo interface {
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Membership, error)
	Exists(ctx context.Context, orgID, userID, roleID string) (bool, error)
	CreateMembership(ctx context.Context, m *domain.Membership) error
	DeleteByOrgAndUser(ctx context.Context, orgID, userID string) (int64, error)
	ReassignRole(ctx context.Context, orgID, userID, roleID string, at time.Time) (int64, error)
}

// UserRepo resolves users by id and by email.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
}

// OrgRepo resolves organizations.
type OrgRepo interface {
	GetOrganizationByID(ctx context.Context, id string) (*orgdomain.Org, error)
}

// RoleRepo resolves roles by id.
type RoleRepo interface {
	GetByID(ctx context.Context, id string) (*roledomain.Role, error)
}

// RoleProvisioner returns an organization's role by name, creating it when needed.
type RoleProvisioner interface {
	GetOrCreate(ctx context.Context, name, orgID string) (*roledomain.Role, bool, error)
}

// InviteIssuer signs the invite reference mailed to an invited user.
type InviteIssuer interface {
	IssueInvite(userID, orgID string) (string, time.Time, error)
	ValidateInvite(token string) (userID, orgID string, err error)
}

// InviteNotifier delivers the invite mail.
type InviteNotifier interface {
	Invite(email, token string)
}

// InviteInput is the payload of an invitation. UserEmail must belong to a registered user.
type InviteInput struct {
	OrgID     string
	UserEmail string
	RoleID    string
}

// Deps groups the collaborators of Service. Events, Invites and Notifier may be nil.
// Events is called inline on every change; production wraps it in telemetry.Async.
type Deps struct {
	Memberships MembershipRepo
	Users       UserRepo
	Orgs        OrgRepo
	Roles       RoleRepo
	Provisioner RoleProvisioner
	Invites     InviteIssuer
	Notifier    InviteNotifier
	Events      telemetry.EventEmitter
	Meter       metric.Meter
	Log         *zap.Logger
}

// Service manages memberships.
type Service struct {
	memberships MembershipRepo
	users       UserRepo
	orgs        OrgRepo
	roles       RoleRepo
	provisioner RoleProvisioner
	invites     InviteIssuer
	notifier    InviteNotifier
	events      telemetry.EventEmitter
	mutations   metric.Int64Counter
	log         *zap.Logger
	now         func() time.Time
}

// NewService returns a membership Service. A nil Meter falls back to the global meter provider.
func NewService(d Deps) (*Service, error) {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	meter := d.Meter
	if meter == nil {
		meter = otel.Meter("tenant-accounts/membership")
	}
	mutations, err := meter.Int64Counter("membership.mutations",
		metric.WithDescription("Membership rows touched by invites, removals and role updates."),
		metric.WithUnit("{membership}"))
	if err != nil {
		return nil, fmt.Errorf("membership: create counter: %w", err)
	}
	return &Service{
		memberships: d.Memberships,
		users:       d.Users,
		orgs:        d.Orgs,
		roles:       d.Roles,
		provisioner: d.Provisioner,
		invites:     d.Invites,
		notifier:    d.Notifier,
		events:      d.Events,
		mutations:   mutations,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// CreateOwnerMembership grants the organization's Owner role to userID, creating the role if needed.
func (s *Service) CreateOwnerMembership(ctx context.Context, orgID, userID string) (*domain.Membership, error) {
	role, _, err := s.provisioner.GetOrCreate(ctx, roledomain.RoleOwner, orgID)
	if err != nil {
		return nil, err
	}
	m, err := s.create(ctx, orgID, userID, role.ID)
	if err != nil {
		return nil, err
	}
	s.record(ctx, telemetrydomain.EventOwnerMembershipCreated, orgID, userID, role.ID, 1)
	return m, nil
}

// Invite grants a role in an organization to the registered user with the given email and mails
// them a signed invite link. The membership starts pending.
func (s *Service) Invite(ctx context.Context, in InviteInput) (*domain.Membership, error) {
	in.OrgID = strings.TrimSpace(in.OrgID)
	in.UserEmail = strings.ToLower(strings.TrimSpace(in.UserEmail))
	in.RoleID = strings.TrimSpace(in.RoleID)
	ve := &apperr.ValidationError{}
	if in.OrgID == "" {
		ve.Add("org_id", "This field is required.")
	}
	if in.UserEmail == "" {
		ve.Add("user_email", "This field is required.")
	}
	if in.RoleID == "" {
		ve.Add("role_id", "This field is required.")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	org, err := s.org(ctx, in.OrgID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, in.UserEmail)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", in.UserEmail, apperr.ErrNotFound)
	}
	role, err := s.roleInOrg(ctx, org.ID, in.RoleID)
	if err != nil {
		return nil, err
	}
	exists, err := s.memberships.Exists(ctx, org.ID, user.ID, role.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrMemberExists
	}
	m, err := s.create(ctx, org.ID, user.ID, role.ID)
	if err != nil {
		return nil, err
	}

	s.sendInvite(user, org.ID)
	s.record(ctx, telemetrydomain.EventMemberInvited, org.ID, user.ID, role.ID, 1)
	s.log.Info("member invited", zap.String("org_id", org.ID), zap.String("user_id", user.ID), zap.String("role_id", role.ID))
	return m, nil
}

// RemoveAll deletes every grant userID holds in orgID and returns how many were removed.
func (s *Service) RemoveAll(ctx context.Context, orgID, userID string) (int64, error) {
	if _, err := s.org(ctx, orgID); err != nil {
		return 0, err
	}
	if _, err := s.user(ctx, userID); err != nil {
		return 0, err
	}
	n, err := s.memberships.DeleteByOrgAndUser(ctx, orgID, userID)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNoMembership
	}
	s.record(ctx, telemetrydomain.EventMemberRemoved, orgID, userID, "", n)
	s.log.Info("members removed", zap.String("org_id", orgID), zap.String("user_id", userID), zap.Int64("count", n))
	return n, nil
}

// UpdateRole moves every grant userID holds in orgID onto roleID and returns how many grants the
// user held. Grants are unique per role, so several grants collapse into the oldest one, which
// keeps its status, settings and creation time.
func (s *Service) UpdateRole(ctx context.Context, orgID, userID, roleID string) (int64, error) {
	if _, err := s.org(ctx, orgID); err != nil {
		return 0, err
	}
	if _, err := s.user(ctx, userID); err != nil {
		return 0, err
	}
	role, err := s.roleInOrg(ctx, orgID, roleID)
	if err != nil {
		return 0, err
	}
	n, err := s.memberships.ReassignRole(ctx, orgID, userID, role.ID, s.now())
	if err != nil {
		// A concurrent invite can insert the target grant after the pair's rows were locked.
		if errors.Is(err, domain.ErrDuplicateMembership) {
			return 0, ErrMemberExists
		}
		return 0, err
	}
	if n == 0 {
		return 0, ErrNoMembership
	}
	s.record(ctx, telemetrydomain.EventMemberRoleUpdated, orgID, userID, role.ID, n)
	s.log.Info("member roles updated", zap.String("org_id", orgID), zap.String("user_id", userID),
		zap.String("role_id", role.ID), zap.Int64("count", n))
	return n, nil
}

// ListMembers returns the organization's memberships, oldest first.
func (s *Service) ListMembers(ctx context.Context, orgID string) ([]*domain.Membership, error) {
	if _, err := s.org(ctx, orgID); err != nil {
		return nil, err
	}
	return s.memberships.ListByOrg(ctx, orgID)
}

// VerifyInvite checks a mailed invite reference and returns the organization and user it names.
// It fails with NotFound once the user no longer belongs to the organization.
func (s *Service) VerifyInvite(ctx context.Context, token string) (orgID, userID string, err error) {
	if s.invites == nil {
		return "", "", apperr.NewValidation("token", "Invite verification is not configured.")
	}
	userID, orgID, err = s.invites.ValidateInvite(token)
	if err != nil {
		return "", "", apperr.NewValidation("token", "Invalid or expired invite.")
	}
	members, err := s.ListMembers(ctx, orgID)
	if err != nil {
		return "", "", err
	}
	for _, m := range members {
		if m.UserID == userID {
			return orgID, userID, nil
		}
	}
	return "", "", ErrNoMembership
}

func (s *Service) create(ctx context.Context, orgID, userID, roleID string) (*domain.Membership, error) {
	now := s.now()
	m := &domain.Membership{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		UserID:    userID,
		RoleID:    roleID,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.Validate(); err != nil {
		return nil, apperr.NewValidation("membership", err.Error())
	}
	if err := s.memberships.CreateMembership(ctx, m); err != nil {
		if errors.Is(err, domain.ErrDuplicateMembership) {
			return nil, ErrMemberExists
		}
		return nil, err
	}
	return m, nil
}

func (s *Service) org(ctx context.Context, orgID string) (*orgdomain.Org, error) {
	org, err := s.orgs.GetOrganizationByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("organization %s: %w", orgID, apperr.ErrNotFound)
	}
	return org, nil
}

func (s *Service) user(ctx context.Context, userID string) (*userdomain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
	}
	return u, nil
}

// roleInOrg resolves roleID and rejects roles owned by another organization.
func (s *Service) roleInOrg(ctx context.Context, orgID, roleID string) (*roledomain.Role, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("role %s: %w", roleID, apperr.ErrNotFound)
	}
	if role.OrgID != orgID {
		return nil, apperr.NewValidation("role_id", "Role does not belong to the organization.")
	}
	return role, nil
}

func (s *Service) sendInvite(user *userdomain.User, orgID string) {
	if s.invites == nil || s.notifier == nil {
		return
	}
	token, _, err := s.invites.IssueInvite(user.ID, orgID)
	if err != nil {
		s.log.Warn("invite token not issued", zap.String("org_id", orgID), zap.String("user_id", user.ID), zap.Error(err))
		return
	}
	s.notifier.Invite(user.Email, token)
}

// record publishes the change and counts the touched rows. Both are best-effort.
func (s *Service) record(ctx context.Context, typ telemetrydomain.EventType, orgID, userID, roleID string, n int64) {
	s.mutations.Add(ctx, n, metric.WithAttributes(
		attribute.String("event_type", string(typ)),
	))
	ev := &telemetrydomain.Event{
		Type:      typ,
		OrgID:     orgID,
		UserID:    userID,
		RoleID:    roleID,
		Count:     n,
		Source:    eventSource,
		CreatedAt: s.now(),
	}
	if caller, ok := identitydomain.FromContext(ctx); ok {
		ev.ActorID = caller.UserID
	}
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, ev); err != nil {
		s.log.Warn("membership: emit event", zap.String("event_type", string(typ)), zap.Error(err))
	}
}
