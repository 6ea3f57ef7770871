package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	identitydomain "tenant-accounts/backend/internal/identity/domain"
	membershipdomain "tenant-accounts/backend/internal/membership/domain"
	orgdomain "tenant-accounts/backend/internal/organization/domain"
	orgservice "tenant-accounts/backend/internal/organization/service"
	"tenant-accounts/backend/internal/platform/apperr"
	"tenant-accounts/backend/internal/platform/jsonbag"
	"tenant-accounts/backend/internal/security"
	userdomain "tenant-accounts/backend/internal/user/domain"
)

// usernameAttempts bounds how many derived usernames Register tries before giving up.
const usernameAttempts = 5

// Sentinel errors for the auth service; the HTTP layer maps them through their apperr kind.
var (
	ErrEmailAlreadyRegistered = apperr.New(apperr.ErrDuplicateEmail, "user with this email already exists.")
	ErrInvalidCredentials     = apperr.New(apperr.ErrInvalidCredentials, "Invalid credentials")
	ErrUserNotFound           = apperr.New(apperr.ErrNotFound, "No user found with this email")
	ErrInvalidRefreshToken    = apperr.New(apperr.ErrUnauthorized, "invalid or expired refresh token")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// UserRepo is the user persistence needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, u *userdomain.User) error
	UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) (bool, error)
}

// OrgCreator creates the organization submitted with a sign-up.
type OrgCreator interface {
	Create(ctx context.Context, in orgservice.CreateInput) (*orgdomain.Org, error)
}

// OwnerGranter makes a user the Owner of an organization.
type OwnerGranter interface {
	CreateOwnerMembership(ctx context.Context, orgID, userID string) (*membershipdomain.Membership, error)
}

// Tokens issues and validates the credentials handed to clients.
type Tokens interface {
	IssuePair(userID, email string) (*security.TokenPair, error)
	ValidateRefresh(token string) (userID, email string, err error)
	IssueInvite(userID, orgID string) (string, time.Time, error)
}

// Notifier sends the account notifications. Implementations must not block.
type Notifier interface {
	Invite(email, token string)
	LoginAlert(email string)
	PasswordChanged(email string)
}

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Email    string
	Password string
	Profile  jsonbag.Bag
}

// OrgInput is the optional organization created together with a user at sign-up.
type OrgInput struct {
	Name     string
	Personal *bool
	Settings jsonbag.Bag
}

// SignUpInput is RegisterInput plus an optional organization.
type SignUpInput struct {
	RegisterInput
	Organization *OrgInput
}

// SignUpResult holds the created user and, when requested, the organization and Owner membership.
type SignUpResult struct {
	User         *userdomain.User
	Organization *orgdomain.Org
	Membership   *membershipdomain.Membership
}

// SignInResult holds a fresh token pair and the signed-in user.
type SignInResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *userdomain.User
}

// Deps groups the collaborators of AuthService. Orgs and Owners are required only for SignUp with
// an organization; Notifier may be nil.
type Deps struct {
	Users             UserRepo
	Orgs              OrgCreator
	Owners            OwnerGranter
	Hasher            *security.Hasher
	Tokens            Tokens
	Notifier          Notifier
	PasswordMinLength int
	Log               *zap.Logger
}

// AuthService implements registration, sign-in, token refresh and password reset.
type AuthService struct {
	users     UserRepo
	orgs      OrgCreator
	owners    OwnerGranter
	hasher    *security.Hasher
	tokens    Tokens
	notifier  Notifier
	minLength int
	log       *zap.Logger
	now       func() time.Time
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(d Deps) *AuthService {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	minLength := d.PasswordMinLength
	if minLength < 1 {
		minLength = 8
	}
	return &AuthService{
		users:     d.Users,
		orgs:      d.Orgs,
		owners:    d.Owners,
		hasher:    d.Hasher,
		tokens:    d.Tokens,
		notifier:  d.Notifier,
		minLength: minLength,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a user. The email is trimmed and lowercased; the username is derived from the
// email's local part and the current user count, retrying with the next number on a collision.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*userdomain.User, error) {
	email := normalizeEmail(in.Email)
	ve := &apperr.ValidationError{}
	if msg := validateEmail(email); msg != "" {
		ve.Add("email", msg)
	}
	if msg := s.validatePassword(in.Password); msg != "" {
		ve.Add("password", msg)
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return nil, apperr.NewValidation("password", "Ensure this field has no more than 72 bytes.")
		}
		return nil, err
	}
	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	localPart, _, _ := strings.Cut(email, "@")
	now := s.now()
	profile := in.Profile.Clone()
	if profile == nil {
		profile = jsonbag.Bag{}
	}
	for attempt := int64(1); attempt <= usernameAttempts; attempt++ {
		u := &userdomain.User{
			ID:           uuid.New().String(),
			Email:        email,
			Username:     localPart + strconv.FormatInt(count+attempt, 10),
			PasswordHash: hash,
			Profile:      profile,
			Status:       userdomain.StatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := u.Validate(); err != nil {
			return nil, apperr.NewValidation("email", err.Error())
		}
		err := s.users.Create(ctx, u)
		switch {
		case err == nil:
			s.log.Info("user registered", zap.String("user_id", u.ID))
			return u, nil
		case errors.Is(err, userdomain.ErrDuplicateEmail):
			return nil, ErrEmailAlreadyRegistered
		case errors.Is(err, userdomain.ErrDuplicateUsername):
			s.log.Debug("username taken, retrying", zap.String("username", u.Username))
			continue
		default:
			return nil, err
		}
	}
	return nil, fmt.Errorf("register: no free username for %q after %d attempts", localPart, usernameAttempts)
}

// SignUp registers a user and, when an organization is supplied, creates it, makes the user its
// Owner and mails them the organization's invite link.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*SignUpResult, error) {
	if in.Organization != nil && strings.TrimSpace(in.Organization.Name) == "" {
		return nil, apperr.NewValidation("organization.name", "This field is required.")
	}
	u, err := s.Register(ctx, in.RegisterInput)
	if err != nil {
		return nil, err
	}
	res := &SignUpResult{User: u}
	if in.Organization == nil {
		return res, nil
	}

	org, err := s.orgs.Create(ctx, orgservice.CreateInput{
		Name:     in.Organization.Name,
		Personal: in.Organization.Personal,
		Settings: in.Organization.Settings,
	})
	if err != nil {
		return nil, fmt.Errorf("sign-up: create organization: %w", err)
	}
	m, err := s.owners.CreateOwnerMembership(ctx, org.ID, u.ID)
	if err != nil {
		return nil, fmt.Errorf("sign-up: owner membership: %w", err)
	}
	res.Organization = org
	res.Membership = m

	if s.notifier != nil {
		token, _, err := s.tokens.IssueInvite(u.ID, org.ID)
		if err != nil {
			s.log.Warn("invite token not issued", zap.String("org_id", org.ID), zap.String("user_id", u.ID), zap.Error(err))
		} else {
			s.notifier.Invite(u.Email, token)
		}
	}
	return res, nil
}

// Authenticate checks email and password. It fails with NotFound for an unknown email and with
// InvalidCredentials for a wrong password. Success triggers a login alert.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*userdomain.User, error) {
	email = normalizeEmail(email)
	ve := &apperr.ValidationError{}
	if email == "" {
		ve.Add("email", "This field is required.")
	}
	if password == "" {
		ve.Add("password", "This field is required.")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	ok, err := s.hasher.Verify(u.PasswordHash, password)
	if err != nil {
		s.log.Warn("stored password hash unreadable", zap.String("user_id", u.ID), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if s.notifier != nil {
		s.notifier.LoginAlert(u.Email)
	}
	return u, nil
}

// SignIn authenticates and issues a token pair.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// Refresh exchanges a valid refresh token for a new pair. The user must still exist.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*SignInResult, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	userID, _, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidRefreshToken
	}
	return s.issue(u)
}

// ResetPassword sets a new password for the account with email. The caller must be authenticated
// but need not own the account.
func (s *AuthService) ResetPassword(ctx context.Context, caller identitydomain.Identity, email, newPassword string) error {
	if !caller.Authenticated() {
		return apperr.ErrUnauthorized
	}
	email = normalizeEmail(email)
	ve := &apperr.ValidationError{}
	if email == "" {
		ve.Add("email", "This field is required.")
	}
	if msg := s.validatePassword(newPassword); msg != "" {
		ve.Add("new_password", msg)
	}
	if err := ve.OrNil(); err != nil {
		return err
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return apperr.NewValidation("new_password", "Ensure this field has no more than 72 bytes.")
		}
		return err
	}
	ok, err := s.users.UpdatePasswordHash(ctx, u.ID, hash, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	s.log.Info("password reset", zap.String("user_id", u.ID), zap.String("caller_id", caller.UserID))
	if s.notifier != nil {
		s.notifier.PasswordChanged(u.Email)
	}
	return nil
}

func (s *AuthService) issue(u *userdomain.User) (*SignInResult, error) {
	pair, err := s.tokens.IssuePair(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &SignInResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.AccessExpiresAt,
		User:         u,
	}, nil
}

func (s *AuthService) validatePassword(password string) string {
	if password == "" {
		return "This field is required."
	}
	if utf8.RuneCountInString(password) < s.minLength {
		return fmt.Sprintf("Ensure this field has at least %d characters.", s.minLength)
	}
	return ""
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) string {
	if email == "" {
		return "This field is required."
	}
	if !emailPattern.MatchString(email) {
		return "Enter a valid email address."
	}
	return ""
}
