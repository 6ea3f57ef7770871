package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tenant-accounts/backend/internal/db/memstore"
	identitydomain "tenant-accounts/backend/internal/identity/domain"
	membershipservice "tenant-accounts/backend/internal/membership/service"
	orgservice "tenant-accounts/backend/internal/organization/service"
	"tenant-accounts/backend/internal/platform/apperr"
	"tenant-accounts/backend/internal/platform/jsonbag"
	roledomain "tenant-accounts/backend/internal/role/domain"
	roleservice "tenant-accounts/backend/internal/role/service"
	"tenant-accounts/backend/internal/security"
	userdomain "tenant-accounts/backend/internal/user/domain"
)

type memNotifier struct {
	mu       sync.Mutex
	invites  []string
	logins   []string
	resets   []string
	lastLink string
}

func (n *memNotifier) Invite(email, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invites = append(n.invites, email)
	n.lastLink = token
}

func (n *memNotifier) LoginAlert(email string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.logins = append(n.logins, email)
}

func (n *memNotifier) PasswordChanged(email string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets = append(n.resets, email)
}

type testEnv struct {
	svc      *AuthService
	store    *memstore.Store
	tokens   *security.TokenProvider
	notifier *memNotifier
}

func newTestAuthService(t *testing.T) *testEnv {
	t.Helper()
	store := memstore.New()
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	memberships, err := membershipservice.NewService(membershipservice.Deps{
		Memberships: store.Memberships(),
		Users:       store.Users(),
		Orgs:        store.Organizations(),
		Roles:       store.Roles(),
		Provisioner: roleservice.NewService(store.Roles(), store.Organizations(), nil),
	})
	if err != nil {
		t.Fatalf("membership service: %v", err)
	}
	n := &memNotifier{}
	svc := NewAuthService(Deps{
		Users:             store.Users(),
		Orgs:              orgservice.NewService(store.Organizations(), nil),
		Owners:            memberships,
		Hasher:            security.NewHasher(4),
		Tokens:            tokens,
		Notifier:          n,
		PasswordMinLength: 8,
	})
	return &testEnv{svc: svc, store: store, tokens: tokens, notifier: n}
}

func TestAuthService_Register(t *testing.T) {
	env := newTestAuthService(t)
	ctx := context.Background()

	u, err := env.svc.Register(ctx, RegisterInput{Email: "  User@Example.com ", Password: "s3cretpass", Profile: jsonbag.Bag{"first_name": "Ada"}})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "user@example.com" {
		t.Errorf("Email = %q, want lowercased", u.Email)
	}
	if u.Username != "user1" {
		t.Errorf("Username = %q, want user1", u.Username)
	}
	if u.PasswordHash == "s3cretpass" || u.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if u.Profile["first_name"] != "Ada" || u.Status != 0 {
		t.Errorf("user = %+v", u)
	}

	_, err = env.svc.Register(ctx, RegisterInput{Email: "USER@example.com", Password: "another-pass"})
	if !errors.Is(err, apperr.ErrDuplicateEmail) {
		t.Errorf("duplicate email: want ErrDuplicateEmail, got %v", err)
	}
	if n, _ := env.store.Users().Count(ctx); n != 1 {
		t.Errorf("users = %d, want 1", n)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	env := newTestAuthService(t)
	testCases := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"empty email", RegisterInput{Password: "longenough"}, "email"},
		{"bad email", RegisterInput{Email: "bad-email", Password: "longenough"}, "email"},
		{"short password", RegisterInput{Email: "a@b.co", Password: "short"}, "password"},
		{"missing password", RegisterInput{Email: "a@b.co"}, "password"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Register(context.Background(), tc.in)
			ve, ok := apperr.IsValidation(err)
			if !ok {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if ve.Fields[tc.field] == "" {
				t.Errorf("fields = %v, want %s", ve.Fields, tc.field)
			}
		})
	}
}

func TestAuthService_RegisterUsernameCollision(t *testing.T) {
	env := newTestAuthService(t)
	ctx := context.Background()
	// Occupy the username the next registration would derive.
	squatter := &userdomain.User{ID: "squat", Email: "other@x.io", Username: "user2", PasswordHash: "h"}
	if err := env.store.Users().Create(ctx, squatter); err != nil {
		t.Fatalf("seed: %v", err)
	}

	u, err := env.svc.Register(ctx, RegisterInput{Email: "user@x.io", Password: "longenough"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Username != "user3" {
		t.Errorf("Username = %q, want user3", u.Username)
	}
}

func TestAuthService_SignUpWithOrganization(t *testing.T) {
	env := newTestAuthService(t)
	ctx := context.Background()

	res, err := env.svc.SignUp(ctx, SignUpInput{
		RegisterInput: RegisterInput{Email: "owner@acme.io", Password: "longenough"},
		Organization:  &OrgInput{Name: "Acme"},
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if res.Organization == nil || res.Organization.Name != "Acme" {
		t.Fatalf("organization = %+v", res.Organization)
	}
	members, _ := env.store.Memberships().ListByOrg(ctx, res.Organization.ID)
	if len(members) != 1 || members[0].UserID != res.User.ID || members[0].Status != 0 {
		t.Fatalf("memberships = %+v, want one Owner grant", members)
	}
	role, _ := env.store.Roles().GetByID(ctx, members[0].RoleID)
	if role == nil || role.Name != roledomain.RoleOwner {
		t.Errorf("role = %+v, want Owner", role)
	}
	if len(env.notifier.invites) != 1 || env.notifier.invites[0] != "owner@acme.io" {
		t.Errorf("invites = %v", env.notifier.invites)
	}
	if uid, oid, err := env.tokens.ValidateInvite(env.notifier.lastLink); err != nil || uid != res.User.ID || oid != res.Organization.ID {
		t.Errorf("invite token = %s/%s, %v", uid, oid, err)
	}
}

func TestAuthService_SignUpWithoutOrganization(t *testing.T) {
	env := newTestAuthService(t)
	res, err := env.svc.SignUp(context.Background(), SignUpInput{RegisterInput: RegisterInput{Email: "solo@x.io", Password: "longenough"}})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if res.Organization != nil || res.Membership != nil {
		t.Error("no organization should be created")
	}
	if len(env.notifier.invites) != 0 {
		t.Error("no invite mail without an organization")
	}
}

func TestAuthService_SignIn(t *testing.T) {
	env := newTestAuthService(t)
	ctx := context.Background()
	reg, _ := env.svc.Register(ctx, RegisterInput{Email: "user@example.com", Password: "longenough"})

	res, err := env.svc.SignIn(ctx, "User@Example.com", "longenough")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" || res.User.ID != reg.ID {
		t.Fatalf("SignIn result = %+v", res)
	}
	if uid, _, err := env.tokens.ValidateAccess(res.AccessToken); err != nil || uid != reg.ID {
		t.Errorf("access token subject = %q, %v", uid, err)
	}
	if len(env.notifier.logins) != 1 {
		t.Errorf("login alerts = %d, want 1", len(env.notifier.logins))
	}

	if _, err := env.svc.SignIn(ctx, "user@example.com", "wrong-password"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Errorf("wrong password: want ErrInvalidCredentials, got %v", err)
	}
	if _, err := env.svc.SignIn(ctx, "nobody@example.com", "longenough"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown email: want ErrNotFound, got %v", err)
	}
	if len(env.notifier.logins) != 1 {
		t.Error("failed sign-ins must not send login alerts")
	}
}

func TestAuthService_Refresh(t *testing.T) {
	env := newTestAuthService(t)
	ctx := context.Background()
	_, _ = env.svc.Register(ctx, RegisterInput{Email: "user@example.com", Password: "longenough"})
	signIn, _ := env.svc.SignIn(ctx, "user@example.com", "longenough")

	res, err := env.svc.Refresh(ctx, signIn.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.AccessToken == "" || res.User.Email != "user@example.com" {
		t.Errorf("Refresh result = %+v", res)
	}
	if _, err := env.svc.Refresh(ctx, signIn.AccessToken); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("access token as refresh: want ErrUnauthorized, got %v", err)
	}
	if _, err := env.svc.Refresh(ctx, ""); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("empty token: want ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	env := newTestAuthService(t)
	ctx := context.Background()
	_, _ = env.svc.Register(ctx, RegisterInput{Email: "user@example.com", Password: "longenough"})
	caller := identitydomain.Identity{UserID: "someone-else", Email: "admin@example.com"}

	if err := env.svc.ResetPassword(ctx, identitydomain.Identity{}, "user@example.com", "newpassword"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("anonymous reset: want ErrUnauthorized, got %v", err)
	}
	if err := env.svc.ResetPassword(ctx, caller, "ghost@example.com", "newpassword"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown email: want ErrNotFound, got %v", err)
	}
	if err := env.svc.ResetPassword(ctx, caller, "user@example.com", "newpassword"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, err := env.svc.SignIn(ctx, "user@example.com", "longenough"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Errorf("old password still works: %v", err)
	}
	if _, err := env.svc.SignIn(ctx, "user@example.com", "newpassword"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
	if len(env.notifier.resets) != 1 || env.notifier.resets[0] != "user@example.com" {
		t.Errorf("password notifications = %v", env.notifier.resets)
	}
}
