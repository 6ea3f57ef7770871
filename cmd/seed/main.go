// seed inserts development sample data for local testing: an owner with an organization, two roles
// and an invited member. Idempotent: skips everything if dev@example.com already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"tenant-accounts/backend/internal/config"
	"tenant-accounts/backend/internal/db"
	identityservice "tenant-accounts/backend/internal/identity/service"
	membershiprepo "tenant-accounts/backend/internal/membership/repository"
	membershipservice "tenant-accounts/backend/internal/membership/service"
	organizationrepo "tenant-accounts/backend/internal/organization/repository"
	organizationservice "tenant-accounts/backend/internal/organization/service"
	rolerepo "tenant-accounts/backend/internal/role/repository"
	roleservice "tenant-accounts/backend/internal/role/service"
	"tenant-accounts/backend/internal/security"
	userrepo "tenant-accounts/backend/internal/user/repository"
)

const (
	devUserEmail = "dev@example.com"
	memberEmail  = "member@example.com"
	devPassword  = "password123"
	devOrgName   = "Acme Dev"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)
	existing, err := users.GetByEmail(ctx, devUserEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (dev@example.com exists). Skipping.")
		os.Exit(0)
	}

	orgRepo := organizationrepo.NewPostgresRepository(conn)
	roles := roleservice.NewService(rolerepo.NewPostgresRepository(conn), orgRepo, zap.NewNop())
	orgs := organizationservice.NewService(orgRepo, zap.NewNop())
	members, err := membershipservice.NewService(membershipservice.Deps{
		Memberships: membershiprepo.NewPostgresRepository(conn),
		Users:       users,
		Orgs:        orgRepo,
		Roles:       rolerepo.NewPostgresRepository(conn),
		Provisioner: roles,
	})
	if err != nil {
		log.Fatalf("membership service: %v", err)
	}
	// Seeding mails nothing, so the token provider only needs an ephemeral key.
	signer, err := security.GenerateEphemeralKey()
	if err != nil {
		log.Fatalf("key: %v", err)
	}
	auth := identityservice.NewAuthService(identityservice.Deps{
		Users:             users,
		Orgs:              orgs,
		Owners:            members,
		Hasher:            security.NewHasher(cfg.BcryptCost),
		Tokens:            security.NewTokenProvider(signer, signer.Public(), cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL(), cfg.RefreshTTL(), cfg.InviteTTL()),
		PasswordMinLength: cfg.PasswordMinLength,
	})

	owner, err := auth.SignUp(ctx, identityservice.SignUpInput{
		RegisterInput: identityservice.RegisterInput{Email: devUserEmail, Password: devPassword},
		Organization:  &identityservice.OrgInput{Name: devOrgName},
	})
	if err != nil {
		log.Fatalf("create dev user: %v", err)
	}
	if _, err := auth.Register(ctx, identityservice.RegisterInput{Email: memberEmail, Password: devPassword}); err != nil {
		log.Fatalf("create member user: %v", err)
	}

	orgID := owner.Organization.ID
	roleA, err := roles.Create(ctx, orgID, roleservice.CreateInput{Name: "RoleA"})
	if err != nil {
		log.Fatalf("create RoleA: %v", err)
	}
	if _, err := roles.Create(ctx, orgID, roleservice.CreateInput{Name: "RoleB"}); err != nil {
		log.Fatalf("create RoleB: %v", err)
	}
	if _, err := members.Invite(ctx, membershipservice.InviteInput{OrgID: orgID, UserEmail: memberEmail, RoleID: roleA.ID}); err != nil {
		log.Fatalf("invite member: %v", err)
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Organization: %s (%s)\n", devOrgName, orgID)
	fmt.Printf("Dev login: %s / %s\n", devUserEmail, devPassword)
	fmt.Printf("Member login: %s / %s\n", memberEmail, devPassword)
}
