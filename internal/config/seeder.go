package config

import (
	"context"
	"errors"
	"log"

	"clubhub/internal/core/domain"
	"clubhub/internal/core/services"
)

// Role codes
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// Permission codes
const (
	PermAccountProvision = "account:provision"
	PermAccountDisable   = "account:disable"
	PermRoleAssign       = "role:assign"
	PermRoleManage       = "role:manage"
	PermClubCreate       = "club:create"
	PermDictManage       = "dict:manage"
)

var defaultRoles = []services.CreateRoleInput{
	{Code: RoleAdmin, Name: "Administrator", Description: "Platform administration"},
	{Code: RoleStudent, Name: "Student", Description: "Regular campus account"},
}

var defaultPermissions = []services.CreatePermissionInput{
	{Code: PermAccountProvision, Name: "Provision accounts", Resource: "account", Action: "provision"},
	{Code: PermAccountDisable, Name: "Disable accounts", Resource: "account", Action: "disable"},
	{Code: PermRoleAssign, Name: "Assign roles", Resource: "role", Action: "assign"},
	{Code: PermRoleManage, Name: "Manage roles and permissions", Resource: "role", Action: "manage"},
	{Code: PermClubCreate, Name: "Create clubs", Resource: "club", Action: "create"},
	{Code: PermDictManage, Name: "Manage schools and majors", Resource: "dict", Action: "manage"},
}

var defaultGrants = map[string][]string{
	RoleAdmin:   {PermAccountProvision, PermAccountDisable, PermRoleAssign, PermRoleManage, PermClubCreate, PermDictManage},
	RoleStudent: {PermClubCreate},
}

// Seeder seeds the default role/permission graph and the bootstrap admin
type Seeder struct {
	permissions *services.PermissionService
	identity    *services.IdentityService
	seed        SeedConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(permissions *services.PermissionService, identity *services.IdentityService, seed SeedConfig) *Seeder {
	return &Seeder{permissions: permissions, identity: identity, seed: seed}
}

// Run executes all seeders. It is safe to run on every start.
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedGraph(ctx); err != nil {
		return err
	}
	if err := s.seedAdmin(ctx); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

func (s *Seeder) seedGraph(ctx context.Context) error {
	for _, role := range defaultRoles {
		if _, err := s.permissions.CreateRole(ctx, role); err != nil && !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}
	for _, permission := range defaultPermissions {
		if _, err := s.permissions.CreatePermission(ctx, permission); err != nil && !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}
	for _, role := range defaultRoles {
		for _, code := range defaultGrants[role.Code] {
			if err := s.permissions.GrantPermission(ctx, role.Code, code); err != nil {
				return err
			}
		}
	}
	return nil
}

// seedAdmin registers SEED_ADMIN_HANDLE and gives it the admin role
func (s *Seeder) seedAdmin(ctx context.Context) error {
	if s.seed.AdminHandle == "" || s.seed.AdminPassword == "" {
		return nil
	}

	account, err := s.identity.Register(ctx, s.seed.AdminHandle, s.seed.AdminPassword, domain.Profile{Name: "Administrator"})
	switch {
	case err == nil:
		log.Printf("✅ Admin account created: %s", account.Handle)
	case errors.Is(err, domain.ErrHandleTaken):
		account, err = s.identity.GetAccountByHandle(ctx, s.seed.AdminHandle)
		if err != nil {
			return err
		}
	default:
		return err
	}

	return s.permissions.AssignRole(ctx, account.ID, RoleAdmin)
}
