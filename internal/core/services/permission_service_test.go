package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/core/domain"
)

func TestPermissionResolutionNeedsEverySwitch(t *testing.T) {
	f := newFixture(t)
	account := f.register("5551000")
	f.grant(account, "student", "club:create")

	switches := []struct {
		name   string
		toggle func(active bool) error
	}{
		{"user role edge", func(active bool) error {
			return f.perms.SetUserRoleStatus(f.ctx, account.ID, "student", active)
		}},
		{"role", func(active bool) error {
			return f.perms.SetRoleStatus(f.ctx, "student", active)
		}},
		{"role permission edge", func(active bool) error {
			return f.perms.SetRolePermissionStatus(f.ctx, "student", "club:create", active)
		}},
		{"permission", func(active bool) error {
			return f.perms.SetPermissionStatus(f.ctx, "club:create", active)
		}},
	}

	for _, sw := range switches {
		t.Run(sw.name, func(t *testing.T) {
			ok, err := f.perms.HasPermission(f.ctx, account.ID, "club:create")
			require.NoError(t, err)
			require.True(t, ok)

			require.NoError(t, sw.toggle(false))
			ok, err = f.perms.HasPermission(f.ctx, account.ID, "club:create")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, sw.toggle(true))
			ok, err = f.perms.HasPermission(f.ctx, account.ID, "club:create")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestLogicalDeletionRemovesPermission(t *testing.T) {
	f := newFixture(t)
	account := f.register("5551000")
	f.grant(account, "student", "club:create")

	require.NoError(t, f.perms.RevokePermission(f.ctx, "student", "club:create"))
	codes, err := f.perms.UserPermissionCodes(f.ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, codes)

	require.NoError(t, f.perms.GrantPermission(f.ctx, "student", "club:create"))
	require.NoError(t, f.perms.RevokeRole(f.ctx, account.ID, "student"))
	codes, err = f.perms.UserPermissionCodes(f.ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, codes)

	roles, err := f.perms.UserRoleCodes(f.ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)

	err = f.perms.RevokeRole(f.ctx, account.ID, "student")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, f.perms.AssignRole(f.ctx, account.ID, "student"))
	ok, err := f.perms.HasPermission(f.ctx, account.ID, "club:create")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserPermissionCodesSortedAndDeduplicated(t *testing.T) {
	f := newFixture(t)
	account := f.register("5551000")
	f.grant(account, "student", "club:create")
	f.grant(account, "admin", "account:disable")
	f.grant(account, "admin", "club:create")

	codes, err := f.perms.UserPermissionCodes(f.ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"account:disable", "club:create"}, codes)

	roles, err := f.perms.UserRoleCodes(f.ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "student"}, roles)

	ok, err := f.perms.HasRole(f.ctx, account.ID, "admin")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAssignRoleIsIdempotent(t *testing.T) {
	f := newFixture(t)
	account := f.register("5551000")
	f.grant(account, "student", "club:create")

	require.NoError(t, f.perms.AssignRole(f.ctx, account.ID, "student"))
	require.NoError(t, f.perms.SetUserRoleStatus(f.ctx, account.ID, "student", false))
	require.NoError(t, f.perms.AssignRole(f.ctx, account.ID, "student"))

	ok, err := f.perms.HasRole(f.ctx, account.ID, "student")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGraphAdministrationErrors(t *testing.T) {
	f := newFixture(t)
	account := f.register("5551000")

	_, err := f.perms.CreateRole(f.ctx, CreateRoleInput{Code: "student"})
	require.NoError(t, err)
	_, err = f.perms.CreateRole(f.ctx, CreateRoleInput{Code: "student"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.perms.CreateRole(f.ctx, CreateRoleInput{Code: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.perms.CreatePermission(f.ctx, CreatePermissionInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, f.perms.AssignRole(f.ctx, 999, "student"), domain.ErrAccountNotFound)
	assert.ErrorIs(t, f.perms.AssignRole(f.ctx, account.ID, "ghost"), domain.ErrRoleNotFound)
	assert.ErrorIs(t, f.perms.GrantPermission(f.ctx, "student", "ghost"), domain.ErrPermissionNotFound)
	assert.ErrorIs(t, f.perms.SetRoleStatus(f.ctx, "ghost", false), domain.ErrRoleNotFound)

	roles, err := f.perms.ListRoles(f.ctx)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "student", roles[0].Name)
}

func TestPermissionCacheServesAndInvalidates(t *testing.T) {
	f := newFixture(t)
	account := f.register("5551000")
	f.grant(account, "student", "club:create")

	_, err := f.perms.UserPermissionCodes(f.ctx, account.ID)
	require.NoError(t, err)
	_, err = f.perms.UserPermissionCodes(f.ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.metrics.cache["miss"])
	assert.Equal(t, 1, f.metrics.cache["hit"])

	require.NoError(t, f.perms.SetRoleStatus(f.ctx, "student", false))
	ok, err := f.perms.HasPermission(f.ctx, account.ID, "club:create")
	require.NoError(t, err)
	assert.False(t, ok, "a graph change must not be hidden by the cache")
	assert.Equal(t, 2, f.metrics.cache["miss"])
}

func TestPermissionCacheFailureFallsBackToGraph(t *testing.T) {
	f := newFixture(t)
	account := f.register("5551000")
	f.grant(account, "student", "club:create")
	f.cache.getErr = errors.New("redis down")

	ok, err := f.perms.HasPermission(f.ctx, account.ID, "club:create")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, f.metrics.cache["error"])
}

func TestFailedInvalidationBypassesCache(t *testing.T) {
	f := newFixture(t)
	account := f.register("5551000")
	f.grant(account, "student", "club:create")

	ok, err := f.perms.HasPermission(f.ctx, account.ID, "club:create")
	require.NoError(t, err)
	require.True(t, ok)

	f.cache.invalidateErr = errors.New("redis down")
	require.NoError(t, f.perms.RevokeRole(f.ctx, account.ID, "student"), "the revoke is committed")

	ok, err = f.perms.HasPermission(f.ctx, account.ID, "club:create")
	require.NoError(t, err)
	assert.False(t, ok, "a stale entry must not outlive the revoke")
	assert.Equal(t, 1, f.metrics.cache["bypass"])

	// once invalidation works again the cache is used and refilled
	f.cache.invalidateErr = nil
	ok, err = f.perms.HasPermission(f.ctx, account.ID, "club:create")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = f.perms.HasPermission(f.ctx, account.ID, "club:create")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, f.metrics.cache["bypass"])
	assert.Equal(t, 1, f.metrics.cache["hit"])
}
