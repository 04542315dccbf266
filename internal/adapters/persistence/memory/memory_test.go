package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
)

var errBoom = errors.New("boom")

func TestWithinTxRollsBackOnError(t *testing.T) {
	db := New()
	ctx := context.Background()

	err := db.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		require.NoError(t, tx.Accounts().Create(ctx, &domain.Account{Handle: "5551000", IsActive: true}))
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	_, err = db.Accounts().GetByHandle(ctx, "5551000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWithinTxCommits(t *testing.T) {
	db := New()
	ctx := context.Background()

	err := db.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		club := &domain.Club{Name: "Chess", PresidentID: 1, IsActive: true}
		if err := tx.Clubs().Create(ctx, club); err != nil {
			return err
		}
		return tx.Clubs().AdjustMemberCount(ctx, club.ID, 1)
	})
	require.NoError(t, err)

	club, err := db.Clubs().GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, club.MemberCount)
}

func TestWithinTxIsolatedFromCommittedReads(t *testing.T) {
	db := New()
	ctx := context.Background()

	_ = db.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		require.NoError(t, tx.Accounts().Create(ctx, &domain.Account{Handle: "5551000"}))
		ok, err := db.Accounts().ExistsByHandle(ctx, "5551000")
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})

	ok, err := db.Accounts().ExistsByHandle(ctx, "5551000")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccountHandleUniqueAmongLiveRows(t *testing.T) {
	db := New()
	ctx := context.Background()
	accounts := db.Accounts()

	first := &domain.Account{Handle: "5551000"}
	require.NoError(t, accounts.Create(ctx, first))
	assert.ErrorIs(t, accounts.Create(ctx, &domain.Account{Handle: "5551000"}), domain.ErrConflict)

	require.NoError(t, accounts.SoftDelete(ctx, first.ID, time.Now()))
	assert.NoError(t, accounts.Create(ctx, &domain.Account{Handle: "5551000"}))
}

func TestConditionalCredentialUpdates(t *testing.T) {
	db := New()
	ctx := context.Background()
	accounts := db.Accounts()
	now := time.Now()

	a := &domain.Account{Handle: "5551000"}
	require.NoError(t, accounts.Create(ctx, a))

	ok, err := accounts.InitializeCredential(ctx, a.ID, "hash-1", domain.Profile{Name: "Ann"}, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = accounts.InitializeCredential(ctx, a.ID, "hash-2", domain.Profile{}, now)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = accounts.RotateCredential(ctx, a.ID, 0, "hash-3", now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = accounts.RotateCredential(ctx, a.ID, 0, "hash-4", now)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := accounts.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RevocationStamp)
	assert.Equal(t, "hash-3", *got.PasswordHash)
	assert.Equal(t, "Ann", got.Profile.Name)
}

func TestApplicationSlotFreedByWithdraw(t *testing.T) {
	db := New()
	ctx := context.Background()
	apps := db.Applications()

	a := &domain.Application{RecruitmentID: 1, UserID: 2, Status: domain.ApplicationPending}
	require.NoError(t, apps.Create(ctx, a))
	assert.ErrorIs(t, apps.Create(ctx, &domain.Application{RecruitmentID: 1, UserID: 2}), domain.ErrConflict)

	a.Status = domain.ApplicationWithdrawn
	ok, err := apps.Save(ctx, a, domain.ApplicationPending)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, apps.Create(ctx, &domain.Application{RecruitmentID: 1, UserID: 2}))
}

func TestPermissionTraversalChecksEverySwitch(t *testing.T) {
	db := New()
	ctx := context.Background()
	g := db.Graph()

	role := &domain.Role{Code: "admin", IsActive: true}
	require.NoError(t, g.CreateRole(ctx, role))
	perm := &domain.Permission{Code: "club:create", IsActive: true}
	require.NoError(t, g.CreatePermission(ctx, perm))
	ur := &domain.UserRole{FromID: 7, ToID: role.ID, IsActive: true}
	require.NoError(t, g.CreateUserRole(ctx, ur))
	rp := &domain.RolePermission{FromID: role.ID, ToID: perm.ID, IsActive: true}
	require.NoError(t, g.CreateRolePermission(ctx, rp))

	codes, err := g.UserPermissionCodes(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"club:create"}, codes)

	require.NoError(t, g.SetRolePermissionActive(ctx, rp.ID, false))
	codes, err = g.UserPermissionCodes(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, codes)

	roles, err := g.UserRoleCodes(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, roles)
}
