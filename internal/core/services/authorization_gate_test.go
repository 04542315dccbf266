package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
)

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	f := newFixture(t)

	_, err := f.gate.Authenticate(f.ctx, "")
	assert.ErrorIs(t, err, domain.ErrSessionInvalid)

	_, err = f.gate.Authenticate(f.ctx, "not.a.token")
	assert.ErrorIs(t, err, domain.ErrSessionInvalid)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthenticateCheckOrder(t *testing.T) {
	f := newFixture(t)
	f.register("5551000")
	_, token, err := f.identity.Login(f.ctx, "5551000", testCredential)
	require.NoError(t, err)
	actor, err := f.gate.Authenticate(f.ctx, token.Token)
	require.NoError(t, err)

	// disabled only
	require.NoError(t, f.identity.Disable(f.ctx, actor.ID))
	_, err = f.gate.Authenticate(f.ctx, token.Token)
	assert.ErrorIs(t, err, domain.ErrAccountDisabled)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	require.NoError(t, f.identity.Enable(f.ctx, actor.ID))

	// revoked beats disabled
	require.NoError(t, f.identity.RotateCredential(f.ctx, actor, testCredential, "secret2"))
	require.NoError(t, f.identity.Disable(f.ctx, actor.ID))
	_, err = f.gate.Authenticate(f.ctx, token.Token)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)

	// a deleted account beats both
	require.NoError(t, f.identity.Delete(f.ctx, actor.ID))
	_, err = f.gate.Authenticate(f.ctx, token.Token)
	assert.ErrorIs(t, err, domain.ErrAccountGone)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRequireShortCircuits(t *testing.T) {
	f := newFixture(t)
	actor := f.register("5551000")

	called := false
	err := f.gate.Require(f.ctx, actor,
		IsAccount(actor.ID),
		f.gate.HasPermission("club:create"),
		func(context.Context, *domain.Account) error {
			called = true
			return nil
		},
	)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, err.Error(), "club:create")
	assert.False(t, called)

	f.grant(actor, "student", "club:create")
	assert.NoError(t, f.gate.Require(f.ctx, actor, f.gate.HasPermission("club:create"), f.gate.HasRole("student")))

	err = f.gate.Require(f.ctx, actor, f.gate.HasRole("admin"))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, err.Error(), "admin")
}

func TestOwnershipPredicates(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	other := f.register("5552000")
	club := f.club(president, "Chess")
	iv := &domain.Interview{ID: 7, InterviewerID: other.ID}

	assert.NoError(t, f.gate.Require(f.ctx, president, IsPresidentOf(club)))
	assert.ErrorIs(t, f.gate.Require(f.ctx, other, IsPresidentOf(club)), domain.ErrForbidden)
	assert.NoError(t, f.gate.Require(f.ctx, other, IsInterviewerOf(iv)))
	assert.ErrorIs(t, f.gate.Require(f.ctx, president, IsInterviewerOf(iv)), domain.ErrForbidden)

	either := AnyOf(IsInterviewerOf(iv), IsPresidentOf(club))
	assert.NoError(t, f.gate.Require(f.ctx, president, either))
	assert.NoError(t, f.gate.Require(f.ctx, other, either))

	stranger := f.register("5553000")
	assert.ErrorIs(t, f.gate.Require(f.ctx, stranger, either), domain.ErrForbidden)
	assert.ErrorIs(t, f.gate.Require(f.ctx, stranger, AnyOf()), domain.ErrForbidden)
}

func TestAnyOfPropagatesNonForbiddenErrors(t *testing.T) {
	f := newFixture(t)
	actor := f.register("5551000")
	boom := errors.New("storage unavailable")

	err := f.gate.Require(f.ctx, actor, AnyOf(
		func(context.Context, *domain.Account) error { return boom },
		IsAccount(actor.ID),
	))
	assert.ErrorIs(t, err, boom)
}

func TestReconfirmSeesCommittedState(t *testing.T) {
	f := newFixture(t)
	actor := f.register("5551000")

	err := f.db.WithinTx(f.ctx, func(ctx context.Context, tx repositories.Store) error {
		current, err := f.gate.Reconfirm(ctx, tx, actor)
		require.NoError(t, err)
		assert.Equal(t, actor.ID, current.ID)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, f.identity.Disable(f.ctx, actor.ID))
	err = f.db.WithinTx(f.ctx, func(ctx context.Context, tx repositories.Store) error {
		_, err := f.gate.Reconfirm(ctx, tx, actor)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrAccountDisabled)

	// a mutation with the stale actor fails the same way
	_, err = f.clubs.CreateClub(f.ctx, actor, CreateClubInput{Name: "Chess"})
	assert.ErrorIs(t, err, domain.ErrAccountDisabled)
}
