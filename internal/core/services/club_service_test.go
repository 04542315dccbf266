package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/core/domain"
)

func TestCreateClubMakesCreatorPresident(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")

	club := f.club(president, "  Chess  ")
	assert.Equal(t, "Chess", club.Name)
	assert.Equal(t, president.ID, club.PresidentID)
	assert.Equal(t, 1, club.MemberCount)

	members, err := f.clubs.ListMembers(f.ctx, club.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, domain.MemberRolePresident, members[0].Role)

	_, err = f.clubs.CreateClub(f.ctx, president, CreateClubInput{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClubMembership(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	member := f.register("5552000")
	club := f.club(president, "Chess")

	_, err := f.clubs.AddMember(f.ctx, member, club.ID, member.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	added, err := f.clubs.AddMember(f.ctx, president, club.ID, member.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.MemberRoleMember, added.Role)

	_, err = f.clubs.AddMember(f.ctx, president, club.ID, member.ID, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)
	_, err = f.clubs.AddMember(f.ctx, president, club.ID, 999, "")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	_, err = f.clubs.AddMember(f.ctx, president, club.ID, member.ID, domain.MemberRolePresident)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.clubs.GetClub(f.ctx, club.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.MemberCount)

	assert.ErrorIs(t, f.clubs.RemoveMember(f.ctx, president, club.ID, president.ID), domain.ErrInvalidState)
	require.NoError(t, f.clubs.RemoveMember(f.ctx, president, club.ID, member.ID))
	assert.ErrorIs(t, f.clubs.RemoveMember(f.ctx, president, club.ID, member.ID), domain.ErrMemberNotFound)

	got, err = f.clubs.GetClub(f.ctx, club.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MemberCount)

	// a removed member can rejoin
	_, err = f.clubs.AddMember(f.ctx, president, club.ID, member.ID, "")
	assert.NoError(t, err)
}

func TestUpdateClubPresidentOnly(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	other := f.register("5552000")
	club := f.club(president, "Chess")

	name := "Chess & Go"
	_, err := f.clubs.UpdateClub(f.ctx, other, club.ID, UpdateClubInput{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := f.clubs.UpdateClub(f.ctx, president, club.ID, UpdateClubInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	_, err = f.clubs.UpdateClub(f.ctx, president, 999, UpdateClubInput{})
	assert.ErrorIs(t, err, domain.ErrClubNotFound)
}

func TestListClubsPages(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	for _, name := range []string{"Chess", "Go", "Tennis"} {
		f.club(president, name)
	}

	clubs, total, err := f.clubs.ListClubs(f.ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, clubs, 1)
	assert.Equal(t, "Go", clubs[0].Name)

	_, err = f.clubs.ListMembers(f.ctx, 999)
	assert.ErrorIs(t, err, domain.ErrClubNotFound)
}
