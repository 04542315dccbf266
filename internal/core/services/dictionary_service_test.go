package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
)

func (f *fixture) school(name, province, city string) *domain.School {
	f.t.Helper()
	school, err := f.dict.CreateSchool(f.ctx, CreateSchoolInput{Name: name, Province: province, City: city})
	require.NoError(f.t, err)
	return school
}

func TestDictionaryListings(t *testing.T) {
	f := newFixture(t)
	tech := f.school("Zhejiang Tech", "Zhejiang", "Hangzhou")
	f.school("Ningbo University", "Zhejiang", "Ningbo")
	f.school("Fudan University", "Shanghai", "Shanghai")
	require.NoError(t, f.db.Dictionary().CreateSchool(f.ctx, &domain.School{Name: "Closed College", Province: "Hainan", City: "Haikou"}))

	schools, err := f.dict.ListSchools(f.ctx, repositories.SchoolFilter{})
	require.NoError(t, err)
	require.Len(t, schools, 3, "disabled schools are hidden")
	assert.Equal(t, "Fudan University", schools[0].Name)

	schools, err = f.dict.ListSchools(f.ctx, repositories.SchoolFilter{Province: "Zhejiang", Keyword: "Tech"})
	require.NoError(t, err)
	require.Len(t, schools, 1)
	assert.Equal(t, tech.ID, schools[0].ID)

	provinces, err := f.dict.ListProvinces(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shanghai", "Zhejiang"}, provinces)

	cities, err := f.dict.ListCities(f.ctx, "Zhejiang")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hangzhou", "Ningbo"}, cities)

	_, err = f.dict.GetSchool(f.ctx, 4)
	assert.ErrorIs(t, err, domain.ErrSchoolNotFound)
	got, err := f.dict.GetSchool(f.ctx, tech.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hangzhou", got.City)
}

func TestMajorSelection(t *testing.T) {
	f := newFixture(t)
	tech := f.school("Zhejiang Tech", "Zhejiang", "Hangzhou")

	_, err := f.dict.CreateMajor(f.ctx, CreateMajorInput{Name: "Physics", Category: "Science"})
	require.NoError(t, err)
	_, err = f.dict.CreateMajor(f.ctx, CreateMajorInput{Name: "Applied Physics", Category: "Engineering", SchoolID: &tech.ID})
	require.NoError(t, err)
	_, err = f.dict.CreateMajor(f.ctx, CreateMajorInput{Name: "History", Category: "Humanities"})
	require.NoError(t, err)

	general, err := f.dict.ListMajors(f.ctx, repositories.MajorFilter{})
	require.NoError(t, err)
	require.Len(t, general, 2)
	assert.Equal(t, "History", general[0].Name)

	own, err := f.dict.ListMajors(f.ctx, repositories.MajorFilter{SchoolID: &tech.ID})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Applied Physics", own[0].Name)

	// a keyword searches every school
	found, err := f.dict.ListMajors(f.ctx, repositories.MajorFilter{SchoolID: &tech.ID, Keyword: "Physics"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	categories, err := f.dict.ListMajorCategories(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Engineering", "Humanities", "Science"}, categories)
}

func TestCreateDictionaryEntriesValidates(t *testing.T) {
	f := newFixture(t)
	missing := uint(99)

	_, err := f.dict.CreateSchool(f.ctx, CreateSchoolInput{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.dict.CreateMajor(f.ctx, CreateMajorInput{Name: "Physics", SchoolID: &missing})
	assert.ErrorIs(t, err, domain.ErrSchoolNotFound)
}

func TestSchoolReferencesMustExist(t *testing.T) {
	f := newFixture(t)
	tech := f.school("Zhejiang Tech", "Zhejiang", "Hangzhou")
	missing := uint(99)

	_, err := f.identity.Register(f.ctx, "5551000", testCredential, domain.Profile{SchoolID: &missing})
	assert.ErrorIs(t, err, domain.ErrSchoolNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.identity.GetAccountByHandle(f.ctx, "5551000")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound, "nothing is stored")

	_, _, err = f.identity.Provision(f.ctx, "5551001", domain.Profile{SchoolID: &missing})
	assert.ErrorIs(t, err, domain.ErrSchoolNotFound)

	_, token, err := f.identity.Provision(f.ctx, "5551002", domain.Profile{})
	require.NoError(t, err)
	pending, err := f.gate.Authenticate(f.ctx, token.Token)
	require.NoError(t, err)
	err = f.identity.Initialize(f.ctx, pending, testCredential, domain.Profile{SchoolID: &missing})
	assert.ErrorIs(t, err, domain.ErrSchoolNotFound)
	require.NoError(t, f.identity.Initialize(f.ctx, pending, testCredential, domain.Profile{SchoolID: &tech.ID}))

	president := f.register("5551003")
	_, err = f.clubs.CreateClub(f.ctx, president, CreateClubInput{Name: "Chess", SchoolID: &missing})
	assert.ErrorIs(t, err, domain.ErrSchoolNotFound)
	club, err := f.clubs.CreateClub(f.ctx, president, CreateClubInput{Name: "Chess", SchoolID: &tech.ID})
	require.NoError(t, err)
	assert.Equal(t, tech.ID, *club.SchoolID)
}
