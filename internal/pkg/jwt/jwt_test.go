package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestIssuer() (*Issuer, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)}
	return NewIssuer("test-secret", "clubhub", clock.Now), clock
}

func TestIssueAndValidate(t *testing.T) {
	issuer, clock := newTestIssuer()

	tok, err := issuer.Issue(42, 3, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.True(t, clock.t.Add(time.Hour).Equal(tok.ExpiresAt))

	claims, err := issuer.Validate(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.AccountID)
	assert.Equal(t, 3, claims.RevocationStamp)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateExpired(t *testing.T) {
	issuer, clock := newTestIssuer()

	tok, err := issuer.Issue(1, 0, time.Minute)
	require.NoError(t, err)

	clock.t = clock.t.Add(2 * time.Minute)
	_, err = issuer.Validate(tok.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	issuer, clock := newTestIssuer()
	other := NewIssuer("another-secret", "clubhub", clock.Now)

	tok, err := other.Issue(1, 0, time.Hour)
	require.NoError(t, err)

	_, err = issuer.Validate(tok.Token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestValidateGarbage(t *testing.T) {
	issuer, _ := newTestIssuer()

	for _, raw := range []string{"", "abc", "a.b.c"} {
		_, err := issuer.Validate(raw)
		assert.ErrorIs(t, err, ErrTokenMalformed, raw)
	}
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	issuer, clock := newTestIssuer()

	claims := Claims{
		AccountID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
			Issuer:    "clubhub",
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Validate(raw)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestValidateRequiresExpiry(t *testing.T) {
	issuer, _ := newTestIssuer()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AccountID:        1,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "clubhub"},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = issuer.Validate(raw)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestValidateRejectsMissingAccount(t *testing.T) {
	issuer, _ := newTestIssuer()

	tok, err := issuer.Issue(0, 0, time.Hour)
	require.NoError(t, err)

	_, err = issuer.Validate(tok.Token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
