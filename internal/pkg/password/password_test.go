package password

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestVault() *Vault {
	return NewVault(bcrypt.MinCost)
}

func TestHashAndVerify(t *testing.T) {
	v := newTestVault()

	hash, err := v.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, v.Verify("secret1", hash))
	assert.False(t, v.Verify("secret2", hash))
}

func TestHashRejectsEmpty(t *testing.T) {
	_, err := newTestVault().Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestVerifyMalformedDigest(t *testing.T) {
	v := newTestVault()

	assert.False(t, v.Verify("secret1", "not-a-bcrypt-hash"))
	assert.False(t, v.Verify("secret1", ""))
	assert.False(t, v.Verify("", "$2a$04$abcdefghijklmnopqrstuu"))
}

func TestLongPasswordSymmetry(t *testing.T) {
	v := newTestVault()
	long := strings.Repeat("a", 100)

	hash, err := v.Hash(long)
	require.NoError(t, err)
	assert.True(t, v.Verify(long, hash))

	// identical in the first 72 bytes
	other := strings.Repeat("a", 72) + "different tail"
	assert.True(t, v.Verify(other, hash))
}

func TestTruncateMultiByteBoundary(t *testing.T) {
	// 71 ASCII bytes followed by a 3-byte rune straddles the ceiling
	raw := strings.Repeat("x", 71) + "密码"

	cut := Truncate(raw)
	assert.Len(t, cut, 71)
	assert.True(t, utf8.Valid(cut))

	v := newTestVault()
	hash, err := v.Hash(raw)
	require.NoError(t, err)
	assert.True(t, v.Verify(raw, hash))
}

func TestTruncateInvalidUTF8CutsAtCeiling(t *testing.T) {
	// continuation bytes with no rune start anywhere near the ceiling
	first := "a" + strings.Repeat("\x80", 80)
	second := "b" + strings.Repeat("\x80", 80)

	assert.Len(t, Truncate(first), MaxPasswordBytes)

	v := newTestVault()
	hash, err := v.Hash(first)
	require.NoError(t, err)
	assert.True(t, v.Verify(first, hash))
	assert.False(t, v.Verify(second, hash))
}

func TestTruncateShortInputUnchanged(t *testing.T) {
	assert.Equal(t, []byte("short"), Truncate("short"))
	assert.Len(t, Truncate(strings.Repeat("é", 36)), 72)
	assert.Len(t, Truncate(strings.Repeat("é", 40)), 72)
}

func TestNewVaultCostFallback(t *testing.T) {
	assert.Equal(t, DefaultCost, NewVault(0).cost)
	assert.Equal(t, DefaultCost, NewVault(bcrypt.MaxCost+1).cost)
	assert.Equal(t, bcrypt.MinCost, NewVault(bcrypt.MinCost).cost)
}
