package password

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
	// MaxPasswordBytes is the bcrypt input ceiling
	MaxPasswordBytes = 72
)

var ErrEmptyPassword = errors.New("password must not be empty")

// Vault hashes and verifies credentials
type Vault struct {
	cost int
}

// NewVault creates a vault with the given bcrypt cost.
// Out-of-range costs fall back to DefaultCost.
func NewVault(cost int) *Vault {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Vault{cost: cost}
}

// Hash hashes a password using bcrypt
func (v *Vault) Hash(raw string) (string, error) {
	if raw == "" {
		return "", ErrEmptyPassword
	}
	bytes, err := bcrypt.GenerateFromPassword(Truncate(raw), v.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a hash. A malformed hash never matches.
func (v *Vault) Verify(raw, hash string) bool {
	if raw == "" || hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), Truncate(raw))
	return err == nil
}

// Truncate cuts raw to at most MaxPasswordBytes without splitting a UTF-8 sequence.
// Input that is not valid UTF-8 near the cut is cut at exactly MaxPasswordBytes.
func Truncate(raw string) []byte {
	b := []byte(raw)
	if len(b) <= MaxPasswordBytes {
		return b
	}
	for n := MaxPasswordBytes; n > MaxPasswordBytes-utf8.UTFMax; n-- {
		if utf8.RuneStart(b[n]) {
			return b[:n]
		}
	}
	return b[:MaxPasswordBytes]
}
