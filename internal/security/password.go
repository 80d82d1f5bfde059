package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the most bcrypt reads. Longer passwords are cut to
// this length on both hash and verify, so they still round-trip.
const MaxPasswordBytes = 72

var ErrPasswordMismatch = errors.New("password mismatch")

// BcryptHasher is the hash/verify capability used by the credential flow.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(passwordBytes(plain), h.Cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// Verify compares a stored bcrypt hash with a plaintext password.
func (h BcryptHasher) Verify(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), passwordBytes(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

func passwordBytes(plain string) []byte {
	b := []byte(plain)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}
