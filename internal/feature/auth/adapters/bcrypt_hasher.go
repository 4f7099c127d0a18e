package adapters

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"music_backend/internal/feature/auth/usecase"
)

type bcryptHasher struct {
	cost int
}

var _ usecase.PasswordHasher = (*bcryptHasher)(nil)

// NewBcryptHasher returns a hasher using cost, raised to bcrypt.DefaultCost
// when lower.
func NewBcryptHasher(cost int) *bcryptHasher {
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

// Hash returns a salted bcrypt hash of plaintext.
func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", usecase.ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Check reports whether plaintext matches hash. A malformed hash never matches.
func (h *bcryptHasher) Check(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
