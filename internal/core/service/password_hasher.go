package service

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicware/clinic-backoffice/internal/core/ports"
)

// BcryptHasher implements ports.PasswordHasher using bcrypt. The salt is
// embedded in each hash, so raising the cost later keeps old hashes
// verifiable.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext matches hash. Any error, including a
// malformed stored hash, counts as a mismatch.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

var _ ports.PasswordHasher = (*BcryptHasher)(nil)
