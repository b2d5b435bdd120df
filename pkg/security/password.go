package security

import (
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

const MinPasswordLen = 8

// PasswordHasher hashes and verifies app-user credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, password string) error
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt-backed hasher. Out-of-range costs
// fall back to the bcrypt default.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", apperrors.Validationf("password must be at least %d characters", MinPasswordLen)
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return string(bytes), nil
}

func (h *bcryptHasher) Compare(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return apperrors.Unauthorized(err)
	}
	return nil
}
