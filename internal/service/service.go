package service

import (
	"barefoot/internal/apperr"
	"barefoot/internal/auth"
	"errors"
	"time"

	"gorm.io/gorm"
)

// TokenService issues and verifies identity tokens.
type TokenService interface {
	Issue(userID string, isVerified bool, email, role string) (string, time.Time, error)
	Verify(token string) (*auth.Claims, error)
}

// PasswordService hashes and verifies passwords.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// lookupErr maps a store lookup failure onto notFound or an internal error.
func lookupErr(err error, notFound *apperr.Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperr.Internal(err)
}
