package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "hireme/pkg/domain-errors"
)

const MinPasswordLength = 6

func hashPassword(password string, cost int) (string, error) {
	if len(password) < MinPasswordLength {
		return "", dErrors.New(dErrors.CodeValidation, "password must be at least 6 characters long")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "password is too long")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// verifyPassword reports whether password matches hash. Malformed hashes are errors.
func verifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("could not verify password: %w", err)
	}
}
