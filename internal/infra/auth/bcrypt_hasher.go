// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"medtracker/internal/domain/service"

	"github.com/pkg/errors"
)

// Passwords containing these words are rejected regardless of complexity.
var forbiddenPasswordWords = []string{"password", "admin", "medtracker"}

const minPasswordLength = 8

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher is the constructor for bcryptHasher with the default cost.
func NewBcryptHasher() service.PasswordHasher {
	return NewBcryptHasherWithCost(bcrypt.DefaultCost)
}

// NewBcryptHasherWithCost constructs a hasher with an explicit bcrypt cost,
// e.g. from configuration, or a low cost in tests.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &bcryptHasher{cost: cost}
}

// Hash validates password strength and generates a salted bcrypt hash.
// bcrypt handles salt generation itself.
func (h *bcryptHasher) Hash(password string) (string, error) {
	if err := h.ValidatePasswordStrength(password); err != nil {
		return "", err
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt hash failed")
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength enforces the password policy for new credentials.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	if len(password) < minPasswordLength {
		return errors.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	if !h.hasLowercase(password) {
		return errors.New("password must contain at least one lowercase letter")
	}
	if !h.hasUppercase(password) {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !h.hasNumbers(password) {
		return errors.New("password must contain at least one number")
	}
	if !h.hasSpecialChars(password) {
		return errors.New("password must contain at least one special character")
	}
	if h.containsForbiddenWords(password, forbiddenPasswordWords) {
		return errors.New("password contains forbidden words")
	}

	return nil
}

func (h *bcryptHasher) hasUppercase(s string) bool {
	return strings.ContainsFunc(s, unicode.IsUpper)
}

func (h *bcryptHasher) hasLowercase(s string) bool {
	return strings.ContainsFunc(s, unicode.IsLower)
}

func (h *bcryptHasher) hasNumbers(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

func (h *bcryptHasher) hasSpecialChars(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func (h *bcryptHasher) containsForbiddenWords(password string, words []string) bool {
	lowered := strings.ToLower(password)
	for _, word := range words {
		if strings.Contains(lowered, word) {
			return true
		}
	}

	return false
}
