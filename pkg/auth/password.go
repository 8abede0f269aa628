// pkg/auth/password.go
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the fixed work factor used for new password hashes.
const DefaultBcryptCost = 12

// PasswordManager handles password hashing and comparison
type PasswordManager struct {
	cost int
}

// NewPasswordManager creates a password manager with the default cost
func NewPasswordManager() *PasswordManager {
	return NewPasswordManagerWithCost(DefaultBcryptCost)
}

// NewPasswordManagerWithCost creates a password manager with an explicit
// bcrypt cost. Costs outside bcrypt's supported range fall back to the default.
func NewPasswordManagerWithCost(cost int) *PasswordManager {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordManager{cost: cost}
}

// HashPassword hashes a password using bcrypt
func (pm *PasswordManager) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), pm.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// ComparePassword compares a password with a hash
func (pm *PasswordManager) ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
