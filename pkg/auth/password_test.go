package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	pm := NewPasswordManagerWithCost(bcrypt.MinCost)

	hash, err := pm.HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, pm.ComparePassword(hash, "secret123"))
	assert.Error(t, pm.ComparePassword(hash, "Secret123"))
	assert.Error(t, pm.ComparePassword(hash, ""))
}

func TestHashesAreSalted(t *testing.T) {
	pm := NewPasswordManagerWithCost(bcrypt.MinCost)

	first, err := pm.HashPassword("secret123")
	require.NoError(t, err)
	second, err := pm.HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCostOutOfRangeFallsBack(t *testing.T) {
	pm := NewPasswordManagerWithCost(99)

	hash, err := pm.HashPassword("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}
