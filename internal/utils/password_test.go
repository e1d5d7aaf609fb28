package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("admin123", 4) // minimum bcrypt cost keeps the test fast
	require.NoError(t, err)
	require.NotEqual(t, "admin123", hash)

	assert.True(t, VerifyPassword(hash, "admin123"))
	assert.False(t, VerifyPassword(hash, "emp123"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "admin123"))
}
