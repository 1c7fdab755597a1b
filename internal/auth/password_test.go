package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))
	assert.True(t, VerifyPassword("s3cret", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("s3cret")
	require.NoError(t, err)
	h2, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasswordFailsClosed(t *testing.T) {
	assert.False(t, VerifyPassword("s3cret", ""))
	assert.False(t, VerifyPassword("s3cret", "not-a-bcrypt-hash"))
	assert.False(t, VerifyPassword("", "$2a$10$garbage"))
}
