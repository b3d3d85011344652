package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "Valid password",
			password: "motdepasse123",
		},
		{
			name:     "Empty password",
			password: "", // bcrypt can hash empty strings
		},
		{
			name:     "Password with accents",
			password: "mot-de-passe-très-sécurisé!@#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, strings.HasPrefix(hash, "$2"))
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("motdepasse123")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "motdepasse123"))
	assert.False(t, VerifyPassword(hash, "mauvais"))
	assert.False(t, VerifyPassword("pas-un-hash", "motdepasse123"))
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := HashPassword("motdepasse123")
	require.NoError(t, err)
	second, err := HashPassword("motdepasse123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRandomSlugSuffix(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		suffix := RandomSlugSuffix()
		assert.Len(t, suffix, 4)
		seen[suffix] = true
	}
	// Collisions are possible but 50 identical draws are not.
	assert.Greater(t, len(seen), 1)
}
