package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Format(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	parts := strings.Split(hash, ".")
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], scryptKeyLen*2)
	assert.Len(t, parts[1], saltLen*2)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := HashPassword("secret1")
	require.NoError(t, err)
	second, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestComparePassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.True(t, ComparePassword("secret1", hash))
	assert.False(t, ComparePassword("secret2", hash))
	assert.False(t, ComparePassword("", hash))
}

func TestComparePassword_MalformedStored(t *testing.T) {
	for _, stored := range []string{"", "nodot", "zz.zz", "deadbeef.not-hex"} {
		assert.False(t, ComparePassword("secret1", stored), "stored %q should not match", stored)
	}
}
