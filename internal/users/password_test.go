// internal/users/password_test.go
package users

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	encoded, err := HashPassword("SecurePass123!")
	require.NoError(t, err)
	require.True(t, strings.Contains(encoded, "$"), "encoded value must carry the salt")

	ok, err := VerifyPassword("SecurePass123!", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("WrongPass123!", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordIsSalted(t *testing.T) {
	a, err := HashPassword("same-password")
	require.NoError(t, err)
	b, err := HashPassword("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "two hashes of the same password must differ by salt")
}

func TestVerifyPasswordMalformedEncoding(t *testing.T) {
	_, err := VerifyPassword("whatever", "not-an-encoded-hash")
	assert.Error(t, err)

	_, err = VerifyPassword("whatever", "!!!$???")
	assert.Error(t, err)
}
