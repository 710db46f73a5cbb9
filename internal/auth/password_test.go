package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_ProducesVerifiableDigest(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	assert.NotEqual(t, "correct horse battery staple", digest)

	assert.True(t, CheckPassword(digest, "correct horse battery staple"))
	assert.False(t, CheckPassword(digest, "wrong password"))
}

func TestHashPassword_DigestsAreSalted(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("same password")
	require.NoError(t, err)
	second, err := HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCheckPassword_EmptyDigestNeverMatches(t *testing.T) {
	t.Parallel()

	// Google-only accounts store no digest; the password path must be a
	// dead end for them.
	assert.False(t, CheckPassword("", ""))
	assert.False(t, CheckPassword("", "anything"))
}

func TestCheckPassword_MalformedDigest(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPassword("not-a-bcrypt-digest", "password"))
}
