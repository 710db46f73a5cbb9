package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPasetoService(t *testing.T, key string) *PasetoService {
	t.Helper()
	svc, err := NewPasetoService([]byte(key))
	require.NoError(t, err)
	return svc
}

func TestNewPasetoService_KeyLength(t *testing.T) {
	t.Parallel()

	_, err := NewPasetoService([]byte("too-short"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")

	_, err = NewPasetoService([]byte("exactly-32-bytes-of-key-material"))
	assert.NoError(t, err)
}

func TestPasetoService_CreateAndVerify(t *testing.T) {
	t.Parallel()

	svc := newTestPasetoService(t, "exactly-32-bytes-of-key-material")

	token, err := svc.CreateToken("a1b2c3d4e5f60718", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	accountID, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4e5f60718", accountID)
}

func TestPasetoService_ExpiredToken(t *testing.T) {
	t.Parallel()

	svc := newTestPasetoService(t, "exactly-32-bytes-of-key-material")

	token, err := svc.CreateToken("a1b2c3d4e5f60718", -time.Minute)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestPasetoService_WrongKey(t *testing.T) {
	t.Parallel()

	svc := newTestPasetoService(t, "exactly-32-bytes-of-key-material")
	other := newTestPasetoService(t, "a-different-32-byte-key-material")

	token, err := svc.CreateToken("a1b2c3d4e5f60718", time.Hour)
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasetoService_MalformedToken(t *testing.T) {
	t.Parallel()

	svc := newTestPasetoService(t, "exactly-32-bytes-of-key-material")

	_, err := svc.VerifyToken("v4.local.garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
