package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_CreateAndVerify(t *testing.T) {
	t.Parallel()

	svc := NewJWTService([]byte("test-signing-secret"))

	token, err := svc.CreateToken("a1b2c3d4e5f60718", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	accountID, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4e5f60718", accountID)
}

func TestJWTService_TokensAreUnique(t *testing.T) {
	t.Parallel()

	svc := NewJWTService([]byte("test-signing-secret"))

	// Same subject, same duration, same second: the jti must still make
	// the encoded tokens differ.
	first, err := svc.CreateToken("a1b2c3d4e5f60718", time.Hour)
	require.NoError(t, err)
	second, err := svc.CreateToken("a1b2c3d4e5f60718", time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	t.Parallel()

	svc := NewJWTService([]byte("test-signing-secret"))

	token, err := svc.CreateToken("a1b2c3d4e5f60718", -time.Minute)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_WrongKey(t *testing.T) {
	t.Parallel()

	svc := NewJWTService([]byte("right-secret"))
	other := NewJWTService([]byte("wrong-secret"))

	token, err := svc.CreateToken("a1b2c3d4e5f60718", time.Hour)
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_MalformedToken(t *testing.T) {
	t.Parallel()

	svc := NewJWTService([]byte("test-signing-secret"))

	_, err := svc.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_EmptySubjectRejected(t *testing.T) {
	t.Parallel()

	svc := NewJWTService([]byte("test-signing-secret"))

	token, err := svc.CreateToken("", time.Hour)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
