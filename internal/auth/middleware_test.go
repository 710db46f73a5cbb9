package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkmeet/sparkmeet-backend/internal/httputil"
)

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(GetUserIDFromContext(r.Context())))
	})
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var body httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRequireAuth_ValidToken(t *testing.T) {
	t.Parallel()

	tokens := NewJWTService([]byte("test-signing-secret"))
	token, err := tokens.CreateToken("a1b2c3d4e5f60718", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	RequireAuth(tokens)(protectedEcho(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a1b2c3d4e5f60718", rec.Body.String())
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	tokens := NewJWTService([]byte("test-signing-secret"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	RequireAuth(tokens)(protectedEcho(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeMissingAuth, decodeErrorBody(t, rec).Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	t.Parallel()

	tokens := NewJWTService([]byte("test-signing-secret"))
	token, err := tokens.CreateToken("a1b2c3d4e5f60718", time.Hour)
	require.NoError(t, err)

	// A bare token without a scheme is rejected; so is a wrong scheme.
	for _, header := range []string{token, "Basic " + token, "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		RequireAuth(tokens)(protectedEcho(t)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Equal(t, httputil.CodeInvalidAuthHeader, decodeErrorBody(t, rec).Code)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	tokens := NewJWTService([]byte("test-signing-secret"))
	token, err := tokens.CreateToken("a1b2c3d4e5f60718", -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	RequireAuth(tokens)(protectedEcho(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeTokenExpired, decodeErrorBody(t, rec).Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	tokens := NewJWTService([]byte("test-signing-secret"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	RequireAuth(tokens)(protectedEcho(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeInvalidToken, decodeErrorBody(t, rec).Code)
}

func TestGetUserIDFromContext_Unset(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetUserIDFromContext(req.Context()))
}
