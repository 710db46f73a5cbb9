package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func applySecurityHeaders(path string) *httptest.ResponseRecorder {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSecurityHeaders_Defaults(t *testing.T) {
	t.Parallel()

	rec := applySecurityHeaders("/health")

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'none'", rec.Header().Get("Content-Security-Policy"))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestSecurityHeaders_AuthResponsesNeverCached(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/auth/login", "/auth/refresh", "/auth/fetchProfile/a1b2c3d4e5f60718"} {
		rec := applySecurityHeaders(path)
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"), "path %s", path)
		assert.Equal(t, "default-src 'none'", rec.Header().Get("Content-Security-Policy"))
	}
}

func TestSecurityHeaders_SwaggerCSP(t *testing.T) {
	t.Parallel()

	rec := applySecurityHeaders("/swagger/index.html")
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "script-src 'self' 'unsafe-inline'")
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}
