package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sparkmeet/sparkmeet-backend/internal/httputil"
	"github.com/sparkmeet/sparkmeet-backend/internal/logging"
)

type contextKey string

// UserIDContextKey holds the authenticated account id for downstream handlers.
const UserIDContextKey contextKey = "userID"

// RequireAuth verifies the Authorization bearer token and injects the
// account id into the request context. Tokens are accepted from the header
// only, never from cookies or query parameters.
func RequireAuth(tokens TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := logging.GetLoggerFromContext(r.Context())

			header := r.Header.Get("Authorization")
			if header == "" {
				logger.Warn("request rejected: missing authorization header")
				httputil.RespondErrorWithCode(w, "authorization required", httputil.CodeMissingAuth, http.StatusUnauthorized)
				return
			}

			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				logger.Warn("request rejected: malformed authorization header")
				httputil.RespondErrorWithCode(w, "authorization header must be 'Bearer {token}'", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
				return
			}

			accountID, err := tokens.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				if errors.Is(err, ErrExpiredToken) {
					logger.Warn("request rejected: token expired")
					httputil.RespondErrorWithCode(w, "token expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
					return
				}
				logger.Warn("request rejected: invalid token")
				httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDContextKey, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext returns the authenticated account id set by
// RequireAuth, or empty when the request was not authenticated.
func GetUserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(UserIDContextKey).(string)
	return id
}
