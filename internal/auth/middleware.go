// internal/auth/middleware.go
package auth

import (
	"context"
	"log/slog"
	"net/http"

	"netzero/internal/apperr"
	"netzero/internal/users"
)

type contextKey struct{}

// FromContext returns the authenticated user placed by RequireBasic.
func FromContext(ctx context.Context) (*users.User, bool) {
	u, ok := ctx.Value(contextKey{}).(*users.User)
	return u, ok
}

// RequireBasic re-authenticates every request via HTTP Basic (username is the
// email) and injects the user into the request context. There are no
// sessions or tokens.
func RequireBasic(svc Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, password, ok := r.BasicAuth()
			if !ok {
				apperr.Write(w, logger, apperr.Unauthorized("invalid credentials"))
				return
			}

			u, err := svc.Authenticate(r.Context(), email, password)
			if err != nil {
				apperr.Write(w, logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
