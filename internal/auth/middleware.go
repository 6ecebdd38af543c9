package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	apperrors "rayon/internal/errors"
	"rayon/internal/response"
)

type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

// Authenticate attaches the caller identity when a bearer token is present.
// Requests without credentials continue as guests; bad credentials are rejected.
func Authenticate(resolver IdentityResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				response.WriteError(w, r, apperrors.NewUnauthorizedError("malformed authorization header"), logger)
				return
			}

			id, err := resolver.Resolve(r.Context(), strings.TrimSpace(token))
			if err != nil {
				response.WriteError(w, r, err, logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func RequireAuth(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				response.WriteError(w, r, apperrors.NewUnauthorizedError("authentication required"), logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok {
				response.WriteError(w, r, apperrors.NewUnauthorizedError("authentication required"), logger)
				return
			}
			if !id.IsAdmin() {
				response.WriteError(w, r, apperrors.NewForbiddenError("admin role required"), logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
