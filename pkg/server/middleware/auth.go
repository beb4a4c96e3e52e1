package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/de-tools/booking-atlas/pkg/handlers/render"
	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/services/auth"
	"github.com/rs/zerolog"
)

type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}

// Authenticate resolves the bearer token into a principal stored in the request context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			header := req.Header.Get("Authorization")
			if header == "" {
				render.Error(w, req, http.StatusUnauthorized, "missing authorization header")
				return
			}

			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				render.Error(w, req, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			principal, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				zerolog.Ctx(req.Context()).Debug().Err(err).Msg("token rejected")
				render.Error(w, req, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := auth.WithPrincipal(req.Context(), principal)
			logger := zerolog.Ctx(ctx).With().Str("user", principal.Username).Logger()
			ctx = logger.WithContext(ctx)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			principal, ok := auth.PrincipalFrom(req.Context())
			if !ok {
				render.Error(w, req, http.StatusUnauthorized, "authentication required")
				return
			}
			if !slices.Contains(roles, principal.Role) {
				render.Error(w, req, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
