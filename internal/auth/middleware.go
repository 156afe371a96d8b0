// Package auth guards question writes behind an optional admin bearer token.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

type claimsKey struct{}

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// RequireAdmin rejects requests without a valid admin bearer token. A nil
// validator disables the guard.
func RequireAdmin(validator TokenValidator, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if validator == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				httperrors.RespondUnauthorized(w)
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("admin token rejected")
				httperrors.RespondUnauthorized(w)
				return
			}
			if claims.Role != jwt.RoleAdmin {
				logger.Warn().Str("subject", claims.Subject).Str("role", claims.Role).Msg("token lacks admin role")
				httperrors.RespondUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the admin claims attached by RequireAdmin.
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*jwt.Claims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
