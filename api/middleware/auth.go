package middleware

import (
	"net/http"
	"strings"

	"github.com/ekomart/ekomart-backend/api/responses"
	pkgAuth "github.com/ekomart/ekomart-backend/pkg/auth"
	"github.com/ekomart/ekomart-backend/pkg/auth/session"
	"github.com/ekomart/ekomart-backend/pkg/config"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with a typed principal.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			principal := Principal{
				UserID:    claims.UserID,
				Role:      claims.Role,
				SessionID: claims.ID,
			}
			ctx := WithPrincipal(r.Context(), principal)

			if logg != nil {
				ctx = logg.WithUserID(ctx, principal.UserID.String())
				ctx = logg.WithActorRole(ctx, string(principal.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth seeds the principal when a valid bearer token is supplied but
// lets anonymous requests through. Used on public surfaces that behave
// differently for signed-in users.
func OptionalAuth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil || claims.ID == "" {
				next.ServeHTTP(w, r)
				return
			}
			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil || !ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := WithPrincipal(r.Context(), Principal{
				UserID:    claims.UserID,
				Role:      claims.Role,
				SessionID: claims.ID,
			})
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
