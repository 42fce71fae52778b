package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type sessionKey struct{}

// WithSession stores the caller's session on ctx.
func WithSession(ctx context.Context, s auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored by AuthRequired.
func SessionFromContext(ctx context.Context) (auth.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(auth.Session)
	return s, ok
}

// AuthRequired must run after jwtauth.Verifier. It rejects revoked and
// non-access tokens and puts the session on the request context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			raw := jwtauth.TokenFromHeader(r)
			revoked, err := jwtService.IsTokenRevoked(r.Context(), raw)
			if err != nil {
				response.HandleError(w, fmt.Errorf("failed to check token revocation: %w", err))
				return
			}
			if revoked {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			session, err := auth.SessionFromClaims(raw, claims)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		}
		return http.HandlerFunc(hfn)
	}
}
