package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Harsh-0z/civic-flow-backend/internal/auth"
	"github.com/Harsh-0z/civic-flow-backend/internal/repository"
)

const bearerPrefix = "Bearer "

// NewAuthnMiddleware builds the per-request authentication filter.
//
// It extracts and verifies the bearer token, re-checks that the principal
// still exists, and attaches the authenticated identity to the request
// context. It never rejects a request itself: a missing, malformed or
// expired token simply leaves the request unauthenticated, and the access
// policy downstream decides whether that matters. Collapsing this into an
// all-or-nothing gate would break public routes for clients sending a
// stale or garbage Authorization header.
//
// The role used downstream is the token's embedded role claim, not the
// stored one. A role changed at the store after issuance therefore takes
// effect only at the next login; deleting the principal cuts access
// immediately via the existence re-check.
func NewAuthnMiddleware(tokens *auth.TokenCodec, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if _, ok := auth.GetUserFromContext(ctx); ok {
				// Already authenticated by an earlier filter; never overwrite.
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
			claims, err := tokens.Verify(tokenString)
			if err != nil {
				// Expired or tampered tokens are swallowed here; the policy
				// layer turns the missing identity into a 401 where required.
				next.ServeHTTP(w, r)
				return
			}

			if _, err := users.GetByEmail(ctx, claims.Subject); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					// Principal deleted after issuance; token is worthless.
					next.ServeHTTP(w, r)
					return
				}
				log.Printf("error resolving principal %s for %s %s: %v", claims.Subject, r.Method, r.URL.Path, err)
				http.Error(w, "authentication error", http.StatusInternalServerError)
				return
			}

			ctx = auth.SetUserContext(ctx, auth.AuthenticatedPrincipal{
				Identity: claims.Subject,
				Role:     claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
