package middleware

import (
	"net/http"
	"strings"

	"github.com/deckhall/deckapi/internal/auth"
)

// TokenVerifier validates a bearer token string and returns the identity it
// asserts.
type TokenVerifier interface {
	Verify(tokenString string) (auth.Identity, error)
}

const bearerScheme = "bearer "

// Authenticate attaches a verified identity to the request context when the
// request carries a valid bearer token. It never terminates the request:
// missing headers, malformed tokens, and bad signatures all proceed
// anonymously, and enforcement is left entirely to downstream guards.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := header
			if len(token) >= len(bearerScheme) && strings.EqualFold(token[:len(bearerScheme)], bearerScheme) {
				token = token[len(bearerScheme):]
			}
			token = strings.TrimSpace(token)

			identity, err := verifier.Verify(token)
			if err != nil {
				// Invalid credential: proceed anonymously
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.SetIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
