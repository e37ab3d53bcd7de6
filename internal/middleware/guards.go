package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deckhall/deckapi/internal/apierr"
	"github.com/deckhall/deckapi/internal/auth"
)

// RequireLoggedIn short-circuits with 401 when no identity is attached.
// Protects creation-type operations (deck creation, liking a deck).
func RequireLoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := auth.RequireLoggedIn(r.Context()); err != nil {
			apierr.Write(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCorrectUser short-circuits with 401 unless the attached identity
// matches the {username} route parameter. Protects user self-service routes.
func RequireCorrectUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := auth.RequireCorrectUser(r.Context(), chi.URLParam(r, "username")); err != nil {
			apierr.Write(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireDeckCreator short-circuits unless the attached identity created the
// deck named by the {id} route parameter: 404 when the deck does not exist,
// 401 when it exists but belongs to someone else.
func RequireDeckCreator(guards *auth.Guards) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := guards.RequireDeckCreator(r.Context(), chi.URLParam(r, "id")); err != nil {
				apierr.Write(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
