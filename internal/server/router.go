package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/deckhall/deckapi/internal/auth"
	deckmiddleware "github.com/deckhall/deckapi/internal/middleware"
)

// RouterOptions controls the construction of the API router. Handlers
// left nil skip their routes, which keeps tests free to mount only the
// surface under test.
type RouterOptions struct {
	Auth   *AuthHandlers
	Users  *UserHandlers
	Decks  *DeckHandlers
	Search *SearchHandlers

	// Verifier authenticates bearer tokens on every request. Required
	// for any route behind a guard.
	Verifier deckmiddleware.TokenVerifier

	// Guards backs the deck ownership middleware.
	Guards *auth.Guards

	CORSOptions   *cors.Options
	Middleware    []func(http.Handler) http.Handler
	HealthHandler http.HandlerFunc
	ExtraRoutes   func(chi.Router)
}

// DefaultCORSOptions returns the shared development CORS policy.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
			"http://localhost:5174",
			"http://127.0.0.1:5174",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
		},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// NewRouter assembles a chi.Router with shared middleware, CORS policy,
// token authentication, and the API handlers mounted. The router can be
// tailored via RouterOptions for CLI usage, tests, or other entrypoints.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	// Baseline middleware shared across entrypoints.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	// Token authentication runs on every request. It only attaches the
	// caller's identity; the guards decide what needs one.
	if opts.Verifier != nil {
		r.Use(deckmiddleware.Authenticate(opts.Verifier))
	}

	// Apply custom middleware passed from the caller.
	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	healthHandler := opts.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	r.Get("/health", healthHandler)

	if opts.Auth != nil {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", opts.Auth.Register)
			r.Post("/token", opts.Auth.Token)
		})
	}

	if opts.Decks != nil {
		r.Route("/decks", func(r chi.Router) {
			r.Get("/recent", opts.Decks.Recent)
			r.Get("/top", opts.Decks.Top)
			r.With(deckmiddleware.RequireLoggedIn).Post("/", opts.Decks.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", opts.Decks.Get)

				// Mutations require the caller to be the deck's creator.
				creator := r.With(deckmiddleware.RequireDeckCreator(opts.Guards))
				creator.Put("/", opts.Decks.Update)
				creator.Delete("/", opts.Decks.Delete)
				creator.Post("/card", opts.Decks.AddCard)
				creator.Patch("/card", opts.Decks.EditCard)
				creator.Delete("/card", opts.Decks.RemoveCard)
			})
		})
	}

	if opts.Users != nil {
		r.Route("/users", func(r chi.Router) {
			liked := r.With(deckmiddleware.RequireLoggedIn)
			liked.Post("/like/{deckID}", opts.Users.Like)
			liked.Delete("/like/{deckID}", opts.Users.Unlike)

			r.Get("/{username}", opts.Users.Get)

			owner := r.With(deckmiddleware.RequireCorrectUser)
			owner.Patch("/{username}", opts.Users.Update)
			owner.Delete("/{username}", opts.Users.Delete)
		})
	}

	if opts.Search != nil {
		r.Route("/search", func(r chi.Router) {
			r.Get("/ac/users/{term}", opts.Search.AutocompleteUsers)
			r.Get("/ac/decks/{term}", opts.Search.AutocompleteDecks)
			r.Get("/users/{term}/{page}", opts.Search.Users)
			r.Get("/decks/{term}/{page}", opts.Search.Decks)
		})
	}

	if opts.ExtraRoutes != nil {
		opts.ExtraRoutes(r)
	}

	return r
}

// NewH2CHandler wraps the router with an h2c server so HTTP/2 works
// over cleartext during development.
func NewH2CHandler(opts RouterOptions) http.Handler {
	return h2c.NewHandler(NewRouter(opts), &http2.Server{})
}
