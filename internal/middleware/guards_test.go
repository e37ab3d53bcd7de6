package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckhall/deckapi/internal/auth"
	"github.com/deckhall/deckapi/internal/db/models"
	"github.com/deckhall/deckapi/internal/repository"
)

type stubDeckLookup struct {
	deck *models.Deck
	err  error
}

func (s *stubDeckLookup) GetByID(ctx context.Context, id string) (*models.Deck, error) {
	return s.deck, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func asUser(req *http.Request, username string) *http.Request {
	ctx := auth.SetIdentity(req.Context(), auth.Identity{UserID: "user-1", Username: username})
	return req.WithContext(ctx)
}

func errorEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Error map[string]any `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestRequireLoggedInMiddleware(t *testing.T) {
	t.Run("anonymous gets 401 envelope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/decks", nil)
		rec := httptest.NewRecorder()
		RequireLoggedIn(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		envelope := errorEnvelope(t, rec)
		assert.Equal(t, "Unauthorized", envelope["message"])
		assert.EqualValues(t, http.StatusUnauthorized, envelope["status"])
	})

	t.Run("logged in passes through", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodPost, "/decks", nil), "gideon")
		rec := httptest.NewRecorder()
		RequireLoggedIn(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireCorrectUserMiddleware(t *testing.T) {
	router := chi.NewRouter()
	router.With(RequireCorrectUser).Patch("/users/{username}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("owner passes", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodPatch, "/users/gideon", nil), "gideon")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("someone else gets 401", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodPatch, "/users/gideon", nil), "jace")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("anonymous gets 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/users/gideon", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireDeckCreatorMiddleware(t *testing.T) {
	deck := &models.Deck{
		ID:      "deck-1",
		Creator: &models.User{ID: "user-1", Username: "gideon"},
	}

	newRouter := func(lookup *stubDeckLookup) chi.Router {
		guards := &auth.Guards{Decks: lookup}
		router := chi.NewRouter()
		router.With(RequireDeckCreator(guards)).Put("/decks/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		return router
	}

	t.Run("creator passes", func(t *testing.T) {
		router := newRouter(&stubDeckLookup{deck: deck})
		req := asUser(httptest.NewRequest(http.MethodPut, "/decks/deck-1", nil), "gideon")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing deck gets 404", func(t *testing.T) {
		router := newRouter(&stubDeckLookup{err: fmt.Errorf("deck deck-1: %w", repository.ErrNotFound)})
		req := asUser(httptest.NewRequest(http.MethodPut, "/decks/deck-1", nil), "gideon")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong owner gets 401", func(t *testing.T) {
		router := newRouter(&stubDeckLookup{deck: deck})
		req := asUser(httptest.NewRequest(http.MethodPut, "/decks/deck-1", nil), "jace")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
