package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/deckhall/deckapi/internal/apierr"
	"github.com/deckhall/deckapi/internal/db/models"
	"github.com/deckhall/deckapi/internal/services/decks"
	"github.com/deckhall/deckapi/internal/services/users"
)

const (
	// minSearchTermLength is the shortest term autocomplete will run a
	// query for. Shorter terms return an empty result set.
	minSearchTermLength = 3

	autocompleteLimit = 20
	searchPageSize    = 175
)

// SearchHandlers serves autocomplete and paged search for users and decks.
type SearchHandlers struct {
	users *users.Service
	decks *decks.Service
}

func NewSearchHandlers(users *users.Service, decks *decks.Service) *SearchHandlers {
	return &SearchHandlers{users: users, decks: decks}
}

// AutocompleteUsers handles GET /search/ac/users/{term}.
func (h *SearchHandlers) AutocompleteUsers(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")
	if len(term) < minSearchTermLength {
		writeJSON(w, http.StatusOK, map[string]any{"autocomplete": []models.User{}})
		return
	}

	matches, err := h.users.SearchUsernames(r.Context(), term, autocompleteLimit, 1)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"autocomplete": matches})
}

// AutocompleteDecks handles GET /search/ac/decks/{term}.
func (h *SearchHandlers) AutocompleteDecks(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")
	if len(term) < minSearchTermLength {
		writeJSON(w, http.StatusOK, map[string]any{"autocomplete": []models.Deck{}})
		return
	}

	matches, err := h.decks.SearchNames(r.Context(), term, autocompleteLimit, 1)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"autocomplete": matches})
}

// Users handles GET /search/users/{term}/{page}. Unlike autocomplete, paged
// search runs the query for any term length.
func (h *SearchHandlers) Users(w http.ResponseWriter, r *http.Request) {
	matches, err := h.users.SearchUsernames(r.Context(), chi.URLParam(r, "term"), searchPageSize, pageParam(r))
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": matches})
}

// Decks handles GET /search/decks/{term}/{page}.
func (h *SearchHandlers) Decks(w http.ResponseWriter, r *http.Request) {
	matches, err := h.decks.SearchNames(r.Context(), chi.URLParam(r, "term"), searchPageSize, pageParam(r))
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": matches})
}

// pageParam parses the page path segment, falling back to the first
// page on anything that is not a positive integer.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
