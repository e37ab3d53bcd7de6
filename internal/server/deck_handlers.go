package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deckhall/deckapi/internal/apierr"
	"github.com/deckhall/deckapi/internal/auth"
	"github.com/deckhall/deckapi/internal/services/decks"
)

// DeckHandlers serves deck CRUD and deck list editing.
type DeckHandlers struct {
	decks   *decks.Service
	schemas *SchemaSet
}

func NewDeckHandlers(decks *decks.Service, schemas *SchemaSet) *DeckHandlers {
	return &DeckHandlers{decks: decks, schemas: schemas}
}

// Create handles POST /decks. The route requires a logged-in caller.
func (h *DeckHandlers) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		apierr.Write(w, r, apierr.Unauthorized())
		return
	}

	var input decks.CreateInput
	if err := h.schemas.DecodeValid(r, "newDeck.json", &input); err != nil {
		apierr.Write(w, r, err)
		return
	}

	deck, err := h.decks.Create(r.Context(), identity.UserID, input)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"newDeck": deck})
}

// Recent handles GET /decks/recent.
func (h *DeckHandlers) Recent(w http.ResponseWriter, r *http.Request) {
	recentDecks, err := h.decks.Recent(r.Context())
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recentDecks": recentDecks})
}

// Top handles GET /decks/top.
func (h *DeckHandlers) Top(w http.ResponseWriter, r *http.Request) {
	likedDecks, err := h.decks.Top(r.Context())
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"likedDecks": likedDecks})
}

// Get handles GET /decks/{id}.
func (h *DeckHandlers) Get(w http.ResponseWriter, r *http.Request) {
	deck, err := h.decks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deck": deck})
}

// Update handles PUT /decks/{id}. Only the creator reaches this handler.
func (h *DeckHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var input decks.CreateInput
	if err := h.schemas.DecodeValid(r, "editDeck.json", &input); err != nil {
		apierr.Write(w, r, err)
		return
	}

	deck, err := h.decks.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updatedDeck": deck})
}

// Delete handles DELETE /decks/{id}.
func (h *DeckHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.decks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

type addCardRequest struct {
	URI       string `json:"uri"`
	BoardType string `json:"boardType"`
}

// AddCard handles POST /decks/{id}/card. The card object is fetched
// from the Scryfall link supplied by the client.
func (h *DeckHandlers) AddCard(w http.ResponseWriter, r *http.Request) {
	var req addCardRequest
	if err := h.schemas.DecodeValid(r, "cardObjectLink.json", &req); err != nil {
		apierr.Write(w, r, err)
		return
	}

	deckList, err := h.decks.AddCardFromURI(r.Context(), chi.URLParam(r, "id"), req.URI, req.BoardType)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"deckList": deckList})
}

type editCardRequest struct {
	CardID string              `json:"cardID"`
	Data   decks.EditCardInput `json:"data"`
}

// EditCard handles PATCH /decks/{id}/card.
func (h *DeckHandlers) EditCard(w http.ResponseWriter, r *http.Request) {
	var req editCardRequest
	if err := h.schemas.DecodeValid(r, "editDeckCard.json", &req); err != nil {
		apierr.Write(w, r, err)
		return
	}

	deckList, err := h.decks.UpdateDeckCard(r.Context(), chi.URLParam(r, "id"), req.CardID, req.Data)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deckList": deckList})
}

type removeCardRequest struct {
	CardID string `json:"cardID"`
}

// RemoveCard handles DELETE /decks/{id}/card.
func (h *DeckHandlers) RemoveCard(w http.ResponseWriter, r *http.Request) {
	var req removeCardRequest
	if err := h.schemas.DecodeValid(r, "removeDeckCard.json", &req); err != nil {
		apierr.Write(w, r, err)
		return
	}

	deckList, err := h.decks.RemoveDeckCard(r.Context(), chi.URLParam(r, "id"), req.CardID)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deckList": deckList})
}
