package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deckhall/deckapi/internal/apierr"
	"github.com/deckhall/deckapi/internal/auth"
	"github.com/deckhall/deckapi/internal/services/users"
)

// UserHandlers serves profiles, account changes, and deck likes.
type UserHandlers struct {
	users   *users.Service
	issuer  *auth.Issuer
	guards  *auth.Guards
	schemas *SchemaSet
}

func NewUserHandlers(users *users.Service, issuer *auth.Issuer, guards *auth.Guards, schemas *SchemaSet) *UserHandlers {
	return &UserHandlers{users: users, issuer: issuer, guards: guards, schemas: schemas}
}

// Get handles GET /users/{username}. Profiles are public.
func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Profile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

type editUserRequest struct {
	Password string `json:"password"`
	Data     struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"data"`
}

// Update handles PATCH /users/{username}. The route already checks the
// caller owns the account; the current password is re-checked here
// before anything changes. A fresh token is returned because the
// username inside the old one may no longer match.
func (h *UserHandlers) Update(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req editUserRequest
	if err := h.schemas.DecodeValid(r, "editUser.json", &req); err != nil {
		apierr.Write(w, r, err)
		return
	}

	if err := h.guards.RequireCorrectPassword(r.Context(), req.Password); err != nil {
		apierr.Write(w, r, err)
		return
	}

	user, err := h.users.Update(r.Context(), username, req.Data.Username, req.Data.Email)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	token, err := h.issuer.Issue(auth.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type removeUserRequest struct {
	Password string `json:"password"`
}

// Delete handles DELETE /users/{username}. Requires the current
// password on top of account ownership.
func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req removeUserRequest
	if err := h.schemas.DecodeValid(r, "removeUser.json", &req); err != nil {
		apierr.Write(w, r, err)
		return
	}

	if err := h.guards.RequireCorrectPassword(r.Context(), req.Password); err != nil {
		apierr.Write(w, r, err)
		return
	}

	if err := h.users.Delete(r.Context(), username); err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// Like handles POST /users/like/{deckID} and returns the caller's full
// set of liked deck IDs.
func (h *UserHandlers) Like(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		apierr.Write(w, r, apierr.Unauthorized())
		return
	}

	userLikes, err := h.users.LikeDeck(r.Context(), identity.UserID, chi.URLParam(r, "deckID"))
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"userLikes": userLikes})
}

// Unlike handles DELETE /users/like/{deckID}.
func (h *UserHandlers) Unlike(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		apierr.Write(w, r, apierr.Unauthorized())
		return
	}

	userLikes, err := h.users.UnlikeDeck(r.Context(), identity.UserID, chi.URLParam(r, "deckID"))
	if err != nil {
		apierr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"userLikes": userLikes})
}
