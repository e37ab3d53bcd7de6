package server

import (
	"net/http"

	"github.com/deckhall/deckapi/internal/apierr"
	"github.com/deckhall/deckapi/internal/auth"
	"github.com/deckhall/deckapi/internal/services/users"
)

// AuthHandlers serves registration and token exchange.
type AuthHandlers struct {
	users   *users.Service
	issuer  *auth.Issuer
	schemas *SchemaSet
}

func NewAuthHandlers(users *users.Service, issuer *auth.Issuer, schemas *SchemaSet) *AuthHandlers {
	return &AuthHandlers{users: users, issuer: issuer, schemas: schemas}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/register. A successful registration
// returns a signed token so the client is logged in immediately.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.schemas.DecodeValid(r, "userRegister.json", &req); err != nil {
		apierr.Write(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	token, err := h.issuer.Issue(auth.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		apierr.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token handles POST /auth/token.
func (h *AuthHandlers) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := h.schemas.DecodeValid(r, "userAuth.json", &req); err != nil {
		apierr.Write(w, r, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
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
