package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckhall/deckapi/internal/apierr"
)

func TestNewSchemaSet(t *testing.T) {
	schemas, err := NewSchemaSet()
	require.NoError(t, err)

	for _, name := range []string{
		"userRegister.json",
		"userAuth.json",
		"newDeck.json",
		"editDeck.json",
		"cardObjectLink.json",
		"editDeckCard.json",
		"removeDeckCard.json",
		"editUser.json",
		"removeUser.json",
	} {
		assert.Contains(t, schemas.schemas, name)
	}
}

func TestSchemaSet_DecodeValid(t *testing.T) {
	schemas, err := NewSchemaSet()
	require.NoError(t, err)

	newRequest := func(body string) *http.Request {
		return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	}

	t.Run("valid body decodes into the target", func(t *testing.T) {
		var dst struct {
			Name string `json:"name"`
		}
		err := schemas.DecodeValid(newRequest(`{"name": "Burn"}`), "newDeck.json", &dst)
		require.NoError(t, err)
		assert.Equal(t, "Burn", dst.Name)
	})

	t.Run("violation reports the offending path", func(t *testing.T) {
		var dst struct{}
		err := schemas.DecodeValid(newRequest(`{"username":"gideon","email":"g@example.com","password":"ab"}`), "userRegister.json", &dst)

		var apiErr *apierr.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Contains(t, apiErr.Message, "$.password")
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		var dst struct{}
		err := schemas.DecodeValid(newRequest(`{"name":"Burn","creatorID":"forged"}`), "newDeck.json", &dst)

		var apiErr *apierr.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	})

	t.Run("invalid JSON is a 400", func(t *testing.T) {
		var dst struct{}
		err := schemas.DecodeValid(newRequest(`{`), "newDeck.json", &dst)

		var apiErr *apierr.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	})

	t.Run("unknown schema name is a programming error", func(t *testing.T) {
		var dst struct{}
		err := schemas.DecodeValid(newRequest(`{}`), "missing.json", &dst)
		require.Error(t, err)

		var apiErr *apierr.Error
		assert.False(t, errors.As(err, &apiErr))
	})
}
