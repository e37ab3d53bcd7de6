package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrite(t *testing.T) {
	t.Run("api errors keep their status and message", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/decks/x", nil)
		rec := httptest.NewRecorder()

		Write(rec, req, NotFound())

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":{"status":404,"message":"Not Found"}}`, rec.Body.String())
	})

	t.Run("wrapped api errors unwrap", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		Write(rec, req, fmt.Errorf("guard: %w", Unauthorized()))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown errors collapse to an opaque 500", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		Write(rec, req, errors.New("pq: connection reset"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection reset")
	})
}

func TestBadRequestDefaultMessage(t *testing.T) {
	assert.Equal(t, "Bad Request", BadRequest("").Message)
	assert.Equal(t, "custom", BadRequest("custom").Message)
}
