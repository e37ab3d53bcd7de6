// Package cards fetches card objects from the Scryfall API and maps them to
// local card rows.
package cards

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/deckhall/deckapi/internal/db/models"
)

const scryfallHost = "api.scryfall.com"

// ScryfallClient fetches card JSON from caller-supplied Scryfall URIs.
type ScryfallClient struct {
	httpClient *http.Client
	timeout    time.Duration

	// scheme and host pin which URIs FetchCard will follow. Tests point
	// them at a local server.
	scheme string
	host   string
}

// NewScryfallClient builds a client with the given per-request timeout.
// A zero timeout falls back to 5s.
func NewScryfallClient(timeout time.Duration) *ScryfallClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ScryfallClient{
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
		scheme:     "https",
		host:       scryfallHost,
	}
}

// cardPayload mirrors the subset of the Scryfall card object we store.
type cardPayload struct {
	ID            string   `json:"id"`
	OracleID      string   `json:"oracle_id"`
	ArenaID       *int     `json:"arena_id"`
	Name          string   `json:"name"`
	ManaCost      string   `json:"mana_cost"`
	CMC           float64  `json:"cmc"`
	ColorIdentity []string `json:"color_identity"`
	TypeLine      string   `json:"type_line"`
}

// FetchCard retrieves a card object from a Scryfall API URI. URIs pointing
// anywhere else are rejected before any network round trip.
func (c *ScryfallClient) FetchCard(ctx context.Context, uri string) (*models.Card, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parse card uri: %w", err)
	}
	if parsed.Scheme != c.scheme || !strings.EqualFold(parsed.Host, c.host) {
		return nil, fmt.Errorf("card uri must point at %s://%s", c.scheme, c.host)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build card request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch card: unexpected status %d", resp.StatusCode)
	}

	var payload cardPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode card payload: %w", err)
	}
	if payload.ID == "" || payload.Name == "" {
		return nil, fmt.Errorf("card payload missing id or name")
	}

	card := &models.Card{
		ID:            payload.ID,
		OracleID:      payload.OracleID,
		Name:          payload.Name,
		ManaCost:      payload.ManaCost,
		CMC:           payload.CMC,
		ColorIdentity: payload.ColorIdentity,
		TypeLine:      payload.TypeLine,
	}
	if payload.ArenaID != nil {
		card.ArenaID = strconv.Itoa(*payload.ArenaID)
	}
	return card, nil
}
