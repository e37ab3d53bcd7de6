// Package decks implements deck CRUD, deck list editing, and browse queries
// on top of the deck and deck card repositories.
package decks

import (
	"context"
	"errors"

	"github.com/deckhall/deckapi/internal/apierr"
	"github.com/deckhall/deckapi/internal/db/bunx"
	"github.com/deckhall/deckapi/internal/db/models"
	"github.com/deckhall/deckapi/internal/repository"
)

// Browse limits mirroring the web UI: 20 decks per browse panel, and a deck
// counts as "complete" with 60 mainboard cards.
const (
	browseLimit       = 20
	minMainboardCards = 60
)

// CardFetcher resolves a card URI into a card row. Satisfied by
// cards.ScryfallClient.
type CardFetcher interface {
	FetchCard(ctx context.Context, uri string) (*models.Card, error)
}

// Service orchestrates deck operations
type Service struct {
	decks     repository.DeckRepository
	deckCards repository.DeckCardRepository
	scryfall  CardFetcher
}

// NewService creates a deck service
func NewService(decks repository.DeckRepository, deckCards repository.DeckCardRepository, scryfall CardFetcher) *Service {
	return &Service{decks: decks, deckCards: deckCards, scryfall: scryfall}
}

// CreateInput carries the editable deck fields
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imgURL"`
	Format      string `json:"format"`
}

// Create stores a new deck owned by creatorID and returns it with the
// creator relation loaded.
func (s *Service) Create(ctx context.Context, creatorID string, input CreateInput) (*models.Deck, error) {
	deck := &models.Deck{
		ID:          bunx.NewUUIDv7(),
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Format:      input.Format,
		CreatorID:   creatorID,
	}
	if err := s.decks.Create(ctx, deck); err != nil {
		return nil, err
	}
	return s.Get(ctx, deck.ID)
}

// Get returns a deck with creator, cards, and likes
func (s *Service) Get(ctx context.Context, id string) (*models.Deck, error) {
	deck, err := s.decks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.NotFound()
		}
		return nil, err
	}
	return deck, nil
}

// Update changes a deck's editable fields and returns the updated deck.
// Fields left blank keep their current value.
func (s *Service) Update(ctx context.Context, id string, input CreateInput) (*models.Deck, error) {
	deck, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		deck.Name = input.Name
	}
	if input.Description != "" {
		deck.Description = input.Description
	}
	if input.ImageURL != "" {
		deck.ImageURL = input.ImageURL
	}
	if input.Format != "" {
		deck.Format = input.Format
	}
	if err := s.decks.Update(ctx, deck); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a deck and its cascading deck cards and likes
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.decks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierr.NotFound()
		}
		return err
	}
	return nil
}

// Recent returns the 20 newest decks holding at least 60 mainboard cards
func (s *Service) Recent(ctx context.Context) ([]models.Deck, error) {
	return s.decks.Recent(ctx, minMainboardCards, browseLimit)
}

// Top returns the 20 most liked decks
func (s *Service) Top(ctx context.Context) ([]models.Deck, error) {
	return s.decks.Top(ctx, browseLimit)
}

// DeckList returns the deck's cards with card data
func (s *Service) DeckList(ctx context.Context, deckID string) ([]models.DeckCard, error) {
	return s.deckCards.ListByDeck(ctx, deckID)
}

// AddCardFromURI fetches a card object from the Scryfall API, stores the
// card if it is new, links it into the deck, and returns the updated deck
// list.
func (s *Service) AddCardFromURI(ctx context.Context, deckID, uri, boardType string) ([]models.DeckCard, error) {
	card, err := s.scryfall.FetchCard(ctx, uri)
	if err != nil {
		return nil, apierr.BadRequest(err.Error())
	}

	if err := s.deckCards.UpsertCard(ctx, card); err != nil {
		return nil, err
	}
	if err := s.deckCards.AddToDeck(ctx, &models.DeckCard{
		DeckID:    deckID,
		CardID:    card.ID,
		BoardType: boardType,
		Quantity:  1,
	}); err != nil {
		return nil, err
	}

	return s.DeckList(ctx, deckID)
}

// EditCardInput carries the editable deck card fields
type EditCardInput struct {
	Quantity  int
	BoardType string
}

// UpdateDeckCard edits a card's quantity or board placement and returns the
// updated deck list.
func (s *Service) UpdateDeckCard(ctx context.Context, deckID, cardID string, input EditCardInput) ([]models.DeckCard, error) {
	if err := s.deckCards.UpdateDeckCard(ctx, &models.DeckCard{
		DeckID:    deckID,
		CardID:    cardID,
		Quantity:  input.Quantity,
		BoardType: input.BoardType,
	}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.NotFound()
		}
		return nil, err
	}
	return s.DeckList(ctx, deckID)
}

// RemoveDeckCard removes a card from the deck and returns the updated deck
// list.
func (s *Service) RemoveDeckCard(ctx context.Context, deckID, cardID string) ([]models.DeckCard, error) {
	if err := s.deckCards.RemoveFromDeck(ctx, deckID, cardID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.NotFound()
		}
		return nil, err
	}
	return s.DeckList(ctx, deckID)
}

// SearchNames returns decks matching term, paginated
func (s *Service) SearchNames(ctx context.Context, term string, limit, page int) ([]models.Deck, error) {
	return s.decks.SearchNames(ctx, term, limit, page)
}
