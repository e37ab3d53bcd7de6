package repository

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/deckhall/deckapi/internal/db/models"
)

// BunDeckCardRepository implements DeckCardRepository using Bun ORM
type BunDeckCardRepository struct {
	db *bun.DB
}

// NewBunDeckCardRepository creates a new Bun-based deck card repository
func NewBunDeckCardRepository(db *bun.DB) *BunDeckCardRepository {
	return &BunDeckCardRepository{db: db}
}

// UpsertCard inserts the card unless it is already known. Card rows mirror
// upstream Scryfall data and are never updated once stored.
func (r *BunDeckCardRepository) UpsertCard(ctx context.Context, card *models.Card) error {
	_, err := r.db.NewInsert().
		Model(card).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert card: %w", err)
	}
	return nil
}

// AddToDeck links a card into a deck. Adding the same card twice bumps the
// stored quantity instead of failing on the composite key.
func (r *BunDeckCardRepository) AddToDeck(ctx context.Context, deckCard *models.DeckCard) error {
	if deckCard.Quantity <= 0 {
		deckCard.Quantity = 1
	}
	_, err := r.db.NewInsert().
		Model(deckCard).
		On("CONFLICT (deck_id, card_id) DO UPDATE").
		Set("quantity = dc.quantity + EXCLUDED.quantity").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("add card to deck: %w", err)
	}
	return nil
}

// UpdateDeckCard updates the quantity and/or board placement for a deck
// card. Zero-valued fields are left untouched.
func (r *BunDeckCardRepository) UpdateDeckCard(ctx context.Context, deckCard *models.DeckCard) error {
	q := r.db.NewUpdate().
		Model((*models.DeckCard)(nil)).
		Where("deck_id = ?", deckCard.DeckID).
		Where("card_id = ?", deckCard.CardID)

	changed := false
	if deckCard.Quantity > 0 {
		q = q.Set("quantity = ?", deckCard.Quantity)
		changed = true
	}
	if deckCard.BoardType != "" {
		q = q.Set("board_type = ?", deckCard.BoardType)
		changed = true
	}
	if !changed {
		return fmt.Errorf("update deck card: no fields to update")
	}

	result, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("update deck card: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("deck card %s/%s: %w", deckCard.DeckID, deckCard.CardID, ErrNotFound)
	}

	return nil
}

// RemoveFromDeck deletes a deck card
func (r *BunDeckCardRepository) RemoveFromDeck(ctx context.Context, deckID, cardID string) error {
	result, err := r.db.NewDelete().
		Model((*models.DeckCard)(nil)).
		Where("deck_id = ?", deckID).
		Where("card_id = ?", cardID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("remove card from deck: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("deck card %s/%s: %w", deckID, cardID, ErrNotFound)
	}

	return nil
}

// ListByDeck returns the deck's cards with card data and deck info
func (r *BunDeckCardRepository) ListByDeck(ctx context.Context, deckID string) ([]models.DeckCard, error) {
	var deckCards []models.DeckCard
	err := r.db.NewSelect().
		Model(&deckCards).
		Relation("Card").
		Relation("Deck").
		Relation("Deck.Creator").
		Where("dc.deck_id = ?", deckID).
		Order("card_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list deck cards: %w", err)
	}
	return deckCards, nil
}
