package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/deckhall/deckapi/internal/db/models"
)

// BunDeckRepository implements DeckRepository using Bun ORM
type BunDeckRepository struct {
	db *bun.DB
}

// NewBunDeckRepository creates a new Bun-based deck repository
func NewBunDeckRepository(db *bun.DB) *BunDeckRepository {
	return &BunDeckRepository{db: db}
}

// Create inserts a new deck into the database
func (r *BunDeckRepository) Create(ctx context.Context, deck *models.Deck) error {
	now := time.Now()
	deck.CreatedAt = now
	deck.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(deck).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create deck: %w", err)
	}
	return nil
}

// GetByID retrieves a deck with its creator, deck cards, and likes
func (r *BunDeckRepository) GetByID(ctx context.Context, id string) (*models.Deck, error) {
	deck := new(models.Deck)
	err := r.db.NewSelect().
		Model(deck).
		ColumnExpr("d.*").
		ColumnExpr("(SELECT count(*) FROM user_deck_likes udl WHERE udl.deck_id = d.id) AS like_count").
		Relation("Creator").
		Relation("DeckCards").
		Relation("Likes").
		Where("d.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("deck %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get deck by ID: %w", err)
	}
	return deck, nil
}

// Update updates a deck's editable fields. The creator never changes.
func (r *BunDeckRepository) Update(ctx context.Context, deck *models.Deck) error {
	deck.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(deck).
		Column("name", "description", "image_url", "format", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update deck: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("deck %s: %w", deck.ID, ErrNotFound)
	}

	return nil
}

// Delete removes a deck. Deck cards and likes cascade.
func (r *BunDeckRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.NewDelete().
		Model((*models.Deck)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete deck: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("deck %s: %w", id, ErrNotFound)
	}

	return nil
}

// Recent returns the newest decks whose mainboard quantity sum is at least
// minMainboard, newest first.
func (r *BunDeckRepository) Recent(ctx context.Context, minMainboard, limit int) ([]models.Deck, error) {
	complete := r.db.NewSelect().
		Table("deck_cards").
		ColumnExpr("deck_id").
		Where("board_type = ?", models.BoardTypeDeck).
		GroupExpr("deck_id").
		Having("sum(quantity) >= ?", minMainboard)

	var decks []models.Deck
	err := r.db.NewSelect().
		Model(&decks).
		ColumnExpr("d.*").
		ColumnExpr("(SELECT count(*) FROM user_deck_likes udl WHERE udl.deck_id = d.id) AS like_count").
		Relation("Creator").
		Relation("DeckCards").
		Where("d.id IN (?)", complete).
		Order("d.created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("recent decks: %w", err)
	}
	return decks, nil
}

// Top returns the most liked decks, most likes first
func (r *BunDeckRepository) Top(ctx context.Context, limit int) ([]models.Deck, error) {
	var decks []models.Deck
	err := r.db.NewSelect().
		Model(&decks).
		ColumnExpr("d.*").
		ColumnExpr("(SELECT count(*) FROM user_deck_likes udl WHERE udl.deck_id = d.id) AS like_count").
		Relation("Creator").
		Relation("DeckCards").
		Where("d.id IN (?)", r.db.NewSelect().
			Table("user_deck_likes").
			ColumnExpr("deck_id").
			GroupExpr("deck_id")).
		OrderExpr("like_count DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("top decks: %w", err)
	}
	return decks, nil
}

// SearchNames returns decks whose name contains term, paginated
func (r *BunDeckRepository) SearchNames(ctx context.Context, term string, limit, page int) ([]models.Deck, error) {
	if page < 1 {
		page = 1
	}

	var decks []models.Deck
	err := r.db.NewSelect().
		Model(&decks).
		Column("d.id", "d.name", "d.format", "d.creator_id").
		Where("lower(d.name) LIKE lower(?)", "%"+term+"%").
		Order("name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("search deck names: %w", err)
	}
	return decks, nil
}
