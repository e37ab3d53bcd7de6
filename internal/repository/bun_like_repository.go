package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/deckhall/deckapi/internal/db/models"
)

// BunLikeRepository implements LikeRepository using Bun ORM
type BunLikeRepository struct {
	db *bun.DB
}

// NewBunLikeRepository creates a new Bun-based like repository
func NewBunLikeRepository(db *bun.DB) *BunLikeRepository {
	return &BunLikeRepository{db: db}
}

// Like records a user liking a deck. Liking twice is a no-op.
func (r *BunLikeRepository) Like(ctx context.Context, userID, deckID string) error {
	like := &models.UserDeckLike{UserID: userID, DeckID: deckID, CreatedAt: time.Now()}
	_, err := r.db.NewInsert().
		Model(like).
		On("CONFLICT (user_id, deck_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("like deck: %w", err)
	}
	return nil
}

// Unlike removes a user's like from a deck
func (r *BunLikeRepository) Unlike(ctx context.Context, userID, deckID string) error {
	result, err := r.db.NewDelete().
		Model((*models.UserDeckLike)(nil)).
		Where("user_id = ?", userID).
		Where("deck_id = ?", deckID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("unlike deck: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("like %s/%s: %w", userID, deckID, ErrNotFound)
	}

	return nil
}

// LikedDeckIDs returns the IDs of all decks the user has liked
func (r *BunLikeRepository) LikedDeckIDs(ctx context.Context, userID string) ([]string, error) {
	var deckIDs []string
	err := r.db.NewSelect().
		Model((*models.UserDeckLike)(nil)).
		Column("deck_id").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx, &deckIDs)
	if err != nil {
		return nil, fmt.Errorf("list liked decks: %w", err)
	}
	return deckIDs, nil
}
