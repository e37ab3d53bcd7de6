package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBunLikeRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunLikeRepository(db)
	ctx := context.Background()

	creator := createTestUser(t, db, "vraska")
	fan := createTestUser(t, db, "ral")
	deckA := createTestDeck(t, db, creator, "Golgari")
	deckB := createTestDeck(t, db, creator, "Izzet")

	t.Run("like and list", func(t *testing.T) {
		require.NoError(t, repo.Like(ctx, fan.ID, deckA.ID))
		require.NoError(t, repo.Like(ctx, fan.ID, deckB.ID))

		ids, err := repo.LikedDeckIDs(ctx, fan.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{deckA.ID, deckB.ID}, ids)
	})

	t.Run("liking twice is idempotent", func(t *testing.T) {
		require.NoError(t, repo.Like(ctx, fan.ID, deckA.ID))

		ids, err := repo.LikedDeckIDs(ctx, fan.ID)
		require.NoError(t, err)
		assert.Len(t, ids, 2)
	})

	t.Run("unlike removes the row", func(t *testing.T) {
		require.NoError(t, repo.Unlike(ctx, fan.ID, deckA.ID))

		ids, err := repo.LikedDeckIDs(ctx, fan.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{deckB.ID}, ids)
	})

	t.Run("unlike without a like returns ErrNotFound", func(t *testing.T) {
		err := repo.Unlike(ctx, fan.ID, deckA.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no likes yields empty list", func(t *testing.T) {
		ids, err := repo.LikedDeckIDs(ctx, creator.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}
