package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"golang.org/x/crypto/bcrypt"

	"github.com/deckhall/deckapi/internal/db/bunx"
	"github.com/deckhall/deckapi/internal/db/models"
	"github.com/deckhall/deckapi/internal/migrations"
)

// setupTestDB creates an in-memory SQLite database with the full schema
// applied.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := bunx.NewDB("file::memory:", 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bunx.Close(db) })

	ctx := context.Background()
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	require.NoError(t, migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)

	return db
}

// createTestUser inserts a user with a bcrypt hash of "password".
func createTestUser(t *testing.T, db *bun.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:           bunx.NewUUIDv7(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}
	require.NoError(t, NewBunUserRepository(db).Create(context.Background(), user))
	return user
}

// createTestUserModel builds an unsaved user row.
func createTestUserModel(username, email string) *models.User {
	return &models.User{
		ID:           bunx.NewUUIDv7(),
		Username:     username,
		Email:        email,
		PasswordHash: "x",
	}
}

// createTestDeck inserts a deck owned by the given user.
func createTestDeck(t *testing.T, db *bun.DB, creator *models.User, name string) *models.Deck {
	t.Helper()

	deck := &models.Deck{
		ID:        bunx.NewUUIDv7(),
		Name:      name,
		Format:    "standard",
		CreatorID: creator.ID,
	}
	require.NoError(t, NewBunDeckRepository(db).Create(context.Background(), deck))
	return deck
}

// createTestCard inserts a card row.
func createTestCard(t *testing.T, db *bun.DB, name string) *models.Card {
	t.Helper()

	card := &models.Card{
		ID:            bunx.NewUUIDv7(),
		OracleID:      bunx.NewUUIDv7(),
		Name:          name,
		ManaCost:      "{1}{G}",
		CMC:           2,
		ColorIdentity: []string{"G"},
		TypeLine:      "Creature",
	}
	require.NoError(t, NewBunDeckCardRepository(db).UpsertCard(context.Background(), card))
	return card
}
