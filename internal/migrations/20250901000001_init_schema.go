package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/deckhall/deckapi/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20250901000001, down_20250901000001)
}

// up_20250901000001 creates the deck builder schema: users, decks, cards,
// deck_cards, user_deck_likes.
func up_20250901000001(ctx context.Context, db *bun.DB) error {
	// 1. Create users table
	fmt.Print(" [up] creating users table...")
	_, err := db.NewCreateTable().
		Model((*models.User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username)`)
	if err != nil {
		return fmt.Errorf("failed to create users username index: %w", err)
	}
	_, err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email)`)
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}
	fmt.Println(" OK")

	// 2. Create decks table
	fmt.Print(" [up] creating decks table...")
	_, err = db.NewCreateTable().
		Model((*models.Deck)(nil)).
		IfNotExists().
		ForeignKey(`("creator_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create decks table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_decks_creator_id ON decks(creator_id)`)
	if err != nil {
		return fmt.Errorf("failed to create decks creator index: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_decks_created_at ON decks(created_at)`)
	if err != nil {
		return fmt.Errorf("failed to create decks created_at index: %w", err)
	}

	// Case-insensitive name search index. Postgres indexes the lowered
	// expression, SQLite uses its NOCASE collation.
	if IsPostgreSQL(db) {
		_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_decks_name_lower ON decks (lower(name))`)
	} else if IsSQLite(db) {
		_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_decks_name_nocase ON decks (name COLLATE NOCASE)`)
	}
	if err != nil {
		return fmt.Errorf("failed to create decks name search index: %w", err)
	}
	fmt.Println(" OK")

	// 3. Create cards table
	fmt.Print(" [up] creating cards table...")
	_, err = db.NewCreateTable().
		Model((*models.Card)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create cards table: %w", err)
	}

	// color_identity is jsonb only under Postgres; SQLite stores it as text.
	if IsPostgreSQL(db) {
		_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_cards_color_identity ON cards USING gin (color_identity)`)
		if err != nil {
			return fmt.Errorf("failed to create cards color identity index: %w", err)
		}
	}
	fmt.Println(" OK")

	// 4. Create deck_cards table
	fmt.Print(" [up] creating deck_cards table...")
	_, err = db.NewCreateTable().
		Model((*models.DeckCard)(nil)).
		IfNotExists().
		ForeignKey(`("deck_id") REFERENCES "decks" ("id") ON DELETE CASCADE`).
		ForeignKey(`("card_id") REFERENCES "cards" ("id")`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create deck_cards table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_deck_cards_deck_id ON deck_cards(deck_id)`)
	if err != nil {
		return fmt.Errorf("failed to create deck_cards deck index: %w", err)
	}
	fmt.Println(" OK")

	// 5. Create user_deck_likes table
	fmt.Print(" [up] creating user_deck_likes table...")
	_, err = db.NewCreateTable().
		Model((*models.UserDeckLike)(nil)).
		IfNotExists().
		ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		ForeignKey(`("deck_id") REFERENCES "decks" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create user_deck_likes table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_user_deck_likes_deck_id ON user_deck_likes(deck_id)`)
	if err != nil {
		return fmt.Errorf("failed to create user_deck_likes deck index: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

// down_20250901000001 drops the deck builder schema in dependency order
func down_20250901000001(ctx context.Context, db *bun.DB) error {
	for _, model := range []any{
		(*models.UserDeckLike)(nil),
		(*models.DeckCard)(nil),
		(*models.Card)(nil),
		(*models.Deck)(nil),
		(*models.User)(nil),
	} {
		fmt.Printf(" [down] dropping %T table...", model)
		_, err := db.NewDropTable().
			Model(model).
			IfExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", model, err)
		}
		fmt.Println(" OK")
	}
	return nil
}
