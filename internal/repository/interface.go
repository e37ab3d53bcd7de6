package repository

import (
	"context"
	"errors"

	"github.com/deckhall/deckapi/internal/db/models"
)

// ErrNotFound is wrapped by repositories when a referenced row is absent.
// Callers distinguish it from infrastructure failures with errors.Is.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is wrapped by repositories when an insert or update hits a
// unique constraint.
var ErrDuplicate = errors.New("duplicate")

// UserRepository defines data access for user records
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetProfile loads a user with created decks and liked decks, each
	// carrying creator info and like counts.
	GetProfile(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, username string) error
	// SearchUsernames returns users whose username contains term
	// (case-insensitive), paginated. page is 1-based.
	SearchUsernames(ctx context.Context, term string, limit, page int) ([]models.User, error)
}

// DeckRepository defines data access for deck records
type DeckRepository interface {
	Create(ctx context.Context, deck *models.Deck) error
	// GetByID loads a deck with its creator, deck cards, and likes.
	GetByID(ctx context.Context, id string) (*models.Deck, error)
	Update(ctx context.Context, deck *models.Deck) error
	Delete(ctx context.Context, id string) error
	// Recent returns the newest decks whose mainboard holds at least
	// minMainboard cards, newest first.
	Recent(ctx context.Context, minMainboard, limit int) ([]models.Deck, error)
	// Top returns the most liked decks, most likes first.
	Top(ctx context.Context, limit int) ([]models.Deck, error)
	// SearchNames returns decks whose name contains term
	// (case-insensitive), paginated. page is 1-based.
	SearchNames(ctx context.Context, term string, limit, page int) ([]models.Deck, error)
}

// DeckCardRepository defines data access for cards and their deck placements
type DeckCardRepository interface {
	// UpsertCard inserts the card if it is not already known. Card rows are
	// shared between decks and never updated afterwards.
	UpsertCard(ctx context.Context, card *models.Card) error
	AddToDeck(ctx context.Context, deckCard *models.DeckCard) error
	UpdateDeckCard(ctx context.Context, deckCard *models.DeckCard) error
	RemoveFromDeck(ctx context.Context, deckID, cardID string) error
	// ListByDeck returns the deck's cards with card data and deck info.
	ListByDeck(ctx context.Context, deckID string) ([]models.DeckCard, error)
}

// LikeRepository defines data access for user-deck likes
type LikeRepository interface {
	Like(ctx context.Context, userID, deckID string) error
	Unlike(ctx context.Context, userID, deckID string) error
	// LikedDeckIDs returns the IDs of all decks the user has liked.
	LikedDeckIDs(ctx context.Context, userID string) ([]string, error)
}
