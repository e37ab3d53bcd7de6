package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User represents a registered deck builder. Username is the public handle
// used for ownership checks; Email is only used for login.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           string    `bun:"id,pk,type:uuid" json:"id"`
	Username     string    `bun:"username,notnull,unique" json:"username"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`

	Decks []*Deck         `bun:"rel:has-many,join:id=creator_id" json:"decks,omitempty"`
	Likes []*UserDeckLike `bun:"rel:has-many,join:id=user_id" json:"likes,omitempty"`
}

// Deck is a named collection of cards. The creator is fixed at creation;
// there is no transfer-of-ownership operation.
type Deck struct {
	bun.BaseModel `bun:"table:decks,alias:d"`

	ID          string    `bun:"id,pk,type:uuid" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description" json:"description"`
	ImageURL    string    `bun:"image_url" json:"imgURL"`
	Format      string    `bun:"format" json:"format"`
	CreatorID   string    `bun:"creator_id,notnull,type:uuid" json:"creatorID"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`

	Creator   *User           `bun:"rel:belongs-to,join:creator_id=id" json:"creator,omitempty"`
	DeckCards []*DeckCard     `bun:"rel:has-many,join:id=deck_id" json:"deckCards,omitempty"`
	Likes     []*UserDeckLike `bun:"rel:has-many,join:id=deck_id" json:"likes,omitempty"`

	// LikeCount is filled by aggregate queries, it has no backing column.
	LikeCount int `bun:"like_count,scanonly" json:"likeCount"`
}

// CreatorUsername returns the owning user's handle, or "" when the creator
// relation was not loaded.
func (d *Deck) CreatorUsername() string {
	if d == nil || d.Creator == nil {
		return ""
	}
	return d.Creator.Username
}

// Card mirrors a Scryfall card object. The ID is the upstream Scryfall UUID,
// so rows are shared between decks and never duplicated.
type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	ID            string   `bun:"id,pk,type:uuid" json:"id"`
	OracleID      string   `bun:"oracle_id" json:"oracleID"`
	ArenaID       string   `bun:"arena_id" json:"arenaID,omitempty"`
	Name          string   `bun:"name,notnull" json:"name"`
	ManaCost      string   `bun:"mana_cost" json:"manaCost"`
	CMC           float64  `bun:"cmc" json:"cmc"`
	ColorIdentity []string `bun:"color_identity,type:jsonb" json:"colorIdentity"`
	TypeLine      string   `bun:"type_line" json:"typeLine"`
}

// Board types for deck cards.
const (
	BoardTypeDeck      = "deck"
	BoardTypeSideboard = "sideboard"
)

// DeckCard links a card into a deck with a quantity and board placement.
type DeckCard struct {
	bun.BaseModel `bun:"table:deck_cards,alias:dc"`

	DeckID    string `bun:"deck_id,pk,type:uuid" json:"deckID"`
	CardID    string `bun:"card_id,pk,type:uuid" json:"cardID"`
	BoardType string `bun:"board_type,notnull,default:'deck'" json:"boardType"`
	Quantity  int    `bun:"quantity,notnull,default:1" json:"quantity"`

	Deck *Deck `bun:"rel:belongs-to,join:deck_id=id" json:"deck,omitempty"`
	Card *Card `bun:"rel:belongs-to,join:card_id=id" json:"card,omitempty"`
}

// UserDeckLike records a user liking a deck. One like per user per deck.
type UserDeckLike struct {
	bun.BaseModel `bun:"table:user_deck_likes,alias:udl"`

	UserID    string    `bun:"user_id,pk,type:uuid" json:"userID"`
	DeckID    string    `bun:"deck_id,pk,type:uuid" json:"deckID"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Deck *Deck `bun:"rel:belongs-to,join:deck_id=id" json:"deck,omitempty"`
}
