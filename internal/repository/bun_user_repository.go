package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/deckhall/deckapi/internal/db/models"
)

// isUniqueViolation recognizes unique-constraint errors from both drivers:
// pgdriver reports "duplicate key value violates unique constraint", SQLite
// reports "UNIQUE constraint failed".
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// BunUserRepository implements UserRepository using Bun ORM
type BunUserRepository struct {
	db *bun.DB
}

// NewBunUserRepository creates a new Bun-based user repository
func NewBunUserRepository(db *bun.DB) *BunUserRepository {
	return &BunUserRepository{db: db}
}

// Create inserts a new user into the database
func (r *BunUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(user).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create user: %w", ErrDuplicate)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID
func (r *BunUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get user by ID: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by their username
func (r *BunUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("u.username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by their email
func (r *BunUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("u.email = ?", email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// GetProfile loads a user with created decks and liked decks, including
// creator info and like counts for every deck involved.
func (r *BunUserRepository) GetProfile(ctx context.Context, username string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Relation("Decks").
		Relation("Decks.Creator").
		Relation("Likes").
		Relation("Likes.Deck").
		Relation("Likes.Deck.Creator").
		Where("u.username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("get user profile: %w", err)
	}

	if err := r.fillLikeCounts(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// fillLikeCounts resolves like counts for all decks hanging off the profile
// in a single grouped query.
func (r *BunUserRepository) fillLikeCounts(ctx context.Context, user *models.User) error {
	decks := make(map[string][]*models.Deck)
	for _, deck := range user.Decks {
		decks[deck.ID] = append(decks[deck.ID], deck)
	}
	for _, like := range user.Likes {
		if like.Deck != nil {
			decks[like.Deck.ID] = append(decks[like.Deck.ID], like.Deck)
		}
	}
	if len(decks) == 0 {
		return nil
	}

	ids := make([]string, 0, len(decks))
	for id := range decks {
		ids = append(ids, id)
	}

	var counts []struct {
		DeckID string `bun:"deck_id"`
		Count  int    `bun:"like_count"`
	}
	err := r.db.NewSelect().
		Table("user_deck_likes").
		ColumnExpr("deck_id").
		ColumnExpr("count(*) AS like_count").
		Where("deck_id IN (?)", bun.In(ids)).
		GroupExpr("deck_id").
		Scan(ctx, &counts)
	if err != nil {
		return fmt.Errorf("count deck likes: %w", err)
	}

	for _, row := range counts {
		for _, deck := range decks[row.DeckID] {
			deck.LikeCount = row.Count
		}
	}
	return nil
}

// Update updates an existing user
func (r *BunUserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(user).
		WherePK().
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update user: %w", ErrDuplicate)
		}
		return fmt.Errorf("update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
	}

	return nil
}

// Delete removes a user by username. Decks and likes cascade.
func (r *BunUserRepository) Delete(ctx context.Context, username string) error {
	result, err := r.db.NewDelete().
		Model((*models.User)(nil)).
		Where("username = ?", username).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", username, ErrNotFound)
	}

	return nil
}

// SearchUsernames returns users whose username contains term, paginated
func (r *BunUserRepository) SearchUsernames(ctx context.Context, term string, limit, page int) ([]models.User, error) {
	if page < 1 {
		page = 1
	}

	var users []models.User
	err := r.db.NewSelect().
		Model(&users).
		Relation("Decks").
		Where("lower(u.username) LIKE lower(?)", "%"+term+"%").
		Order("username ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("search usernames: %w", err)
	}
	return users, nil
}
