// Package users implements registration, authentication, and user
// self-service on top of the user and like repositories.
package users

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/deckhall/deckapi/internal/apierr"
	"github.com/deckhall/deckapi/internal/db/bunx"
	"github.com/deckhall/deckapi/internal/db/models"
	"github.com/deckhall/deckapi/internal/repository"
)

// Service orchestrates user operations
type Service struct {
	users      repository.UserRepository
	decks      repository.DeckRepository
	likes      repository.LikeRepository
	bcryptCost int
}

// NewService creates a user service. bcryptCost falls back to
// bcrypt.DefaultCost when out of range.
func NewService(users repository.UserRepository, decks repository.DeckRepository, likes repository.LikeRepository, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{users: users, decks: decks, likes: likes, bcryptCost: bcryptCost}
}

// Register creates a new user with a bcrypt-hashed password. Duplicate
// usernames and emails deny with BadRequest.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apierr.BadRequest(fmt.Sprintf("username %q is taken", username))
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apierr.BadRequest(fmt.Sprintf("email %q is already registered", email))
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           bunx.NewUUIDv7(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Backstop for a registration racing past the probes above and
		// losing to the unique index.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apierr.BadRequest("username or email is already taken")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate verifies an email/password pair. Every failure mode collapses
// into the same Unauthorized denial so callers cannot probe which emails are
// registered.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.Unauthorized()
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apierr.Unauthorized()
	}
	return user, nil
}

// Profile returns a user with created and liked decks
func (s *Service) Profile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetProfile(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.NotFound()
		}
		return nil, err
	}
	return user, nil
}

// Update changes a user's username and/or email and returns the updated
// record. Blank fields keep their current value.
func (s *Service) Update(ctx context.Context, username, newUsername, newEmail string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.NotFound()
		}
		return nil, err
	}

	if newUsername != "" && newUsername != user.Username {
		if _, err := s.users.GetByUsername(ctx, newUsername); err == nil {
			return nil, apierr.BadRequest(fmt.Sprintf("username %q is taken", newUsername))
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		user.Username = newUsername
	}
	if newEmail != "" && newEmail != user.Email {
		if _, err := s.users.GetByEmail(ctx, newEmail); err == nil {
			return nil, apierr.BadRequest(fmt.Sprintf("email %q is already registered", newEmail))
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		user.Email = newEmail
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apierr.BadRequest("username or email is already taken")
		}
		return nil, err
	}
	return user, nil
}

// Delete removes a user account
func (s *Service) Delete(ctx context.Context, username string) error {
	if err := s.users.Delete(ctx, username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierr.NotFound()
		}
		return err
	}
	return nil
}

// LikeDeck records a like and returns the user's liked deck IDs
func (s *Service) LikeDeck(ctx context.Context, userID, deckID string) ([]string, error) {
	if _, err := s.decks.GetByID(ctx, deckID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.NotFound()
		}
		return nil, err
	}
	if err := s.likes.Like(ctx, userID, deckID); err != nil {
		return nil, err
	}
	return s.likes.LikedDeckIDs(ctx, userID)
}

// UnlikeDeck removes a like and returns the user's remaining liked deck IDs
func (s *Service) UnlikeDeck(ctx context.Context, userID, deckID string) ([]string, error) {
	if err := s.likes.Unlike(ctx, userID, deckID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.NotFound()
		}
		return nil, err
	}
	return s.likes.LikedDeckIDs(ctx, userID)
}

// SearchUsernames returns users matching term, paginated
func (s *Service) SearchUsernames(ctx context.Context, term string, limit, page int) ([]models.User, error) {
	return s.users.SearchUsernames(ctx, term, limit, page)
}
