package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/deckhall/deckapi/internal/apierr"
	"github.com/deckhall/deckapi/internal/db/models"
	"github.com/deckhall/deckapi/internal/repository"
)

// UserLookup is the collaborator consulted by the password guard.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// DeckLookup is the collaborator consulted by the ownership guard.
type DeckLookup interface {
	GetByID(ctx context.Context, id string) (*models.Deck, error)
}

// Guards bundles the authorization predicates that need external state.
// Guards only read the request context; they never mutate it.
type Guards struct {
	Users UserLookup
	Decks DeckLookup

	// LookupTimeout bounds each external round trip made by a guard so a
	// dropped client cannot leave a lookup suspended indefinitely.
	LookupTimeout time.Duration
}

const defaultLookupTimeout = 5 * time.Second

func (g *Guards) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := g.LookupTimeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// RequireLoggedIn denies with Unauthorized when no identity is attached.
func RequireLoggedIn(ctx context.Context) error {
	if _, ok := IdentityFromContext(ctx); !ok {
		return apierr.Unauthorized()
	}
	return nil
}

// RequireCorrectUser denies unless an identity is attached and its username
// matches the route username.
func RequireCorrectUser(ctx context.Context, username string) error {
	identity, ok := IdentityFromContext(ctx)
	if !ok || identity.Username != username {
		return apierr.Unauthorized()
	}
	return nil
}

// RequireCorrectPassword is the step-up check before destructive user
// operations. It denies with NotFound when the identity's user row is gone
// (should not happen after RequireLoggedIn) and with Unauthorized when the
// supplied password does not match the stored hash.
func (g *Guards) RequireCorrectPassword(ctx context.Context, password string) error {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return apierr.Unauthorized()
	}

	lookupCtx, cancel := g.lookupContext(ctx)
	defer cancel()

	user, err := g.Users.GetByUsername(lookupCtx, identity.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierr.NotFound()
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return apierr.Unauthorized()
	}
	return nil
}

// RequireDeckCreator authorizes based on the deck's recorded owner. A missing
// deck denies with NotFound; an existing deck owned by someone else denies
// with Unauthorized.
func (g *Guards) RequireDeckCreator(ctx context.Context, deckID string) error {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return apierr.Unauthorized()
	}

	lookupCtx, cancel := g.lookupContext(ctx)
	defer cancel()

	deck, err := g.Decks.GetByID(lookupCtx, deckID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierr.NotFound()
		}
		return err
	}

	if deck.CreatorUsername() != identity.Username {
		return apierr.Unauthorized()
	}
	return nil
}

// Guard is one authorization predicate over the request context.
type Guard func(ctx context.Context) error

// Chain runs guards in order and short-circuits on the first denial.
func Chain(ctx context.Context, guards ...Guard) error {
	for _, guard := range guards {
		if err := guard(ctx); err != nil {
			return err
		}
	}
	return nil
}
