package users

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"golang.org/x/crypto/bcrypt"

	"github.com/deckhall/deckapi/internal/apierr"
	"github.com/deckhall/deckapi/internal/db/bunx"
	"github.com/deckhall/deckapi/internal/db/models"
	"github.com/deckhall/deckapi/internal/migrations"
	"github.com/deckhall/deckapi/internal/repository"
)

func newTestService(t *testing.T) (*Service, *bun.DB) {
	t.Helper()

	db, err := bunx.NewDB("file::memory:", 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bunx.Close(db) })

	ctx := context.Background()
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	require.NoError(t, migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)

	svc := NewService(
		repository.NewBunUserRepository(db),
		repository.NewBunDeckRepository(db),
		repository.NewBunLikeRepository(db),
		bcrypt.MinCost,
	)
	return svc, db
}

func denialStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	return apiErr.Status
}

func TestService_Register(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	t.Run("creates a user with a hashed password", func(t *testing.T) {
		user, err := svc.Register(ctx, "gideon", "gideon@example.com", "hunter2")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.NotEqual(t, "hunter2", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2")))
	})

	t.Run("duplicate username is a bad request", func(t *testing.T) {
		_, err := svc.Register(ctx, "gideon", "other@example.com", "hunter2")
		assert.Equal(t, http.StatusBadRequest, denialStatus(t, err))
	})

	t.Run("duplicate email is a bad request", func(t *testing.T) {
		_, err := svc.Register(ctx, "gideon2", "gideon@example.com", "hunter2")
		assert.Equal(t, http.StatusBadRequest, denialStatus(t, err))
	})
}

// blindUserRepo reports every pre-insert probe as not found, so a concurrent
// registration that slipped in after the probes surfaces through Create.
type blindUserRepo struct {
	repository.UserRepository
}

func (r *blindUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func (r *blindUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func TestService_RegisterRace(t *testing.T) {
	_, db := newTestService(t)
	ctx := context.Background()

	userRepo := repository.NewBunUserRepository(db)
	svc := NewService(
		&blindUserRepo{UserRepository: userRepo},
		repository.NewBunDeckRepository(db),
		repository.NewBunLikeRepository(db),
		bcrypt.MinCost,
	)

	_, err := svc.Register(ctx, "teferi", "teferi@example.com", "hunter2")
	require.NoError(t, err)

	// The unique index catches what the probes missed, and the loser still
	// gets a client error rather than a 500.
	_, err = svc.Register(ctx, "teferi", "other@example.com", "hunter2")
	assert.Equal(t, http.StatusBadRequest, denialStatus(t, err))
}

func TestService_Authenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "jace", "jace@example.com", "hunter2")
	require.NoError(t, err)

	t.Run("valid credentials return the user", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "jace@example.com", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "jace", user.Username)
	})

	t.Run("unknown email and wrong password deny identically", func(t *testing.T) {
		_, unknownErr := svc.Authenticate(ctx, "nobody@example.com", "hunter2")
		_, wrongErr := svc.Authenticate(ctx, "jace@example.com", "wrong")

		assert.Equal(t, http.StatusUnauthorized, denialStatus(t, unknownErr))
		assert.Equal(t, http.StatusUnauthorized, denialStatus(t, wrongErr))
		assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	})
}

func TestService_Update(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "liliana", "liliana@example.com", "hunter2")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "chandra", "chandra@example.com", "hunter2")
	require.NoError(t, err)

	t.Run("changes username and email", func(t *testing.T) {
		user, err := svc.Update(ctx, "liliana", "lili", "lili@example.com")
		require.NoError(t, err)
		assert.Equal(t, "lili", user.Username)
		assert.Equal(t, "lili@example.com", user.Email)
	})

	t.Run("blank fields keep current values", func(t *testing.T) {
		user, err := svc.Update(ctx, "lili", "", "")
		require.NoError(t, err)
		assert.Equal(t, "lili", user.Username)
		assert.Equal(t, "lili@example.com", user.Email)
	})

	t.Run("taken username is a bad request", func(t *testing.T) {
		_, err := svc.Update(ctx, "lili", "chandra", "")
		assert.Equal(t, http.StatusBadRequest, denialStatus(t, err))
	})

	t.Run("missing user is not found", func(t *testing.T) {
		_, err := svc.Update(ctx, "nobody", "x", "")
		assert.Equal(t, http.StatusNotFound, denialStatus(t, err))
	})
}

func TestService_Delete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "karn", "karn@example.com", "hunter2")
	require.NoError(t, err)

	t.Run("removes the account", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "karn"))

		_, err := svc.Profile(ctx, "karn")
		assert.Equal(t, http.StatusNotFound, denialStatus(t, err))
	})

	t.Run("missing account is not found", func(t *testing.T) {
		err := svc.Delete(ctx, "karn")
		assert.Equal(t, http.StatusNotFound, denialStatus(t, err))
	})
}

func TestService_Likes(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	creator, err := svc.Register(ctx, "nissa", "nissa@example.com", "hunter2")
	require.NoError(t, err)
	fan, err := svc.Register(ctx, "teferi", "teferi@example.com", "hunter2")
	require.NoError(t, err)

	deck := &models.Deck{
		ID:        bunx.NewUUIDv7(),
		Name:      "Elves",
		CreatorID: creator.ID,
	}
	require.NoError(t, repository.NewBunDeckRepository(db).Create(ctx, deck))

	t.Run("like returns the full set of liked IDs", func(t *testing.T) {
		likes, err := svc.LikeDeck(ctx, fan.ID, deck.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{deck.ID}, likes)
	})

	t.Run("liking a missing deck is not found", func(t *testing.T) {
		_, err := svc.LikeDeck(ctx, fan.ID, "00000000-0000-0000-0000-000000000000")
		assert.Equal(t, http.StatusNotFound, denialStatus(t, err))
	})

	t.Run("unlike returns the remaining IDs", func(t *testing.T) {
		likes, err := svc.UnlikeDeck(ctx, fan.ID, deck.ID)
		require.NoError(t, err)
		assert.Empty(t, likes)
	})

	t.Run("unliking without a like is not found", func(t *testing.T) {
		_, err := svc.UnlikeDeck(ctx, fan.ID, deck.ID)
		assert.Equal(t, http.StatusNotFound, denialStatus(t, err))
	})
}
