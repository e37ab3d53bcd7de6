package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIssuer(t *testing.T) {
	t.Run("empty secret is rejected", func(t *testing.T) {
		_, err := NewIssuer(nil, 0)
		assert.Error(t, err)

		_, err = NewIssuer([]byte{}, 0)
		assert.Error(t, err)
	})

	t.Run("non-empty secret works", func(t *testing.T) {
		issuer, err := NewIssuer([]byte("secret"), 0)
		require.NoError(t, err)
		assert.NotNil(t, issuer)
	})
}

func TestIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewIssuer([]byte("test-secret"), 0)
	require.NoError(t, err)

	t.Run("issued token verifies to the same identity", func(t *testing.T) {
		identity := Identity{UserID: "user-1", Username: "gideon"}
		token, err := issuer.Issue(identity)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		verified, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, identity, verified)
	})

	t.Run("no expiry claim when ttl is zero", func(t *testing.T) {
		token, err := issuer.Issue(Identity{UserID: "user-1", Username: "gideon"})
		require.NoError(t, err)

		claims := &Claims{}
		_, _, err = jwt.NewParser().ParseUnverified(token, claims)
		require.NoError(t, err)
		assert.Nil(t, claims.ExpiresAt)
		assert.NotNil(t, claims.IssuedAt)
	})
}

func TestIssuer_Verify(t *testing.T) {
	issuer, err := NewIssuer([]byte("test-secret"), 0)
	require.NoError(t, err)

	t.Run("malformed token", func(t *testing.T) {
		_, err := issuer.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		other, err := NewIssuer([]byte("other-secret"), 0)
		require.NoError(t, err)

		token, err := other.Issue(Identity{UserID: "user-1", Username: "gideon"})
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned token is rejected", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			UserID: "user-1", Username: "gideon",
		})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token without a username is rejected", func(t *testing.T) {
		anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "user-1"})
		token, err := anonymous.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		short, err := NewIssuer([]byte("test-secret"), time.Millisecond)
		require.NoError(t, err)

		token, err := short.Issue(Identity{UserID: "user-1", Username: "gideon"})
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
