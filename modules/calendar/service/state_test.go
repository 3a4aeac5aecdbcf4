package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-at-least-32-characters"

func TestStateSigner_RoundTripOnce(t *testing.T) {
	signer := NewStateSigner(testSecret, newFakeStateStore(), 10*time.Minute)
	ctx := context.Background()
	userID := uuid.New()

	state, err := signer.Issue(ctx, userID)
	require.NoError(t, err)

	got, err := signer.Verify(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = signer.Verify(ctx, state)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateSigner_Rejects(t *testing.T) {
	ctx := context.Background()
	store := newFakeStateStore()
	signer := NewStateSigner(testSecret, store, 10*time.Minute)

	t.Run("garbage", func(t *testing.T) {
		_, err := signer.Verify(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewStateSigner("another-secret-with-at-least-32-chars", store, 10*time.Minute)
		state, err := other.Issue(ctx, uuid.New())
		require.NoError(t, err)
		_, err = signer.Verify(ctx, state)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("expired", func(t *testing.T) {
		state, err := signer.Issue(ctx, uuid.New())
		require.NoError(t, err)
		later := NewStateSigner(testSecret, store, 10*time.Minute)
		later.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
		_, err = later.Verify(ctx, state)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("wrong purpose", func(t *testing.T) {
		userID := uuid.New()
		require.NoError(t, store.SaveOAuthState(ctx, "nonce-1", userID.String(), time.Minute))
		claims := stateClaims{
			Purpose: "session",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   userID.String(),
				ID:        "nonce-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = signer.Verify(ctx, state)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}
