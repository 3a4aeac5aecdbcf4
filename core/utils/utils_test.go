package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateAndParseToken(t *testing.T) {
	userID := uuid.New()

	token, expiresAt, err := GenerateToken(testSecret, userID, "a@b.c", "access", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := ValidateAndParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, "access", claims.Scope)
}

func TestValidateAndParseToken_Expired(t *testing.T) {
	token, _, err := GenerateToken(testSecret, uuid.New(), "a@b.c", "access", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateAndParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateAndParseToken_WrongSecret(t *testing.T) {
	token, _, err := GenerateToken(testSecret, uuid.New(), "a@b.c", "access", time.Hour)
	require.NoError(t, err)

	_, err = ValidateAndParseToken("another-secret-another-secret-xx", token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	assert.Len(t, a, 10)
	assert.NotEqual(t, a, b)
	assert.Len(t, GenerateNonce(24), 24)
}
