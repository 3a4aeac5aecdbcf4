package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskcal/core/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const statePurpose = "calendar_oauth"

var ErrInvalidState = errors.New("invalid state")

// StateStore keeps issued nonces until the callback consumes them.
type StateStore interface {
	SaveOAuthState(ctx context.Context, nonce string, userID string, ttl time.Duration) error
	ConsumeOAuthState(ctx context.Context, nonce string) (string, error)
}

type stateClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// StateSigner produces the opaque OAuth state: a short-lived signed token
// carrying the user id and a nonce that can be redeemed once.
type StateSigner struct {
	secret []byte
	store  StateStore
	ttl    time.Duration
	now    func() time.Time
}

func NewStateSigner(secret string, store StateStore, ttl time.Duration) *StateSigner {
	return &StateSigner{secret: []byte(secret), store: store, ttl: ttl, now: time.Now}
}

func (s *StateSigner) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	nonce := utils.GenerateNonce(24)
	now := s.now()

	claims := stateClaims{
		Purpose: statePurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        nonce,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}
	if err := s.store.SaveOAuthState(ctx, nonce, userID.String(), s.ttl); err != nil {
		return "", fmt.Errorf("save state: %w", err)
	}
	return state, nil
}

// Verify returns the user the state was issued for. A state verifies at most once.
func (s *StateSigner) Verify(ctx context.Context, state string) (uuid.UUID, error) {
	claims := &stateClaims{}
	_, err := jwt.ParseWithClaims(state, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if claims.Purpose != statePurpose || claims.ID == "" {
		return uuid.Nil, ErrInvalidState
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidState
	}

	owner, err := s.store.ConsumeOAuthState(ctx, claims.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if owner != userID.String() {
		return uuid.Nil, ErrInvalidState
	}
	return userID, nil
}
