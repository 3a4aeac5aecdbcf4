package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"taskcal/core/config"
	"taskcal/core/constants"
	"taskcal/core/errors"
	"taskcal/modules/auth/dto"
	"taskcal/modules/auth/entity"
	"taskcal/modules/auth/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *entity.User) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, repository.ErrDuplicateEmail
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

type fakeSessionStore struct {
	blacklist map[string]bool
	attempts  map[string]int64
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{blacklist: map[string]bool{}, attempts: map[string]int64{}}
}

func (f *fakeSessionStore) AddToTokenBlacklist(_ context.Context, token string, _ time.Duration) error {
	f.blacklist[token] = true
	return nil
}

func (f *fakeSessionStore) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	return f.blacklist[token], nil
}

func (f *fakeSessionStore) IsLoginBlocked(_ context.Context, identifier string) (bool, error) {
	return f.attempts[identifier] >= constants.MaxLoginAttempts, nil
}

func (f *fakeSessionStore) IncrementLoginAttempt(_ context.Context, identifier string) (int64, error) {
	f.attempts[identifier]++
	return f.attempts[identifier], nil
}

func (f *fakeSessionStore) ResetLoginAttempts(_ context.Context, identifier string) error {
	delete(f.attempts, identifier)
	return nil
}

func newTestService() (*AuthService, *fakeSessionStore) {
	store := newFakeSessionStore()
	svc := NewAuthService(newFakeUserRepo(), store, config.JWTConfig{
		Secret:         "0123456789abcdef0123456789abcdef",
		AccessTokenTTL: time.Hour,
	})
	return svc, store
}

func TestRegisterLoginAndValidateSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	registered, appErr := svc.Register(ctx, &dto.RegisterRequest{Email: "Jane@Example.com", Password: "password1", Name: "Jane"})
	require.Nil(t, appErr)
	assert.Equal(t, "jane@example.com", registered.User.Email)

	_, appErr = svc.Register(ctx, &dto.RegisterRequest{Email: "jane@example.com", Password: "password1", Name: "Jane"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAlreadyExists, appErr.Code)

	login, appErr := svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "password1"})
	require.Nil(t, appErr)

	userID, err := svc.ValidateSession(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, userID)
}

func TestLogout_BlacklistsToken(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	resp, appErr := svc.Register(ctx, &dto.RegisterRequest{Email: "a@b.co", Password: "password1", Name: "A"})
	require.Nil(t, appErr)

	require.Nil(t, svc.Logout(ctx, resp.AccessToken))
	assert.True(t, store.blacklist[resp.AccessToken])

	_, err := svc.ValidateSession(ctx, resp.AccessToken)
	assert.Error(t, err)
}

func TestLogin_BlocksAfterRepeatedFailures(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, appErr := svc.Register(ctx, &dto.RegisterRequest{Email: "a@b.co", Password: "password1", Name: "A"})
	require.Nil(t, appErr)

	for i := 0; i < constants.MaxLoginAttempts; i++ {
		_, appErr = svc.Login(ctx, &dto.LoginRequest{Email: "a@b.co", Password: "wrong-pass"})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
	}

	_, appErr = svc.Login(ctx, &dto.LoginRequest{Email: "a@b.co", Password: "password1"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrTooManyRequests, appErr.Code)
}
