package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"taskcal/core/config"
	"taskcal/core/constants"
	"taskcal/core/logger"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)

	IsLoginBlocked(ctx context.Context, identifier string) (bool, error)
	IncrementLoginAttempt(ctx context.Context, identifier string) (int64, error)
	ResetLoginAttempts(ctx context.Context, identifier string) error

	SaveOAuthState(ctx context.Context, nonce string, userID string, ttl time.Duration) error
	ConsumeOAuthState(ctx context.Context, nonce string) (string, error)

	Ping(ctx context.Context) error
	Client() *redis.Client
	Close() error
}

// ErrStateNotFound is returned when an OAuth state nonce was never issued,
// has expired or has already been used.
var ErrStateNotFound = errors.New("oauth state not found")

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis initialized successfully", "addr", cfg.Addr, "db", cfg.DB)
	return &redisCache{client: client}, nil
}

// NewFromClient wraps an existing client, e.g. one pointed at a test server.
func NewFromClient(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return constants.RedisKeyTokenBlacklist + hex.EncodeToString(sum[:])
}

func (r *redisCache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, tokenKey(token), "1", ttl).Err()
}

func (r *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, tokenKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisCache) IsLoginBlocked(ctx context.Context, identifier string) (bool, error) {
	attempts, err := r.client.Get(ctx, constants.RedisKeyLoginAttempt+identifier).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return attempts >= constants.MaxLoginAttempts, nil
}

// IncrementLoginAttempt bumps the failure counter; the block window starts at
// the first failure.
func (r *redisCache) IncrementLoginAttempt(ctx context.Context, identifier string) (int64, error) {
	key := constants.RedisKeyLoginAttempt + identifier
	attempts, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if attempts == 1 {
		if err := r.client.Expire(ctx, key, constants.BlockDuration).Err(); err != nil {
			return attempts, err
		}
	}
	return attempts, nil
}

func (r *redisCache) ResetLoginAttempts(ctx context.Context, identifier string) error {
	return r.client.Del(ctx, constants.RedisKeyLoginAttempt+identifier).Err()
}

func (r *redisCache) SaveOAuthState(ctx context.Context, nonce string, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, constants.RedisKeyOAuthState+nonce, userID, ttl).Err()
}

func (r *redisCache) ConsumeOAuthState(ctx context.Context, nonce string) (string, error) {
	userID, err := r.client.GetDel(ctx, constants.RedisKeyOAuthState+nonce).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrStateNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (r *redisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCache) Client() *redis.Client {
	return r.client
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
