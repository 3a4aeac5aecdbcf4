package constants

import "time"

const (
	DefaultTimeout        = 30 * time.Second
	DefaultRequestTimeout = 10 * time.Second

	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"

	DefaultPageNumber = 1
	DefaultPageSize   = 20
	MaxPageSize       = 100
)

// ScopeTokenAccess is the scope embedded in session JWTs.
const ScopeTokenAccess = "access"

// Echo context keys set by the auth middleware.
const (
	ContextKeyUserID = "user_id"
	ContextKeyToken  = "token"
)

const (
	AccessTokenCookie = "access_token"

	MaxLoginAttempts = 5
	BlockDuration    = 15 * time.Minute

	OAuthStateTTL = 10 * time.Minute
)

// Redis key prefixes.
const (
	RedisKeyTokenBlacklist = "blacklist:"
	RedisKeyLoginAttempt   = "login:"
	RedisKeyOAuthState     = "oauth_state:"
)
