package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"taskcal/core/config"
	"taskcal/core/constants"
	"taskcal/core/errors"
	"taskcal/core/logger"
	"taskcal/core/utils"
	"taskcal/modules/auth/dto"
	"taskcal/modules/auth/entity"
	"taskcal/modules/auth/mapper"
	"taskcal/modules/auth/repository"

	"github.com/google/uuid"
)

// SessionStore is the Redis-backed state used for sessions and login throttling.
type SessionStore interface {
	AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	IsLoginBlocked(ctx context.Context, identifier string) (bool, error)
	IncrementLoginAttempt(ctx context.Context, identifier string) (int64, error)
	ResetLoginAttempts(ctx context.Context, identifier string) error
}

type AuthService struct {
	repo  repository.UserRepository
	cache SessionStore
	jwt   config.JWTConfig
}

func NewAuthService(repo repository.UserRepository, cache SessionStore, jwtCfg config.JWTConfig) *AuthService {
	if jwtCfg.AccessTokenTTL <= 0 {
		jwtCfg.AccessTokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, cache: cache, jwt: jwtCfg}
}

func (service *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("AuthService:Register:HashPassword:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	user, err := service.repo.CreateUser(ctx, mapper.ToUserEntity(req, hash))
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicateEmail) {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "email already registered", nil)
		}
		logger.Error("AuthService:Register:CreateUser:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create user failed", err)
	}

	logger.Info("AuthService:Register:Success", "user_id", user.ID)
	return service.issueToken(user)
}

func (service *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	identifier := strings.ToLower(strings.TrimSpace(req.Email))

	blocked, err := service.cache.IsLoginBlocked(ctx, identifier)
	if err != nil {
		logger.Error("AuthService:Login:IsLoginBlocked:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check login attempts", err)
	}
	if blocked {
		return nil, errors.NewAppError(errors.ErrTooManyRequests, "too many failed login attempts, try again later", nil)
	}

	user, err := service.repo.GetUserByEmail(ctx, identifier)
	if err != nil {
		logger.Error("AuthService:Login:GetUserByEmail:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "get user failed", err)
	}

	if user == nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		attempts, errIncr := service.cache.IncrementLoginAttempt(ctx, identifier)
		if errIncr != nil {
			logger.Error("AuthService:Login:IncrementLoginAttempt:Error", "error", errIncr)
		}
		logger.Warn("AuthService:Login:InvalidCredentials", "email", identifier, "attempts", attempts)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	if err := service.cache.ResetLoginAttempts(ctx, identifier); err != nil {
		logger.Error("AuthService:Login:ResetLoginAttempts:Error", "error", err)
	}

	return service.issueToken(user)
}

// Logout blacklists the token for the rest of its lifetime.
func (service *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	claims, err := utils.ValidateAndParseToken(service.jwt.Secret, token)
	if err != nil {
		return errors.NewAppError(errors.ErrUnauthorized, "not authenticated", err)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := service.cache.AddToTokenBlacklist(ctx, token, ttl); err != nil {
		logger.Error("AuthService:Logout:AddToTokenBlacklist:Error", "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "logout failed", err)
	}
	return nil
}

func (service *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, appErr := service.GetUser(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	return mapper.ToUserResponse(user), nil
}

func (service *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, *errors.AppError) {
	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get user failed", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}
	return user, nil
}

// ValidateSession implements middleware.SessionValidator.
func (service *AuthService) ValidateSession(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := utils.ValidateAndParseToken(service.jwt.Secret, token)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.Scope != constants.ScopeTokenAccess {
		return uuid.Nil, utils.ErrTokenInvalid
	}

	blacklisted, err := service.cache.IsTokenBlacklisted(ctx, token)
	if err != nil {
		logger.Error("AuthService:ValidateSession:IsTokenBlacklisted:Error", "error", err)
		return uuid.Nil, err
	}
	if blacklisted {
		return uuid.Nil, utils.ErrTokenInvalid
	}
	return claims.UserID, nil
}

func (service *AuthService) issueToken(user *entity.User) (*dto.TokenResponse, *errors.AppError) {
	token, expiresAt, err := utils.GenerateToken(service.jwt.Secret, user.ID, user.Email, constants.ScopeTokenAccess, service.jwt.AccessTokenTTL)
	if err != nil {
		logger.Error("AuthService:issueToken:GenerateToken:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate token", err)
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        mapper.ToUserResponse(user),
	}, nil
}
