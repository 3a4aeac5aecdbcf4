package mapper

import (
	"strings"

	"taskcal/modules/auth/dto"
	"taskcal/modules/auth/entity"
)

func ToUserEntity(req *dto.RegisterRequest, passwordHash string) *entity.User {
	return &entity.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: passwordHash,
	}
}

func ToUserResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}
