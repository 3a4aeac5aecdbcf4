package validator

import (
	"testing"

	"taskcal/core/controller"
	"taskcal/modules/auth/dto"

	"github.com/stretchr/testify/assert"
)

func TestValidateLoginRequest_Email(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"plain address", "someone@example.com", true},
		{"surrounding spaces", "  someone@example.com ", true},
		{"display name", "Someone <someone@example.com>", false},
		{"angle brackets only", "<someone@example.com>", false},
		{"missing domain", "someone@", false},
		{"empty", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateLoginRequest(&dto.LoginRequest{Email: tt.email, Password: "secret"})
			assert.Equal(t, !tt.valid, result.HasError())
		})
	}
}

func TestValidateRegisterRequest(t *testing.T) {
	result := ValidateRegisterRequest(&dto.RegisterRequest{Email: "Name <a@b.c>", Password: "short"})

	assert.Equal(t, []controller.ValidationError{
		{Field: "email", Message: "email is invalid"},
		{Field: "password", Message: "password must be at least 8 characters"},
		{Field: "name", Message: "name is required"},
	}, result.Errors)
}
