package validator

import (
	"net/mail"
	"strings"

	"taskcal/core/controller"
	"taskcal/modules/auth/dto"
)

const minPasswordLength = 8

type ValidationResult struct {
	Errors []controller.ValidationError `json:"errors"`
}

func (v *ValidationResult) HasError() bool {
	return len(v.Errors) > 0
}

func (v *ValidationResult) add(field, message string) {
	v.Errors = append(v.Errors, controller.NewValidationError(field, message))
}

func ValidateRegisterRequest(req *dto.RegisterRequest) *ValidationResult {
	result := &ValidationResult{}
	validateEmail(result, req.Email)
	if len(req.Password) < minPasswordLength {
		result.add("password", "password must be at least 8 characters")
	}
	if strings.TrimSpace(req.Name) == "" {
		result.add("name", "name is required")
	}
	return result
}

func ValidateLoginRequest(req *dto.LoginRequest) *ValidationResult {
	result := &ValidationResult{}
	validateEmail(result, req.Email)
	if req.Password == "" {
		result.add("password", "password is required")
	}
	return result
}

func validateEmail(result *ValidationResult, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		result.add("email", "email is required")
		return
	}
	// ParseAddress also accepts display names like "Name <a@b.c>".
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		result.add("email", "email is invalid")
	}
}
