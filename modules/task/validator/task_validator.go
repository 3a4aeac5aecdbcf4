package validator

import (
	"strings"

	"taskcal/core/controller"
	"taskcal/modules/task/dto"
	"taskcal/modules/task/entity"
)

type ValidationResult struct {
	Errors []controller.ValidationError `json:"errors"`
}

func (v *ValidationResult) HasError() bool {
	return len(v.Errors) > 0
}

func ValidateTaskRequest(req *dto.TaskRequest) *ValidationResult {
	result := &ValidationResult{}
	if strings.TrimSpace(req.Title) == "" {
		result.Errors = append(result.Errors, controller.NewValidationError("title", "title is required"))
	}
	if req.Status != "" && !entity.IsValidStatus(req.Status) {
		result.Errors = append(result.Errors, controller.NewValidationError("status", "status must be one of todo, in_progress, done"))
	}
	return result
}
