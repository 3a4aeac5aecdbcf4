package validator

import (
	"strings"

	"taskcal/core/controller"
	"taskcal/modules/event/dto"
)

type ValidationResult struct {
	Errors []controller.ValidationError `json:"errors"`
}

func (v *ValidationResult) HasError() bool {
	return len(v.Errors) > 0
}

func ValidateEventRequest(req *dto.EventRequest) *ValidationResult {
	result := &ValidationResult{}
	if strings.TrimSpace(req.Title) == "" {
		result.Errors = append(result.Errors, controller.NewValidationError("title", "title is required"))
	}
	if req.StartAt.IsZero() {
		result.Errors = append(result.Errors, controller.NewValidationError("start_at", "start_at is required"))
	}
	if req.EndAt.IsZero() {
		result.Errors = append(result.Errors, controller.NewValidationError("end_at", "end_at is required"))
	}
	if !req.StartAt.IsZero() && !req.EndAt.IsZero() && !req.EndAt.After(req.StartAt) {
		result.Errors = append(result.Errors, controller.NewValidationError("end_at", "end_at must be after start_at"))
	}
	return result
}
