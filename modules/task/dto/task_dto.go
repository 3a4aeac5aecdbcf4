package dto

import (
	"time"

	"taskcal/core/entity"

	"github.com/google/uuid"
)

type TaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueAt       *time.Time `json:"due_at"`
}

type TaskResponse struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	TimeSpentSeconds int64      `json:"time_spent_seconds"`
	DisplayedSeconds int64      `json:"displayed_seconds"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type PaginatedTaskResponse = entity.Pagination[TaskResponse]
