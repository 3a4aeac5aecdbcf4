package dto

import (
	"time"

	"taskcal/core/entity"

	"github.com/google/uuid"
)

type EventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	AllDay      bool      `json:"all_day"`
}

type EventResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	AllDay      bool      `json:"all_day"`
	ExternalID  *string   `json:"external_id,omitempty"`
	SyncStatus  string    `json:"sync_status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PaginatedEventResponse = entity.Pagination[EventResponse]

type ExportResponse struct {
	URL        string    `json:"url"`
	Key        string    `json:"key"`
	EventCount int       `json:"event_count"`
	ExpiresAt  time.Time `json:"expires_at"`
}
