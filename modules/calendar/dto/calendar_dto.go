package dto

import (
	"time"

	"taskcal/core/entity"

	"github.com/google/uuid"
)

// ========== Connection DTOs ==========

type ConnectResponse struct {
	URL string `json:"url"`
}

type CallbackRequest struct {
	Code  string `query:"code"`
	State string `query:"state"`
	Error string `query:"error"`
}

type NotConnectedResponse struct {
	Connected bool `json:"connected"`
}

type CalendarStatusResponse struct {
	Connected   bool       `json:"connected"`
	Email       string     `json:"email"`
	CalendarID  string     `json:"calendar_id"`
	LastSyncAt  *time.Time `json:"last_sync_at"`
	SyncEnabled bool       `json:"sync_enabled"`
}

type UpdateSettingsRequest struct {
	SyncEnabled *bool  `json:"sync_enabled"`
	CalendarID  string `json:"calendar_id"`
}

// ========== Sync DTOs ==========

type SyncResultResponse struct {
	Imported  int      `json:"imported"`
	Exported  int      `json:"exported"`
	Conflicts int      `json:"conflicts"`
	Errors    []string `json:"errors"`
}

type SyncRunResponse struct {
	ID         uuid.UUID `json:"id"`
	Trigger    string    `json:"trigger"`
	Imported   int       `json:"imported"`
	Exported   int       `json:"exported"`
	Conflicts  int       `json:"conflicts"`
	Errors     []string  `json:"errors"`
	Success    bool      `json:"success"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type PaginatedSyncRunResponse = entity.Pagination[SyncRunResponse]
