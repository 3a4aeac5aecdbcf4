package entity

import (
	"time"

	"taskcal/core/entity"

	"github.com/google/uuid"
)

const (
	SyncStatusPending = "pending"
	SyncStatusSynced  = "synced"
)

// Event is a local calendar entry. ExternalID links it to the provider's copy
// while the owner has a calendar credential.
type Event struct {
	entity.BaseEntity
	UserID            uuid.UUID  `db:"user_id"`
	Title             string     `db:"title"`
	Description       string     `db:"description"`
	Location          string     `db:"location"`
	StartAt           time.Time  `db:"start_at"`
	EndAt             time.Time  `db:"end_at"`
	AllDay            bool       `db:"all_day"`
	ExternalID        *string    `db:"external_id"`
	SyncStatus        string     `db:"sync_status"`
	ExternalUpdatedAt *time.Time `db:"external_updated_at"`
}

func (e *Event) IsPending() bool {
	return e.SyncStatus != SyncStatusSynced
}

func (e *Event) HasExternalID() bool {
	return e.ExternalID != nil && *e.ExternalID != ""
}

type PaginatedEvents = entity.Pagination[Event]
