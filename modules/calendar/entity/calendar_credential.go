package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const DefaultCalendarID = "primary"

// Sync triggers.
const (
	TriggerManual     = "manual"
	TriggerCallback   = "callback"
	TriggerBackground = "background"
)

// CalendarCredential stores one user's provider tokens. At most one per user.
type CalendarCredential struct {
	ID           uuid.UUID  `db:"id"`
	UserID       uuid.UUID  `db:"user_id"`
	AccessToken  string     `db:"access_token"`
	RefreshToken string     `db:"refresh_token"`
	TokenExpiry  *time.Time `db:"token_expiry"`
	Email        string     `db:"email"`
	CalendarID   string     `db:"calendar_id"`
	SyncEnabled  bool       `db:"sync_enabled"`
	LastSyncAt   *time.Time `db:"last_sync_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

type SyncRun struct {
	ID         uuid.UUID      `db:"id"`
	UserID     uuid.UUID      `db:"user_id"`
	Trigger    string         `db:"trigger"`
	Imported   int            `db:"imported"`
	Exported   int            `db:"exported"`
	Conflicts  int            `db:"conflicts"`
	Errors     pq.StringArray `db:"errors"`
	Success    bool           `db:"success"`
	StartedAt  time.Time      `db:"started_at"`
	FinishedAt time.Time      `db:"finished_at"`
}
