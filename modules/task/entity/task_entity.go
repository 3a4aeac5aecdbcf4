package entity

import (
	"time"

	"taskcal/core/entity"

	"github.com/google/uuid"
)

const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

type Task struct {
	entity.BaseEntity
	UserID           uuid.UUID  `db:"user_id"`
	Title            string     `db:"title"`
	Description      string     `db:"description"`
	Status           string     `db:"status"`
	TimeSpentSeconds int64      `db:"time_spent_seconds"`
	StartedAt        *time.Time `db:"started_at"`
	DueAt            *time.Time `db:"due_at"`
}

// Running reports whether the timer is counting.
func (t *Task) Running() bool {
	return t.Status == StatusInProgress && t.StartedAt != nil
}

// CanStart reports whether the timer may be started. Done tasks stay done.
func (t *Task) CanStart() bool {
	return t.Status != StatusDone
}

// DisplayedSeconds is the accumulated time plus the current run, if any.
func (t *Task) DisplayedSeconds(now time.Time) int64 {
	if !t.Running() {
		return t.TimeSpentSeconds
	}
	elapsed := int64(now.Sub(*t.StartedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	return t.TimeSpentSeconds + elapsed
}

// Stop folds the current run into TimeSpentSeconds and clears StartedAt.
func (t *Task) Stop(now time.Time, status string) {
	t.TimeSpentSeconds = t.DisplayedSeconds(now)
	t.StartedAt = nil
	t.Status = status
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type PaginatedTasks = entity.Pagination[Task]
