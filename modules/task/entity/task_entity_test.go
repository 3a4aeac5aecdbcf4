package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayedSeconds(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	started := now.Add(-90 * time.Second)

	tests := []struct {
		name string
		task Task
		want int64
	}{
		{"todo ignores started_at", Task{Status: StatusTodo, TimeSpentSeconds: 30, StartedAt: &started}, 30},
		{"in progress adds elapsed", Task{Status: StatusInProgress, TimeSpentSeconds: 30, StartedAt: &started}, 120},
		{"in progress without start", Task{Status: StatusInProgress, TimeSpentSeconds: 30}, 30},
		{"done", Task{Status: StatusDone, TimeSpentSeconds: 600}, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.DisplayedSeconds(now))
		})
	}
}

func TestStop_FoldsElapsedTime(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	started := now.Add(-2 * time.Minute)
	task := Task{Status: StatusInProgress, TimeSpentSeconds: 10, StartedAt: &started}

	task.Stop(now, StatusTodo)

	assert.Equal(t, int64(130), task.TimeSpentSeconds)
	assert.Nil(t, task.StartedAt)
	assert.Equal(t, StatusTodo, task.Status)
	assert.Equal(t, int64(130), task.DisplayedSeconds(now.Add(time.Hour)))
}

func TestCanStart(t *testing.T) {
	assert.True(t, (&Task{Status: StatusTodo}).CanStart())
	assert.True(t, (&Task{Status: StatusInProgress}).CanStart())
	assert.False(t, (&Task{Status: StatusDone}).CanStart())
}
