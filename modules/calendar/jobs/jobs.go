package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taskcal/core/logger"
	"taskcal/core/queue"
	"taskcal/modules/calendar/entity"
	"taskcal/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TypeSyncUser = "calendar:sync_user"
	TypeSyncAll  = "calendar:sync_all"
)

type SyncUserPayload struct {
	UserID uuid.UUID `json:"user_id"`
}

func NewSyncUserTask(userID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(SyncUserPayload{UserID: userID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSyncUser, payload), nil
}

func NewSyncAllTask() *asynq.Task {
	return asynq.NewTask(TypeSyncAll, nil)
}

type Syncer interface {
	SyncUser(ctx context.Context, userID uuid.UUID, trigger string) (*service.SyncResult, error)
}

type UserLister interface {
	ListSyncEnabledUserIDs(ctx context.Context) ([]uuid.UUID, error)
	GetCredentialByUserID(ctx context.Context, userID uuid.UUID) (*entity.CalendarCredential, error)
}

// Handler processes background sync tasks. uniqueFor keeps a user from being
// queued twice within one sync interval.
type Handler struct {
	syncer    Syncer
	users     UserLister
	enqueuer  queue.Enqueuer
	uniqueFor time.Duration
}

func NewHandler(syncer Syncer, users UserLister, enqueuer queue.Enqueuer, uniqueFor time.Duration) *Handler {
	return &Handler{syncer: syncer, users: users, enqueuer: enqueuer, uniqueFor: uniqueFor}
}

// Register wires both task types into the worker and schedules the fan-out.
func (h *Handler) Register(w *queue.Worker, cronspec string) {
	w.HandleFunc(TypeSyncUser, h.HandleSyncUser)
	w.HandleFunc(TypeSyncAll, h.HandleSyncAll)
	w.Schedule(queue.PeriodicTask{
		Cronspec: cronspec,
		Task:     NewSyncAllTask(),
		Opts:     []asynq.Option{asynq.MaxRetry(0)},
	})
}

func (h *Handler) HandleSyncUser(ctx context.Context, t *asynq.Task) error {
	var payload SyncUserPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", TypeSyncUser, err, asynq.SkipRetry)
	}

	// Sync may have been turned off after the fan-out queued the task.
	cred, err := h.users.GetCredentialByUserID(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	if cred == nil || !cred.SyncEnabled {
		logger.Info("CalendarJobs:SyncUser:Skipped", "user_id", payload.UserID, "reason", "sync disabled")
		return nil
	}

	_, err = h.syncer.SyncUser(ctx, payload.UserID, entity.TriggerBackground)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrNotConnected), errors.Is(err, service.ErrNotConfigured):
		logger.Info("CalendarJobs:SyncUser:Skipped", "user_id", payload.UserID, "reason", err.Error())
		return nil
	default:
		return err
	}
}

func (h *Handler) HandleSyncAll(ctx context.Context, _ *asynq.Task) error {
	userIDs, err := h.users.ListSyncEnabledUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list sync-enabled users: %w", err)
	}

	opts := []asynq.Option{asynq.MaxRetry(3)}
	if h.uniqueFor >= time.Second {
		opts = append(opts, asynq.Unique(h.uniqueFor))
	}

	var queued int
	for _, userID := range userIDs {
		task, err := NewSyncUserTask(userID)
		if err != nil {
			return err
		}
		_, err = h.enqueuer.EnqueueContext(ctx, task, opts...)
		if err != nil {
			if errors.Is(err, asynq.ErrDuplicateTask) {
				continue
			}
			logger.Warn("CalendarJobs:SyncAll:EnqueueFailed", "user_id", userID, "error", err)
			continue
		}
		queued++
	}

	logger.Info("CalendarJobs:SyncAll:Done", "users", len(userIDs), "queued", queued)
	return nil
}
