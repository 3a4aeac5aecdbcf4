package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"taskcal/core/database"
	coreEntity "taskcal/core/entity"
	"taskcal/core/params"
	"taskcal/modules/event/entity"

	"github.com/google/uuid"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Event, error)
	List(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*entity.PaginatedEvents, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
	MarkSynced(ctx context.Context, id uuid.UUID, externalID string, externalUpdatedAt time.Time) error
}

type eventRepository struct {
	db database.IDatabase
}

func NewEventRepository(db database.IDatabase) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, user_id, title, description, location, start_at, end_at, all_day,
	external_id, sync_status, external_updated_at, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	if event.SyncStatus == "" {
		event.SyncStatus = entity.SyncStatusPending
	}
	query := `
		INSERT INTO events (user_id, title, description, location, start_at, end_at, all_day,
			external_id, sync_status, external_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		event.UserID, event.Title, event.Description, event.Location, event.StartAt, event.EndAt, event.AllDay,
		event.ExternalID, event.SyncStatus, event.ExternalUpdatedAt,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Event, error) {
	var event entity.Event
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &event, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*entity.PaginatedEvents, error) {
	where := ` WHERE user_id = $1 AND ($2 = '' OR title ILIKE '%' || $2 || '%') AND ($3 = '' OR sync_status = $3)`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM events`+where, userID, params.Search, params.Status); err != nil {
		return nil, err
	}

	var events []entity.Event
	query := `SELECT ` + eventColumns + ` FROM events` + where + ` ORDER BY start_at ASC LIMIT $4 OFFSET $5`
	if err := r.db.SelectContext(ctx, &events, query, userID, params.Search, params.Status, params.PageSize, params.Offset()); err != nil {
		return nil, err
	}

	return coreEntity.NewPagination(events, total, params.PageNumber, params.PageSize), nil
}

func (r *eventRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Event, error) {
	var events []entity.Event
	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id = $1 ORDER BY start_at ASC`
	if err := r.db.SelectContext(ctx, &events, query, userID); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, location = $3, start_at = $4, end_at = $5, all_day = $6,
			external_id = $7, sync_status = $8, external_updated_at = $9, updated_at = NOW()
		WHERE id = $10 AND user_id = $11
		RETURNING updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		event.Title, event.Description, event.Location, event.StartAt, event.EndAt, event.AllDay,
		event.ExternalID, event.SyncStatus, event.ExternalUpdatedAt, event.ID, event.UserID,
	).Scan(&event.UpdatedAt)
}

func (r *eventRepository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	res, err := r.db.NamedExecContext(ctx, `DELETE FROM events WHERE id = :id AND user_id = :user_id`,
		map[string]any{"id": id, "user_id": userID})
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *eventRepository) MarkSynced(ctx context.Context, id uuid.UUID, externalID string, externalUpdatedAt time.Time) error {
	query := `
		UPDATE events
		SET external_id = $1, sync_status = 'synced', external_updated_at = $2, updated_at = NOW()
		WHERE id = $3
	`
	return r.db.ExecContext(ctx, query, externalID, externalUpdatedAt, id)
}
