package repository

import (
	"context"
	"database/sql"
	"errors"

	"taskcal/core/database"
	coreEntity "taskcal/core/entity"
	"taskcal/core/params"
	"taskcal/modules/task/entity"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) (*entity.Task, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Task, error)
	List(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*entity.PaginatedTasks, error)
	Update(ctx context.Context, task *entity.Task) error
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

type taskRepository struct {
	db database.IDatabase
}

func NewTaskRepository(db database.IDatabase) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, user_id, title, description, status, time_spent_seconds, started_at, due_at, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description, status, time_spent_seconds, started_at, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		task.UserID, task.Title, task.Description, task.Status, task.TimeSpentSeconds, task.StartedAt, task.DueAt,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Task, error) {
	var task entity.Task
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &task, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*entity.PaginatedTasks, error) {
	where := ` WHERE user_id = $1 AND ($2 = '' OR title ILIKE '%' || $2 || '%') AND ($3 = '' OR status = $3)`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM tasks`+where, userID, params.Search, params.Status); err != nil {
		return nil, err
	}

	var tasks []entity.Task
	query := `SELECT ` + taskColumns + ` FROM tasks` + where + ` ORDER BY due_at ASC NULLS LAST, created_at DESC LIMIT $4 OFFSET $5`
	if err := r.db.SelectContext(ctx, &tasks, query, userID, params.Search, params.Status, params.PageSize, params.Offset()); err != nil {
		return nil, err
	}

	return coreEntity.NewPagination(tasks, total, params.PageNumber, params.PageSize), nil
}

func (r *taskRepository) Update(ctx context.Context, task *entity.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, time_spent_seconds = $4, started_at = $5, due_at = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Status, task.TimeSpentSeconds, task.StartedAt, task.DueAt, task.ID, task.UserID,
	).Scan(&task.UpdatedAt)
}

func (r *taskRepository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	res, err := r.db.NamedExecContext(ctx, `DELETE FROM tasks WHERE id = :id AND user_id = :user_id`,
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
