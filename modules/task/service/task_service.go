package service

import (
	"context"
	"time"

	"taskcal/core/constants"
	"taskcal/core/errors"
	"taskcal/core/logger"
	"taskcal/core/params"
	"taskcal/modules/task/dto"
	"taskcal/modules/task/entity"
	"taskcal/modules/task/mapper"
	"taskcal/modules/task/repository"

	"github.com/google/uuid"
)

var errTaskDone = errors.NewAppError(errors.ErrInvalidInput, "task is already done", nil)

type TaskService struct {
	repo repository.TaskRepository
	now  func() time.Time
}

func NewTaskService(repo repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo, now: time.Now}
}

func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, req *dto.TaskRequest) (*dto.TaskResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	now := s.now()
	task := mapper.ToTaskEntity(req)
	task.UserID = userID
	if task.Status == entity.StatusInProgress {
		task.StartedAt = &now
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		logger.Error("TaskService:CreateTask:Error", "error", err, "user_id", userID)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create task failed", err)
	}
	return mapper.ToTaskResponse(created, now), nil
}

func (s *TaskService) GetTask(ctx context.Context, userID, id uuid.UUID) (*dto.TaskResponse, *errors.AppError) {
	task, appErr := s.getOwned(ctx, userID, id)
	if appErr != nil {
		return nil, appErr
	}
	return mapper.ToTaskResponse(task, s.now()), nil
}

func (s *TaskService) ListTasks(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*dto.PaginatedTaskResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	page, err := s.repo.List(ctx, userID, params)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get tasks failed", err)
	}
	return mapper.ToTaskPaginationResponse(page, s.now()), nil
}

// UpdateTask applies the edit; a status change through the request starts or
// stops the timer the same way Start and Stop do.
func (s *TaskService) UpdateTask(ctx context.Context, userID, id uuid.UUID, req *dto.TaskRequest) (*dto.TaskResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	task, appErr := s.getOwned(ctx, userID, id)
	if appErr != nil {
		return nil, appErr
	}

	now := s.now()
	task.Title = mapper.ToTaskEntity(req).Title
	task.Description = req.Description
	task.DueAt = req.DueAt

	if req.Status != "" && req.Status != task.Status {
		switch {
		case req.Status == entity.StatusInProgress && !task.CanStart():
			return nil, errTaskDone
		case req.Status == entity.StatusInProgress:
			task.Status = entity.StatusInProgress
			task.StartedAt = &now
		case task.Running():
			task.Stop(now, req.Status)
		default:
			task.Status = req.Status
		}
	}

	return s.save(ctx, task, now)
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, id uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "delete task failed", err)
	}
	if !deleted {
		return errors.NewAppError(errors.ErrNotFound, "task not found", nil)
	}
	return nil
}

// StartTask starts the timer. Done tasks cannot be started and a running task
// is returned unchanged.
func (s *TaskService) StartTask(ctx context.Context, userID, id uuid.UUID) (*dto.TaskResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	task, appErr := s.getOwned(ctx, userID, id)
	if appErr != nil {
		return nil, appErr
	}

	now := s.now()
	switch {
	case !task.CanStart():
		return nil, errTaskDone
	case task.Running():
		return mapper.ToTaskResponse(task, now), nil
	}

	task.Status = entity.StatusInProgress
	task.StartedAt = &now
	return s.save(ctx, task, now)
}

// StopTask folds the running time into time spent. The task goes back to todo
// unless done is set. A task that is not running is returned unchanged.
func (s *TaskService) StopTask(ctx context.Context, userID, id uuid.UUID, done bool) (*dto.TaskResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	task, appErr := s.getOwned(ctx, userID, id)
	if appErr != nil {
		return nil, appErr
	}

	now := s.now()
	if !task.Running() {
		return mapper.ToTaskResponse(task, now), nil
	}

	status := entity.StatusTodo
	if done {
		status = entity.StatusDone
	}
	task.Stop(now, status)
	return s.save(ctx, task, now)
}

func (s *TaskService) save(ctx context.Context, task *entity.Task, now time.Time) (*dto.TaskResponse, *errors.AppError) {
	if err := s.repo.Update(ctx, task); err != nil {
		logger.Error("TaskService:save:Error", "error", err, "task_id", task.ID)
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "update task failed", err)
	}
	return mapper.ToTaskResponse(task, now), nil
}

func (s *TaskService) getOwned(ctx context.Context, userID, id uuid.UUID) (*entity.Task, *errors.AppError) {
	task, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get task failed", err)
	}
	if task == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "task not found", nil)
	}
	return task, nil
}
