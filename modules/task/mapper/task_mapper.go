package mapper

import (
	"strings"
	"time"

	coreEntity "taskcal/core/entity"
	"taskcal/modules/task/dto"
	"taskcal/modules/task/entity"
)

func ToTaskEntity(req *dto.TaskRequest) *entity.Task {
	status := req.Status
	if status == "" {
		status = entity.StatusTodo
	}
	return &entity.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      status,
		DueAt:       req.DueAt,
	}
}

func ToTaskResponse(task *entity.Task, now time.Time) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:               task.ID,
		Title:            task.Title,
		Description:      task.Description,
		Status:           task.Status,
		TimeSpentSeconds: task.TimeSpentSeconds,
		DisplayedSeconds: task.DisplayedSeconds(now),
		StartedAt:        task.StartedAt,
		DueAt:            task.DueAt,
		CreatedAt:        task.CreatedAt,
		UpdatedAt:        task.UpdatedAt,
	}
}

func ToTaskPaginationResponse(page *entity.PaginatedTasks, now time.Time) *dto.PaginatedTaskResponse {
	if page == nil {
		return coreEntity.NewPagination[dto.TaskResponse](nil, 0, 0, 0)
	}
	items := make([]dto.TaskResponse, len(page.Items))
	for i := range page.Items {
		items[i] = *ToTaskResponse(&page.Items[i], now)
	}
	return coreEntity.NewPagination(items, page.TotalItems, page.PageNumber, page.PageSize)
}
