package mapper

import (
	"strings"

	coreEntity "taskcal/core/entity"
	"taskcal/modules/event/dto"
	"taskcal/modules/event/entity"
)

// ApplyRequest copies user-editable fields onto the event and marks it for sync.
func ApplyRequest(event *entity.Event, req *dto.EventRequest) {
	event.Title = strings.TrimSpace(req.Title)
	event.Description = req.Description
	event.Location = req.Location
	event.StartAt = req.StartAt.UTC()
	event.EndAt = req.EndAt.UTC()
	event.AllDay = req.AllDay
	event.SyncStatus = entity.SyncStatusPending
}

func ToEventResponse(event *entity.Event) *dto.EventResponse {
	return &dto.EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		StartAt:     event.StartAt,
		EndAt:       event.EndAt,
		AllDay:      event.AllDay,
		ExternalID:  event.ExternalID,
		SyncStatus:  event.SyncStatus,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

func ToEventPaginationResponse(page *entity.PaginatedEvents) *dto.PaginatedEventResponse {
	if page == nil {
		return coreEntity.NewPagination[dto.EventResponse](nil, 0, 0, 0)
	}
	items := make([]dto.EventResponse, len(page.Items))
	for i := range page.Items {
		items[i] = *ToEventResponse(&page.Items[i])
	}
	return coreEntity.NewPagination(items, page.TotalItems, page.PageNumber, page.PageSize)
}
