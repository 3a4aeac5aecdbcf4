package mapper

import (
	coreEntity "taskcal/core/entity"
	"taskcal/modules/calendar/dto"
	"taskcal/modules/calendar/entity"
)

func ToStatusResponse(cred *entity.CalendarCredential) *dto.CalendarStatusResponse {
	if cred == nil {
		return &dto.CalendarStatusResponse{Connected: false}
	}
	return &dto.CalendarStatusResponse{
		Connected:   true,
		Email:       cred.Email,
		CalendarID:  cred.CalendarID,
		LastSyncAt:  cred.LastSyncAt,
		SyncEnabled: cred.SyncEnabled,
	}
}

func ToSyncRunResponse(run *entity.SyncRun) dto.SyncRunResponse {
	errs := []string(run.Errors)
	if errs == nil {
		errs = []string{}
	}
	return dto.SyncRunResponse{
		ID:         run.ID,
		Trigger:    run.Trigger,
		Imported:   run.Imported,
		Exported:   run.Exported,
		Conflicts:  run.Conflicts,
		Errors:     errs,
		Success:    run.Success,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
}

func ToSyncRunPaginationResponse(runs []entity.SyncRun, total, pageNumber, pageSize int) *dto.PaginatedSyncRunResponse {
	items := make([]dto.SyncRunResponse, len(runs))
	for i := range runs {
		items[i] = ToSyncRunResponse(&runs[i])
	}
	return coreEntity.NewPagination(items, total, pageNumber, pageSize)
}
