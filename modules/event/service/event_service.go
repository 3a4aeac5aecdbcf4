package service

import (
	"context"
	"fmt"
	"time"

	"taskcal/core/constants"
	"taskcal/core/errors"
	"taskcal/core/logger"
	"taskcal/core/params"
	"taskcal/core/storage"
	"taskcal/core/utils"
	authEntity "taskcal/modules/auth/entity"
	"taskcal/modules/event/dto"
	"taskcal/modules/event/entity"
	"taskcal/modules/event/mapper"
	"taskcal/modules/event/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const icsContentType = "text/calendar; charset=utf-8"

type UserLookup interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*authEntity.User, *errors.AppError)
}

type EventService struct {
	repo       repository.EventRepository
	users      UserLookup
	storage    storage.ObjectStorage
	presignTTL time.Duration
	now        func() time.Time
}

// NewEventService builds the service; objects may be nil when export storage
// is not configured.
func NewEventService(repo repository.EventRepository, users UserLookup, objects storage.ObjectStorage, presignTTL time.Duration) *EventService {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &EventService{
		repo:       repo,
		users:      users,
		storage:    objects,
		presignTTL: presignTTL,
		now:        time.Now,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, userID uuid.UUID, req *dto.EventRequest) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event := &entity.Event{UserID: userID}
	mapper.ApplyRequest(event, req)

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		logger.Error("EventService:CreateEvent:Error", "error", err, "user_id", userID)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create event failed", err)
	}
	return mapper.ToEventResponse(created), nil
}

func (s *EventService) GetEvent(ctx context.Context, userID, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, appErr := s.getOwned(ctx, userID, id)
	if appErr != nil {
		return nil, appErr
	}
	return mapper.ToEventResponse(event), nil
}

func (s *EventService) ListEvents(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*dto.PaginatedEventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	page, err := s.repo.List(ctx, userID, params)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get events failed", err)
	}
	return mapper.ToEventPaginationResponse(page), nil
}

// UpdateEvent overwrites the editable fields and marks the event pending so the
// next sync pushes it.
func (s *EventService) UpdateEvent(ctx context.Context, userID, id uuid.UUID, req *dto.EventRequest) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, appErr := s.getOwned(ctx, userID, id)
	if appErr != nil {
		return nil, appErr
	}

	mapper.ApplyRequest(event, req)
	if err := s.repo.Update(ctx, event); err != nil {
		logger.Error("EventService:UpdateEvent:Error", "error", err, "event_id", id)
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "update event failed", err)
	}
	return mapper.ToEventResponse(event), nil
}

// DeleteEvent removes the local row only; the provider's copy is left alone.
func (s *EventService) DeleteEvent(ctx context.Context, userID, id uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "delete event failed", err)
	}
	if !deleted {
		return errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	return nil
}

// ExportEvents uploads the user's events as an .ics file and returns a
// presigned download link.
func (s *EventService) ExportEvents(ctx context.Context, userID uuid.UUID) (*dto.ExportResponse, *errors.AppError) {
	if s.storage == nil {
		return nil, errors.NewAppError(errors.ErrNotConfigured, "export storage is not configured", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	user, appErr := s.users.GetUser(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	events, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get events failed", err)
	}

	now := s.now()
	key := ExportKey(userID, user.Name, now)
	if err := s.storage.PutObject(ctx, key, RenderICS(events, now), icsContentType); err != nil {
		logger.Error("EventService:ExportEvents:PutObject:Error", "error", err, "key", key)
		return nil, errors.NewAppError(errors.ErrExternalService, err.Error(), err)
	}

	url, err := s.storage.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		logger.Error("EventService:ExportEvents:PresignGet:Error", "error", err, "key", key)
		return nil, errors.NewAppError(errors.ErrExternalService, err.Error(), err)
	}

	logger.Info("EventService:ExportEvents:Success", "user_id", userID, "key", key, "events", len(events))
	return &dto.ExportResponse{
		URL:        url,
		Key:        key,
		EventCount: len(events),
		ExpiresAt:  now.Add(s.presignTTL),
	}, nil
}

// ExportKey is exports/<user id>/<slug of name>-<date>-<nanoid>.ics.
func ExportKey(userID uuid.UUID, name string, at time.Time) string {
	base := slug.Make(name)
	if base == "" {
		base = "calendar"
	}
	return fmt.Sprintf("exports/%s/%s-%s-%s.ics", userID, base, at.UTC().Format("20060102"), utils.GenerateID())
}

func (s *EventService) getOwned(ctx context.Context, userID, id uuid.UUID) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get event failed", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	return event, nil
}
