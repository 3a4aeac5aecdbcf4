package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"taskcal/core/errors"
	"taskcal/core/params"
	authEntity "taskcal/modules/auth/entity"
	"taskcal/modules/event/dto"
	"taskcal/modules/event/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	events map[uuid.UUID]*entity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[uuid.UUID]*entity.Event{}}
}

func (f *fakeEventRepo) Create(_ context.Context, event *entity.Event) (*entity.Event, error) {
	event.ID = uuid.New()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	cp := *event
	f.events[event.ID] = &cp
	return event, nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, userID, id uuid.UUID) (*entity.Event, error) {
	e, ok := f.events[id]
	if !ok || e.UserID != userID {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) List(_ context.Context, userID uuid.UUID, p params.QueryParams) (*entity.PaginatedEvents, error) {
	items, _ := f.ListByUserID(context.Background(), userID)
	return &entity.PaginatedEvents{Items: items, TotalItems: len(items), PageNumber: p.PageNumber, PageSize: p.PageSize}, nil
}

func (f *fakeEventRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]entity.Event, error) {
	var out []entity.Event
	for _, e := range f.events {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(_ context.Context, event *entity.Event) error {
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, userID, id uuid.UUID) (bool, error) {
	e, ok := f.events[id]
	if !ok || e.UserID != userID {
		return false, nil
	}
	delete(f.events, id)
	return true, nil
}

func (f *fakeEventRepo) MarkSynced(_ context.Context, id uuid.UUID, externalID string, at time.Time) error {
	e := f.events[id]
	e.ExternalID = &externalID
	e.SyncStatus = entity.SyncStatusSynced
	e.ExternalUpdatedAt = &at
	return nil
}

type fakeUsers struct{}

func (fakeUsers) GetUser(_ context.Context, userID uuid.UUID) (*authEntity.User, *errors.AppError) {
	u := &authEntity.User{Name: "Jane Doe", Email: "jane@example.com"}
	u.ID = userID
	return u, nil
}

type fakeStorage struct {
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeStorage) PutObject(_ context.Context, key string, body []byte, contentType string) error {
	f.objects[key] = body
	f.types[key] = contentType
	return nil
}

func (f *fakeStorage) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return "https://storage.test/" + key + "?expires=" + ttl.String(), nil
}

func TestCreateAndUpdateEvent_MarksPending(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, fakeUsers{}, nil, 0)
	userID := uuid.New()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	created, appErr := svc.CreateEvent(context.Background(), userID, &dto.EventRequest{
		Title: " Standup ", StartAt: start, EndAt: start.Add(30 * time.Minute),
	})
	require.Nil(t, appErr)
	assert.Equal(t, "Standup", created.Title)
	assert.Equal(t, entity.SyncStatusPending, created.SyncStatus)

	ext := "remote-1"
	stored := repo.events[created.ID]
	stored.ExternalID = &ext
	stored.SyncStatus = entity.SyncStatusSynced

	updated, appErr := svc.UpdateEvent(context.Background(), userID, created.ID, &dto.EventRequest{
		Title: "Standup (moved)", StartAt: start.Add(time.Hour), EndAt: start.Add(90 * time.Minute),
	})
	require.Nil(t, appErr)
	assert.Equal(t, entity.SyncStatusPending, updated.SyncStatus)
	require.NotNil(t, updated.ExternalID)
	assert.Equal(t, "remote-1", *updated.ExternalID)
}

func TestGetEvent_OtherUserIsNotFound(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, fakeUsers{}, nil, 0)
	start := time.Now()

	created, appErr := svc.CreateEvent(context.Background(), uuid.New(), &dto.EventRequest{Title: "x", StartAt: start, EndAt: start.Add(time.Hour)})
	require.Nil(t, appErr)

	_, appErr = svc.GetEvent(context.Background(), uuid.New(), created.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)

	appErr = svc.DeleteEvent(context.Background(), uuid.New(), created.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestExportEvents_UploadsICS(t *testing.T) {
	repo := newFakeEventRepo()
	objects := &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
	svc := NewEventService(repo, fakeUsers{}, objects, 10*time.Minute)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	userID := uuid.New()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	_, appErr := svc.CreateEvent(context.Background(), userID, &dto.EventRequest{Title: "Review, final", StartAt: start, EndAt: start.Add(time.Hour)})
	require.Nil(t, appErr)

	export, appErr := svc.ExportEvents(context.Background(), userID)
	require.Nil(t, appErr)
	assert.Equal(t, 1, export.EventCount)
	assert.True(t, strings.HasPrefix(export.Key, "exports/"+userID.String()+"/jane-doe-20260301-"))
	assert.True(t, strings.HasSuffix(export.Key, ".ics"))
	assert.Contains(t, export.URL, export.Key)

	body := string(objects.objects[export.Key])
	assert.Contains(t, body, "BEGIN:VCALENDAR\r\n")
	assert.Contains(t, body, "SUMMARY:Review\\, final\r\n")
	assert.Contains(t, body, "DTSTART:20260302T090000Z\r\n")
	assert.Equal(t, icsContentType, objects.types[export.Key])
}

func TestExportEvents_NotConfigured(t *testing.T) {
	svc := NewEventService(newFakeEventRepo(), fakeUsers{}, nil, 0)

	_, appErr := svc.ExportEvents(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotConfigured, appErr.Code)
}

func TestRenderICS_AllDayAndFolding(t *testing.T) {
	ev := entity.Event{
		Title:   strings.Repeat("long title ", 10),
		StartAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		AllDay:  true,
	}
	ev.ID = uuid.New()

	out := string(RenderICS([]entity.Event{ev}, time.Now()))
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20260501\r\n")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20260502\r\n")

	for _, line := range strings.Split(out, "\r\n") {
		assert.LessOrEqual(t, len(line), 75)
	}
}
