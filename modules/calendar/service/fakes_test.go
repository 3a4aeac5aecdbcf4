package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"taskcal/core/cache"
	"taskcal/core/params"
	"taskcal/modules/calendar/entity"
	"taskcal/modules/calendar/provider"
	eventEntity "taskcal/modules/event/entity"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

type fakeStateStore struct {
	states map[string]string
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{states: map[string]string{}}
}

func (f *fakeStateStore) SaveOAuthState(_ context.Context, nonce, userID string, _ time.Duration) error {
	f.states[nonce] = userID
	return nil
}

func (f *fakeStateStore) ConsumeOAuthState(_ context.Context, nonce string) (string, error) {
	userID, ok := f.states[nonce]
	if !ok {
		return "", cache.ErrStateNotFound
	}
	delete(f.states, nonce)
	return userID, nil
}

type fakeEventRepo struct {
	events map[uuid.UUID]*eventEntity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[uuid.UUID]*eventEntity.Event{}}
}

func (f *fakeEventRepo) add(e eventEntity.Event) *eventEntity.Event {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	f.events[e.ID] = &e
	return &e
}

func (f *fakeEventRepo) Create(_ context.Context, event *eventEntity.Event) (*eventEntity.Event, error) {
	event.ID = uuid.New()
	cp := *event
	f.events[event.ID] = &cp
	return event, nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, userID, id uuid.UUID) (*eventEntity.Event, error) {
	e, ok := f.events[id]
	if !ok || e.UserID != userID {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) List(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*eventEntity.PaginatedEvents, error) {
	items, _ := f.ListByUserID(ctx, userID)
	return &eventEntity.PaginatedEvents{Items: items, TotalItems: len(items), PageNumber: p.PageNumber, PageSize: p.PageSize}, nil
}

func (f *fakeEventRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]eventEntity.Event, error) {
	var out []eventEntity.Event
	for _, e := range f.events {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (f *fakeEventRepo) Update(_ context.Context, event *eventEntity.Event) error {
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

func (f *fakeEventRepo) MarkSynced(_ context.Context, id uuid.UUID, externalID string, externalUpdatedAt time.Time) error {
	e, ok := f.events[id]
	if !ok {
		return fmt.Errorf("event %s not found", id)
	}
	e.ExternalID = &externalID
	e.ExternalUpdatedAt = &externalUpdatedAt
	e.SyncStatus = eventEntity.SyncStatusSynced
	return nil
}

type fakeCalendarRepo struct {
	creds       map[uuid.UUID]*entity.CalendarCredential
	runs        []entity.SyncRun
	events      *fakeEventRepo
	upserts     int
	tokenWrites int
	switches    int
}

func newFakeCalendarRepo(events *fakeEventRepo) *fakeCalendarRepo {
	return &fakeCalendarRepo{creds: map[uuid.UUID]*entity.CalendarCredential{}, events: events}
}

func (f *fakeCalendarRepo) UpsertCredential(_ context.Context, cred *entity.CalendarCredential) (*entity.CalendarCredential, error) {
	f.upserts++
	if existing, ok := f.creds[cred.UserID]; ok {
		existing.AccessToken = cred.AccessToken
		existing.RefreshToken = cred.RefreshToken
		existing.TokenExpiry = cred.TokenExpiry
		existing.Email = cred.Email
		existing.SyncEnabled = true
		cp := *existing
		return &cp, nil
	}
	cp := *cred
	cp.ID = uuid.New()
	cp.SyncEnabled = true
	if cp.CalendarID == "" {
		cp.CalendarID = entity.DefaultCalendarID
	}
	f.creds[cred.UserID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeCalendarRepo) GetCredentialByUserID(_ context.Context, userID uuid.UUID) (*entity.CalendarCredential, error) {
	cred, ok := f.creds[userID]
	if !ok {
		return nil, nil
	}
	cp := *cred
	return &cp, nil
}

func (f *fakeCalendarRepo) UpdateTokens(_ context.Context, userID uuid.UUID, accessToken, refreshToken string, expiry *time.Time) error {
	f.tokenWrites++
	cred := f.creds[userID]
	cred.AccessToken = accessToken
	cred.RefreshToken = refreshToken
	cred.TokenExpiry = expiry
	return nil
}

func (f *fakeCalendarRepo) UpdateSettings(_ context.Context, userID uuid.UUID, syncEnabled bool, calendarID string) (*entity.CalendarCredential, error) {
	cred, ok := f.creds[userID]
	if !ok {
		return nil, nil
	}
	cred.SyncEnabled = syncEnabled
	cred.CalendarID = calendarID
	cp := *cred
	return &cp, nil
}

func (f *fakeCalendarRepo) SwitchCalendar(ctx context.Context, userID uuid.UUID, syncEnabled bool, calendarID string) (*entity.CalendarCredential, error) {
	cred, err := f.UpdateSettings(ctx, userID, syncEnabled, calendarID)
	if cred == nil || err != nil {
		return cred, err
	}
	f.switches++
	f.resetEvents(userID)
	return cred, nil
}

func (f *fakeCalendarRepo) TouchLastSync(_ context.Context, userID uuid.UUID, at time.Time) error {
	if cred, ok := f.creds[userID]; ok {
		cred.LastSyncAt = &at
	}
	return nil
}

func (f *fakeCalendarRepo) DeleteCredentialAndResetEvents(_ context.Context, userID uuid.UUID) (bool, error) {
	_, ok := f.creds[userID]
	delete(f.creds, userID)
	f.resetEvents(userID)
	return ok, nil
}

func (f *fakeCalendarRepo) resetEvents(userID uuid.UUID) {
	for _, e := range f.events.events {
		if e.UserID == userID {
			e.ExternalID = nil
			e.ExternalUpdatedAt = nil
			e.SyncStatus = eventEntity.SyncStatusPending
		}
	}
}

func (f *fakeCalendarRepo) ListSyncEnabledUserIDs(_ context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, cred := range f.creds {
		if cred.SyncEnabled {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeCalendarRepo) CreateSyncRun(_ context.Context, run *entity.SyncRun) error {
	run.ID = uuid.New()
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeCalendarRepo) ListSyncRuns(_ context.Context, userID uuid.UUID, _ params.QueryParams) ([]entity.SyncRun, int, error) {
	var out []entity.SyncRun
	for _, run := range f.runs {
		if run.UserID == userID {
			out = append(out, run)
		}
	}
	return out, len(out), nil
}

type fakeProvider struct {
	token         *oauth2.Token
	exchangeErr   error
	exchangeCalls int
	email         string
	client        *fakeCalendarClient
	calendarErr   error
}

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeProvider) Exchange(_ context.Context, _ string) (*oauth2.Token, error) {
	f.exchangeCalls++
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.token, nil
}

func (f *fakeProvider) FetchEmail(_ context.Context, _ *oauth2.Token) (string, error) {
	return f.email, nil
}

func (f *fakeProvider) Calendar(_ context.Context, token *oauth2.Token) (provider.CalendarClient, error) {
	if f.calendarErr != nil {
		return nil, f.calendarErr
	}
	f.client.token = token
	return f.client, nil
}

type fakeCalendarClient struct {
	remote    []provider.RemoteEvent
	listErr   error
	insertErr error
	inserted  []provider.RemoteEvent
	patched   []provider.RemoteEvent
	stamp     time.Time
	token     *oauth2.Token
	refreshed *oauth2.Token
}

func (f *fakeCalendarClient) ListEvents(_ context.Context, _ string, _, _ time.Time) ([]provider.RemoteEvent, error) {
	return f.remote, f.listErr
}

func (f *fakeCalendarClient) InsertEvent(_ context.Context, _ string, event provider.RemoteEvent) (*provider.RemoteEvent, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	event.ID = fmt.Sprintf("remote-%d", len(f.inserted)+1)
	event.Updated = f.stamp
	f.inserted = append(f.inserted, event)
	return &event, nil
}

func (f *fakeCalendarClient) UpdateEvent(_ context.Context, _ string, event provider.RemoteEvent) (*provider.RemoteEvent, error) {
	event.Updated = f.stamp
	f.patched = append(f.patched, event)
	return &event, nil
}

func (f *fakeCalendarClient) Token() (*oauth2.Token, error) {
	if f.refreshed != nil {
		return f.refreshed, nil
	}
	return f.token, nil
}
