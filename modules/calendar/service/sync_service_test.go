package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskcal/core/config"
	"taskcal/modules/calendar/entity"
	"taskcal/modules/calendar/provider"
	eventEntity "taskcal/modules/event/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

var syncNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type syncFixture struct {
	sync   *SyncService
	repo   *fakeCalendarRepo
	events *fakeEventRepo
	prov   *fakeProvider
	client *fakeCalendarClient
	userID uuid.UUID
}

func newSyncFixture(t *testing.T, connected bool) *syncFixture {
	t.Helper()
	events := newFakeEventRepo()
	repo := newFakeCalendarRepo(events)
	client := &fakeCalendarClient{stamp: syncNow}
	prov := &fakeProvider{client: client}

	svc := NewSyncService(repo, events, prov, config.SyncConfig{PastDays: 30, FutureDays: 90})
	svc.now = func() time.Time { return syncNow }

	f := &syncFixture{sync: svc, repo: repo, events: events, prov: prov, client: client, userID: uuid.New()}
	if connected {
		repo.creds[f.userID] = &entity.CalendarCredential{
			ID:           uuid.New(),
			UserID:       f.userID,
			AccessToken:  "access",
			RefreshToken: "refresh",
			CalendarID:   entity.DefaultCalendarID,
			SyncEnabled:  true,
		}
	}
	return f
}

func ptr[T any](v T) *T { return &v }

func (f *syncFixture) local(title, externalID, status string, externalUpdated time.Time) *eventEntity.Event {
	e := eventEntity.Event{
		UserID:     f.userID,
		Title:      title,
		StartAt:    syncNow.Add(time.Hour),
		EndAt:      syncNow.Add(2 * time.Hour),
		SyncStatus: status,
	}
	if externalID != "" {
		e.ExternalID = ptr(externalID)
		e.ExternalUpdatedAt = ptr(externalUpdated)
	}
	return f.events.add(e)
}

func remote(id, title string, updated time.Time) provider.RemoteEvent {
	return provider.RemoteEvent{
		ID:      id,
		Title:   title,
		Start:   syncNow.Add(3 * time.Hour),
		End:     syncNow.Add(4 * time.Hour),
		Updated: updated,
	}
}

func TestSyncUser_Reconciles(t *testing.T) {
	f := newSyncFixture(t, true)
	t0 := syncNow.Add(-24 * time.Hour)

	a := f.local("A", "r-a", eventEntity.SyncStatusSynced, t0)
	b := f.local("B", "r-b", eventEntity.SyncStatusPending, t0)
	c := f.local("C", "r-c", eventEntity.SyncStatusPending, t0)
	d := f.local("D", "r-d", eventEntity.SyncStatusSynced, t0)
	e := f.local("E", "", eventEntity.SyncStatusPending, time.Time{})
	unchanged := f.local("F", "r-f", eventEntity.SyncStatusSynced, t0)

	cancelled := remote("r-d", "", t0.Add(time.Hour))
	cancelled.Cancelled = true
	gone := remote("r-gone", "", t0)
	gone.Cancelled = true

	f.client.remote = []provider.RemoteEvent{
		remote("r-a", "A remote", t0.Add(time.Hour)),
		remote("r-b", "B", t0),
		remote("r-c", "C remote", t0.Add(2*time.Hour)),
		cancelled,
		remote("r-f", "F", t0),
		remote("r-new", "New", t0),
		gone,
	}

	result, err := f.sync.SyncUser(context.Background(), f.userID, entity.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 2, result.Exported)
	assert.Equal(t, 1, result.Conflicts)
	assert.Empty(t, result.Errors)

	assert.Equal(t, "A remote", f.events.events[a.ID].Title)

	assert.Equal(t, eventEntity.SyncStatusSynced, f.events.events[b.ID].SyncStatus)
	require.Len(t, f.client.patched, 1)
	assert.Equal(t, "r-b", f.client.patched[0].ID)

	assert.Equal(t, "C remote", f.events.events[c.ID].Title)
	assert.Equal(t, eventEntity.SyncStatusSynced, f.events.events[c.ID].SyncStatus)

	assert.NotContains(t, f.events.events, d.ID)

	require.Len(t, f.client.inserted, 1)
	assert.Equal(t, "E", f.client.inserted[0].Title)
	assert.Equal(t, "remote-1", *f.events.events[e.ID].ExternalID)
	assert.Equal(t, eventEntity.SyncStatusSynced, f.events.events[e.ID].SyncStatus)

	assert.Equal(t, "F", f.events.events[unchanged.ID].Title)

	var imported *eventEntity.Event
	for _, ev := range f.events.events {
		if ev.HasExternalID() && *ev.ExternalID == "r-new" {
			imported = ev
		}
	}
	require.NotNil(t, imported)
	assert.Equal(t, eventEntity.SyncStatusSynced, imported.SyncStatus)
	assert.Len(t, f.events.events, 6)

	require.Len(t, f.repo.runs, 1)
	run := f.repo.runs[0]
	assert.True(t, run.Success)
	assert.Equal(t, entity.TriggerManual, run.Trigger)
	assert.Equal(t, 3, run.Imported)
	assert.Equal(t, syncNow, *f.repo.creds[f.userID].LastSyncAt)
}

func TestSyncUser_NotConnected(t *testing.T) {
	f := newSyncFixture(t, false)

	result, err := f.sync.SyncUser(context.Background(), f.userID, entity.TriggerManual)
	require.ErrorIs(t, err, ErrNotConnected)
	assert.Equal(t, 0, result.Imported+result.Exported+result.Conflicts)

	require.Len(t, f.repo.runs, 1)
	assert.False(t, f.repo.runs[0].Success)
	assert.Equal(t, []string{"calendar not connected"}, []string(f.repo.runs[0].Errors))
}

func TestSyncUser_ListFailureIsFatal(t *testing.T) {
	f := newSyncFixture(t, true)
	f.client.listErr = errors.New("quota exceeded")

	_, err := f.sync.SyncUser(context.Background(), f.userID, entity.TriggerBackground)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Nil(t, f.repo.creds[f.userID].LastSyncAt)
	require.Len(t, f.repo.runs, 1)
	assert.False(t, f.repo.runs[0].Success)
}

func TestSyncUser_ItemErrorsDoNotAbort(t *testing.T) {
	f := newSyncFixture(t, true)
	local := f.local("E", "", eventEntity.SyncStatusPending, time.Time{})
	f.client.insertErr = errors.New("boom")
	f.client.remote = []provider.RemoteEvent{remote("r-new", "New", syncNow)}

	result, err := f.sync.SyncUser(context.Background(), f.userID, entity.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Exported)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "event "+local.ID.String()+": insert: boom", result.Errors[0])
	assert.True(t, f.repo.runs[0].Success)
}

func TestSyncUser_PersistsRefreshedToken(t *testing.T) {
	f := newSyncFixture(t, true)
	f.client.refreshed = &oauth2.Token{AccessToken: "fresh", Expiry: syncNow.Add(time.Hour)}

	_, err := f.sync.SyncUser(context.Background(), f.userID, entity.TriggerManual)
	require.NoError(t, err)

	cred := f.repo.creds[f.userID]
	assert.Equal(t, 1, f.repo.tokenWrites)
	assert.Equal(t, "fresh", cred.AccessToken)
	assert.Equal(t, "refresh", cred.RefreshToken)
	require.NotNil(t, cred.TokenExpiry)
}

func TestSyncUser_UnchangedTokenNotWritten(t *testing.T) {
	f := newSyncFixture(t, true)

	_, err := f.sync.SyncUser(context.Background(), f.userID, entity.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 0, f.repo.tokenWrites)
}
