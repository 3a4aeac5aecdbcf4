package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskcal/core/config"
	"taskcal/core/logger"
	"taskcal/core/metrics"
	"taskcal/modules/calendar/entity"
	"taskcal/modules/calendar/provider"
	"taskcal/modules/calendar/repository"
	eventEntity "taskcal/modules/event/entity"
	eventRepository "taskcal/modules/event/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

var (
	ErrNotConnected  = errors.New("calendar not connected")
	ErrNotConfigured = errors.New("calendar integration not configured")
)

type SyncResult struct {
	Imported  int
	Exported  int
	Conflicts int
	Errors    []string
}

// SyncService reconciles a user's local events with the remote calendar.
type SyncService struct {
	repo     repository.CalendarRepository
	events   eventRepository.EventRepository
	provider provider.Provider
	window   config.SyncConfig
	now      func() time.Time
}

// NewSyncService builds the service; prov may be nil when the integration is
// not configured, in which case every run fails with ErrNotConfigured.
func NewSyncService(repo repository.CalendarRepository, events eventRepository.EventRepository, prov provider.Provider, window config.SyncConfig) *SyncService {
	return &SyncService{
		repo:     repo,
		events:   events,
		provider: prov,
		window:   window,
		now:      time.Now,
	}
}

// SyncUser runs one full reconciliation and records it in sync history.
// Per-event failures end up in the result; the returned error is set only when
// the run could not proceed at all.
func (s *SyncService) SyncUser(ctx context.Context, userID uuid.UUID, trigger string) (*SyncResult, error) {
	started := s.now()
	result := &SyncResult{Errors: []string{}}

	runErr := s.run(ctx, userID, result)
	finished := s.now()

	run := &entity.SyncRun{
		UserID:     userID,
		Trigger:    trigger,
		Imported:   result.Imported,
		Exported:   result.Exported,
		Conflicts:  result.Conflicts,
		Errors:     result.Errors,
		Success:    runErr == nil,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if runErr != nil {
		run.Errors = append(append([]string{}, result.Errors...), runErr.Error())
	}
	if err := s.repo.CreateSyncRun(ctx, run); err != nil {
		logger.Warn("SyncService:SyncUser:RecordRunFailed", "user_id", userID, "error", err)
	}
	metrics.ObserveSync(trigger, runErr == nil, result.Imported, result.Exported, result.Conflicts, len(result.Errors), finished.Sub(started))

	if runErr != nil {
		logger.Error("SyncService:SyncUser:Error", "user_id", userID, "trigger", trigger, "error", runErr)
		return result, runErr
	}

	if err := s.repo.TouchLastSync(ctx, userID, finished); err != nil {
		logger.Warn("SyncService:SyncUser:TouchLastSyncFailed", "user_id", userID, "error", err)
	}
	logger.Info("SyncService:SyncUser:Done",
		"user_id", userID,
		"trigger", trigger,
		"imported", result.Imported,
		"exported", result.Exported,
		"conflicts", result.Conflicts,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *SyncService) run(ctx context.Context, userID uuid.UUID, result *SyncResult) error {
	cred, err := s.repo.GetCredentialByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	if cred == nil {
		return ErrNotConnected
	}
	if s.provider == nil {
		return ErrNotConfigured
	}

	token := credentialToken(cred)
	client, err := s.provider.Calendar(ctx, token)
	if err != nil {
		return fmt.Errorf("build calendar client: %w", err)
	}
	defer s.persistToken(ctx, cred, client)

	now := s.now()
	timeMin := now.AddDate(0, 0, -s.window.PastDays)
	timeMax := now.AddDate(0, 0, s.window.FutureDays)

	remote, err := client.ListEvents(ctx, cred.CalendarID, timeMin, timeMax)
	if err != nil {
		return fmt.Errorf("list remote events: %w", err)
	}

	locals, err := s.events.ListByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("list local events: %w", err)
	}

	byExternalID := make(map[string]*eventEntity.Event, len(locals))
	for i := range locals {
		if locals[i].HasExternalID() {
			byExternalID[*locals[i].ExternalID] = &locals[i]
		}
	}

	for _, rev := range remote {
		if err := s.reconcile(ctx, client, cred, rev, byExternalID[rev.ID], result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("event %s: %v", rev.ID, err))
		}
	}

	for i := range locals {
		local := &locals[i]
		if !local.IsPending() || local.HasExternalID() {
			continue
		}
		if err := s.export(ctx, client, cred.CalendarID, local); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("event %s: %v", local.ID, err))
			continue
		}
		result.Exported++
	}

	return nil
}

func (s *SyncService) reconcile(ctx context.Context, client provider.CalendarClient, cred *entity.CalendarCredential, rev provider.RemoteEvent, local *eventEntity.Event, result *SyncResult) error {
	if local == nil {
		if rev.Cancelled {
			return nil
		}
		event := &eventEntity.Event{UserID: cred.UserID}
		applyRemote(event, rev)
		if _, err := s.events.Create(ctx, event); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		result.Imported++
		return nil
	}

	if rev.Cancelled {
		if _, err := s.events.Delete(ctx, cred.UserID, local.ID); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		if local.IsPending() {
			result.Conflicts++
		} else {
			result.Imported++
		}
		return nil
	}

	remoteChanged := local.ExternalUpdatedAt == nil || rev.Updated.After(*local.ExternalUpdatedAt)

	switch {
	case remoteChanged:
		// Remote wins, including over unsynced local edits.
		wasPending := local.IsPending()
		applyRemote(local, rev)
		if err := s.events.Update(ctx, local); err != nil {
			return fmt.Errorf("overwrite: %w", err)
		}
		if wasPending {
			result.Conflicts++
		} else {
			result.Imported++
		}
	case local.IsPending():
		out := toRemote(local)
		out.ID = rev.ID
		updated, err := client.UpdateEvent(ctx, cred.CalendarID, out)
		if err != nil {
			return fmt.Errorf("push: %w", err)
		}
		if err := s.events.MarkSynced(ctx, local.ID, rev.ID, updated.Updated); err != nil {
			return fmt.Errorf("mark synced: %w", err)
		}
		result.Exported++
	}
	return nil
}

func (s *SyncService) export(ctx context.Context, client provider.CalendarClient, calendarID string, local *eventEntity.Event) error {
	created, err := client.InsertEvent(ctx, calendarID, toRemote(local))
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	if err := s.events.MarkSynced(ctx, local.ID, created.ID, created.Updated); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

func (s *SyncService) persistToken(ctx context.Context, cred *entity.CalendarCredential, client provider.CalendarClient) {
	current, err := client.Token()
	if err != nil || current == nil || current.AccessToken == cred.AccessToken {
		return
	}

	refresh := current.RefreshToken
	if refresh == "" {
		refresh = cred.RefreshToken
	}
	var expiry *time.Time
	if !current.Expiry.IsZero() {
		e := current.Expiry.UTC()
		expiry = &e
	}
	if err := s.repo.UpdateTokens(ctx, cred.UserID, current.AccessToken, refresh, expiry); err != nil {
		logger.Warn("SyncService:PersistToken:Failed", "user_id", cred.UserID, "error", err)
		return
	}
	logger.Debug("SyncService:PersistToken:Refreshed", "user_id", cred.UserID)
}

func credentialToken(cred *entity.CalendarCredential) *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		TokenType:    "Bearer",
	}
	if cred.TokenExpiry != nil {
		token.Expiry = *cred.TokenExpiry
	}
	return token
}

func applyRemote(event *eventEntity.Event, rev provider.RemoteEvent) {
	id := rev.ID
	updated := rev.Updated
	event.Title = rev.Title
	event.Description = rev.Description
	event.Location = rev.Location
	event.StartAt = rev.Start
	event.EndAt = rev.End
	event.AllDay = rev.AllDay
	event.ExternalID = &id
	event.ExternalUpdatedAt = &updated
	event.SyncStatus = eventEntity.SyncStatusSynced
}

func toRemote(event *eventEntity.Event) provider.RemoteEvent {
	return provider.RemoteEvent{
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		Start:       event.StartAt,
		End:         event.EndAt,
		AllDay:      event.AllDay,
	}
}
