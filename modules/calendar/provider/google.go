package provider

import (
	"context"
	"fmt"
	"time"

	"taskcal/core/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/calendar/v3"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const (
	listPageSize   = 250
	allDayLayout   = "2006-01-02"
	statusCanceled = "cancelled"
)

type GoogleProvider struct {
	oauth   *oauth2.Config
	limiter *rate.Limiter
	opts    []option.ClientOption
}

// NewGoogleProvider builds the Google implementation. Extra client options are
// appended to every API service, which lets tests point it at a local server.
func NewGoogleProvider(api config.GoogleAPIConfig, sync config.SyncConfig, opts ...option.ClientOption) *GoogleProvider {
	limit := rate.Inf
	if sync.RequestsPerSecond > 0 {
		limit = rate.Limit(sync.RequestsPerSecond)
	}
	burst := sync.Burst
	if burst <= 0 {
		burst = 1
	}

	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     api.ClientID,
			ClientSecret: api.ClientSecret,
			RedirectURL:  api.RedirectURI,
			Endpoint:     google.Endpoint,
			Scopes:       []string{calendar.CalendarScope, googleoauth.UserinfoEmailScope},
		},
		limiter: rate.NewLimiter(limit, burst),
		opts:    opts,
	}
}

// AuthCodeURL asks for offline access with forced consent so every grant
// carries a refresh token.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return token, nil
}

func (p *GoogleProvider) FetchEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	svc, err := googleoauth.NewService(ctx, p.clientOptions(p.oauth.TokenSource(ctx, token))...)
	if err != nil {
		return "", fmt.Errorf("create userinfo service: %w", err)
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("fetch userinfo: %w", err)
	}
	return info.Email, nil
}

func (p *GoogleProvider) Calendar(ctx context.Context, token *oauth2.Token) (CalendarClient, error) {
	ts := oauth2.ReuseTokenSource(token, p.oauth.TokenSource(ctx, token))
	svc, err := calendar.NewService(ctx, p.clientOptions(ts)...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &googleCalendar{svc: svc, ts: ts, limiter: p.limiter}, nil
}

func (p *GoogleProvider) clientOptions(ts oauth2.TokenSource) []option.ClientOption {
	opts := []option.ClientOption{option.WithTokenSource(ts)}
	return append(opts, p.opts...)
}

type googleCalendar struct {
	svc     *calendar.Service
	ts      oauth2.TokenSource
	limiter *rate.Limiter
}

func (g *googleCalendar) Token() (*oauth2.Token, error) {
	return g.ts.Token()
}

func (g *googleCalendar) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]RemoteEvent, error) {
	var (
		events    []RemoteEvent
		pageToken string
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req := g.svc.Events.List(calendarID).
			TimeMin(timeMin.UTC().Format(time.RFC3339)).
			TimeMax(timeMax.UTC().Format(time.RFC3339)).
			SingleEvents(true).
			ShowDeleted(true).
			MaxResults(listPageSize)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		page, err := req.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}

		for _, item := range page.Items {
			ev, err := fromGoogleEvent(item)
			if err != nil {
				return nil, fmt.Errorf("event %s: %w", item.Id, err)
			}
			events = append(events, ev)
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return events, nil
}

func (g *googleCalendar) InsertEvent(ctx context.Context, calendarID string, event RemoteEvent) (*RemoteEvent, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	created, err := g.svc.Events.Insert(calendarID, toGoogleEvent(event)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	ev, err := fromGoogleEvent(created)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (g *googleCalendar) UpdateEvent(ctx context.Context, calendarID string, event RemoteEvent) (*RemoteEvent, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	patched, err := g.svc.Events.Patch(calendarID, event.ID, toGoogleEvent(event)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("patch event %s: %w", event.ID, err)
	}
	ev, err := fromGoogleEvent(patched)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func fromGoogleEvent(item *calendar.Event) (RemoteEvent, error) {
	ev := RemoteEvent{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		Location:    item.Location,
		Cancelled:   item.Status == statusCanceled,
	}

	if item.Updated != "" {
		updated, err := time.Parse(time.RFC3339, item.Updated)
		if err != nil {
			return ev, fmt.Errorf("parse updated: %w", err)
		}
		ev.Updated = updated.UTC()
	}

	// Cancelled instances may come without times.
	if ev.Cancelled {
		return ev, nil
	}

	start, allDay, err := parseEventTime(item.Start)
	if err != nil {
		return ev, fmt.Errorf("parse start: %w", err)
	}
	end, _, err := parseEventTime(item.End)
	if err != nil {
		return ev, fmt.Errorf("parse end: %w", err)
	}
	ev.Start, ev.End, ev.AllDay = start, end, allDay
	return ev, nil
}

func parseEventTime(t *calendar.EventDateTime) (time.Time, bool, error) {
	if t == nil {
		return time.Time{}, false, fmt.Errorf("missing time")
	}
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		return parsed.UTC(), false, err
	}
	parsed, err := time.Parse(allDayLayout, t.Date)
	return parsed, true, err
}

func toGoogleEvent(ev RemoteEvent) *calendar.Event {
	out := &calendar.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
	}
	if ev.AllDay {
		out.Start = &calendar.EventDateTime{Date: ev.Start.UTC().Format(allDayLayout)}
		out.End = &calendar.EventDateTime{Date: ev.End.UTC().Format(allDayLayout)}
	} else {
		out.Start = &calendar.EventDateTime{DateTime: ev.Start.UTC().Format(time.RFC3339)}
		out.End = &calendar.EventDateTime{DateTime: ev.End.UTC().Format(time.RFC3339)}
	}
	return out
}
