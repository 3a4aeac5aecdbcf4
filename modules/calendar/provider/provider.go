package provider

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// RemoteEvent is an event as seen on the external calendar.
type RemoteEvent struct {
	ID          string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Cancelled   bool
	Updated     time.Time
}

// Provider covers the OAuth half of the integration.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchEmail(ctx context.Context, token *oauth2.Token) (string, error)
	Calendar(ctx context.Context, token *oauth2.Token) (CalendarClient, error)
}

// CalendarClient talks to one account's calendars. Token returns the current
// token, which differs from the original one after a refresh.
type CalendarClient interface {
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]RemoteEvent, error)
	InsertEvent(ctx context.Context, calendarID string, event RemoteEvent) (*RemoteEvent, error)
	UpdateEvent(ctx context.Context, calendarID string, event RemoteEvent) (*RemoteEvent, error)
	Token() (*oauth2.Token, error)
}
