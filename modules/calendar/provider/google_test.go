package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskcal/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

func newTestProvider(t *testing.T, handler http.Handler) (*GoogleProvider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewGoogleProvider(
		config.GoogleAPIConfig{ClientID: "client", ClientSecret: "secret", RedirectURI: "http://localhost/cb"},
		config.SyncConfig{RequestsPerSecond: 100, Burst: 10},
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	p.oauth.Endpoint = oauth2.Endpoint{
		AuthURL:   srv.URL + "/auth",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	return p, srv
}

func TestAuthCodeURL_RequestsOfflineConsent(t *testing.T) {
	p := NewGoogleProvider(config.GoogleAPIConfig{ClientID: "client", RedirectURI: "http://localhost/cb"}, config.SyncConfig{})

	url := p.AuthCodeURL("state-123")

	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "prompt=consent")
	assert.Contains(t, url, "state=state-123")
	assert.Contains(t, url, "calendar")
}

func TestExchange(t *testing.T) {
	p, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "code=the-code")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`))
	}))

	token, err := p.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "at", token.AccessToken)
	assert.Equal(t, "rt", token.RefreshToken)
	assert.False(t, token.Expiry.IsZero())
}

func TestFetchEmail(t *testing.T) {
	p, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/userinfo"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","email":"someone@example.com"}`))
	}))

	email, err := p.FetchEmail(context.Background(), &oauth2.Token{AccessToken: "at"})
	require.NoError(t, err)
	assert.Equal(t, "someone@example.com", email)
}

func TestListEvents_PaginatesAndParses(t *testing.T) {
	var calls int
	p, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/calendars/primary/events"), r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("singleEvents"))
		assert.Equal(t, "true", q.Get("showDeleted"))
		calls++

		resp := map[string]any{}
		if q.Get("pageToken") == "" {
			resp["items"] = []map[string]any{{
				"id":      "ev-1",
				"summary": "Standup",
				"status":  "confirmed",
				"updated": "2026-03-01T10:00:00Z",
				"start":   map[string]string{"dateTime": "2026-03-02T09:00:00+02:00"},
				"end":     map[string]string{"dateTime": "2026-03-02T09:15:00+02:00"},
			}}
			resp["nextPageToken"] = "page-2"
		} else {
			assert.Equal(t, "page-2", q.Get("pageToken"))
			resp["items"] = []map[string]any{
				{
					"id":      "ev-2",
					"summary": "Holiday",
					"updated": "2026-03-01T11:00:00Z",
					"start":   map[string]string{"date": "2026-03-05"},
					"end":     map[string]string{"date": "2026-03-06"},
				},
				{"id": "ev-3", "status": "cancelled", "updated": "2026-03-01T12:00:00Z"},
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))

	client, err := p.Calendar(context.Background(), &oauth2.Token{AccessToken: "at"})
	require.NoError(t, err)

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	events, err := client.ListEvents(context.Background(), "primary", from, from.AddDate(0, 2, 0))
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, 2, calls)

	assert.Equal(t, "Standup", events[0].Title)
	assert.Equal(t, time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC), events[0].Start)
	assert.False(t, events[0].AllDay)

	assert.True(t, events[1].AllDay)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), events[1].Start)

	assert.True(t, events[2].Cancelled)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), events[2].Updated)
}

func TestInsertEvent(t *testing.T) {
	p, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Review", body["summary"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"remote-1","summary":"Review","updated":"2026-03-01T10:00:00Z",
			"start":{"dateTime":"2026-03-02T09:00:00Z"},"end":{"dateTime":"2026-03-02T10:00:00Z"}}`))
	}))

	client, err := p.Calendar(context.Background(), &oauth2.Token{AccessToken: "at"})
	require.NoError(t, err)

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	created, err := client.InsertEvent(context.Background(), "primary", RemoteEvent{Title: "Review", Start: start, End: start.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, "remote-1", created.ID)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), created.Updated)
}
