package oddsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/courtline/odds-ingestion/internal/platform/logging"
	"github.com/courtline/odds-ingestion/internal/platform/resilience"
	"github.com/courtline/odds-ingestion/internal/usecase"
)

func newTestClient(t *testing.T, srv *httptest.Server, listRetries, eventRetries int) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		HTTPClient:        srv.Client(),
		BaseURL:           srv.URL,
		APIKey:            "test-key",
		SportKey:          "basketball_ncaab",
		RequestsPerMinute: 6000,
		ListMaxRetries:    listRetries,
		EventMaxRetries:   eventRetries,
		Logger:            logging.NewNop(),
		CircuitBreaker:    resilience.CircuitBreakerConfig{Enabled: false},
	})
}

func TestFetchEventList_SendsKeyAndParsesIDs(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sports/basketball_ncaab/events" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("apiKey"); got != "test-key" {
			t.Fatalf("unexpected apiKey: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"evt-1"},{"id":"evt-2"},{"id":""}]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 0, 0)

	ids, err := client.FetchEventList(context.Background())
	if err != nil {
		t.Fatalf("fetch event list: %v", err)
	}
	if len(ids) != 2 || ids[0] != "evt-1" || ids[1] != "evt-2" {
		t.Fatalf("unexpected ids: %+v", ids)
	}
}

func TestFetchFullOdds_SendsMarketQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("markets"); got != "spreads,totals,h2h" {
			t.Fatalf("unexpected markets: %s", got)
		}
		if got := q.Get("regions"); got != "us" {
			t.Fatalf("unexpected regions: %s", got)
		}
		if got := q.Get("oddsFormat"); got != "american" {
			t.Fatalf("unexpected oddsFormat: %s", got)
		}
		if got := q.Get("bookmakers"); !strings.Contains(got, "pinnacle") {
			t.Fatalf("unexpected bookmakers: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"evt-1","sport_key":"basketball_ncaab","home_team":"Duke Blue Devils","away_team":"North Carolina Tar Heels","bookmakers":[{"key":"pinnacle","markets":[{"key":"h2h","outcomes":[{"name":"Duke Blue Devils","price":-150},{"name":"North Carolina Tar Heels","price":130}]}]}]}]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 0, 0)

	events, err := client.FetchFullOdds(context.Background())
	if err != nil {
		t.Fatalf("fetch full odds: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].HomeTeam != "Duke Blue Devils" {
		t.Fatalf("unexpected home team: %s", events[0].HomeTeam)
	}
	if len(events[0].Bookmakers) != 1 || events[0].Bookmakers[0].Key != "pinnacle" {
		t.Fatalf("unexpected bookmakers: %+v", events[0].Bookmakers)
	}
}

func TestFetchEventOdds_PeriodSelectsMarketSet(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sports/basketball_ncaab/events/evt-9/odds" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("markets"); got != "spreads_h1,totals_h1,h2h_h1" {
			t.Fatalf("unexpected markets: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"evt-9","home_team":"Duke","away_team":"UNC"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 0, 0)

	event, err := client.FetchEventOdds(context.Background(), "evt-9", "1h")
	if err != nil {
		t.Fatalf("fetch event odds: %v", err)
	}
	if event == nil || event.ID != "evt-9" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestFetchEventOdds_SoftFailsOnServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 0, 0)

	event, err := client.FetchEventOdds(context.Background(), "evt-1", "full")
	if err != nil {
		t.Fatalf("expected soft failure, got error: %v", err)
	}
	if event != nil {
		t.Fatalf("expected nil event, got %+v", event)
	}
}

func TestFetchEventOdds_PropagatesContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 0, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchEventOdds(ctx, "evt-1", "full")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFetchEventList_RetriesOn429ThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"evt-1"}]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 1, 0)

	start := time.Now()
	ids, err := client.FetchEventList(context.Background())
	if err != nil {
		t.Fatalf("fetch event list: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("unexpected ids: %+v", ids)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
	if elapsed := time.Since(start); elapsed < time.Second {
		t.Fatalf("expected Retry-After backoff, elapsed=%s", elapsed)
	}
}

func TestFetchEventList_HardFailsOnNonRetryableStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 3, 0)

	if _, err := client.FetchEventList(context.Background()); err == nil {
		t.Fatalf("expected error for 401")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected no retries on 401, got %d calls", calls.Load())
	}
}

func TestFetchEventList_FailsOnMalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 0, 0)

	if _, err := client.FetchEventList(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDoJSON_CircuitOpenReturnsDependencyUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:        srv.Client(),
		BaseURL:           srv.URL,
		APIKey:            "test-key",
		RequestsPerMinute: 6000,
		ListMaxRetries:    0,
		Logger:            logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			ProbeMaxReq:      1,
		},
	})

	if _, err := client.FetchEventList(context.Background()); err == nil {
		t.Fatalf("expected first call to fail")
	}

	_, err := client.FetchEventList(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable once circuit is open, got %v", err)
	}
}

func TestSanitizeSensitiveText_RedactsKey(t *testing.T) {
	t.Parallel()

	in := `Get "https://api.example.com/v4/sports?apiKey=secret-key-123": dial tcp: timeout`
	out := sanitizeSensitiveText(in, "secret-key-123")
	if strings.Contains(out, "secret-key-123") {
		t.Fatalf("api key leaked: %s", out)
	}
	if !strings.Contains(out, "apiKey=REDACTED") {
		t.Fatalf("expected redaction marker, got: %s", out)
	}
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()

	if got := parseRetryAfter("3"); got != 3*time.Second {
		t.Fatalf("unexpected delay-seconds parse: %s", got)
	}
	if got := parseRetryAfter(""); got != 0 {
		t.Fatalf("expected zero for empty header, got %s", got)
	}
	if got := parseRetryAfter("-5"); got != 0 {
		t.Fatalf("expected zero for negative value, got %s", got)
	}
	future := time.Now().Add(10 * time.Second).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(future); got <= 0 || got > 10*time.Second {
		t.Fatalf("unexpected http-date parse: %s", got)
	}
}

func TestFetchEventList_RespectsRateLimiterSpacing(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"evt-1"}]`))
	}))
	defer srv.Close()

	// 600 req/min spaces tokens 100ms apart; the first request consumes
	// the initial burst, so three calls must take at least 200ms.
	client := NewClient(ClientConfig{
		HTTPClient:        srv.Client(),
		BaseURL:           srv.URL,
		APIKey:            "test-key",
		RequestsPerMinute: 600,
		Logger:            logging.NewNop(),
		CircuitBreaker:    resilience.CircuitBreakerConfig{Enabled: false},
	})

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := client.FetchEventList(context.Background()); err != nil {
			t.Fatalf("fetch event list: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
		t.Fatalf("expected limiter to space requests, finished in %s", elapsed)
	}
}
