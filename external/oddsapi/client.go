package oddsapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/courtline/odds-ingestion/internal/platform/logging"
	"github.com/courtline/odds-ingestion/internal/platform/resilience"
	"github.com/courtline/odds-ingestion/internal/usecase"
)

const (
	defaultBaseURL          = "https://api.the-odds-api.com/v4"
	defaultSportKey         = "basketball_ncaab"
	defaultRequestsPerMin   = 30
	defaultListMaxRetries   = 3
	defaultEventMaxRetries  = 1
	requestsRemainingHeader = "x-requests-remaining"
)

var apiKeyParamRegex = regexp.MustCompile(`apiKey=[^&\s"']+`)
var errOddsAPITransient = crerr.New("odds api transient failure")

type ClientConfig struct {
	HTTPClient        *http.Client
	BaseURL           string
	APIKey            string
	SportKey          string
	Timeout           time.Duration
	RequestsPerMinute int
	// ListMaxRetries bounds retries on the primary list/full-odds
	// endpoints; EventMaxRetries bounds the optional per-event ones.
	ListMaxRetries  int
	EventMaxRetries int
	Logger          *logging.Logger
	CircuitBreaker  resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient      *http.Client
	baseURL         string
	apiKey          string
	sportKey        string
	listMaxRetries  int
	eventMaxRetries int
	limiter         *rate.Limiter
	logger          *logging.Logger
	breaker         *resilience.CircuitBreaker
	circuitEnabled  bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	sportKey := strings.TrimSpace(cfg.SportKey)
	if sportKey == "" {
		sportKey = defaultSportKey
	}

	perMinute := cfg.RequestsPerMinute
	if perMinute < 1 {
		perMinute = defaultRequestsPerMin
	}
	listRetries := cfg.ListMaxRetries
	if listRetries < 0 {
		listRetries = defaultListMaxRetries
	}
	eventRetries := cfg.EventMaxRetries
	if eventRetries < 0 {
		eventRetries = defaultEventMaxRetries
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:      httpClient,
		baseURL:         baseURL,
		apiKey:          strings.TrimSpace(cfg.APIKey),
		sportKey:        sportKey,
		listMaxRetries:  listRetries,
		eventMaxRetries: eventRetries,
		limiter:         rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		logger:          logger,
		breaker:         resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.ProbeMaxReq),
		circuitEnabled:  breakerCfg.Enabled,
	}
}

// FetchEventList returns the ids of all current events for the sport.
// Hard failure: exhausting retries here aborts the poll cycle.
func (c *Client) FetchEventList(ctx context.Context) ([]string, error) {
	path := fmt.Sprintf("/sports/%s/events", c.sportKey)

	var events []Event
	if err := c.doJSON(ctx, path, nil, c.listMaxRetries, &events); err != nil {
		return nil, fmt.Errorf("fetch event list: %w", err)
	}

	ids := make([]string, 0, len(events))
	for _, event := range events {
		if event.ID == "" {
			continue
		}
		ids = append(ids, event.ID)
	}

	c.logger.InfoContext(ctx, "fetched event list", "events", len(ids))
	return ids, nil
}

// FetchFullOdds returns full-game odds for every current event.
// Hard failure, like FetchEventList.
func (c *Client) FetchFullOdds(ctx context.Context) ([]usecase.ExternalEvent, error) {
	path := fmt.Sprintf("/sports/%s/odds", c.sportKey)
	query := marketQuery(MarketSetFull)

	var events []Event
	if err := c.doJSON(ctx, path, query, c.listMaxRetries, &events); err != nil {
		return nil, fmt.Errorf("fetch full odds: %w", err)
	}

	c.logger.InfoContext(ctx, "fetched full-game odds", "events", len(events))

	out := make([]usecase.ExternalEvent, 0, len(events))
	for _, event := range events {
		out = append(out, toExternalEvent(event))
	}
	return out, nil
}

// FetchEventOdds returns one event's odds for an optional market set.
// Unavailability (non-retryable status, retry exhaustion, or a malformed
// body) degrades to (nil, nil) rather than failing the cycle.
func (c *Client) FetchEventOdds(ctx context.Context, eventID, period string) (*usecase.ExternalEvent, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}
	set, err := marketSetForPeriod(period)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/sports/%s/events/%s/odds", c.sportKey, url.PathEscape(eventID))
	query := marketQuery(set)

	var event Event
	if err := c.doJSON(ctx, path, query, c.eventMaxRetries, &event); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.WarnContext(ctx, "event odds unavailable",
			"event_id", eventID,
			"market_set", set.Name,
			"error", err,
		)
		return nil, nil
	}

	external := toExternalEvent(event)
	return &external, nil
}

func marketQuery(set MarketSet) map[string]string {
	return map[string]string{
		"regions":    "us",
		"markets":    set.Markets,
		"bookmakers": set.Bookmakers,
		"oddsFormat": "american",
	}
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, maxRetries int, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "odds api circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: odds provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("apiKey", c.apiKey)

	fullURL := c.baseURL + path + "?" + values.Encode()

	raw, err := c.executeRequest(ctx, fullURL, maxRetries)
	if c.circuitEnabled {
		if err != nil && isCircuitFailure(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode odds payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string, maxRetries int) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		var retryAfter time.Duration
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errOddsAPITransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()

			if remaining := resp.Header.Get(requestsRemainingHeader); remaining != "" {
				c.logger.DebugContext(ctx, "odds api quota", "requests_remaining", remaining)
			}

			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errOddsAPITransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errOddsAPITransient, resp.StatusCode, abbreviateBody(raw))
				retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == maxRetries {
			break
		}

		backoff := time.Duration(1<<uint(attempt)) * time.Second
		if retryAfter > 0 {
			backoff = retryAfter
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "odds api request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errOddsAPITransient)
}

// parseRetryAfter handles both delay-seconds and HTTP-date forms.
func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if wait := time.Until(at); wait > 0 {
			return wait
		}
	}
	return 0
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "apiKey=REDACTED")
}

func redactAPIURL(fullURL string) string {
	return apiKeyParamRegex.ReplaceAllString(fullURL, "apiKey=REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}
