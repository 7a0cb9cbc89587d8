package data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ev-charge-planner/internal/logger"
	"ev-charge-planner/internal/model"
)

const DefaultAwattarBaseURL = "https://api.awattar.at"

// Fetch window around now used by the planner: a few hours of history so the
// running hour is always included, and the full published day-ahead horizon.
const (
	DefaultWindowBefore = 5 * time.Hour
	DefaultWindowAfter  = 36 * time.Hour
)

// DefaultWindow returns [now-5h, now+36h].
func DefaultWindow(now time.Time) (start, end time.Time) {
	return now.Add(-DefaultWindowBefore), now.Add(DefaultWindowAfter)
}

// Source provides hourly market prices for a time window.
type Source interface {
	Fetch(ctx context.Context, start, end time.Time) ([]model.PriceSlot, error)
}

// AwattarClient fetches day-ahead prices from the awattar market data API.
type AwattarClient struct {
	BaseURL string
	Client  *http.Client
	Log     logger.Logger
}

// NewAwattarClient creates a new client.
// If baseURL is empty, defaults to DefaultAwattarBaseURL.
func NewAwattarClient(baseURL string, timeout time.Duration, log logger.Logger) *AwattarClient {
	if baseURL == "" {
		baseURL = DefaultAwattarBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &AwattarClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
		Log:     log,
	}
}

// APIError represents a non-success reply from the market data API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *APIError) Error() string {
	return e.Message
}

// Fetch retrieves hourly prices in [start, end) converted to cents/kWh.
func (c *AwattarClient) Fetch(ctx context.Context, start, end time.Time) ([]model.PriceSlot, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("start and end are required")
	}
	if start.After(end) {
		return nil, fmt.Errorf("start must be before end")
	}

	u, err := url.Parse(c.BaseURL + "/v1/marketdata")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("start", strconv.FormatInt(start.UnixMilli(), 10))
	q.Set("end", strconv.FormatInt(end.UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	began := time.Now()
	resp, err := c.Client.Do(req)
	took := time.Since(began)
	if err != nil {
		c.Log.Errorf("awattar request failed: %v (duration: %v)", err, took)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.Log.Debugw("awattar response", map[string]any{
		"status":   resp.StatusCode,
		"duration": took.String(),
		"start":    start.Format(time.RFC3339),
		"end":      end.Format(time.RFC3339),
	})

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		c.Log.Warnf("awattar rate limit exceeded, retry after %q", retryAfter)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.Log.Errorf("awattar returned %d: %s", resp.StatusCode, body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "UPSTREAM_ERROR",
			Message:    fmt.Sprintf("HTTP error! status: %d", resp.StatusCode),
		}
	}

	var result model.AwattarResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	slots := result.Slots()
	c.Log.Infof("awattar: received %d slots", len(slots))
	return slots, nil
}
