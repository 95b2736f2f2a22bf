// Package slack implements the Slack Web API client used by the exporter:
// an authenticated GET transport with retries and rate limiting, plus the
// four cursor-paginated resource fetchers built on top of it.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL of the Slack Web API.
	DefaultBaseURL = "https://slack.com/api"

	// DefaultRequestsPerMinute matches Slack's Tier 3 rate limit, which
	// covers conversations.history and conversations.replies.
	DefaultRequestsPerMinute = 50

	// pageLimit is the page size requested from every paginated endpoint.
	pageLimit = 200

	requestTimeout = 3 * time.Second

	// maxRetries transient-failure retries after the initial attempt,
	// waits growing by backoffFactor between attempts.
	maxRetries    = 4
	backoffFactor = 3
	retryWaitMin  = 1 * time.Second
	retryWaitMax  = 30 * time.Second
)

// StatusError is returned when the API answers with a non-2xx status after
// the retry budget is exhausted.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status code: %d", e.Endpoint, e.StatusCode)
}

// Client is a Slack Web API client. It attaches the bearer token to every
// request, retries transient failures, and paces requests with a rate
// limiter. It keeps no state between calls.
type Client struct {
	baseURL string
	token   string
	http    *retryablehttp.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// ClientConfig contains configuration for the API client
type ClientConfig struct {
	BaseURL           string
	RequestsPerMinute int
	Logger            *slog.Logger
}

// DefaultClientConfig returns default client configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:           DefaultBaseURL,
		RequestsPerMinute: DefaultRequestsPerMinute,
		Logger:            slog.Default(),
	}
}

// NewClient creates a new Slack client authenticated with the given token.
func NewClient(token string, config ...ClientConfig) *Client {
	cfg := DefaultClientConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = maxRetries
	rc.RetryWaitMin = retryWaitMin
	rc.RetryWaitMax = retryWaitMax
	rc.Backoff = backoff
	rc.HTTPClient.Timeout = requestTimeout
	rc.Logger = retryLogger{cfg.Logger}

	return &Client{
		baseURL: cfg.BaseURL,
		token:   token,
		http:    rc,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		logger:  cfg.Logger,
	}
}

// call issues a GET to the named API method and decodes the JSON body into
// out. It does not inspect the API's ok/error envelope; fetchers validate
// the fields they need.
func (c *Client) call(ctx context.Context, method string, params map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	query, err := encodeQuery(params)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	endpoint := c.baseURL + "/" + method
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", method, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Endpoint: method, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", method, err)
	}
	return nil
}

// encodeQuery maps typed parameter values to the wire strings the API
// expects. Only scalar parameter types are valid.
func encodeQuery(params map[string]any) (url.Values, error) {
	values := url.Values{}
	for key, v := range params {
		switch v := v.(type) {
		case string:
			values.Set(key, v)
		case bool:
			values.Set(key, strconv.FormatBool(v))
		case int:
			values.Set(key, strconv.Itoa(v))
		default:
			return nil, fmt.Errorf("unsupported query parameter type %T for %q", v, key)
		}
	}
	return values, nil
}

// backoff waits retryWaitMin * backoffFactor^attempt between attempts,
// capped at max, and honors Retry-After when Slack rate-limits a request.
func backoff(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil && (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable) {
		if s := resp.Header.Get("Retry-After"); s != "" {
			if sec, err := strconv.Atoi(s); err == nil && sec > 0 {
				return time.Duration(sec) * time.Second
			}
		}
	}

	wait := min
	for i := 0; i < attemptNum; i++ {
		wait *= backoffFactor
		if wait > max {
			return max
		}
	}
	return wait
}

// retryLogger routes retryablehttp's messages to the client's slog logger.
type retryLogger struct {
	l *slog.Logger
}

func (r retryLogger) Error(msg string, keysAndValues ...any) {
	r.l.Error(msg, keysAndValues...)
}

func (r retryLogger) Warn(msg string, keysAndValues ...any) {
	r.l.Warn(msg, keysAndValues...)
}

func (r retryLogger) Info(msg string, keysAndValues ...any) {
	r.l.Info(msg, keysAndValues...)
}

func (r retryLogger) Debug(msg string, keysAndValues ...any) {
	r.l.Debug(msg, keysAndValues...)
}
