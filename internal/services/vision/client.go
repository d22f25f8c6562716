package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"grocerylens/internal/labels"
	"grocerylens/internal/logging"
	"grocerylens/internal/services"
)

const (
	defaultBaseURL        = "https://vision.googleapis.com/v1/images:annotate"
	defaultHTTPTimeout    = 20 * time.Second
	defaultMaxResults     = 5
	defaultRetryMaxDelay  = 8 * time.Second
	defaultRetryBaseDelay = 500 * time.Millisecond
	defaultRetryAttempts  = 3
	labelModel            = "builtin/latest"
	maxErrorBody          = 512
)

// Config captures the runtime settings required to call the annotate API.
type Config struct {
	APIKey         string
	BaseURL        string
	LanguageHints  []string
	MaxResults     int
	TimeoutSeconds int
}

// Client wraps the images:annotate endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetryMaxAttempts overrides the default retry count (defaults to 3).
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a vision client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			LanguageHints:  append([]string(nil), cfg.LanguageHints...),
			MaxResults:     cfg.MaxResults,
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient:       &http.Client{Timeout: timeout},
		logger:           logging.NewNop(),
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.MaxResults <= 0 {
		client.cfg.MaxResults = defaultMaxResults
	}
	return client
}

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image        imageContent  `json:"image"`
	ImageContext *imageContext `json:"imageContext,omitempty"`
	Features     []feature     `json:"features"`
}

type imageContent struct {
	Content string `json:"content"`
}

type imageContext struct {
	LanguageHints []string `json:"languageHints,omitempty"`
}

type feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
	Model      string `json:"model,omitempty"`
}

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
	Retryable  bool
	Marker     error
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("vision request: http %d: %s", e.StatusCode, e.Body)
}

func (e *httpStatusError) Unwrap() error {
	return e.Marker
}

// Annotate sends image to the API and returns the mapped analysis.
func (c *Client) Annotate(ctx context.Context, image []byte) (*labels.AnnotationResult, error) {
	if len(image) == 0 {
		return nil, services.Wrap(services.ErrValidation, "vision", "annotate", "image required", nil)
	}
	if c.cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "vision", "annotate", "api key required (set vision.api_key or GCV_API_KEY)", nil)
	}
	resp, err := c.annotateWithRetry(ctx, c.buildRequest(image))
	if err != nil {
		return nil, err
	}
	if len(resp.Responses) == 0 {
		return &labels.AnnotationResult{}, nil
	}
	return imageResult(&resp.Responses[0])
}

func (c *Client) buildRequest(image []byte) annotateRequest {
	n := c.cfg.MaxResults
	req := imageRequest{
		Image: imageContent{Content: base64.StdEncoding.EncodeToString(image)},
		Features: []feature{
			{Type: "LOGO_DETECTION", MaxResults: n},
			{Type: "WEB_DETECTION", MaxResults: n},
			{Type: "TEXT_DETECTION", MaxResults: n},
			{Type: "OBJECT_LOCALIZATION", MaxResults: n},
			{Type: "LABEL_DETECTION", MaxResults: n, Model: labelModel},
		},
	}
	if len(c.cfg.LanguageHints) > 0 {
		req.ImageContext = &imageContext{LanguageHints: c.cfg.LanguageHints}
	}
	return annotateRequest{Requests: []imageRequest{req}}
}

func (c *Client) annotateWithRetry(ctx context.Context, payload annotateRequest) (AnnotateResponse, error) {
	attempts := c.retryAttempts()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := c.sendOnce(ctx, payload)
		if err == nil {
			return resp, nil
		}

		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			return AnnotateResponse{}, classify(err)
		}
		c.logger.Warn("vision request failed; retrying",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
		if err := c.sleep(ctx, delay); err != nil {
			return AnnotateResponse{}, services.Wrap(services.ErrTimeout, "vision", "annotate", "retry aborted", err)
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("unknown retry failure")
	}
	return AnnotateResponse{}, services.Wrap(services.ErrTransient, "vision", "annotate", fmt.Sprintf("failed after %d attempts", attempts), lastErr)
}

// classify tags a terminal error with a services marker.
func classify(err error) error {
	var statusErr *httpStatusError
	switch {
	case errors.As(err, &statusErr):
		return services.Wrap(statusErr.Marker, "vision", "annotate", "", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return services.Wrap(services.ErrTimeout, "vision", "annotate", "", err)
	default:
		return services.Wrap(services.ErrExternal, "vision", "annotate", "", err)
	}
}

func (c *Client) sendOnce(ctx context.Context, payload annotateRequest) (AnnotateResponse, error) {
	var out AnnotateResponse
	endpoint, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return out, fmt.Errorf("vision request: build url: %w", err)
	}
	query := endpoint.Query()
	query.Set("key", c.cfg.APIKey)
	endpoint.RawQuery = query.Encode()

	encoded, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("vision request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(encoded))
	if err != nil {
		return out, fmt.Errorf("vision request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("vision request: http error: %w", redactKey(err, c.cfg.APIKey))
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("vision request: read body: %w", err)
	}
	if retryable, marker := services.ClassifyHTTPStatus(resp.StatusCode); marker != nil {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return out, &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(body)), maxErrorBody),
			RetryAfter: retryAfter,
			Retryable:  retryable,
			Marker:     marker,
		}
	}
	out, err = decodeAnnotateResponse(body)
	if err != nil {
		return out, fmt.Errorf("vision request: decode response: %w", err)
	}
	return out, nil
}

// redactKey keeps the API key out of url.Error messages.
func redactKey(err error, key string) error {
	var urlErr *url.Error
	if key == "" || !errors.As(err, &urlErr) {
		return err
	}
	redacted := *urlErr
	redacted.URL = strings.ReplaceAll(redacted.URL, url.QueryEscape(key), "REDACTED")
	return &redacted
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit] + "..."
}

func (c *Client) retryAttempts() int {
	if c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *Client) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		if !statusErr.Retryable {
			return 0, false
		}
		if statusErr.RetryAfter > 0 {
			return c.capDelay(statusErr.RetryAfter), true
		}
		return c.backoffDelay(attempt), true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return c.backoffDelay(attempt), true
	}
	return 0, false
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	base := c.retryBaseDelay
	if base <= 0 {
		return 0
	}
	// attempt 1 -> base, attempt 2 -> base*2, attempt 3 -> base*4, ...
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if c.retryMaxDelay > 0 && delay >= c.retryMaxDelay {
			break
		}
	}
	return c.capDelay(delay)
}

func (c *Client) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	if c.retryMaxDelay > 0 && delay > c.retryMaxDelay {
		return c.retryMaxDelay
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}
