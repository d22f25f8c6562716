package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"grocerylens/internal/logging"
	"grocerylens/internal/services"
)

const (
	defaultBaseURL     = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	defaultHTTPTimeout = 15 * time.Second
	// DefaultRadius is used when no radius is supplied or it cannot be parsed.
	DefaultRadius = 3000
	// MaxRadius is the largest radius the vendor accepts.
	MaxRadius = 50000
	// RankByDistance selects distance ordering instead of a radius.
	RankByDistance  = "distance"
	defaultKeyword  = "grocery"
	defaultType     = "supermarket"
	statusOK        = "OK"
	statusZeroMatch = "ZERO_RESULTS"
)

// Config captures the runtime settings for the nearby search.
type Config struct {
	APIKey         string
	BaseURL        string
	RadiusMeters   int
	Keyword        string
	Type           string
	TimeoutSeconds int
}

// Query describes one nearby search. Empty fields take the client defaults.
type Query struct {
	Lat     string
	Lng     string
	Radius  string
	Keyword string
	Type    string
}

// Place is one store returned by the search.
type Place struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Vicinity  string  `json:"vicinity,omitempty"`
}

// Result is the outcome of a search. Places is empty whenever Status is not OK.
type Result struct {
	Places       []Place `json:"places"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Count        int     `json:"count"`
}

// Client wraps the nearby search endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
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

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient constructs a places client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = DefaultRadius
	}
	if strings.TrimSpace(cfg.Keyword) == "" {
		cfg.Keyword = defaultKeyword
	}
	if strings.TrimSpace(cfg.Type) == "" {
		cfg.Type = defaultType
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// ParseRadius interprets a radius parameter. It returns rankByDistance=true
// for "distance"; otherwise a radius clamped to MaxRadius, with fallback used
// for empty, non-numeric or non-positive input. Trailing non-digits are
// ignored ("1500m" is 1500).
func ParseRadius(value string, fallback int) (radius int, rankByDistance bool) {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, RankByDistance) {
		return 0, true
	}
	if fallback <= 0 {
		fallback = DefaultRadius
	}
	end := 0
	if end < len(value) && (value[0] == '+' || value[0] == '-') {
		end++
	}
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	parsed, err := strconv.Atoi(value[:end])
	if err != nil || parsed <= 0 {
		return min(fallback, MaxRadius), false
	}
	return min(parsed, MaxRadius), false
}

// Nearby runs a nearby search around the query coordinate.
func (c *Client) Nearby(ctx context.Context, q Query) (Result, error) {
	lat := strings.TrimSpace(q.Lat)
	lng := strings.TrimSpace(q.Lng)
	if lat == "" || lng == "" {
		return Result{}, services.Wrap(services.ErrValidation, "places", "nearby", "lat and lng required", nil)
	}
	if _, err := strconv.ParseFloat(lat, 64); err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "places", "nearby", "lat must be a number", err)
	}
	if _, err := strconv.ParseFloat(lng, 64); err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "places", "nearby", "lng must be a number", err)
	}
	if c.cfg.APIKey == "" {
		return Result{}, services.Wrap(services.ErrConfiguration, "places", "nearby", "api key required (set places.api_key or GOOGLE_MAPS_API_KEY)", nil)
	}

	endpoint, err := c.buildURL(lat, lng, q)
	if err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "places", "nearby", "build url", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternal, "places", "nearby", "new request", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, services.Wrap(services.ErrTimeout, "places", "nearby", "", ctx.Err())
		}
		// url.Error embeds the request URL, which carries the key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return Result{}, services.Wrap(services.ErrExternal, "places", "nearby", "request failed", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternal, "places", "nearby", "read body", err)
	}
	if _, marker := services.ClassifyHTTPStatus(resp.StatusCode); marker != nil {
		return Result{}, services.Wrap(marker, "places", "nearby", fmt.Sprintf("http %d", resp.StatusCode), nil)
	}

	var payload nearbyResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Result{}, services.Wrap(services.ErrExternal, "places", "nearby", "decode response", err)
	}

	result := Result{Places: []Place{}, Status: payload.Status, ErrorMessage: payload.ErrorMessage}
	if payload.Status != statusOK {
		if payload.Status != statusZeroMatch {
			c.logger.Warn("nearby search returned non-OK status",
				slog.String("status", payload.Status),
				slog.String("error_message", payload.ErrorMessage),
			)
		}
		return result, nil
	}
	for _, p := range payload.Results {
		result.Places = append(result.Places, Place{
			ID:        p.PlaceID,
			Name:      p.Name,
			Latitude:  p.Geometry.Location.Lat,
			Longitude: p.Geometry.Location.Lng,
			Vicinity:  p.Vicinity,
		})
	}
	result.Count = len(result.Places)
	return result, nil
}

func (c *Client) buildURL(lat, lng string, q Query) (string, error) {
	endpoint, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", err
	}
	keyword := strings.TrimSpace(q.Keyword)
	if keyword == "" {
		keyword = c.cfg.Keyword
	}
	placeType := strings.TrimSpace(q.Type)
	if placeType == "" {
		placeType = c.cfg.Type
	}

	params := endpoint.Query()
	params.Set("location", lat+","+lng)
	radius, byDistance := ParseRadius(q.Radius, c.cfg.RadiusMeters)
	if byDistance {
		params.Set("rankby", RankByDistance)
	} else {
		params.Set("radius", strconv.Itoa(radius))
	}
	params.Set("type", placeType)
	params.Set("keyword", keyword)
	params.Set("key", c.cfg.APIKey)
	endpoint.RawQuery = params.Encode()
	return endpoint.String(), nil
}

type nearbyResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	Results      []nearbyResult `json:"results"`
}

type nearbyResult struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Vicinity string `json:"vicinity"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}
