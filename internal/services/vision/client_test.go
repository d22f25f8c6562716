package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"grocerylens/internal/services"
)

const sampleResponse = `{
  "responses": [{
    "logoAnnotations": [{"description": "Red Bull", "score": 0.91}],
    "webDetection": {
      "bestGuessLabels": [{"label": "red bull energy drink"}],
      "webEntities": [{"description": "Energy drink", "score": 0.7}, {"description": "Taurine"}]
    },
    "fullTextAnnotation": {"text": "Red Bull\nENERGY DRINK\n250 ml"},
    "localizedObjectAnnotations": [{"name": "Tin can", "score": 0.8}],
    "labelAnnotations": [{"description": "Drink", "score": 0.95}]
  }]
}`

func TestAnnotateSendsFeaturesAndMapsResponse(t *testing.T) {
	var captured annotateRequest
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		gotKey = r.URL.Query().Get("key")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k-123", BaseURL: srv.URL, LanguageHints: []string{"en"}, MaxResults: 7})
	result, err := client.Annotate(context.Background(), []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("Annotate returned error: %v", err)
	}

	if gotKey != "k-123" {
		t.Fatalf("expected api key in query, got %q", gotKey)
	}
	if len(captured.Requests) != 1 {
		t.Fatalf("expected one image request, got %d", len(captured.Requests))
	}
	req := captured.Requests[0]
	if req.Image.Content != base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")) {
		t.Fatalf("unexpected image content %q", req.Image.Content)
	}
	if req.ImageContext == nil || len(req.ImageContext.LanguageHints) != 1 || req.ImageContext.LanguageHints[0] != "en" {
		t.Fatalf("expected language hints, got %+v", req.ImageContext)
	}
	wantFeatures := []string{"LOGO_DETECTION", "WEB_DETECTION", "TEXT_DETECTION", "OBJECT_LOCALIZATION", "LABEL_DETECTION"}
	if len(req.Features) != len(wantFeatures) {
		t.Fatalf("expected %d features, got %d", len(wantFeatures), len(req.Features))
	}
	for i, f := range req.Features {
		if f.Type != wantFeatures[i] || f.MaxResults != 7 {
			t.Fatalf("feature %d = %+v", i, f)
		}
	}
	if req.Features[4].Model != "builtin/latest" {
		t.Fatalf("expected label model, got %q", req.Features[4].Model)
	}

	if len(result.Logos) != 1 || result.Logos[0].Text != "Red Bull" || *result.Logos[0].Score != 0.91 {
		t.Fatalf("unexpected logos %+v", result.Logos)
	}
	if result.WebBestGuess != "red bull energy drink" {
		t.Fatalf("unexpected best guess %q", result.WebBestGuess)
	}
	if len(result.WebEntities) != 2 || result.WebEntities[1].Score != nil {
		t.Fatalf("expected unscored second entity, got %+v", result.WebEntities)
	}
	if !strings.HasPrefix(result.FullText, "Red Bull\n") {
		t.Fatalf("unexpected full text %q", result.FullText)
	}
	if len(result.Objects) != 1 || len(result.Labels) != 1 {
		t.Fatalf("unexpected objects/labels %+v %+v", result.Objects, result.Labels)
	}
}

func TestAnnotateRequiresKeyAndImage(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.Annotate(context.Background(), nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := client.Annotate(context.Background(), []byte("x")); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestAnnotateRetriesTransientStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "2")
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer srv.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "k", BaseURL: srv.URL},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)
	if _, err := client.Annotate(context.Background(), []byte("img")); err != nil {
		t.Fatalf("Annotate returned error: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != 2*time.Second {
		t.Fatalf("expected Retry-After delay of 2s, got %v", slept)
	}
}

func TestAnnotateGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(
		Config{APIKey: "k", BaseURL: srv.URL},
		WithRetryMaxAttempts(2),
		WithRetryBackoff(time.Millisecond, time.Millisecond),
		WithSleeper(func(time.Duration) {}),
	)
	_, err := client.Annotate(context.Background(), []byte("img"))
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestAnnotateDoesNotRetryAuthFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "API key not valid", http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: srv.URL}, WithSleeper(func(time.Duration) {}))
	_, err := client.Annotate(context.Background(), []byte("img"))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestAnnotatePerImageError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"responses":[{"error":{"code":3,"message":"Bad image data."}}]}`)
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := client.Annotate(context.Background(), []byte("img"))
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Bad image data.") {
		t.Fatalf("expected vendor message in error, got %v", err)
	}
}

func TestBackoffDelayCaps(t *testing.T) {
	client := NewClient(Config{}, WithRetryBackoff(time.Second, 3*time.Second))
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 3 * time.Second},
		{6, 3 * time.Second},
	}
	for _, tt := range tests {
		if got := client.backoffDelay(tt.attempt); got != tt.want {
			t.Errorf("backoffDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d, ok := parseRetryAfter("5"); !ok || d != 5*time.Second {
		t.Fatalf("parseRetryAfter(5) = %v, %v", d, ok)
	}
	if _, ok := parseRetryAfter("-1"); ok {
		t.Fatal("negative Retry-After should be rejected")
	}
	if _, ok := parseRetryAfter("soon"); ok {
		t.Fatal("garbage Retry-After should be rejected")
	}
}
