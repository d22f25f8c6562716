package httpapi_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"grocerylens/internal/grocery"
	"grocerylens/internal/httpapi"
	"grocerylens/internal/labels"
	"grocerylens/internal/scan"
	"grocerylens/internal/services"
	"grocerylens/internal/services/places"
	"grocerylens/internal/testsupport"
)

type stubAnnotator struct {
	got []byte
}

func (a *stubAnnotator) Annotate(_ context.Context, image []byte) (*labels.AnnotationResult, error) {
	a.got = image
	return &labels.AnnotationResult{
		Logos:    []labels.Annotation{labels.Scored("Oreo", 0.92)},
		FullText: "OREO\nChocolate Sandwich Cookies",
	}, nil
}

type stubPlaces struct {
	query places.Query
	err   error
}

func (p *stubPlaces) Nearby(_ context.Context, q places.Query) (places.Result, error) {
	p.query = q
	if p.err != nil {
		return places.Result{}, p.err
	}
	return places.Result{Status: "OK", Count: 1, Places: []places.Place{{ID: "p1", Name: "Fresh Mart"}}}, nil
}

type fixture struct {
	handler   http.Handler
	store     *grocery.Store
	annotator *stubAnnotator
	places    *stubPlaces
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	annotator := &stubAnnotator{}
	finder := &stubPlaces{}
	srv := httpapi.New(httpapi.Deps{
		Store:   store,
		Scanner: scan.New(annotator, scan.WithItems(store)),
		Places:  finder,
	})
	return &fixture{handler: srv.Handler(), store: store, annotator: annotator, places: finder}
}

func (f *fixture) do(t *testing.T, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealthSetsRequestID(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected generated request id header")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected CORS header")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("expected incoming request id echoed, got %q", rec.Header().Get("X-Request-ID"))
	}
}

func TestOptionsPreflight(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodOptions, "/api/items", nil, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestItemLifecycle(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/items", strings.NewReader(`{"name":"Milk","quantity":2,"unit":"l"}`), "application/json")
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	created := decode[grocery.Item](t, w)
	if created.ID == "" || created.Name != "Milk" || created.Quantity != 2 {
		t.Fatalf("unexpected created item %+v", created)
	}

	w = f.do(t, http.MethodPatch, "/api/items/"+created.ID, strings.NewReader(`{"quantity":3}`), "application/json")
	if w.Code != http.StatusOK || decode[grocery.Item](t, w).Quantity != 3 {
		t.Fatalf("patch: %d %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodPost, "/api/items/"+created.ID+"/complete", nil, "")
	if w.Code != http.StatusOK || !decode[grocery.Item](t, w).Completed {
		t.Fatalf("complete: %d %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodGet, "/api/items?status=completed", nil, "")
	list := decode[struct {
		Items    []grocery.Item   `json:"items"`
		Progress grocery.Progress `json:"progress"`
	}](t, w)
	if len(list.Items) != 1 || list.Progress.Completed != 1 || list.Progress.Total != 1 {
		t.Fatalf("unexpected list %+v", list)
	}

	w = f.do(t, http.MethodPost, "/api/history", nil, "")
	if w.Code != http.StatusOK || decode[map[string]int](t, w)["moved"] != 1 {
		t.Fatalf("move: %d %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodGet, "/api/items/"+created.ID, nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected archived item to be gone, got %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/history?group=day&tz=UTC", nil, "")
	days := decode[struct {
		Days []grocery.HistoryDay `json:"days"`
	}](t, w)
	if len(days.Days) != 1 || len(days.Days[0].Entries) != 1 || days.Days[0].Entries[0].Name != "Milk" {
		t.Fatalf("unexpected history %+v", days)
	}
}

func TestItemErrors(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"missing name", http.MethodPost, "/api/items", `{"quantity":1}`, http.StatusBadRequest},
		{"bad quantity", http.MethodPost, "/api/items", `{"name":"Eggs","quantity":-1}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/items", `{"name":"Eggs","colour":"brown"}`, http.StatusBadRequest},
		{"missing item", http.MethodDelete, "/api/items/nope", "", http.StatusNotFound},
		{"empty patch", http.MethodPatch, "/api/items/nope", `{}`, http.StatusBadRequest},
		{"bad status", http.MethodGet, "/api/items?status=later", "", http.StatusBadRequest},
		{"wrong method", http.MethodPut, "/api/items", "", http.StatusMethodNotAllowed},
		{"unknown route", http.MethodGet, "/api/nothing", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			w := f.do(t, tt.method, tt.target, body, "application/json")
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d (%s)", tt.want, w.Code, w.Body.String())
			}
			if decode[map[string]string](t, w)["error"] == "" {
				t.Fatalf("expected error body, got %s", w.Body.String())
			}
		})
	}
}

func TestRankEndpoint(t *testing.T) {
	f := newFixture(t)
	testsupport.AddItem(t, f.store, "Apple", 4)

	body := `{"responses":[{"webDetection":{"webEntities":[{"description":"Granny Smith apples","score":0.8}]},"labelAnnotations":[{"description":"Fruit","score":0.9}]}]}`
	w := f.do(t, http.MethodPost, "/api/rank", strings.NewReader(body), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	result := decode[scan.Result](t, w)
	if result.Specific != "Apple" {
		t.Fatalf("expected specific Apple, got %q", result.Specific)
	}
	if len(result.Matches) != 1 || !result.Matches[0].Exact {
		t.Fatalf("expected exact list match, got %+v", result.Matches)
	}

	w = f.do(t, http.MethodPost, "/api/rank", strings.NewReader("{oops"), "application/json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad JSON, got %d", w.Code)
	}
}

func TestScanEndpoint(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/scan", bytes.NewReader([]byte("raw-jpeg")), "image/jpeg")
	if w.Code != http.StatusOK {
		t.Fatalf("raw scan: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if string(f.annotator.got) != "raw-jpeg" {
		t.Fatalf("annotator got %q", f.annotator.got)
	}
	if got := decode[scan.Result](t, w).Detected; got != "Oreo" {
		t.Fatalf("expected Oreo, got %q", got)
	}

	payload := `{"image":"` + base64.StdEncoding.EncodeToString([]byte("b64-jpeg")) + `"}`
	w = f.do(t, http.MethodPost, "/api/scan", strings.NewReader(payload), "application/json")
	if w.Code != http.StatusOK || string(f.annotator.got) != "b64-jpeg" {
		t.Fatalf("json scan: %d, annotator got %q", w.Code, f.annotator.got)
	}

	w = f.do(t, http.MethodPost, "/api/scan", nil, "image/jpeg")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty image, got %d", w.Code)
	}
}

func TestStoresEndpoint(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/stores?lat=1.5&lng=2.5&radius=distance", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if f.places.query.Lat != "1.5" || f.places.query.Radius != "distance" {
		t.Fatalf("unexpected query %+v", f.places.query)
	}

	f.places.err = services.Wrap(services.ErrValidation, "places", "nearby", "lat and lng required", nil)
	w = f.do(t, http.MethodGet, "/api/stores", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUnconfiguredServices(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	handler := httpapi.New(httpapi.Deps{Store: store}).Handler()

	for _, target := range []string{"/api/scan", "/api/stores"} {
		method := http.MethodGet
		if target == "/api/scan" {
			method = http.MethodPost
		}
		req := httptest.NewRequest(method, target, strings.NewReader("x"))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d", target, w.Code)
		}
	}
}
