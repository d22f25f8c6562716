package services_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"grocerylens/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternal, "vision", "annotate", "failed", base)
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"vision", "annotate", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
	if !errors.Is(services.Wrap(nil, "", "", "", nil), services.ErrTransient) {
		t.Fatal("expected nil marker to default to transient")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{services.Wrap(services.ErrValidation, "grocery", "create", "name required", nil), http.StatusBadRequest},
		{services.Wrap(services.ErrNotFound, "grocery", "get", "", nil), http.StatusNotFound},
		{services.Wrap(services.ErrConfiguration, "vision", "", "api key required", nil), http.StatusServiceUnavailable},
		{services.Wrap(services.ErrTimeout, "places", "", "", nil), http.StatusGatewayTimeout},
		{services.Wrap(services.ErrExternal, "places", "", "", nil), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := services.HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestClassifyHTTPStatus(t *testing.T) {
	cases := []struct {
		code      int
		marker    error
		retryable bool
	}{
		{200, nil, false},
		{429, services.ErrTransient, true},
		{503, services.ErrTransient, true},
		{504, services.ErrTimeout, true},
		{401, services.ErrConfiguration, false},
		{404, services.ErrNotFound, false},
		{400, services.ErrExternal, false},
	}
	for _, tc := range cases {
		retry, marker := services.ClassifyHTTPStatus(tc.code)
		if marker != tc.marker || retry != tc.retryable {
			t.Errorf("ClassifyHTTPStatus(%d) = (%v, %v), want (%v, %v)", tc.code, marker, retry, tc.marker, tc.retryable)
		}
	}
}
