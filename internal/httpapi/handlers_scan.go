package httpapi

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"grocerylens/internal/scan"
	"grocerylens/internal/services"
	"grocerylens/internal/services/places"
	"grocerylens/internal/services/vision"
)

type scanRequest struct {
	// Image is base64 encoded, as a phone camera hands it over.
	Image string `json:"image"`
	Hint  string `json:"hint"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"status":  "ok",
		"scanner": s.scanner != nil,
		"places":  s.places != nil,
	})
}

// handleRank analyzes an annotation document posted as the body. Any format
// vision.DecodeResult accepts works; ?hint= names the expected item.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 4<<20))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "read body failed")
		return
	}
	annotation, err := vision.DecodeResult(body)
	if err != nil {
		s.writeServiceError(w, r, services.Wrap(services.ErrValidation, "api", "rank", "", err))
		return
	}
	hint := r.URL.Query().Get("hint")
	if s.scanner != nil {
		result, err := s.scanner.Analyze(r.Context(), annotation, hint)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeJSON(w, r, http.StatusOK, result)
		return
	}
	s.writeJSON(w, r, http.StatusOK, scan.Analyze(s.ranker, annotation, hint))
}

// handleScan accepts either raw image bytes or {"image": base64, "hint": ...}.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if s.scanner == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "scanning is not configured")
		return
	}
	hint := r.URL.Query().Get("hint")
	limited := http.MaxBytesReader(w, r.Body, s.maxImageBytes*2)
	var image []byte
	if isJSON(r) {
		var req scanRequest
		if err := decodeJSONFrom(limited, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(req.Image))
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "image must be base64 encoded")
			return
		}
		image = decoded
		if req.Hint != "" {
			hint = req.Hint
		}
	} else {
		raw, err := io.ReadAll(limited)
		if err != nil {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		image = raw
	}
	if int64(len(image)) > s.maxImageBytes {
		s.writeError(w, r, http.StatusRequestEntityTooLarge, "image too large")
		return
	}
	if len(image) == 0 {
		s.writeError(w, r, http.StatusBadRequest, "image required")
		return
	}

	result, err := s.scanner.Scan(r.Context(), image, hint)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleStores(w http.ResponseWriter, r *http.Request) {
	if s.places == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "store lookup is not configured")
		return
	}
	query := r.URL.Query()
	result, err := s.places.Nearby(r.Context(), places.Query{
		Lat:     query.Get("lat"),
		Lng:     query.Get("lng"),
		Radius:  query.Get("radius"),
		Keyword: query.Get("keyword"),
		Type:    query.Get("type"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, result)
}
