package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"grocerylens/internal/grocery"
	"grocerylens/internal/services"
)

type createItemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
	Source   string `json:"source"`
}

type completeRequest struct {
	Completed *bool `json:"completed"`
}

type moveRequest struct {
	IDs []string `json:"ids"`
}

type itemsResponse struct {
	Items    []*grocery.Item  `json:"items"`
	Progress grocery.Progress `json:"progress"`
}

type moveResponse struct {
	Moved int `json:"moved"`
}

func (s *Server) itemContext(r *http.Request) (string, *http.Request) {
	id := mux.Vars(r)["id"]
	return id, r.WithContext(services.WithItemID(r.Context(), id))
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := grocery.ListFilter{
		Status:   grocery.Status(strings.ToLower(strings.TrimSpace(query.Get("status")))),
		Category: query.Get("category"),
	}
	switch filter.Status {
	case "", grocery.StatusAll, grocery.StatusOpen, grocery.StatusCompleted:
	default:
		s.writeError(w, r, http.StatusBadRequest, "status must be all, open or completed")
		return
	}
	items, err := s.store.List(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	progress, err := s.store.Progress(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*grocery.Item{}
	}
	s.writeJSON(w, r, http.StatusOK, itemsResponse{Items: items, Progress: progress})
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	source := grocery.Source(strings.TrimSpace(req.Source))
	if source != "" && source != grocery.SourceManual && source != grocery.SourceScan {
		s.writeError(w, r, http.StatusBadRequest, "source must be manual or scan")
		return
	}
	item, err := s.store.Create(r.Context(), grocery.Item{
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     strings.TrimSpace(req.Unit),
		Category: strings.TrimSpace(req.Category),
		Notes:    strings.TrimSpace(req.Notes),
		Source:   source,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, item)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, r := s.itemContext(r)
	item, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if item == nil {
		s.writeError(w, r, http.StatusNotFound, "item not found")
		return
	}
	s.writeJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, r := s.itemContext(r)
	var patch grocery.Patch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if patch.IsEmpty() {
		s.writeError(w, r, http.StatusBadRequest, "no fields to update")
		return
	}
	item, err := s.store.Update(r.Context(), id, patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, r := s.itemContext(r)
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCompleteItem marks an item done; {"completed": false} reopens it.
// An empty body means completed.
func (s *Server) handleCompleteItem(w http.ResponseWriter, r *http.Request) {
	id, r := s.itemContext(r)
	completed := true
	if r.ContentLength != 0 {
		var req completeRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if req.Completed != nil {
			completed = *req.Completed
		}
	}
	item, err := s.store.SetCompleted(r.Context(), id, completed)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.store.Progress(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, struct {
		grocery.Progress
		Percent float64 `json:"percent"`
	}{progress, progress.Percent()})
}

// handleMoveToHistory archives the given ids, or the whole list when the
// body is empty or lists no ids.
func (s *Server) handleMoveToHistory(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
	}
	moved, err := s.store.MoveToHistory(r.Context(), req.IDs...)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, moveResponse{Moved: moved})
}

// handleHistory lists history; ?group=day buckets it by local date, with an
// optional IANA ?tz= (default UTC).
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if strings.EqualFold(query.Get("group"), "day") {
		loc := time.UTC
		if tz := strings.TrimSpace(query.Get("tz")); tz != "" {
			parsed, err := time.LoadLocation(tz)
			if err != nil {
				s.writeError(w, r, http.StatusBadRequest, "unknown time zone "+tz)
				return
			}
			loc = parsed
		}
		days, err := s.store.HistoryByDay(r.Context(), loc)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if days == nil {
			days = []grocery.HistoryDay{}
		}
		s.writeJSON(w, r, http.StatusOK, map[string]any{"days": days})
		return
	}
	entries, err := s.store.History(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*grocery.HistoryEntry{}
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"entries": entries})
}
