package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"grocerylens/internal/grocery"
	"grocerylens/internal/labels"
	"grocerylens/internal/logging"
	"grocerylens/internal/scan"
	"grocerylens/internal/services/places"
)

// Store is the subset of grocery.Store the API uses.
type Store interface {
	Create(ctx context.Context, item grocery.Item) (*grocery.Item, error)
	Get(ctx context.Context, id string) (*grocery.Item, error)
	List(ctx context.Context, filter grocery.ListFilter) ([]*grocery.Item, error)
	Update(ctx context.Context, id string, patch grocery.Patch) (*grocery.Item, error)
	Delete(ctx context.Context, id string) error
	SetCompleted(ctx context.Context, id string, completed bool) (*grocery.Item, error)
	MoveToHistory(ctx context.Context, ids ...string) (int, error)
	History(ctx context.Context) ([]*grocery.HistoryEntry, error)
	HistoryByDay(ctx context.Context, loc *time.Location) ([]grocery.HistoryDay, error)
	Progress(ctx context.Context) (grocery.Progress, error)
	Ping(ctx context.Context) error
}

// StoreFinder looks up nearby stores.
type StoreFinder interface {
	Nearby(ctx context.Context, q places.Query) (places.Result, error)
}

// Deps wires the server to its collaborators. Scanner and Places may be nil;
// the matching routes then answer 503.
type Deps struct {
	Bind    string
	Store   Store
	Scanner *scan.Scanner
	Places  StoreFinder
	Ranker  *labels.Ranker
	Logger  *slog.Logger
	// MaxImageBytes caps /api/scan uploads. Zero means 10 MiB.
	MaxImageBytes int64
}

// Server serves the JSON API.
type Server struct {
	bind          string
	store         Store
	scanner       *scan.Scanner
	places        StoreFinder
	ranker        *labels.Ranker
	logger        *slog.Logger
	maxImageBytes int64

	router  *mux.Router
	handler http.Handler
	server  *http.Server

	mu       sync.Mutex
	listener net.Listener
}

const defaultMaxImageBytes = 10 << 20

// New builds a Server and its routes.
func New(deps Deps) *Server {
	s := &Server{
		bind:          strings.TrimSpace(deps.Bind),
		store:         deps.Store,
		scanner:       deps.Scanner,
		places:        deps.Places,
		ranker:        deps.Ranker,
		logger:        logging.NewComponentLogger(deps.Logger, "api-server"),
		maxImageBytes: deps.MaxImageBytes,
	}
	if s.ranker == nil {
		s.ranker = labels.NewRanker(labels.DefaultThresholds())
	}
	if s.maxImageBytes <= 0 {
		s.maxImageBytes = defaultMaxImageBytes
	}
	s.router = s.routes()
	// CORS wraps the router so preflight requests never reach route matching.
	s.handler = corsMiddleware(s.router)
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/rank", s.handleRank).Methods(http.MethodPost)
	api.HandleFunc("/scan", s.handleScan).Methods(http.MethodPost)
	api.HandleFunc("/items", s.handleListItems).Methods(http.MethodGet)
	api.HandleFunc("/items", s.handleCreateItem).Methods(http.MethodPost)
	api.HandleFunc("/items/{id}", s.handleGetItem).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", s.handleUpdateItem).Methods(http.MethodPatch)
	api.HandleFunc("/items/{id}", s.handleDeleteItem).Methods(http.MethodDelete)
	api.HandleFunc("/items/{id}/complete", s.handleCompleteItem).Methods(http.MethodPost)
	api.HandleFunc("/progress", s.handleProgress).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleMoveToHistory).Methods(http.MethodPost)
	api.HandleFunc("/stores", s.handleStores).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Start listens on the configured bind address and serves until ctx ends.
func (s *Server) Start(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("api bind address is empty")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", slog.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound address once Start succeeded.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting up to five seconds for requests.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}
