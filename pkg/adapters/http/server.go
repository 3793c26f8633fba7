package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/tremaux"
	"github.com/aretw0/tremaux/internal/logging"
	"github.com/aretw0/tremaux/internal/metrics"
	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/aretw0/tremaux/pkg/routes"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrSessionNotFound is returned for unknown session IDs.
var ErrSessionNotFound = errors.New("session not found")

// session is one live controller. Controllers are not safe for concurrent use,
// so every request on a session holds its mutex.
type session struct {
	mu        sync.Mutex
	id        string
	ctrl      *tremaux.Controller
	createdAt time.Time
	ticks     int
}

// Server lets remote maze hosts drive controllers over HTTP.
type Server struct {
	routes   *routes.Manager
	streams  *StreamManager
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Collectors
	capacity int

	mu       sync.RWMutex
	sessions map[string]*session
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRegistry sets the Prometheus registry the server registers on and serves at /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithLedgerCapacity bounds the junction ledger of every controller.
func WithLedgerCapacity(n int) Option {
	return func(s *Server) {
		s.capacity = n
	}
}

// NewServer creates a server that persists routes through manager.
func NewServer(manager *routes.Manager, opts ...Option) *Server {
	s := &Server{
		routes:   manager,
		logger:   logging.NewNop(),
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = metrics.New(s.registry)
	s.streams = NewStreamManager(s.logger)
	return s
}

// Handler returns the chi router serving the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/decide", s.Decide)
			r.Post("/reset", s.Reset)
			r.Get("/route", s.GetSessionRoute)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	r.Route("/routes", func(r chi.Router) {
		r.Get("/", s.ListRoutes)
		r.Get("/{mazeID}", s.GetRoute)
		r.Delete("/{mazeID}", s.DeleteRoute)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateSession handles POST /sessions. The controller is seeded with the
// stored route of the maze, if any.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(body.MazeID) == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("maze_id is required"))
		return
	}

	route, err := s.routes.LoadOrNew(r.Context(), body.MazeID)
	if err != nil {
		s.logger.Error("CreateSession: loading route failed", "maze", body.MazeID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	sess := &session{id: uuid.NewString(), createdAt: time.Now().UTC()}
	opts := []tremaux.Option{
		tremaux.WithMazeID(body.MazeID),
		tremaux.WithRoute(route),
		tremaux.WithLogger(s.logger.With("session_id", sess.id)),
		tremaux.WithLifecycleHooks(metrics.Chain(s.metrics.Hooks(), s.streamHooks(sess.id))),
	}
	if s.capacity > 0 {
		opts = append(opts, tremaux.WithLedgerCapacity(s.capacity))
	}
	sess.ctrl = tremaux.New(opts...)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.metrics.Sessions.Inc()

	s.logger.Info("session created", "session_id", sess.id, "maze", body.MazeID, "route_steps", len(route.Steps))
	s.writeJSON(w, http.StatusCreated, describe(sess))
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	all := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.mu.RUnlock()

	resp := make([]SessionResponse, 0, len(all))
	for _, sess := range all {
		sess.mu.Lock()
		resp = append(resp, describe(sess))
		sess.mu.Unlock()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		s.writeJSON(w, http.StatusOK, describe(sess))
	})
}

// DeleteSession handles DELETE /sessions/{id}. The stored route is kept.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		s.writeError(w, http.StatusNotFound, ErrSessionNotFound)
		return
	}
	s.metrics.Sessions.Dec()
	s.logger.Info("session closed", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Decide handles POST /sessions/{id}/decide: one controller tick.
func (s *Server) Decide(w http.ResponseWriter, r *http.Request) {
	var body DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if !body.Heading.Valid() {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid heading %d", body.Heading))
		return
	}

	s.withSession(w, r, func(sess *session) {
		robot := newRemoteRobot(body)
		d, err := sess.ctrl.ControlRobot(r.Context(), robot)
		if err != nil {
			s.metrics.ObserveError(err)
			status := http.StatusConflict
			if errors.Is(err, domain.ErrSensorAmbiguity) {
				status = http.StatusUnprocessableEntity
			}
			s.writeError(w, status, err)
			return
		}
		sess.ticks++
		s.writeJSON(w, http.StatusOK, DecideResponse{
			Mode:     d.Mode,
			Commands: robot.commands,
			Heading:  robot.Heading(),
		})
	})
}

// Reset handles POST /sessions/{id}/reset: the host finished an attempt.
// The replay table is persisted before the controller starts the next one.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		route := sess.ctrl.Route()
		if err := s.routes.Save(r.Context(), route); err != nil {
			s.logger.Error("Reset: saving route failed", "session_id", sess.id, "error", err)
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.metrics.ObserveAttempt(sess.ctrl.Mode(), sess.ticks)
		sess.ticks = 0
		sess.ctrl.Reset()
		s.logger.Info("attempt finished", "session_id", sess.id, "maze", route.MazeID, "route_steps", len(route.Steps))
		s.writeJSON(w, http.StatusOK, describe(sess))
	})
}

// GetSessionRoute handles GET /sessions/{id}/route.
func (s *Server) GetSessionRoute(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		s.writeJSON(w, http.StatusOK, sess.ctrl.Route())
	})
}

// ListRoutes handles GET /routes.
func (s *Server) ListRoutes(w http.ResponseWriter, r *http.Request) {
	ids, err := s.routes.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetRoute handles GET /routes/{mazeID}.
func (s *Server) GetRoute(w http.ResponseWriter, r *http.Request) {
	route, err := s.routes.Load(r.Context(), chi.URLParam(r, "mazeID"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrRouteNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err)
		return
	}
	s.writeJSON(w, http.StatusOK, route)
}

// DeleteRoute handles DELETE /routes/{mazeID}.
func (s *Server) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	if err := s.routes.Delete(r.Context(), chi.URLParam(r, "mazeID")); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents handles GET /sessions/{id}/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.lookup(id); !ok {
		s.writeError(w, http.StatusNotFound, ErrSessionNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(id)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprint(w, msg)
			flusher.Flush()
		}
	}
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "tremaux-http",
		"version": strings.TrimSpace(tremaux.Version),
	})
}

// -- Helpers --

func (s *Server) lookup(id string) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session)) {
	sess, ok := s.lookup(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, ErrSessionNotFound)
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess)
}

// streamHooks forwards controller events to the session's SSE subscribers.
func (s *Server) streamHooks(id string) domain.LifecycleHooks {
	send := func(event domain.EventType, payload any) {
		data, err := json.Marshal(payload)
		if err != nil {
			s.logger.Warn("SSE: encoding event failed", "session_id", id, "error", err)
			return
		}
		s.streams.Broadcast(id, fmt.Sprintf("event: %s\ndata: %s\n\n", event, data))
	}
	return domain.LifecycleHooks{
		OnDecision: func(_ context.Context, e *domain.DecisionEvent) {
			send(e.Type, e)
		},
		OnModeChange: func(_ context.Context, e *domain.ModeEvent) {
			send(e.Type, e)
		},
		OnJunctionRecorded: func(_ context.Context, e *domain.JunctionEvent) {
			send(e.Type, e)
		},
	}
}

func describe(sess *session) SessionResponse {
	route := sess.ctrl.Route()
	return SessionResponse{
		ID:         sess.id,
		MazeID:     sess.ctrl.MazeID,
		Mode:       sess.ctrl.Mode(),
		RouteSteps: len(route.Steps),
		CreatedAt:  sess.createdAt,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	if status == http.StatusConflict || status == http.StatusUnprocessableEntity {
		resp.Kind = metrics.ErrorKind(err)
	}
	s.writeJSON(w, status, resp)
}
