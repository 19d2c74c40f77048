// Package server exposes the calldesk REST API over a storage.Repository.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/sandeepkv93/calldesk/internal/api"
	"github.com/sandeepkv93/calldesk/internal/storage"
)

type Server struct {
	repo    storage.Repository
	logger  *slog.Logger
	now     func() time.Time
	origins []string
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the clock the days window is measured against.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithAllowedOrigins sets the CORS origins. Empty allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

func New(repo storage.Repository, opts ...Option) *Server {
	s := &Server{
		repo:   repo,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API wrapped in request logging and CORS.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	v1 := r.PathPrefix(api.Prefix).Subrouter()

	v1.HandleFunc("/calls", s.listCalls).Methods(http.MethodGet)
	v1.HandleFunc("/calls", s.createCall).Methods(http.MethodPost)
	v1.HandleFunc("/calls/{id:[0-9]+}", s.getCall).Methods(http.MethodGet)
	v1.HandleFunc("/calls/{id:[0-9]+}", s.updateCall).Methods(http.MethodPatch)
	v1.HandleFunc("/calls/{id:[0-9]+}/tasks", s.listCallTasks).Methods(http.MethodGet)

	v1.HandleFunc("/tags", s.listTags).Methods(http.MethodGet)
	v1.HandleFunc("/tags", s.createTag).Methods(http.MethodPost)
	v1.HandleFunc("/tags/{id:[0-9]+}", s.getTag).Methods(http.MethodGet)
	v1.HandleFunc("/tags/{id:[0-9]+}", s.updateTag).Methods(http.MethodPatch)
	v1.HandleFunc("/tags/{id:[0-9]+}", s.deleteTag).Methods(http.MethodDelete)
	v1.HandleFunc("/tags/{id:[0-9]+}/suggested-tasks", s.tagSuggestedTasks).Methods(http.MethodGet)

	v1.HandleFunc("/tasks", s.listTasks).Methods(http.MethodGet)
	v1.HandleFunc("/tasks", s.createTask).Methods(http.MethodPost)
	v1.HandleFunc("/tasks/{id:[0-9]+}", s.updateCallTask).Methods(http.MethodPatch)
	v1.HandleFunc("/tasks/{id:[0-9]+}", s.deleteTask).Methods(http.MethodDelete)
	v1.HandleFunc("/tasks/template/list", s.listTemplateTasks).Methods(http.MethodGet)
	v1.HandleFunc("/tasks/template", s.createTemplateTask).Methods(http.MethodPost)
	v1.HandleFunc("/tasks/template/{id:[0-9]+}", s.updateTemplateTask).Methods(http.MethodPatch)
	v1.HandleFunc("/tasks/template/{id:[0-9]+}", s.deleteTemplateTask).Methods(http.MethodDelete)
	v1.HandleFunc("/tasks/template/{id:[0-9]+}/link", s.linkTemplateTask).Methods(http.MethodPost)
	v1.HandleFunc("/tasks/template/{id:[0-9]+}/unlink", s.unlinkTemplateTask).Methods(http.MethodPost)

	r.Use(s.requestLogger)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Accept", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(r)
}

// HTTPServer builds an http.Server for addr with conservative timeouts.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.repo.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.logger.ErrorContext(r.Context(), "health check failed", "error", err)
			writeDetail(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
