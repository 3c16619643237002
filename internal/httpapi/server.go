// Package httpapi exposes the course and login endpoints over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/cors"

	"github.com/p-n-ai/pai-learn/internal/auth"
	"github.com/p-n-ai/pai-learn/internal/course"
	"github.com/p-n-ai/pai-learn/internal/progress"
)

// ReadyCheck reports whether a dependency is usable.
type ReadyCheck func(ctx context.Context) error

// Config holds the dependencies of the HTTP handler.
type Config struct {
	Courses        *course.Service
	Auth           *auth.Service
	Events         *progress.Hub
	RequireToken   bool     // PATCH /courses/{id} needs a bearer token
	AllowedOrigins []string // CORS and WebSocket origins; "*" allows any
	ReadyChecks    map[string]ReadyCheck
}

type server struct {
	courses        *course.Service
	auth           *auth.Service
	events         *progress.Hub
	requireToken   bool
	originPatterns []string
	anyOrigin      bool
	readyChecks    map[string]ReadyCheck
}

// NewHandler builds the full middleware-wrapped handler tree.
func NewHandler(cfg Config) http.Handler {
	s := &server{
		courses:      cfg.Courses,
		auth:         cfg.Auth,
		events:       cfg.Events,
		requireToken: cfg.RequireToken,
		readyChecks:  cfg.ReadyChecks,
	}
	if s.events == nil {
		s.events = progress.NewHub(0)
	}
	s.originPatterns, s.anyOrigin = originPatterns(cfg.AllowedOrigins)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPatch, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         600,
	})

	var h http.Handler = s.routes()
	h = c.Handler(h)
	h = recoverPanic(h)
	h = logRequests(h)
	h = withRequestID(h)
	return h
}

func (s *server) routes() *http.ServeMux {
	api := s.apiMux()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.Handle("/api/", http.StripPrefix("/api", api))
	mux.Handle("/", api)
	return mux
}

func (s *server) apiMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /courses", s.handleListCourses)
	mux.HandleFunc("/courses", methodNotAllowed(http.MethodGet))

	mux.HandleFunc("GET /courses/{id}", s.handleGetCourse)
	mux.Handle("PATCH /courses/{id}", s.protect(http.HandlerFunc(s.handleUpdateLecture)))
	mux.HandleFunc("/courses/{id}", methodNotAllowed(http.MethodGet, http.MethodPatch))

	mux.HandleFunc("GET /courses/{id}/events", s.handleEvents)
	mux.HandleFunc("/courses/{id}/events", methodNotAllowed(http.MethodGet))
	mux.HandleFunc("GET /courses/{id}/report", s.handleReport)
	mux.HandleFunc("/courses/{id}/report", methodNotAllowed(http.MethodGet))

	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("/login", methodNotAllowed(http.MethodPost))
	mux.Handle("GET /me", s.requireAuth(http.HandlerFunc(s.handleMe)))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
	return mux
}

// protect applies requireAuth only when tokens are mandatory for mutations.
func (s *server) protect(h http.Handler) http.Handler {
	if !s.requireToken {
		return h
	}
	return s.requireAuth(h)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(s.readyChecks))
	for name := range s.readyChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	failed := map[string]string{}
	for _, name := range names {
		if err := s.readyChecks[name](ctx); err != nil {
			logger(r.Context()).Warn("readiness check failed", "check", name, "error", err)
			failed[name] = "unavailable"
		}
	}
	if len(failed) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "checks": failed})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// originPatterns converts allowed origins into host patterns for the
// WebSocket origin check.
func originPatterns(origins []string) ([]string, bool) {
	var patterns []string
	for _, o := range origins {
		if o == "*" {
			return nil, true
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, strings.TrimSuffix(o, "/"))
	}
	return patterns, false
}
