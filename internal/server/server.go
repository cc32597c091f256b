package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/drakos74/free-transit/internal/metrics"
)

type Action string

type Method string

const (
	Api    Action = "api"
	Health Action = "health"

	GET    Method = http.MethodGet
	POST   Method = http.MethodPost
	DELETE Method = http.MethodDelete

	JsonContent = "application/json"
	CsvContent  = "text/csv"
)

// MaxBody is the largest request body we accept.
const MaxBody = 10 << 20

// Handler processes a request and returns the payload with the status code.
// An error without a payload is reported as an internal error.
type Handler func(r *http.Request) ([]byte, int, error)

// Route binds a handler to a method and path.
type Route struct {
	Action      Action
	Path        string
	Method      Method
	ContentType string
	Exec        Handler
}

// Pattern returns the path the route is served on.
func (r Route) Pattern() string {
	if r.Path != "" {
		return fmt.Sprintf("/%s/%s", r.Action, r.Path)
	}
	return fmt.Sprintf("/%s", r.Action)
}

type Server struct {
	name    string
	port    int
	debug   bool
	origins []string
	timeout time.Duration
	routes  []Route
}

func NewServer(name string, port int) *Server {
	return &Server{
		name:    name,
		port:    port,
		origins: []string{"*"},
		timeout: 60 * time.Second,
		routes:  make([]Route, 0),
	}
}

// Debug sets the server to debug mode
func (s *Server) Debug() *Server {
	s.debug = true
	return s
}

// AllowOrigins sets the origins allowed for cross origin requests.
func (s *Server) AllowOrigins(origins ...string) *Server {
	if len(origins) > 0 {
		s.origins = origins
	}
	return s
}

// Add adds the given routes to the server
func (s *Server) Add(route ...Route) *Server {
	s.routes = append(s.routes, route...)
	return s
}

// Router builds the http handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(s.logging)
	router.Use(middleware.Timeout(s.timeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	for _, route := range s.routes {
		router.Method(string(route.Method), route.Pattern(), s.handle(route))
	}
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.code(w, JsonContent, Error("Not found", r.URL.Path), http.StatusNotFound)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.code(w, JsonContent, Error("Method not allowed", r.Method), http.StatusMethodNotAllowed)
	})
	return router
}

func (s *Server) handle(route Route) http.HandlerFunc {
	contentType := route.ContentType
	if contentType == "" {
		contentType = JsonContent
	}
	pattern := route.Pattern()
	return func(w http.ResponseWriter, r *http.Request) {
		defer metrics.Observer.Observe(pattern, time.Now())
		b, code, err := route.Exec(r)
		if err != nil && len(b) == 0 {
			s.error(w, err)
			return
		}
		if code == 0 {
			code = http.StatusOK
		}
		ct := contentType
		if code >= http.StatusBadRequest {
			ct = JsonContent
		}
		s.code(w, ct, b, code)
	}
}

// Run starts the server and shuts it down gracefully once the context is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("server", s.name).Int("port", s.port).Msg("starting server")
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Str("server", s.name).Msg("shutting down server")
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return fmt.Errorf("could not shut down server: %w", err)
	}
	return nil
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		event := log.Debug()
		if s.debug {
			event = log.Info()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http request")
	})
}

func (s *Server) code(w http.ResponseWriter, contentType string, b []byte, code int) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)
	s.respond(w, b)
}

func (s *Server) respond(w http.ResponseWriter, b []byte) {
	_, err := w.Write(b)
	if err != nil {
		log.Error().Err(err).Msg("could not write response")
	}
}

func (s *Server) error(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("error for http request")
	s.code(w, JsonContent, Error("Internal server error", err.Error()), http.StatusInternalServerError)
}

// ErrorResponse is the payload of failed requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Error encodes an error payload.
func Error(msg string, details string) []byte {
	b, err := json.Marshal(ErrorResponse{Error: msg, Details: details})
	if err != nil {
		return []byte(fmt.Sprintf(`{"error":%q}`, msg))
	}
	return b
}

func Live() Route {
	return Route{
		Action: Health,
		Method: GET,
		Exec: func(r *http.Request) (payload []byte, code int, err error) {
			return []byte(`{"status":"ok"}`), http.StatusOK, nil
		},
	}
}

// JsonRead decodes the request body into v. An empty body leaves v as is.
func JsonRead(r *http.Request, debug bool, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBody))
	if err != nil {
		return err
	}
	if debug {
		log.Info().
			Str("url", fmt.Sprintf("%+v", r.URL)).
			Str("remote-address", r.RemoteAddr).
			Str("method", r.Method).
			Str("body", string(body)).
			Msg("received payload")
	}
	if len(body) > 0 {
		err = json.Unmarshal(body, v)
		if err != nil {
			return err
		}
	}
	return nil
}
