// Package httpapi exposes the content service over JSON/HTTP: the public
// content read, the session endpoints and the authenticated editing
// endpoints.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/logging"
	"github.com/dmitrijs2005/yardcms/internal/server/auth"
	"github.com/dmitrijs2005/yardcms/internal/server/content"
	"github.com/dmitrijs2005/yardcms/internal/server/users"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HTTPServer struct {
	address   string
	content   *content.Service
	users     *users.Service
	health    Pinger
	logger    logging.Logger
	jwtSecret []byte
	cookie    auth.CookieOptions
}

type Option func(*HTTPServer)

// WithHealthCheck makes /healthz ping p.
func WithHealthCheck(p Pinger) Option {
	return func(s *HTTPServer) { s.health = p }
}

func WithCookieOptions(o auth.CookieOptions) Option {
	return func(s *HTTPServer) { s.cookie = o }
}

func NewHTTPServer(a string, l logging.Logger, cs *content.Service, us *users.Service, secretKey string, opts ...Option) *HTTPServer {
	s := &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		content:   cs,
		users:     us,
		jwtSecret: []byte(secretKey),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the handler tree.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(limitBody(maxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	r.Get("/healthz", s.healthz)
	r.Get("/content", s.getContent)
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(s.jwtSecret, s.deny))

		r.Get("/check-auth", s.checkAuth)
		r.Post("/update-content", s.updateContent)
		r.Get("/content-history", s.contentHistory)
		r.Get("/content-history/{timestamp}", s.snapshot)
		r.Post("/revert-content", s.revertContent)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}
