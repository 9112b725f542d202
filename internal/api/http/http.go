package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/globelend/waitlist-manager/internal/admission"
	"github.com/globelend/waitlist-manager/internal/auth"
	"github.com/globelend/waitlist-manager/internal/auth/twitter"
	"github.com/globelend/waitlist-manager/internal/dependency"
	mw "github.com/globelend/waitlist-manager/internal/middleware"
	"github.com/globelend/waitlist-manager/internal/ratelimit"
	"github.com/globelend/waitlist-manager/log"
)

// Config is the configuration for the http server
type Config struct {
	Port           string   `mapstructure:"port"`
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	TrustedBaseURL string   `mapstructure:"trusted_base_url"`
}

// Deps are the services the handlers delegate to.
type Deps struct {
	Repo           dependency.Repository
	Admission      *admission.Controller
	Limiter        *ratelimit.Limiter
	Capacity       dependency.CapacityTracker
	Gate           *auth.Gate
	Login          *twitter.Handler
	MaxAvatarBytes int
}

// Server is the http server
type Server struct {
	hs   *http.Server
	c    *Config
	d    Deps
	done chan struct{}
}

// New creates a new server
func New(config *Config, d Deps) *Server {
	return &Server{
		c:    config,
		d:    d,
		done: make(chan struct{}),
	}
}

// Done returns a channel that is closed when the http server exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Router builds the routing tree with all middleware applied.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(log.RequestLogger(slog.Default()))
	r.Use(middleware.Recoverer)
	r.Use(s.cors().Handler)
	r.Use(mw.ClientKey)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", s.health)

	r.Route("/waitlist", func(r chi.Router) {
		r.Post("/", s.joinWaitlist)
		r.Get("/", s.waitlistStats)
		r.Get("/me", s.myEntry)
		r.Get("/spots", s.spotsFeed)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Get("/twitter/start", s.d.Login.Start)
		r.Get("/twitter/callback", s.d.Login.Callback)
		r.Post("/logout", s.logout)
		r.Get("/session", s.session)
	})

	r.Get("/admin/waitlist/no-pfp", s.noPictureExport)

	return r
}

func (s *Server) cors() *cors.Cors {
	return cors.New(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return isOriginAllowed(origin, s.c.AllowedOrigins)
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

func isOriginAllowed(origin string, allowedOrigins []string) bool {
	// Always allow localhost origins
	if strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "https://localhost:") {
		return true
	}
	for _, allowedOrigin := range allowedOrigins {
		if origin == allowedOrigin {
			return true
		}
	}
	return false
}

// Start starts the server
func (s *Server) Start(ctx context.Context) error {
	listenerAddr := net.JoinHostPort(s.c.Address, s.c.Port)
	ln, err := net.Listen("tcp", listenerAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenerAddr, err)
	}

	s.hs = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		defer close(s.done)
		slog.Default().InfoContext(ctx, "waitlist-manager listening",
			slog.String("addr", ln.Addr().String()),
		)
		err := s.hs.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			slog.Default().InfoContext(ctx, "http server returned")
			return
		}
		slog.Default().ErrorContext(ctx, "http server exited with an error",
			slog.String("err", err.Error()),
		)
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.hs == nil {
		return nil
	}
	return s.hs.Shutdown(ctx)
}
