package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/globelend/waitlist-manager/config"
	"github.com/globelend/waitlist-manager/internal/admission"
	httpapi "github.com/globelend/waitlist-manager/internal/api/http"
	"github.com/globelend/waitlist-manager/internal/auth"
	"github.com/globelend/waitlist-manager/internal/auth/twitter"
	"github.com/globelend/waitlist-manager/internal/cache"
	"github.com/globelend/waitlist-manager/internal/dependency"
	"github.com/globelend/waitlist-manager/internal/ratelimit"
	"github.com/globelend/waitlist-manager/internal/store"
)

const shutdownTimeout = 10 * time.Second

// App is the main application
type App struct {
	hs       *httpapi.Server
	db       dependency.Repository
	c        *config.Config
	cancel   context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start connects to the database and starts the http server and the limiter sweeper.
func (a *App) Start(ctx context.Context) error {
	slog.Default().InfoContext(ctx, "starting waitlist manager")

	db, err := store.New(ctx, a.c.DB)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to mysql",
			slog.String("err", err.Error()),
		)
		return err
	}
	return a.start(ctx, db)
}

func (a *App) start(ctx context.Context, db dependency.Repository) error {
	a.db = db

	gate, err := auth.New(a.c.Auth)
	if err != nil {
		a.db.Close()
		close(a.done)
		return fmt.Errorf("create identity gate: %w", err)
	}

	capacity := cache.NewCapacity(a.db.Waitlist(), a.c.Waitlist.CountTTL)
	limiter := ratelimit.NewLimiter(a.c.RateLimit.Window, a.c.RateLimit.Tiers)
	controller := admission.New(a.db.Waitlist(), capacity, a.c.Waitlist.Config)
	login := twitter.NewHandler(twitter.New(a.c.Twitter), gate, a.c.HTTP.TrustedBaseURL, a.c.Auth.CookieSecure)

	a.hs = httpapi.New(&a.c.HTTP, httpapi.Deps{
		Repo:           a.db,
		Admission:      controller,
		Limiter:        limiter,
		Capacity:       capacity,
		Gate:           gate,
		Login:          login,
		MaxAvatarBytes: a.c.Waitlist.MaxAvatarBytes,
	})

	ctx, a.cancel = context.WithCancel(ctx)
	if err := a.hs.Start(ctx); err != nil {
		a.cancel()
		a.hs = nil
		a.db.Close()
		close(a.done)
		slog.Default().ErrorContext(ctx, "cannot start http server",
			slog.String("err", err.Error()),
		)
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return limiter.Run(gctx)
	})
	g.Go(func() error {
		select {
		case <-a.hs.Done():
			a.cancel()
		case <-gctx.Done():
		}
		return nil
	})
	go func() {
		if err := g.Wait(); err != nil {
			slog.Default().ErrorContext(ctx, "background worker failed",
				slog.String("err", err.Error()),
			)
		}
		close(a.done)
	}()

	slog.Default().InfoContext(ctx, "waitlist manager started",
		slog.Int("max_spots", controller.Config().MaxSpots),
		slog.Int("max_capacity", controller.Config().MaxCapacity),
	)
	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	a.stopOnce.Do(func() {
		if a.hs == nil {
			return
		}
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := a.hs.Stop(shutdownCtx); err != nil {
			slog.Default().ErrorContext(ctx, "http server shutdown failed",
				slog.String("err", err.Error()),
			)
		}
		a.cancel()
		<-a.done
		a.db.Close()
	})
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() <-chan struct{} {
	return a.done
}
