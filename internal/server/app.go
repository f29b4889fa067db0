// Package server wires the yardcms server together: it opens the configured
// store, builds the content and user services, serves the HTTP API and
// shuts everything down on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/kv"
	"github.com/dmitrijs2005/yardcms/internal/kv/kvopen"
	"github.com/dmitrijs2005/yardcms/internal/logging"
	"github.com/dmitrijs2005/yardcms/internal/server/auth"
	"github.com/dmitrijs2005/yardcms/internal/server/config"
	"github.com/dmitrijs2005/yardcms/internal/server/content"
	"github.com/dmitrijs2005/yardcms/internal/server/httpapi"
	"github.com/dmitrijs2005/yardcms/internal/server/users"
)

const purgeInterval = time.Hour

type App struct {
	config         *config.Config
	logger         logging.Logger
	store          kv.Store
	contentService *content.Service
	userService    *users.Service
}

// Components are the content building blocks shared by the server and the
// admin tool.
type Components struct {
	Repository *content.Repository
	History    *content.History
	Service    *content.Service
}

// NewContentComponents builds the content repository, history and service
// on store according to cfg.
func NewContentComponents(cfg *config.Config, store kv.Store, logger logging.Logger) (*Components, error) {
	repo := content.NewRepository(store)
	history := content.NewHistory(store, content.WithPruning(cfg.PruneHistory))

	opts := []content.ServiceOption{content.WithStrictHistory(cfg.StrictHistory)}
	if cfg.Sanitize {
		opts = append(opts, content.WithSanitizer(content.NewSanitizer()))
	}
	if cfg.DefaultContentFile != "" {
		defaults, err := content.LoadDefaults(cfg.DefaultContentFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, content.WithDefaults(defaults))
	}

	return &Components{
		Repository: repo,
		History:    history,
		Service:    content.NewService(repo, history, logger, opts...),
	}, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, err
	}

	store, err := kvopen.Open(ctx, c.StoreConfig())
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	return newApp(c, logger, store)
}

func newApp(c *config.Config, logger logging.Logger, store kv.Store) (*App, error) {
	comps, err := NewContentComponents(c, store, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	us := users.NewService(users.NewKVRepository(store), c.SecretKey, c.SessionValidityDuration)

	return &App{
		config:         c,
		logger:         logger,
		store:          store,
		contentService: comps.Service,
		userService:    us,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) httpServer() *httpapi.HTTPServer {
	return httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.contentService, app.userService, app.config.SecretKey,
		httpapi.WithHealthCheck(app.store),
		httpapi.WithCookieOptions(auth.CookieOptions{Secure: app.config.CookieSecure, Domain: app.config.CookieDomain}),
	)
}

// purgeExpired periodically reclaims expired snapshots on stores that do not
// expire keys by themselves.
func (app *App) purgeExpired(ctx context.Context, p kv.ExpiredPurger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.DeleteExpired(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					app.logger.Warn(ctx, "purge of expired snapshots failed", "error", err)
				}
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged expired snapshots", "count", n)
			}
		}
	}
}

// Run serves until a signal arrives or ctx is cancelled, then closes the
// store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreDriver)

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer().Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
		}
		cancelFunc()
	}()

	if p, ok := app.store.(kv.ExpiredPurger); ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.purgeExpired(ctx, p, purgeInterval)
		}()
	}

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Warn(context.WithoutCancel(ctx), "store close failed", "error", err)
	}
	app.logger.Info(context.WithoutCancel(ctx), "Stopped")
	return runErr
}
