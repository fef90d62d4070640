package app

import (
	"context"
	"log/slog"

	"github.com/marketlane/sellermetrics/config"
	httpapi "github.com/marketlane/sellermetrics/internal/api/http"
	"github.com/marketlane/sellermetrics/internal/apisrv/dashboard"
	"github.com/marketlane/sellermetrics/internal/auth/jwt"
	"github.com/marketlane/sellermetrics/internal/dependency"
	"github.com/marketlane/sellermetrics/internal/insights"
	"github.com/marketlane/sellermetrics/internal/sellerrefresh"
	"github.com/marketlane/sellermetrics/internal/store"
)

// App is the main application
type App struct {
	hs   *httpapi.Server
	sr   *sellerrefresh.Worker
	db   dependency.Repository
	c    *config.Config
	done chan struct{}
}

// New returns a new instance of App. A nil repository is replaced by a MySQL
// store on Start.
func New(c *config.Config, rep dependency.Repository) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
		db:   rep,
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	slog.Default().InfoContext(ctx, "starting sellermetrics")

	if a.db == nil {
		db, err := store.New(ctx, a.c.DB)
		if err != nil {
			slog.Default().ErrorContext(ctx, "couldn't connect to mysql",
				slog.String("err", err.Error()),
			)
			return err
		}
		a.db = db
	}

	svc, err := insights.New(&a.c.Insights, a.db)
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed to create insights service",
			slog.String("err", err.Error()),
		)
		return err
	}

	if a.c.Insights.SellerCacheTTL > 0 {
		a.sr = sellerrefresh.New(&a.c.SellerRefresh, svc)
		if err := a.sr.Start(ctx); err != nil {
			return err
		}
	}

	a.hs = httpapi.New(&a.c.HTTP)
	if err := a.hs.Start(ctx, dashboard.New(svc, a.db), jwt.New(&a.c.Auth)); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server",
			slog.String("err", err.Error()),
		)
		return err
	}

	return nil
}

// Stop stops the application and waits for the http server to exit
func (a *App) Stop(ctx context.Context) {
	if a.sr != nil {
		if err := a.sr.Stop(); err != nil {
			slog.Default().ErrorContext(ctx, "seller refresh worker stop failed",
				slog.String("err", err.Error()),
			)
		}
	}
	if a.hs != nil {
		if err := a.hs.Stop(ctx); err != nil {
			slog.Default().ErrorContext(ctx, "http server shutdown failed",
				slog.String("err", err.Error()),
			)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	close(a.done)
}

// Done returns a channel that is closed when the http server exits
func (a *App) Done() <-chan struct{} {
	if a.hs == nil {
		return a.done
	}
	return a.hs.Done()
}
