// Package sellerrefresh periodically reloads the seller directory so report
// requests resolve sellers from a warm cache.
package sellerrefresh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/marketlane/sellermetrics/internal/entity"
)

// Config holds configuration for the seller refresh worker.
type Config struct {
	WorkerInterval time.Duration `mapstructure:"worker_interval"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		WorkerInterval: 4 * time.Minute,
	}
}

// Source lists sellers and refreshes its cache as a side effect.
type Source interface {
	Sellers(ctx context.Context) ([]entity.Seller, error)
}

// Worker reloads sellers on start and then every WorkerInterval.
type Worker struct {
	src  Source
	c    *Config
	ctx  context.Context
	stop context.CancelFunc
	done chan struct{}
}

// New creates a new seller refresh worker.
func New(c *Config, src Source) *Worker {
	if c == nil {
		dc := DefaultConfig()
		c = &dc
	}
	if c.WorkerInterval <= 0 {
		c.WorkerInterval = DefaultConfig().WorkerInterval
	}
	return &Worker{
		src: src,
		c:   c,
	}
}

// Start starts the worker.
func (w *Worker) Start(ctx context.Context) error {
	if w.ctx != nil && w.stop != nil {
		return fmt.Errorf("seller refresh worker already started")
	}
	w.ctx, w.stop = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.worker(w.ctx)
	return nil
}

// Stop stops the worker and waits for the running refresh to finish.
func (w *Worker) Stop() error {
	if w.stop == nil {
		return fmt.Errorf("seller refresh worker already stopped or not started")
	}
	w.stop()
	w.stop = nil
	<-w.done
	return nil
}

func (w *Worker) worker(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.c.WorkerInterval)
	defer ticker.Stop()

	w.refresh(ctx)
	for {
		select {
		case <-ticker.C:
			w.refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) refresh(ctx context.Context) {
	sellers, err := w.src.Sellers(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Default().ErrorContext(ctx, "can't refresh sellers",
				slog.String("err", err.Error()),
			)
		}
		return
	}
	slog.Default().DebugContext(ctx, "refreshed sellers",
		slog.Int("count", len(sellers)),
	)
}
