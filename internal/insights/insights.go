// Package insights assembles seller and platform performance reports from
// the repository.
package insights

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/marketlane/sellermetrics/internal/cache"
	"github.com/marketlane/sellermetrics/internal/dependency"
	"github.com/marketlane/sellermetrics/internal/entity"
	gerr "github.com/marketlane/sellermetrics/internal/errors"
	"github.com/marketlane/sellermetrics/internal/period"
	"github.com/marketlane/sellermetrics/internal/responsetime"
	"golang.org/x/sync/errgroup"
)

// Query identifies a report. A zero Now means the current time.
type Query struct {
	Scope  entity.Scope
	Period entity.PeriodToken
	Now    time.Time
}

// Service computes reports. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	repo    dependency.Repository
	sellers dependency.Sellers
	rt      *responsetime.Analyzer
	c       Config
	loc     *time.Location
	now     func() time.Time
}

// New creates a new insights service.
func New(c *Config, repo dependency.Repository) (*Service, error) {
	cfg := c.withDefaults()
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return &Service{
		repo:    repo,
		sellers: cache.NewSellerCache(repo.Sellers(), cfg.SellerCacheTTL),
		rt:      responsetime.New(cfg.ResponseCeiling, cfg.CurrentEstimate, cfg.PreviousEstimate),
		c:       cfg,
		loc:     loc,
		now:     time.Now,
	}, nil
}

// ResolveSeller returns the scope of the seller with the given id.
func (s *Service) ResolveSeller(ctx context.Context, sellerId string) (entity.Scope, error) {
	seller, err := s.sellers.GetSellerById(ctx, sellerId)
	if err != nil {
		return entity.Scope{}, err
	}
	return entity.SellerScope(seller), nil
}

// ResolveSellerByUser returns the scope of the seller owned by userId.
func (s *Service) ResolveSellerByUser(ctx context.Context, userId string) (entity.Scope, error) {
	seller, err := s.sellers.GetSellerByUserId(ctx, userId)
	if err != nil {
		return entity.Scope{}, err
	}
	return entity.SellerScope(seller), nil
}

// Sellers lists every seller known to the repository.
func (s *Service) Sellers(ctx context.Context) ([]entity.Seller, error) {
	return s.sellers.ListSellers(ctx)
}

// Dashboard computes the overview, order summary and, for sellers, the
// response time report concurrently.
func (s *Service) Dashboard(ctx context.Context, q Query) (*entity.Dashboard, error) {
	q.Now = s.instant(q)
	d := &entity.Dashboard{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Overview, err = s.Overview(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		d.OrderSummary, err = s.OrderSummary(gctx, q)
		return err
	})
	if !q.Scope.IsPlatform() {
		g.Go(func() error {
			var err error
			d.ResponseTime, err = s.ResponseTime(gctx, q)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

// instant returns the reference time of q in the configured zone.
func (s *Service) instant(q Query) time.Time {
	if q.Now.IsZero() {
		return s.now().In(s.loc)
	}
	return q.Now.In(s.loc)
}

func (s *Service) resolve(q Query, policy period.Policy) (entity.Period, error) {
	p, err := period.Resolve(q.Period, s.instant(q), policy)
	if err != nil {
		return entity.Period{}, err
	}
	slog.Default().Debug("resolved period",
		slog.String("token", string(p.Token)),
		slog.String("policy", policy.String()),
		slog.String("seller_id", q.Scope.SellerId),
		slog.Time("current_start", p.CurrentStart),
		slog.Time("current_end", p.CurrentEnd),
		slog.Time("previous_start", p.PreviousStart),
		slog.Time("previous_end", p.PreviousEnd),
	)
	return p, nil
}

// fetch runs fn on g and stores its result in dst.
func fetch[T any](g *errgroup.Group, dst *T, what string, fn func() (T, error)) {
	g.Go(func() error {
		v, err := fn()
		if err != nil {
			return fmt.Errorf("can't get %s: %w", what, err)
		}
		*dst = v
		return nil
	})
}

func requireSeller(scope entity.Scope) error {
	if scope.IsPlatform() {
		return gerr.SellerScopeRequired
	}
	return nil
}
