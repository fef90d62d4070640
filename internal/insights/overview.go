package insights

import (
	"context"
	"time"

	"github.com/marketlane/sellermetrics/internal/entity"
	"github.com/marketlane/sellermetrics/internal/metrics"
	"github.com/marketlane/sellermetrics/internal/period"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// window is everything read for one side of a comparison.
type window struct {
	orders   []entity.Transaction
	requests []entity.Request
	projects []entity.ProjectRequest
}

func (w window) requestCount() int {
	return len(w.requests) + len(w.projects)
}

func (w window) requestRevenue() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range w.requests {
		sum = sum.Add(r.TargetPrice)
	}
	return sum
}

func (w window) requestTimes() []time.Time {
	tt := make([]time.Time, 0, w.requestCount())
	for _, r := range w.requests {
		tt = append(tt, r.CreatedAt)
	}
	for _, r := range w.projects {
		tt = append(tt, r.CreatedAt)
	}
	return tt
}

func (s *Service) readWindow(ctx context.Context, g *errgroup.Group, scope entity.Scope, tr entity.TimeRange, filter entity.StatusFilter, w *window, label string) {
	fetch(g, &w.orders, label+" orders", func() ([]entity.Transaction, error) {
		return s.repo.Transactions().FindByDateRange(ctx, scope, tr.From, tr.To, filter)
	})
	fetch(g, &w.requests, label+" requests", func() ([]entity.Request, error) {
		return s.repo.Requests().FindRequests(ctx, scope, tr.From, tr.To)
	})
	fetch(g, &w.projects, label+" project requests", func() ([]entity.ProjectRequest, error) {
		return s.repo.Requests().FindProjectRequests(ctx, scope, tr.From, tr.To)
	})
}

// Overview compares scalar metrics of the scope over rolling windows.
func (s *Service) Overview(ctx context.Context, q Query) (*entity.Overview, error) {
	p, err := s.resolve(q, period.RollingRange)
	if err != nil {
		return nil, err
	}

	var (
		cur, prev window
		convs     []entity.Conversation
	)
	g, gctx := errgroup.WithContext(ctx)
	s.readWindow(gctx, g, q.Scope, p.Current(), entity.AnyStatus, &cur, "current")
	s.readWindow(gctx, g, q.Scope, p.Previous(), entity.AnyStatus, &prev, "previous")
	fetch(g, &convs, "conversations", func() ([]entity.Conversation, error) {
		return s.repo.Conversations().FindConversations(gctx, q.Scope.SellerUserId, p.PreviousStart)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	curSold := metrics.Filter(cur.orders, entity.RealActivity)
	prevSold := metrics.Filter(prev.orders, entity.RealActivity)
	curAgg := metrics.Aggregate(curSold, nil, nil, nil)
	prevAgg := metrics.Aggregate(prevSold, nil, nil, nil)

	curPending, _ := metrics.CountStatus(cur.orders, entity.OrderStatusPending)
	prevPending, _ := metrics.CountStatus(prev.orders, entity.OrderStatusPending)
	curPacked, _ := metrics.CountStatus(cur.orders, entity.OrderStatusPacked)
	prevPacked, _ := metrics.CountStatus(prev.orders, entity.OrderStatusPacked)
	curReturned, curReturnedWorth := metrics.CountStatus(cur.orders, entity.OrderStatusReturned)
	prevReturned, prevReturnedWorth := metrics.CountStatus(prev.orders, entity.OrderStatusReturned)

	return &entity.Overview{
		Scope:   q.Scope,
		Period:  p,
		Orders:  metrics.CompareInt(curAgg.Total, prevAgg.Total),
		Revenue: metrics.Compare(curAgg.Sum, prevAgg.Sum),
		AverageOrderValue: metrics.Compare(
			metrics.Average(curAgg.Sum, curAgg.Total),
			metrics.Average(prevAgg.Sum, prevAgg.Total),
		),
		Requests:        metrics.CompareInt(cur.requestCount(), prev.requestCount()),
		RequestsRevenue: metrics.Compare(cur.requestRevenue(), prev.requestRevenue()),
		Demand:          metrics.CompareInt(curAgg.Total+cur.requestCount(), prevAgg.Total+prev.requestCount()),
		PendingOrders:   metrics.CompareInt(curPending, prevPending),
		PackedOrders:    metrics.CompareInt(curPacked, prevPacked),
		ReturnedOrders:  metrics.CompareInt(curReturned, prevReturned),
		ReturnedWorth:   metrics.Compare(curReturnedWorth, prevReturnedWorth),
		Messages: metrics.CompareInt(
			countMessages(convs, p.Current()),
			countMessages(convs, p.Previous()),
		),
	}, nil
}

func countMessages(convs []entity.Conversation, tr entity.TimeRange) int {
	n := 0
	for _, c := range convs {
		for _, m := range c.Messages {
			if tr.Contains(m.CreatedAt) {
				n++
			}
		}
	}
	return n
}
