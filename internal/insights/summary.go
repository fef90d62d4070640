package insights

import (
	"context"

	"github.com/marketlane/sellermetrics/internal/cohort"
	"github.com/marketlane/sellermetrics/internal/entity"
	"github.com/marketlane/sellermetrics/internal/metrics"
	"github.com/marketlane/sellermetrics/internal/period"
	"golang.org/x/sync/errgroup"
)

// OrderSummary builds the calendar-window order dashboard: totals, buyer
// cohorts, chart series, order types and product, buyer and (for the
// platform) seller rankings.
func (s *Service) OrderSummary(ctx context.Context, q Query) (*entity.OrderSummary, error) {
	p, err := s.resolve(q, period.CalendarRange)
	if err != nil {
		return nil, err
	}
	buckets, err := period.Buckets(q.Period, p.CurrentEnd)
	if err != nil {
		return nil, err
	}

	var (
		cur, prev window
		history   []entity.Transaction
		directory []entity.Seller
	)
	g, gctx := errgroup.WithContext(ctx)
	s.readWindow(gctx, g, q.Scope, p.Current(), entity.RealActivity, &cur, "current")
	s.readWindow(gctx, g, q.Scope, p.Previous(), entity.RealActivity, &prev, "previous")
	fetch(g, &history, "order history", func() ([]entity.Transaction, error) {
		return s.repo.Transactions().FindAllBefore(gctx, q.Scope, p.CurrentEnd, entity.RealActivity)
	})
	if q.Scope.IsPlatform() {
		fetch(g, &directory, "seller directory", func() ([]entity.Seller, error) {
			return s.sellers.ListSellers(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := cohort.BuildHistory(history)
	curAgg := metrics.Aggregate(cur.orders, cur.requestTimes(), buckets,
		cohort.NewClassifier(h, cur.orders, p.CurrentStart))
	prevAgg := metrics.Aggregate(prev.orders, prev.requestTimes(), nil,
		cohort.NewClassifier(h, prev.orders, p.PreviousStart))

	curTypes := metrics.OrderTypes(cur.orders)
	prevTypes := metrics.OrderTypes(prev.orders)
	top, bottom := metrics.RankProducts(cur.orders, s.c.TopProducts, s.c.BottomMinQuantity)

	var bySellerUnits, bySellerRevenue []entity.SellerSales
	if q.Scope.IsPlatform() {
		names := make(map[string]string, len(directory))
		for _, seller := range directory {
			names[seller.Id] = seller.Name
		}
		bySellerUnits, bySellerRevenue = metrics.RankSellers(cur.orders, names, s.c.TopSellers)
	}

	return &entity.OrderSummary{
		Scope:    q.Scope,
		Period:   p,
		Orders:   metrics.CompareInt(curAgg.Total, prevAgg.Total),
		Revenue:  metrics.Compare(curAgg.Sum, prevAgg.Sum),
		Requests: metrics.CompareInt(curAgg.Requests, prevAgg.Requests),
		Buyers: entity.BuyerBreakdown{
			New:     metrics.CompareInt(curAgg.NewCount, prevAgg.NewCount),
			Repeat:  metrics.CompareInt(curAgg.RepeatCount, prevAgg.RepeatCount),
			Total:   metrics.CompareInt(metrics.DistinctBuyers(cur.orders), metrics.DistinctBuyers(prev.orders)),
			Details: curAgg.Details,
		},
		OrderTypes: entity.OrderTypeBreakdown{
			Single: metrics.CompareInt(curTypes.Single, prevTypes.Single),
			Bulk:   metrics.CompareInt(curTypes.Bulk, prevTypes.Bulk),
		},
		Chart:               curAgg.ByBucket,
		TopProducts:         top,
		BottomProducts:      bottom,
		TopBuyers:           metrics.RankBuyers(cur.orders, s.c.TopBuyers),
		TopSellersByUnits:   bySellerUnits,
		TopSellersByRevenue: bySellerRevenue,
	}, nil
}
