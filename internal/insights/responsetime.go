package insights

import (
	"context"
	"fmt"

	"github.com/marketlane/sellermetrics/internal/entity"
	"github.com/marketlane/sellermetrics/internal/metrics"
	"github.com/marketlane/sellermetrics/internal/period"
	"github.com/shopspring/decimal"
)

// ResponseTime compares how fast the seller answered buyers in the current
// and previous rolling windows.
func (s *Service) ResponseTime(ctx context.Context, q Query) (*entity.ResponseTimeReport, error) {
	if err := requireSeller(q.Scope); err != nil {
		return nil, err
	}
	p, err := s.resolve(q, period.RollingRange)
	if err != nil {
		return nil, err
	}

	convs, err := s.repo.Conversations().FindConversations(ctx, q.Scope.SellerUserId, p.PreviousStart)
	if err != nil {
		return nil, fmt.Errorf("can't get conversations: %w", err)
	}

	cur := s.rt.Current(convs, q.Scope.SellerUserId, p)
	prev := s.rt.Previous(convs, q.Scope.SellerUserId, p)

	return &entity.ResponseTimeReport{
		Scope:    q.Scope,
		Period:   p,
		Current:  cur,
		Previous: prev,
		PercentageChange: metrics.PercentChange(
			decimal.NewFromFloat(cur.Minutes).Round(2),
			decimal.NewFromFloat(prev.Minutes).Round(2),
		),
	}, nil
}
