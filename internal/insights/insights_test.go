package insights

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/marketlane/sellermetrics/internal/entity"
	gerr "github.com/marketlane/sellermetrics/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func at(m time.Month, d, h, min int) time.Time {
	return time.Date(2024, m, d, h, min, 0, 0, time.UTC)
}

func order(id, seller, buyer string, createdAt time.Time, st entity.OrderStatus, amount int64, items ...entity.OrderItem) entity.Transaction {
	return entity.Transaction{
		Id:          id,
		SellerId:    seller,
		BuyerId:     buyer,
		CreatedAt:   createdAt,
		Status:      st,
		TotalAmount: decimal.NewFromInt(amount),
		Items:       items,
	}
}

func item(product string, qty int) entity.OrderItem {
	return entity.OrderItem{ProductId: product, ProductName: product, Quantity: qty, Price: decimal.NewFromInt(5)}
}

func message(sender string, createdAt time.Time) entity.Message {
	return entity.Message{SenderId: sender, CreatedAt: createdAt}
}

func fixture() *fakeRepo {
	return &fakeRepo{
		sellers: []entity.Seller{
			{Id: "s-1", UserId: "u-1", Name: "Clay Studio"},
			{Id: "s-2", UserId: "u-2", Name: "Loom"},
		},
		orders: []entity.Transaction{
			order("o-old", "s-1", "b-2", time.Date(2023, time.November, 20, 10, 0, 0, 0, time.UTC), entity.OrderStatusDelivered, 40),
			order("o-jan", "s-1", "b-1", at(time.January, 5, 10, 0), entity.OrderStatusDelivered, 20, item("mug", 1)),
			order("o-feb", "s-1", "b-2", at(time.February, 20, 10, 0), entity.OrderStatusDelivered, 30, item("mug", 1), item("pin", 1)),
			order("o-mar1", "s-1", "b-1", at(time.March, 10, 9, 0), entity.OrderStatusDelivered, 50, item("mug", 2)),
			order("o-mar2", "s-1", "b-3", at(time.March, 12, 14, 0), entity.OrderStatusPending, 15, item("pin", 1)),
			order("o-mar3", "s-1", "b-4", at(time.March, 14, 8, 0), entity.OrderStatusReturned, 25, item("cap", 1)),
			order("o-mar4", "s-1", "", at(time.March, 14, 9, 0), entity.OrderStatusPacked, 10, item("pin", 3)),
			order("o-cancel", "s-1", "b-5", at(time.March, 13, 0, 0), entity.OrderStatusCancelled, 60),
			order("o-other", "s-2", "b-9", at(time.March, 11, 0, 0), entity.OrderStatusDelivered, 999, item("zine", 1)),
		},
		requests: []entity.Request{
			{Id: "r-1", SellerId: "s-1", CreatedAt: at(time.March, 2, 0, 0), Status: entity.RequestStatusPending, TargetPrice: decimal.NewFromInt(400)},
			{Id: "r-2", SellerId: "s-1", CreatedAt: at(time.March, 3, 0, 0), Status: entity.RequestStatusRejected, TargetPrice: decimal.NewFromInt(100)},
			{Id: "r-3", SellerId: "s-1", CreatedAt: at(time.February, 1, 0, 0), Status: entity.RequestStatusAccepted, TargetPrice: decimal.NewFromInt(200)},
		},
		projects: []entity.ProjectRequest{
			{Id: "pr-1", SellerId: "s-1", CreatedAt: at(time.March, 5, 0, 0), Status: entity.RequestStatusPending},
		},
		convs: []entity.Conversation{
			{Id: "c-1", Participants: []string{"b-3", "u-1"}, Messages: []entity.Message{
				message("b-3", at(time.March, 12, 10, 0)),
				message("u-1", at(time.March, 12, 10, 42)),
			}},
			{Id: "c-2", Participants: []string{"b-1", "u-1"}, Messages: []entity.Message{
				message("b-1", at(time.March, 1, 10, 0)),
				message("u-1", at(time.March, 2, 11, 0)),
			}},
			{Id: "c-3", Participants: []string{"b-2", "u-1"}, Messages: []entity.Message{
				message("b-2", at(time.February, 10, 9, 0)),
				message("u-1", at(time.February, 10, 10, 0)),
			}},
		},
	}
}

func newService(t *testing.T, repo *fakeRepo) *Service {
	t.Helper()
	svc, err := New(&Config{}, repo)
	require.NoError(t, err)
	return svc
}

func sellerQuery(token entity.PeriodToken) Query {
	return Query{
		Scope:  entity.Scope{SellerId: "s-1", SellerUserId: "u-1"},
		Period: token,
		Now:    now,
	}
}

func assertComparison(t *testing.T, c entity.Comparison, current, past, change string) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(current).Equal(c.Current), "current %s, want %s", c.Current, current)
	assert.True(t, decimal.RequireFromString(past).Equal(c.Past), "past %s, want %s", c.Past, past)
	assert.Equal(t, change, c.PercentageChange)
}

func TestOverview(t *testing.T) {
	svc := newService(t, fixture())

	o, err := svc.Overview(context.Background(), sellerQuery(entity.PeriodMonth))
	require.NoError(t, err)

	assert.Equal(t, now.Add(-30*24*time.Hour), o.Period.CurrentStart)
	assertComparison(t, o.Orders, "4", "0", "100%")
	assertComparison(t, o.Revenue, "105", "0", "100%")
	assertComparison(t, o.AverageOrderValue, "26.25", "0", "100%")
	assertComparison(t, o.Requests, "2", "1", "100%")
	assertComparison(t, o.RequestsRevenue, "400", "200", "100%")
	assertComparison(t, o.Demand, "6", "1", "500%")
	assertComparison(t, o.PendingOrders, "1", "0", "100%")
	assertComparison(t, o.PackedOrders, "1", "0", "100%")
	assertComparison(t, o.ReturnedOrders, "1", "0", "100%")
	assertComparison(t, o.ReturnedWorth, "25", "0", "100%")
	assertComparison(t, o.Messages, "4", "2", "100%")
}

func TestOverviewPlatform(t *testing.T) {
	svc := newService(t, fixture())

	o, err := svc.Overview(context.Background(), Query{Period: entity.PeriodWeek, Now: now})
	require.NoError(t, err)

	// o-mar1, o-mar2, o-mar4 and the other seller's order
	assertComparison(t, o.Orders, "4", "0", "100%")
	assertComparison(t, o.Revenue, "1074", "0", "100%")
}

func TestOrderSummaryYear(t *testing.T) {
	svc := newService(t, fixture())

	s, err := svc.OrderSummary(context.Background(), sellerQuery(entity.PeriodYear))
	require.NoError(t, err)

	assertComparison(t, s.Orders, "5", "1", "400%")
	assertComparison(t, s.Revenue, "125", "40", "213%")
	assertComparison(t, s.Requests, "3", "0", "100%")
	assertComparison(t, s.Buyers.New, "2", "1", "100%")
	assertComparison(t, s.Buyers.Repeat, "2", "0", "100%")
	assertComparison(t, s.Buyers.Total, "3", "1", "200%")
	assertComparison(t, s.OrderTypes.Single, "4", "0", "100%")
	assertComparison(t, s.OrderTypes.Bulk, "1", "0", "100%")

	require.Len(t, s.Chart, 12)
	jan, feb, mar := s.Chart[0], s.Chart[1], s.Chart[2]
	assert.Equal(t, "Jan", jan.Label)
	assert.Equal(t, 1, jan.NewCount)
	assert.Equal(t, 0, jan.RepeatCount)
	assert.Equal(t, 1, feb.RepeatCount)
	assert.Equal(t, 3, mar.Count)
	assert.Equal(t, 1, mar.NewCount)
	assert.Equal(t, 1, mar.RepeatCount)
	assert.Equal(t, 2, mar.Requests)
	assert.True(t, decimal.NewFromInt(75).Equal(mar.Sum))

	require.Len(t, s.Buyers.Details, 4)
	assert.Equal(t, "o-jan", s.Buyers.Details[0].OrderId)
	assert.Equal(t, entity.CohortNew, s.Buyers.Details[0].Cohort)
	assert.Equal(t, "o-mar1", s.Buyers.Details[2].OrderId)
	assert.Equal(t, entity.CohortRepeat, s.Buyers.Details[2].Cohort)
	assert.Equal(t, 2, s.Buyers.Details[2].TotalOrders)

	require.Len(t, s.TopProducts, 2)
	assert.Equal(t, "pin", s.TopProducts[0].ProductId)
	assert.Equal(t, 5, s.TopProducts[0].Quantity)
	require.Len(t, s.BottomProducts, 2)
	assert.Equal(t, "mug", s.BottomProducts[0].ProductId)

	require.Len(t, s.TopBuyers, 3)
	assert.Equal(t, "b-1", s.TopBuyers[0].BuyerId)
	assert.Equal(t, 2, s.TopBuyers[0].Orders)
	assert.True(t, decimal.NewFromInt(70).Equal(s.TopBuyers[0].Amount))
	assert.Equal(t, "b-2", s.TopBuyers[1].BuyerId)
	assert.Equal(t, "b-3", s.TopBuyers[2].BuyerId)
	assert.Nil(t, s.TopSellersByUnits)
	assert.Nil(t, s.TopSellersByRevenue)
}

func TestOrderSummaryPlatformRankings(t *testing.T) {
	svc := newService(t, fixture())

	s, err := svc.OrderSummary(context.Background(), Query{Period: entity.PeriodYear, Now: now})
	require.NoError(t, err)

	require.Len(t, s.TopBuyers, 4)
	assert.Equal(t, "b-9", s.TopBuyers[0].BuyerId)

	require.Len(t, s.TopSellersByUnits, 2)
	top := s.TopSellersByUnits[0]
	assert.Equal(t, "s-1", top.SellerId)
	assert.Equal(t, "Clay Studio", top.SellerName)
	// mug 4, pin 5, at 5 each
	assert.Equal(t, 9, top.Units)
	assert.True(t, decimal.NewFromInt(45).Equal(top.Revenue))
	assert.Equal(t, "Loom", s.TopSellersByUnits[1].SellerName)

	require.Len(t, s.TopSellersByRevenue, 2)
	assert.Equal(t, "s-1", s.TopSellersByRevenue[0].SellerId)
}

func TestOrderSummaryBucketCounts(t *testing.T) {
	svc := newService(t, fixture())
	want := map[entity.PeriodToken]int{
		entity.PeriodToday: 24,
		entity.PeriodWeek:  7,
		entity.PeriodMonth: 3,
		entity.PeriodYear:  12,
	}
	for token, n := range want {
		s, err := svc.OrderSummary(context.Background(), sellerQuery(token))
		require.NoError(t, err)
		assert.Len(t, s.Chart, n, token)
		assert.Equal(t, s.Buyers.New.Current.Add(s.Buyers.Repeat.Current).IntPart(), int64(len(s.Buyers.Details)), token)
	}
}

func TestResponseTime(t *testing.T) {
	svc := newService(t, fixture())

	rt, err := svc.ResponseTime(context.Background(), sellerQuery(entity.PeriodMonth))
	require.NoError(t, err)
	assert.Equal(t, entity.ResponseTimeMeasured, rt.Current.Kind)
	assert.Equal(t, "42m", rt.Current.String())
	assert.Equal(t, entity.ResponseTimeMeasured, rt.Previous.Kind)
	assert.Equal(t, "60m", rt.Previous.String())
	assert.Equal(t, "-30%", rt.PercentageChange)

	rt, err = svc.ResponseTime(context.Background(), sellerQuery(entity.PeriodWeek))
	require.NoError(t, err)
	assert.Equal(t, entity.ResponseTimeMeasured, rt.Current.Kind)
	assert.Equal(t, entity.ResponseTimeEstimated, rt.Previous.Kind)
	assert.Equal(t, "45m", rt.Previous.String())
	assert.Equal(t, "-7%", rt.PercentageChange)
}

func TestResponseTimeNeedsSeller(t *testing.T) {
	svc := newService(t, fixture())

	_, err := svc.ResponseTime(context.Background(), Query{Period: entity.PeriodMonth, Now: now})
	assert.ErrorIs(t, err, gerr.SellerScopeRequired)
}

func TestInvalidPeriod(t *testing.T) {
	svc := newService(t, fixture())
	q := sellerQuery("quarter")

	_, err := svc.Overview(context.Background(), q)
	assert.ErrorIs(t, err, gerr.InvalidPeriod)
	_, err = svc.OrderSummary(context.Background(), q)
	assert.ErrorIs(t, err, gerr.InvalidPeriod)
	_, err = svc.ResponseTime(context.Background(), q)
	assert.ErrorIs(t, err, gerr.InvalidPeriod)
	_, err = svc.Dashboard(context.Background(), q)
	assert.ErrorIs(t, err, gerr.InvalidPeriod)
}

func TestResolveSeller(t *testing.T) {
	svc := newService(t, fixture())

	scope, err := svc.ResolveSeller(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, entity.Scope{SellerId: "s-1", SellerUserId: "u-1"}, scope)

	scope, err = svc.ResolveSellerByUser(context.Background(), "u-2")
	require.NoError(t, err)
	assert.Equal(t, "s-2", scope.SellerId)

	_, err = svc.ResolveSeller(context.Background(), "s-404")
	assert.ErrorIs(t, err, gerr.SellerNotFound)
}

func TestRepositoryFailure(t *testing.T) {
	boom := errors.New("connection reset")
	repo := fixture()
	repo.ordersErr = boom
	svc := newService(t, repo)

	_, err := svc.Overview(context.Background(), sellerQuery(entity.PeriodMonth))
	assert.ErrorIs(t, err, boom)
	_, err = svc.OrderSummary(context.Background(), sellerQuery(entity.PeriodMonth))
	assert.ErrorIs(t, err, boom)
	_, err = svc.Dashboard(context.Background(), sellerQuery(entity.PeriodMonth))
	assert.ErrorIs(t, err, boom)
}

func TestEmptyDataset(t *testing.T) {
	svc := newService(t, &fakeRepo{})

	o, err := svc.Overview(context.Background(), Query{Period: entity.PeriodToday, Now: now})
	require.NoError(t, err)
	assertComparison(t, o.Orders, "0", "0", "0%")
	assertComparison(t, o.Revenue, "0", "0", "0%")
	assertComparison(t, o.AverageOrderValue, "0", "0", "0%")

	s, err := svc.OrderSummary(context.Background(), Query{Period: entity.PeriodToday, Now: now})
	require.NoError(t, err)
	assert.Len(t, s.Chart, 24)
	assert.Empty(t, s.Buyers.Details)
	assert.Empty(t, s.TopProducts)
}

func TestDashboard(t *testing.T) {
	svc := newService(t, fixture())

	d, err := svc.Dashboard(context.Background(), sellerQuery(entity.PeriodMonth))
	require.NoError(t, err)
	assert.NotNil(t, d.Overview)
	assert.NotNil(t, d.OrderSummary)
	require.NotNil(t, d.ResponseTime)

	d, err = svc.Dashboard(context.Background(), Query{Period: entity.PeriodMonth, Now: now})
	require.NoError(t, err)
	assert.NotNil(t, d.Overview)
	assert.Nil(t, d.ResponseTime)
}

func TestDefaultsToCurrentTime(t *testing.T) {
	svc := newService(t, fixture())
	svc.now = func() time.Time { return now }

	s, err := svc.OrderSummary(context.Background(), Query{
		Scope:  entity.Scope{SellerId: "s-1", SellerUserId: "u-1"},
		Period: entity.PeriodYear,
	})
	require.NoError(t, err)
	assert.Equal(t, now, s.Period.CurrentEnd)
}

func TestIdempotent(t *testing.T) {
	svc := newService(t, fixture())
	q := sellerQuery(entity.PeriodYear)

	first, err := svc.Dashboard(context.Background(), q)
	require.NoError(t, err)
	second, err := svc.Dashboard(context.Background(), q)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
