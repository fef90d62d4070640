package insights

import (
	"context"
	"slices"
	"time"

	"github.com/marketlane/sellermetrics/internal/dependency"
	"github.com/marketlane/sellermetrics/internal/entity"
	gerr "github.com/marketlane/sellermetrics/internal/errors"
)

// fakeRepo is an in-memory repository honouring scope, window and status
// filters the way the MySQL store does.
type fakeRepo struct {
	orders   []entity.Transaction
	requests []entity.Request
	projects []entity.ProjectRequest
	convs    []entity.Conversation
	sellers  []entity.Seller

	ordersErr error
}

var _ dependency.Repository = (*fakeRepo)(nil)

func (f *fakeRepo) Transactions() dependency.Transactions   { return fakeTransactions{f} }
func (f *fakeRepo) Requests() dependency.Requests           { return fakeRequests{f} }
func (f *fakeRepo) Conversations() dependency.Conversations { return fakeConversations{f} }
func (f *fakeRepo) Sellers() dependency.Sellers             { return fakeSellers{f} }
func (f *fakeRepo) Ping(context.Context) error              { return nil }
func (f *fakeRepo) Close()                                  {}

func inScope(scope entity.Scope, sellerId string) bool {
	return scope.IsPlatform() || scope.SellerId == sellerId
}

func between(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

type fakeTransactions struct{ f *fakeRepo }

func (ft fakeTransactions) FindByDateRange(ctx context.Context, scope entity.Scope, from, to time.Time, filter entity.StatusFilter) ([]entity.Transaction, error) {
	if ft.f.ordersErr != nil {
		return nil, ft.f.ordersErr
	}
	var out []entity.Transaction
	for _, o := range ft.f.orders {
		if inScope(scope, o.SellerId) && between(o.CreatedAt, from, to) && filter.Match(o.Status) {
			out = append(out, o)
		}
	}
	return out, ctx.Err()
}

func (ft fakeTransactions) FindAllBefore(ctx context.Context, scope entity.Scope, before time.Time, filter entity.StatusFilter) ([]entity.Transaction, error) {
	if ft.f.ordersErr != nil {
		return nil, ft.f.ordersErr
	}
	var out []entity.Transaction
	for _, o := range ft.f.orders {
		if inScope(scope, o.SellerId) && !o.CreatedAt.After(before) && filter.Match(o.Status) {
			o.Items = nil
			out = append(out, o)
		}
	}
	return out, ctx.Err()
}

type fakeRequests struct{ f *fakeRepo }

func (fr fakeRequests) FindRequests(ctx context.Context, scope entity.Scope, from, to time.Time) ([]entity.Request, error) {
	var out []entity.Request
	for _, r := range fr.f.requests {
		if inScope(scope, r.SellerId) && between(r.CreatedAt, from, to) && r.Status != entity.RequestStatusRejected {
			out = append(out, r)
		}
	}
	return out, ctx.Err()
}

func (fr fakeRequests) FindProjectRequests(ctx context.Context, scope entity.Scope, from, to time.Time) ([]entity.ProjectRequest, error) {
	var out []entity.ProjectRequest
	for _, r := range fr.f.projects {
		if inScope(scope, r.SellerId) && between(r.CreatedAt, from, to) && r.Status != entity.RequestStatusRejected {
			out = append(out, r)
		}
	}
	return out, ctx.Err()
}

type fakeConversations struct{ f *fakeRepo }

func (fc fakeConversations) FindConversations(ctx context.Context, userId string, since time.Time) ([]entity.Conversation, error) {
	var out []entity.Conversation
	for _, c := range fc.f.convs {
		if userId != "" && !slices.Contains(c.Participants, userId) {
			continue
		}
		cc := entity.Conversation{Id: c.Id, Participants: c.Participants}
		for _, m := range c.Messages {
			if !m.CreatedAt.Before(since) {
				cc.Messages = append(cc.Messages, m)
			}
		}
		if len(cc.Messages) > 0 {
			out = append(out, cc)
		}
	}
	return out, ctx.Err()
}

type fakeSellers struct{ f *fakeRepo }

func (fs fakeSellers) GetSellerById(_ context.Context, id string) (*entity.Seller, error) {
	for _, s := range fs.f.sellers {
		if s.Id == id {
			return &s, nil
		}
	}
	return nil, gerr.SellerNotFound
}

func (fs fakeSellers) GetSellerByUserId(_ context.Context, userId string) (*entity.Seller, error) {
	for _, s := range fs.f.sellers {
		if s.UserId == userId {
			return &s, nil
		}
	}
	return nil, gerr.SellerNotFound
}

func (fs fakeSellers) ListSellers(context.Context) ([]entity.Seller, error) {
	return fs.f.sellers, nil
}
