package cache

import (
	"context"
	"testing"
	"time"

	"github.com/marketlane/sellermetrics/internal/entity"
	gerr "github.com/marketlane/sellermetrics/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSellers struct {
	sellers []entity.Seller
	calls   int
}

func (cs *countingSellers) GetSellerById(_ context.Context, id string) (*entity.Seller, error) {
	cs.calls++
	for _, s := range cs.sellers {
		if s.Id == id {
			return &s, nil
		}
	}
	return nil, gerr.SellerNotFound
}

func (cs *countingSellers) GetSellerByUserId(_ context.Context, userId string) (*entity.Seller, error) {
	cs.calls++
	for _, s := range cs.sellers {
		if s.UserId == userId {
			return &s, nil
		}
	}
	return nil, gerr.SellerNotFound
}

func (cs *countingSellers) ListSellers(context.Context) ([]entity.Seller, error) {
	cs.calls++
	return cs.sellers, nil
}

func TestSellerCacheHit(t *testing.T) {
	src := &countingSellers{sellers: []entity.Seller{{Id: "s-1", UserId: "u-1", Name: "Clay"}}}
	c := NewSellerCache(src, time.Minute)
	ctx := context.Background()

	s, err := c.GetSellerById(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Clay", s.Name)

	s, err = c.GetSellerByUserId(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", s.Id)
	assert.Equal(t, 1, src.calls)

	// callers get a copy
	s.Name = "changed"
	s, _ = c.GetSellerById(ctx, "s-1")
	assert.Equal(t, "Clay", s.Name)
}

func TestSellerCacheExpiry(t *testing.T) {
	src := &countingSellers{sellers: []entity.Seller{{Id: "s-1", UserId: "u-1"}}}
	c := NewSellerCache(src, time.Minute)
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := c.GetSellerById(ctx, "s-1")
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = c.GetSellerById(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestSellerCacheMissNotCached(t *testing.T) {
	src := &countingSellers{}
	c := NewSellerCache(src, time.Minute)
	ctx := context.Background()

	_, err := c.GetSellerById(ctx, "nope")
	assert.ErrorIs(t, err, gerr.SellerNotFound)
	_, err = c.GetSellerById(ctx, "nope")
	assert.ErrorIs(t, err, gerr.SellerNotFound)
	assert.Equal(t, 2, src.calls)
}

func TestSellerCacheDisabled(t *testing.T) {
	src := &countingSellers{sellers: []entity.Seller{{Id: "s-1", UserId: "u-1"}}}
	c := NewSellerCache(src, 0)
	ctx := context.Background()

	_, _ = c.GetSellerById(ctx, "s-1")
	_, _ = c.GetSellerById(ctx, "s-1")
	assert.Equal(t, 2, src.calls)
}

func TestSellerCacheListWarmsAndInvalidate(t *testing.T) {
	src := &countingSellers{sellers: []entity.Seller{{Id: "s-1", UserId: "u-1"}, {Id: "s-2", UserId: "u-2"}}}
	c := NewSellerCache(src, time.Minute)
	ctx := context.Background()

	sellers, err := c.ListSellers(ctx)
	require.NoError(t, err)
	assert.Len(t, sellers, 2)

	_, err = c.GetSellerByUserId(ctx, "u-2")
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	c.Invalidate()
	_, err = c.GetSellerByUserId(ctx, "u-2")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestSellerCacheDropsOldUserKey(t *testing.T) {
	src := &countingSellers{sellers: []entity.Seller{{Id: "s-1", UserId: "u-1"}}}
	c := NewSellerCache(src, time.Minute)
	ctx := context.Background()

	_, err := c.GetSellerByUserId(ctx, "u-1")
	require.NoError(t, err)

	src.sellers = []entity.Seller{{Id: "s-1", UserId: "u-7"}}
	_, err = c.ListSellers(ctx)
	require.NoError(t, err)

	s, err := c.GetSellerByUserId(ctx, "u-7")
	require.NoError(t, err)
	assert.Equal(t, "s-1", s.Id)

	calls := src.calls
	_, err = c.GetSellerByUserId(ctx, "u-1")
	assert.ErrorIs(t, err, gerr.SellerNotFound)
	assert.Equal(t, calls+1, src.calls, "stale user key must not be served")
}

func TestSellerCacheStoreMovesUserKey(t *testing.T) {
	src := &countingSellers{sellers: []entity.Seller{{Id: "s-1", UserId: "u-1"}}}
	c := NewSellerCache(src, time.Minute)
	ctx := context.Background()

	_, err := c.GetSellerById(ctx, "s-1")
	require.NoError(t, err)

	c.store(&entity.Seller{Id: "s-1", UserId: "u-7"})

	_, ok := c.lookup(c.byUser, "u-1")
	assert.False(t, ok)
	s, ok := c.lookup(c.byUser, "u-7")
	require.True(t, ok)
	assert.Equal(t, "s-1", s.Id)
}

func TestSellerCacheListDropsRemovedSellers(t *testing.T) {
	src := &countingSellers{sellers: []entity.Seller{{Id: "s-1", UserId: "u-1"}, {Id: "s-2", UserId: "u-2"}}}
	c := NewSellerCache(src, time.Minute)
	ctx := context.Background()

	_, err := c.ListSellers(ctx)
	require.NoError(t, err)

	src.sellers = src.sellers[:1]
	_, err = c.ListSellers(ctx)
	require.NoError(t, err)

	_, ok := c.lookup(c.byId, "s-2")
	assert.False(t, ok)
	_, ok = c.lookup(c.byId, "s-1")
	assert.True(t, ok)
}
