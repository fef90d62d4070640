package cache

import (
	"context"
	"sync"
	"time"

	"github.com/marketlane/sellermetrics/internal/dependency"
	"github.com/marketlane/sellermetrics/internal/entity"
)

type sellerEntry struct {
	seller    entity.Seller
	expiresAt time.Time
}

// SellerCache is a read-through cache in front of a seller repository.
// Misses are not cached.
type SellerCache struct {
	src    dependency.Sellers
	ttl    time.Duration
	now    func() time.Time
	byId   map[string]sellerEntry
	byUser map[string]sellerEntry
	mu     sync.RWMutex
}

var _ dependency.Sellers = (*SellerCache)(nil)

// NewSellerCache wraps src. A non-positive ttl disables caching.
func NewSellerCache(src dependency.Sellers, ttl time.Duration) *SellerCache {
	return &SellerCache{
		src:    src,
		ttl:    ttl,
		now:    time.Now,
		byId:   make(map[string]sellerEntry),
		byUser: make(map[string]sellerEntry),
	}
}

func (c *SellerCache) GetSellerById(ctx context.Context, id string) (*entity.Seller, error) {
	if s, ok := c.lookup(c.byId, id); ok {
		return s, nil
	}
	s, err := c.src.GetSellerById(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(s)
	return s, nil
}

func (c *SellerCache) GetSellerByUserId(ctx context.Context, userId string) (*entity.Seller, error) {
	if s, ok := c.lookup(c.byUser, userId); ok {
		return s, nil
	}
	s, err := c.src.GetSellerByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	c.store(s)
	return s, nil
}

// ListSellers always hits the source and replaces the cache with the result.
func (c *SellerCache) ListSellers(ctx context.Context) ([]entity.Seller, error) {
	sellers, err := c.src.ListSellers(ctx)
	if err != nil {
		return nil, err
	}
	c.replace(sellers)
	return sellers, nil
}

// Invalidate drops every cached seller.
func (c *SellerCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byId = make(map[string]sellerEntry)
	c.byUser = make(map[string]sellerEntry)
}

func (c *SellerCache) lookup(m map[string]sellerEntry, key string) (*entity.Seller, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, found := m[key]
	if !found || c.now().After(e.expiresAt) {
		return nil, false
	}
	s := e.seller
	return &s, true
}

func (c *SellerCache) store(s *entity.Seller) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.put(sellerEntry{seller: *s, expiresAt: c.now().Add(c.ttl)})
}

func (c *SellerCache) replace(sellers []entity.Seller) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byId = make(map[string]sellerEntry, len(sellers))
	c.byUser = make(map[string]sellerEntry, len(sellers))
	expiresAt := c.now().Add(c.ttl)
	for _, s := range sellers {
		c.put(sellerEntry{seller: s, expiresAt: expiresAt})
	}
}

// put must be called with mu held. A seller that moved to another user
// loses its old user key.
func (c *SellerCache) put(e sellerEntry) {
	id, userId := e.seller.Id, e.seller.UserId
	if old, ok := c.byId[id]; ok && old.seller.UserId != userId {
		if cur, ok := c.byUser[old.seller.UserId]; ok && cur.seller.Id == id {
			delete(c.byUser, old.seller.UserId)
		}
	}
	c.byId[id] = e
	c.byUser[userId] = e
}
