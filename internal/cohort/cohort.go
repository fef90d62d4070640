// Package cohort splits buyers into first-time and returning customers.
package cohort

import (
	"time"

	"github.com/marketlane/sellermetrics/internal/entity"
)

// Entry is what is known about a buyer before and during the window.
type Entry struct {
	FirstAt time.Time
	Orders  int
}

// History maps buyer id to the buyer's earliest order. It is never mutated
// after BuildHistory returns.
type History map[string]Entry

// BuildHistory folds every transaction of a buyer into a single entry.
// Transactions without a buyer are skipped.
func BuildHistory(txs []entity.Transaction) History {
	h := make(History, len(txs))
	for _, tx := range txs {
		if !tx.HasBuyer() {
			continue
		}
		e, ok := h[tx.BuyerId]
		if !ok || tx.CreatedAt.Before(e.FirstAt) {
			e.FirstAt = tx.CreatedAt
		}
		e.Orders++
		h[tx.BuyerId] = e
	}
	return h
}

// Classify applies the cohort rule to a single transaction: it is NEW when it
// is the buyer's earliest one in the window and the buyer never bought before
// the window started.
func Classify(createdAt, firstEver, firstInWindow, windowStart time.Time) entity.Cohort {
	if createdAt.Equal(firstInWindow) && !firstEver.Before(windowStart) {
		return entity.CohortNew
	}
	return entity.CohortRepeat
}

// Classifier labels the transactions of one window.
type Classifier struct {
	history     History
	window      History
	windowStart time.Time
}

// NewClassifier indexes the in-window transactions against history.
func NewClassifier(history History, inWindow []entity.Transaction, windowStart time.Time) *Classifier {
	return &Classifier{
		history:     history,
		window:      BuildHistory(inWindow),
		windowStart: windowStart,
	}
}

// Classify returns the cohort of tx. ok is false when tx has no buyer.
func (c *Classifier) Classify(tx entity.Transaction) (cohort entity.Cohort, ok bool) {
	if !tx.HasBuyer() {
		return 0, false
	}
	first, ever := c.bounds(tx)
	return Classify(tx.CreatedAt, ever, first, c.windowStart), true
}

// Detail returns the classified row of tx for drill-down tables.
func (c *Classifier) Detail(tx entity.Transaction) (entity.CohortDetail, bool) {
	cohort, ok := c.Classify(tx)
	if !ok {
		return entity.CohortDetail{}, false
	}
	_, ever := c.bounds(tx)
	orders := c.window[tx.BuyerId].Orders
	if h, ok := c.history[tx.BuyerId]; ok && h.Orders > orders {
		orders = h.Orders
	}
	return entity.CohortDetail{
		Cohort:         cohort,
		BuyerId:        tx.BuyerId,
		OrderId:        tx.Id,
		OrderDate:      tx.CreatedAt,
		OrderAmount:    tx.TotalAmount,
		FirstOrderDate: ever,
		TotalOrders:    orders,
	}, true
}

// bounds returns the buyer's first in-window instant and first-ever
// instant. A buyer missing from history falls back to the window.
func (c *Classifier) bounds(tx entity.Transaction) (first, ever time.Time) {
	first = tx.CreatedAt
	if w, ok := c.window[tx.BuyerId]; ok && w.FirstAt.Before(first) {
		first = w.FirstAt
	}
	ever = first
	if h, ok := c.history[tx.BuyerId]; ok && h.FirstAt.Before(ever) {
		ever = h.FirstAt
	}
	return first, ever
}
