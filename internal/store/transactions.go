package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/marketlane/sellermetrics/internal/dependency"
	"github.com/marketlane/sellermetrics/internal/entity"
	"github.com/shopspring/decimal"
)

type txStore struct {
	*MYSQLStore
}

// Transactions returns an object implementing the Transactions interface.
func (ms *MYSQLStore) Transactions() dependency.Transactions {
	return &txStore{
		MYSQLStore: ms,
	}
}

type orderRow struct {
	Id          string          `db:"id"`
	SellerId    sql.NullString  `db:"seller_id"`
	BuyerId     sql.NullString  `db:"buyer_id"`
	CreatedAt   time.Time       `db:"created_at"`
	Status      string          `db:"status"`
	TotalAmount decimal.Decimal `db:"total_amount"`
}

func (r orderRow) transaction() entity.Transaction {
	return entity.Transaction{
		Id:          r.Id,
		SellerId:    r.SellerId.String,
		BuyerId:     r.BuyerId.String,
		CreatedAt:   r.CreatedAt,
		Status:      entity.OrderStatus(r.Status),
		TotalAmount: r.TotalAmount,
	}
}

type orderItemRow struct {
	OrderId     string          `db:"order_id"`
	ProductId   string          `db:"product_id"`
	ProductName string          `db:"product_name"`
	Quantity    int             `db:"quantity"`
	Price       decimal.Decimal `db:"price"`
}

// FindByDateRange returns the scope's orders created within [from, to] with
// their line items.
func (ts *txStore) FindByDateRange(ctx context.Context, scope entity.Scope, from, to time.Time, filter entity.StatusFilter) ([]entity.Transaction, error) {
	params := map[string]any{
		"from": from,
		"to":   to,
	}
	query := fmt.Sprintf(`
	SELECT co.id, co.seller_id, co.buyer_id, co.created_at, co.status, co.total_amount
	FROM customer_order co
	WHERE co.created_at BETWEEN :from AND :to%s%s
	ORDER BY co.created_at, co.id`,
		scopeCondition(scope, "co", params),
		statusCondition(filter, "co", params),
	)

	rows, err := QueryListNamed[orderRow](ctx, ts.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get orders: %w", err)
	}

	txs := make([]entity.Transaction, 0, len(rows))
	for _, r := range rows {
		txs = append(txs, r.transaction())
	}
	if err := ts.attachItems(ctx, txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// FindAllBefore returns every order of the scope created at or before the
// given instant. Line items are not loaded.
func (ts *txStore) FindAllBefore(ctx context.Context, scope entity.Scope, before time.Time, filter entity.StatusFilter) ([]entity.Transaction, error) {
	params := map[string]any{
		"before": before,
	}
	query := fmt.Sprintf(`
	SELECT co.id, co.seller_id, co.buyer_id, co.created_at, co.status, co.total_amount
	FROM customer_order co
	WHERE co.created_at <= :before%s%s
	ORDER BY co.created_at, co.id`,
		scopeCondition(scope, "co", params),
		statusCondition(filter, "co", params),
	)

	rows, err := QueryListNamed[orderRow](ctx, ts.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get order history: %w", err)
	}

	txs := make([]entity.Transaction, 0, len(rows))
	for _, r := range rows {
		txs = append(txs, r.transaction())
	}
	return txs, nil
}

func (ts *txStore) attachItems(ctx context.Context, txs []entity.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(txs))
	index := make(map[string]int, len(txs))
	for i, tx := range txs {
		ids = append(ids, tx.Id)
		index[tx.Id] = i
	}

	query := `
	SELECT oi.order_id, oi.product_id, oi.product_name, oi.quantity, oi.price
	FROM order_item oi
	WHERE oi.order_id IN (:orderIds)
	ORDER BY oi.order_id, oi.id`

	rows, err := QueryListNamed[orderItemRow](ctx, ts.DB(), query, map[string]any{
		"orderIds": ids,
	})
	if err != nil {
		return fmt.Errorf("can't get order items: %w", err)
	}

	for _, r := range rows {
		i, ok := index[r.OrderId]
		if !ok {
			continue
		}
		txs[i].Items = append(txs[i].Items, entity.OrderItem{
			OrderId:     r.OrderId,
			ProductId:   r.ProductId,
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			Price:       r.Price,
		})
	}
	return nil
}
