package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/marketlane/sellermetrics/internal/dependency"
	"github.com/marketlane/sellermetrics/internal/entity"
	gerr "github.com/marketlane/sellermetrics/internal/errors"
)

type sellerStore struct {
	*MYSQLStore
}

// Sellers returns an object implementing the Sellers interface.
func (ms *MYSQLStore) Sellers() dependency.Sellers {
	return &sellerStore{
		MYSQLStore: ms,
	}
}

type sellerRow struct {
	Id        string    `db:"id"`
	UserId    string    `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r sellerRow) seller() *entity.Seller {
	return &entity.Seller{
		Id:        r.Id,
		UserId:    r.UserId,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
	}
}

func (ss *sellerStore) GetSellerById(ctx context.Context, id string) (*entity.Seller, error) {
	query := `SELECT id, user_id, name, created_at FROM seller WHERE id = :id`
	row, err := QueryNamedOne[sellerRow](ctx, ss.DB(), query, map[string]any{
		"id": id,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gerr.SellerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't get seller by id: %w", err)
	}
	return row.seller(), nil
}

func (ss *sellerStore) GetSellerByUserId(ctx context.Context, userId string) (*entity.Seller, error) {
	query := `SELECT id, user_id, name, created_at FROM seller WHERE user_id = :userId`
	row, err := QueryNamedOne[sellerRow](ctx, ss.DB(), query, map[string]any{
		"userId": userId,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gerr.SellerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't get seller by user id: %w", err)
	}
	return row.seller(), nil
}

func (ss *sellerStore) ListSellers(ctx context.Context) ([]entity.Seller, error) {
	query := `SELECT id, user_id, name, created_at FROM seller ORDER BY name, id`
	rows, err := QueryListNamed[sellerRow](ctx, ss.DB(), query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("can't list sellers: %w", err)
	}
	sellers := make([]entity.Seller, 0, len(rows))
	for _, r := range rows {
		sellers = append(sellers, *r.seller())
	}
	return sellers, nil
}
