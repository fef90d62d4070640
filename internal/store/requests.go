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

type requestStore struct {
	*MYSQLStore
}

// Requests returns an object implementing the Requests interface.
func (ms *MYSQLStore) Requests() dependency.Requests {
	return &requestStore{
		MYSQLStore: ms,
	}
}

type requestRow struct {
	Id          string              `db:"id"`
	SellerId    sql.NullString      `db:"seller_id"`
	BuyerId     sql.NullString      `db:"buyer_id"`
	CreatedAt   time.Time           `db:"created_at"`
	Status      string              `db:"status"`
	TargetPrice decimal.NullDecimal `db:"target_price"`
}

type projectRequestRow struct {
	Id        string         `db:"id"`
	SellerId  sql.NullString `db:"seller_id"`
	BuyerId   sql.NullString `db:"buyer_id"`
	CreatedAt time.Time      `db:"created_at"`
	Status    string         `db:"status"`
}

func (rs *requestStore) FindRequests(ctx context.Context, scope entity.Scope, from, to time.Time) ([]entity.Request, error) {
	params := map[string]any{
		"from":     from,
		"to":       to,
		"rejected": string(entity.RequestStatusRejected),
	}
	query := fmt.Sprintf(`
	SELECT r.id, r.seller_id, r.buyer_id, r.created_at, r.status, r.target_price
	FROM request r
	WHERE r.created_at BETWEEN :from AND :to
	AND r.status <> :rejected%s
	ORDER BY r.created_at, r.id`, scopeCondition(scope, "r", params))

	rows, err := QueryListNamed[requestRow](ctx, rs.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get requests: %w", err)
	}

	reqs := make([]entity.Request, 0, len(rows))
	for _, r := range rows {
		price := decimal.Zero
		if r.TargetPrice.Valid {
			price = r.TargetPrice.Decimal
		}
		reqs = append(reqs, entity.Request{
			Id:          r.Id,
			SellerId:    r.SellerId.String,
			BuyerId:     r.BuyerId.String,
			CreatedAt:   r.CreatedAt,
			Status:      entity.RequestStatus(r.Status),
			TargetPrice: price,
		})
	}
	return reqs, nil
}

func (rs *requestStore) FindProjectRequests(ctx context.Context, scope entity.Scope, from, to time.Time) ([]entity.ProjectRequest, error) {
	params := map[string]any{
		"from":     from,
		"to":       to,
		"rejected": string(entity.RequestStatusRejected),
	}
	query := fmt.Sprintf(`
	SELECT pr.id, pr.seller_id, pr.buyer_id, pr.created_at, pr.status
	FROM project_request pr
	WHERE pr.created_at BETWEEN :from AND :to
	AND pr.status <> :rejected%s
	ORDER BY pr.created_at, pr.id`, scopeCondition(scope, "pr", params))

	rows, err := QueryListNamed[projectRequestRow](ctx, rs.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get project requests: %w", err)
	}

	reqs := make([]entity.ProjectRequest, 0, len(rows))
	for _, r := range rows {
		reqs = append(reqs, entity.ProjectRequest{
			Id:        r.Id,
			SellerId:  r.SellerId.String,
			BuyerId:   r.BuyerId.String,
			CreatedAt: r.CreatedAt,
			Status:    entity.RequestStatus(r.Status),
		})
	}
	return reqs, nil
}
