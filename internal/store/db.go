package store

import (
	"context"
	"fmt"

	"github.com/Knetic/go-namedParameterQuery"
	"github.com/jmoiron/sqlx"
	"github.com/marketlane/sellermetrics/internal/dependency"
	"github.com/marketlane/sellermetrics/internal/entity"
)

func (ms *MYSQLStore) DB() dependency.DB {
	return ms.db
}

func QueryListNamed[T any](
	ctx context.Context,
	conn dependency.DB,
	query string,
	params map[string]any,
) ([]T, error) {
	queryNamed := namedParameterQuery.NewNamedParameterQuery(query)
	queryNamed.SetValuesFromMap(params)
	query, args, err := sqlx.In(queryNamed.GetParsedQuery(), queryNamed.GetParsedParameters()...)
	if err != nil {
		return nil, fmt.Errorf("in: %w", err)
	}

	rows, err := conn.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var target []T
	for rows.Next() {
		var t T
		if err := rows.StructScan(&t); err != nil {
			return nil, fmt.Errorf("struct scan: %w", err)
		}
		target = append(target, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return target, nil
}

func QueryNamedOne[T any](ctx context.Context, conn dependency.DB, query string, params map[string]any) (T, error) {
	var target T
	queryNamed := namedParameterQuery.NewNamedParameterQuery(query)
	queryNamed.SetValuesFromMap(params)

	query, args, err := sqlx.In(queryNamed.GetParsedQuery(), queryNamed.GetParsedParameters()...)
	if err != nil {
		return target, fmt.Errorf("sqlx in: %w", err)
	}

	row := conn.QueryRowxContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		return target, fmt.Errorf("query row: %w", err)
	}

	if err := row.StructScan(&target); err != nil {
		return target, fmt.Errorf("struct scan: %w", err)
	}
	return target, nil
}

// scopeCondition restricts rows of alias to the scope's seller.
func scopeCondition(scope entity.Scope, alias string, params map[string]any) string {
	if scope.IsPlatform() {
		return ""
	}
	params["sellerId"] = scope.SellerId
	return fmt.Sprintf(" AND %s.seller_id = :sellerId", alias)
}

// statusCondition applies an order status filter to rows of alias.
func statusCondition(f entity.StatusFilter, alias string, params map[string]any) string {
	switch {
	case len(f.Only) > 0:
		params["statuses"] = statusNames(f.Only)
		return fmt.Sprintf(" AND %s.status IN (:statuses)", alias)
	case len(f.Exclude) > 0:
		params["excludedStatuses"] = statusNames(f.Exclude)
		return fmt.Sprintf(" AND %s.status NOT IN (:excludedStatuses)", alias)
	}
	return ""
}

func statusNames(st []entity.OrderStatus) []string {
	names := make([]string, 0, len(st))
	for _, s := range st {
		names = append(names, s.String())
	}
	return names
}
