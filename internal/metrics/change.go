// Package metrics folds transactions into bucketed aggregates and compares
// the current window with the previous one.
package metrics

import (
	"github.com/marketlane/sellermetrics/internal/entity"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// PercentChange renders the relative change from past to current as a whole
// percentage, e.g. "-50%". A zero past yields "0%" when current is zero too
// and "100%" otherwise. Halves round toward positive infinity.
func PercentChange(current, past decimal.Decimal) string {
	if past.IsZero() {
		if current.IsZero() {
			return "0%"
		}
		return "100%"
	}
	pct := current.Sub(past).Div(past).Mul(hundred)
	return pct.Add(half).Floor().String() + "%"
}

func Compare(current, past decimal.Decimal) entity.Comparison {
	return entity.Comparison{
		Current:          current,
		Past:             past,
		PercentageChange: PercentChange(current, past),
	}
}

func CompareInt(current, past int) entity.Comparison {
	return Compare(decimal.NewFromInt(int64(current)), decimal.NewFromInt(int64(past)))
}

// Average divides sum by n, returning zero for an empty set.
func Average(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(2)
}
