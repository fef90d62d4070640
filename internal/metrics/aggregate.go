package metrics

import (
	"sort"
	"time"

	"github.com/marketlane/sellermetrics/internal/cohort"
	"github.com/marketlane/sellermetrics/internal/entity"
	"github.com/marketlane/sellermetrics/internal/period"
	"github.com/shopspring/decimal"
)

// Aggregate folds a window of transactions and request timestamps into
// totals and one stat per bucket. ByBucket has exactly len(buckets)
// entries; empty buckets report zeros. A nil classifier skips cohort
// counting.
func Aggregate(txs []entity.Transaction, requests []time.Time, buckets []entity.Bucket, cls *cohort.Classifier) entity.Aggregate {
	agg := entity.Aggregate{
		Sum:      decimal.Zero,
		Requests: len(requests),
		ByBucket: make([]entity.BucketStat, len(buckets)),
	}
	for i, b := range buckets {
		agg.ByBucket[i] = entity.BucketStat{
			Label: b.Label,
			Start: b.Start,
			End:   b.End,
			Sum:   decimal.Zero,
		}
	}

	for _, tx := range txs {
		agg.Total++
		agg.Sum = agg.Sum.Add(tx.TotalAmount)

		var (
			detail     entity.CohortDetail
			classified bool
		)
		if cls != nil {
			detail, classified = cls.Detail(tx)
		}
		if classified {
			agg.Details = append(agg.Details, detail)
			countCohort(detail.Cohort, &agg.NewCount, &agg.RepeatCount)
		}

		i := period.Locate(buckets, tx.CreatedAt)
		if i < 0 {
			continue
		}
		st := &agg.ByBucket[i]
		st.Count++
		st.Sum = st.Sum.Add(tx.TotalAmount)
		if classified {
			countCohort(detail.Cohort, &st.NewCount, &st.RepeatCount)
		}
	}

	for _, at := range requests {
		if i := period.Locate(buckets, at); i >= 0 {
			agg.ByBucket[i].Requests++
		}
	}

	sort.SliceStable(agg.Details, func(i, j int) bool {
		return agg.Details[i].OrderDate.Before(agg.Details[j].OrderDate)
	})
	return agg
}

func countCohort(c entity.Cohort, newCount, repeatCount *int) {
	switch c {
	case entity.CohortNew:
		*newCount++
	case entity.CohortRepeat:
		*repeatCount++
	}
}

// DistinctBuyers counts the buyers behind txs, ignoring transactions
// without one.
func DistinctBuyers(txs []entity.Transaction) int {
	seen := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		if tx.HasBuyer() {
			seen[tx.BuyerId] = struct{}{}
		}
	}
	return len(seen)
}

// OrderTypes counts single-item and multi-item orders. Orders without line
// items are neither.
func OrderTypes(txs []entity.Transaction) entity.OrderTypeSplit {
	var s entity.OrderTypeSplit
	for _, tx := range txs {
		switch n := len(tx.Items); {
		case n == 1:
			s.Single++
		case n > 1:
			s.Bulk++
		}
	}
	return s
}

// CountStatus returns the number and total worth of txs in status st.
func CountStatus(txs []entity.Transaction, st entity.OrderStatus) (int, decimal.Decimal) {
	n, sum := 0, decimal.Zero
	for _, tx := range txs {
		if tx.Status == st {
			n++
			sum = sum.Add(tx.TotalAmount)
		}
	}
	return n, sum
}

// Filter returns the transactions matching f.
func Filter(txs []entity.Transaction, f entity.StatusFilter) []entity.Transaction {
	out := make([]entity.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Match(tx.Status) {
			out = append(out, tx)
		}
	}
	return out
}
