package metrics

import (
	"sort"

	"github.com/marketlane/sellermetrics/internal/entity"
	"github.com/shopspring/decimal"
)

// MinBottomQuantity is the least number of units a product must sell to
// appear among the worst sellers.
const MinBottomQuantity = 2

// RankProducts sums sold units per product and returns the n best sellers by
// quantity and the n worst sellers among those that sold at least
// minBottom units. Ties keep the order in which products first appear.
func RankProducts(txs []entity.Transaction, n, minBottom int) (top, bottom []entity.ProductSales) {
	index := make(map[string]int)
	var sales []entity.ProductSales
	for _, tx := range txs {
		for _, it := range tx.Items {
			i, ok := index[it.ProductId]
			if !ok {
				i = len(sales)
				index[it.ProductId] = i
				sales = append(sales, entity.ProductSales{
					ProductId:   it.ProductId,
					ProductName: it.ProductName,
					Amount:      decimal.Zero,
				})
			}
			sales[i].Quantity += it.Quantity
			sales[i].Amount = sales[i].Amount.Add(it.Total())
		}
	}

	top = make([]entity.ProductSales, len(sales))
	copy(top, sales)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Quantity > top[j].Quantity
	})

	bottom = make([]entity.ProductSales, 0, len(sales))
	for _, s := range sales {
		if s.Quantity >= minBottom {
			bottom = append(bottom, s)
		}
	}
	sort.SliceStable(bottom, func(i, j int) bool {
		return bottom[i].Quantity < bottom[j].Quantity
	})

	return head(top, n), head(bottom, n)
}

// RankBuyers returns the n buyers who spent the most over txs, with their
// order count. Transactions without a buyer are skipped. Ties go to the
// buyer with more orders, then to the one seen first.
func RankBuyers(txs []entity.Transaction, n int) []entity.BuyerSales {
	index := make(map[string]int)
	var buyers []entity.BuyerSales
	for _, tx := range txs {
		if !tx.HasBuyer() {
			continue
		}
		i, ok := index[tx.BuyerId]
		if !ok {
			i = len(buyers)
			index[tx.BuyerId] = i
			buyers = append(buyers, entity.BuyerSales{BuyerId: tx.BuyerId, Amount: decimal.Zero})
		}
		buyers[i].Orders++
		buyers[i].Amount = buyers[i].Amount.Add(tx.TotalAmount)
	}

	sort.SliceStable(buyers, func(i, j int) bool {
		if c := buyers[i].Amount.Cmp(buyers[j].Amount); c != 0 {
			return c > 0
		}
		return buyers[i].Orders > buyers[j].Orders
	})
	return head(buyers, n)
}

// RankSellers sums line items per seller and returns the n sellers with the
// most units sold and the n with the most revenue. names maps seller ids to
// display names; unattributed transactions are skipped.
func RankSellers(txs []entity.Transaction, names map[string]string, n int) (byUnits, byRevenue []entity.SellerSales) {
	index := make(map[string]int)
	var sellers []entity.SellerSales
	for _, tx := range txs {
		if tx.SellerId == "" {
			continue
		}
		i, ok := index[tx.SellerId]
		if !ok {
			i = len(sellers)
			index[tx.SellerId] = i
			sellers = append(sellers, entity.SellerSales{
				SellerId:   tx.SellerId,
				SellerName: names[tx.SellerId],
				Revenue:    decimal.Zero,
			})
		}
		for _, it := range tx.Items {
			sellers[i].Units += it.Quantity
			sellers[i].Revenue = sellers[i].Revenue.Add(it.Total())
		}
	}

	byUnits = make([]entity.SellerSales, len(sellers))
	copy(byUnits, sellers)
	sort.SliceStable(byUnits, func(i, j int) bool {
		return byUnits[i].Units > byUnits[j].Units
	})

	byRevenue = sellers
	sort.SliceStable(byRevenue, func(i, j int) bool {
		return byRevenue[i].Revenue.GreaterThan(byRevenue[j].Revenue)
	})
	return head(byUnits, n), head(byRevenue, n)
}

func head[T any](list []T, n int) []T {
	if n >= 0 && len(list) > n {
		return list[:n]
	}
	return list
}
