package entity

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the custom type to enforce enum-like behavior
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusPacked     OrderStatus = "PACKED"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusReturned   OrderStatus = "RETURNED"
)

func (s OrderStatus) String() string {
	return string(s)
}

// StatusFilter narrows transaction queries by status. Only takes precedence
// over Exclude. The zero value matches every status.
type StatusFilter struct {
	Only    []OrderStatus
	Exclude []OrderStatus
}

var (
	// AnyStatus matches all orders.
	AnyStatus = StatusFilter{}
	// RealActivity drops orders that did not turn into a sale.
	RealActivity = StatusFilter{Exclude: []OrderStatus{OrderStatusCancelled, OrderStatusReturned}}
)

// OnlyStatuses builds a filter matching exactly the given statuses.
func OnlyStatuses(st ...OrderStatus) StatusFilter {
	return StatusFilter{Only: st}
}

// Match reports whether an order in status s passes the filter.
func (f StatusFilter) Match(s OrderStatus) bool {
	if len(f.Only) > 0 {
		return slices.Contains(f.Only, s)
	}
	return !slices.Contains(f.Exclude, s)
}

// Transaction is a placed order attributed to a seller.
type Transaction struct {
	Id       string
	SellerId string
	// BuyerId is empty when the buyer account no longer exists.
	BuyerId     string
	CreatedAt   time.Time
	Status      OrderStatus
	TotalAmount decimal.Decimal
	Items       []OrderItem
}

// HasBuyer reports whether the transaction can be attributed to a buyer.
func (t Transaction) HasBuyer() bool {
	return t.BuyerId != ""
}

type OrderItem struct {
	OrderId     string
	ProductId   string
	ProductName string
	Quantity    int
	// Price is the unit price at the time of purchase.
	Price decimal.Decimal
}

// Total returns price times quantity.
func (oi OrderItem) Total() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
