package entity

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Comparison is a value for the current window next to the same value for
// the previous window.
type Comparison struct {
	Current          decimal.Decimal
	Past             decimal.Decimal
	PercentageChange string
}

type Cohort int

const (
	CohortNew Cohort = iota + 1
	CohortRepeat
)

func (c Cohort) String() string {
	switch c {
	case CohortNew:
		return "new"
	case CohortRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// CohortDetail describes one classified in-window transaction.
type CohortDetail struct {
	Cohort         Cohort
	BuyerId        string
	OrderId        string
	OrderDate      time.Time
	OrderAmount    decimal.Decimal
	FirstOrderDate time.Time
	TotalOrders    int
}

// BucketStat is the aggregate of one chart bucket.
type BucketStat struct {
	Label       string
	Start       time.Time
	End         time.Time
	Count       int
	Sum         decimal.Decimal
	NewCount    int
	RepeatCount int
	Requests    int
}

// Aggregate is the result of folding a window of transactions.
type Aggregate struct {
	Total       int
	Sum         decimal.Decimal
	NewCount    int
	RepeatCount int
	Requests    int
	ByBucket    []BucketStat
	Details     []CohortDetail
}

type OrderTypeSplit struct {
	Single int
	Bulk   int
}

type ProductSales struct {
	ProductId   string
	ProductName string
	Quantity    int
	Amount      decimal.Decimal
}

// BuyerSales is what one buyer spent over a window.
type BuyerSales struct {
	BuyerId string
	Orders  int
	Amount  decimal.Decimal
}

// SellerSales is what one seller sold over a window, counted from line items.
type SellerSales struct {
	SellerId   string
	SellerName string
	Units      int
	Revenue    decimal.Decimal
}

type ResponseTimeKind int

const (
	ResponseTimeUnavailable ResponseTimeKind = iota
	ResponseTimeMeasured
	ResponseTimeEstimated
)

func (k ResponseTimeKind) String() string {
	switch k {
	case ResponseTimeMeasured:
		return "measured"
	case ResponseTimeEstimated:
		return "estimated"
	default:
		return "unavailable"
	}
}

// ResponseTime is the average time a seller takes to answer a buyer.
// Estimated values are fallbacks, not observations.
type ResponseTime struct {
	Kind    ResponseTimeKind
	Minutes float64
	Samples int
}

// String renders the value in whole minutes, e.g. "42m".
func (rt ResponseTime) String() string {
	if rt.Kind == ResponseTimeUnavailable {
		return "n/a"
	}
	return fmt.Sprintf("%dm", int64(math.Round(rt.Minutes)))
}

// Overview is the set of scalar metrics of a scope over rolling windows.
type Overview struct {
	Scope             Scope
	Period            Period
	Orders            Comparison
	Revenue           Comparison
	AverageOrderValue Comparison
	Requests          Comparison
	RequestsRevenue   Comparison
	Demand            Comparison
	PendingOrders     Comparison
	PackedOrders      Comparison
	ReturnedOrders    Comparison
	ReturnedWorth     Comparison
	Messages          Comparison
}

type BuyerBreakdown struct {
	New     Comparison
	Repeat  Comparison
	Total   Comparison
	Details []CohortDetail
}

type OrderTypeBreakdown struct {
	Single Comparison
	Bulk   Comparison
}

// OrderSummary is the calendar-window order dashboard of a scope.
type OrderSummary struct {
	Scope          Scope
	Period         Period
	Orders         Comparison
	Revenue        Comparison
	Requests       Comparison
	Buyers         BuyerBreakdown
	OrderTypes     OrderTypeBreakdown
	Chart          []BucketStat
	TopProducts    []ProductSales
	BottomProducts []ProductSales
	TopBuyers      []BuyerSales
	// Seller rankings are only filled for the platform scope.
	TopSellersByUnits   []SellerSales
	TopSellersByRevenue []SellerSales
}

type ResponseTimeReport struct {
	Scope            Scope
	Period           Period
	Current          ResponseTime
	Previous         ResponseTime
	PercentageChange string
}

// Dashboard bundles every report of a scope. ResponseTime is nil for the
// platform scope.
type Dashboard struct {
	Overview     *Overview
	OrderSummary *OrderSummary
	ResponseTime *ResponseTimeReport
}
