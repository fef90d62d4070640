package dto

import (
	"encoding/json"
	"time"

	"github.com/marketlane/sellermetrics/internal/entity"
	"github.com/shopspring/decimal"
)

type Comparison struct {
	Current          json.Number `json:"current"`
	Past             json.Number `json:"past"`
	PercentageChange string      `json:"percentageChange"`
}

type Period struct {
	Period        string    `json:"period"`
	CurrentStart  time.Time `json:"currentStart"`
	CurrentEnd    time.Time `json:"currentEnd"`
	PreviousStart time.Time `json:"previousStart"`
	PreviousEnd   time.Time `json:"previousEnd"`
}

type Overview struct {
	SellerId              string     `json:"sellerId,omitempty"`
	Period                Period     `json:"period"`
	TotalOrders           Comparison `json:"totalOrders"`
	Revenue               Comparison `json:"revenue"`
	AverageOrderValue     Comparison `json:"averageOrderValue"`
	Requests              Comparison `json:"requests"`
	RequestsRevenue       Comparison `json:"requestsRevenue"`
	Demand                Comparison `json:"demand"`
	PendingOrders         Comparison `json:"pendingOrders"`
	PackedOrders          Comparison `json:"packedOrders"`
	ReturnedOrders        Comparison `json:"returnedOrders"`
	ReturnedProductsWorth Comparison `json:"returnedProductsWorth"`
	Messages              Comparison `json:"messages"`
}

type BuyerDetail struct {
	Type           string      `json:"type"`
	BuyerId        string      `json:"buyerId"`
	OrderId        string      `json:"orderId"`
	OrderDate      time.Time   `json:"orderDate"`
	OrderAmount    json.Number `json:"orderAmount"`
	FirstOrderDate time.Time   `json:"firstOrderDate"`
	TotalOrders    int         `json:"totalOrders"`
}

type ChartPoint struct {
	Name     string      `json:"name"`
	Start    time.Time   `json:"start"`
	End      time.Time   `json:"end"`
	Orders   int         `json:"orders"`
	Revenue  json.Number `json:"revenue"`
	Requests int         `json:"requests"`
	New      int         `json:"new"`
	Repeated int         `json:"repeated"`
}

type Product struct {
	ProductId   string      `json:"productId"`
	ProductName string      `json:"productName"`
	Quantity    int         `json:"quantity"`
	Amount      json.Number `json:"amount"`
}

type Buyer struct {
	BuyerId string      `json:"buyerId"`
	Orders  int         `json:"orders"`
	Amount  json.Number `json:"amount"`
}

type SellerSales struct {
	SellerId   string      `json:"sellerId"`
	SellerName string      `json:"sellerName"`
	Units      int         `json:"units"`
	Revenue    json.Number `json:"revenue"`
}

type OrderSummary struct {
	SellerId       string        `json:"sellerId,omitempty"`
	Period         Period        `json:"period"`
	TotalOrders    Comparison    `json:"totalOrders"`
	Revenue        Comparison    `json:"revenue"`
	Requests       Comparison    `json:"requests"`
	NewBuyers      Comparison    `json:"newBuyers"`
	RepeatedBuyers Comparison    `json:"repeatedBuyers"`
	TotalBuyers    Comparison    `json:"totalBuyers"`
	BuyerDetails   []BuyerDetail `json:"buyerDetails"`
	SingleOrders   Comparison    `json:"singleOrders"`
	BulkOrders     Comparison    `json:"bulkOrders"`
	ChartData      []ChartPoint  `json:"chartData"`
	TopProducts    []Product     `json:"topProducts"`
	BottomProducts []Product     `json:"bottomProducts"`
	TopBuyers      []Buyer       `json:"topBuyers"`
	// Empty outside the platform scope.
	TopSellersByUnits   []SellerSales `json:"topSellersByUnits"`
	TopSellersByRevenue []SellerSales `json:"topSellersByRevenue"`
}

type ResponseTime struct {
	Minutes   json.Number `json:"minutes"`
	Display   string      `json:"display"`
	Kind      string      `json:"kind"`
	Estimated bool        `json:"estimated"`
	Samples   int         `json:"samples"`
}

type ResponseTimeReport struct {
	SellerId         string       `json:"sellerId,omitempty"`
	Period           Period       `json:"period"`
	Current          ResponseTime `json:"current"`
	Previous         ResponseTime `json:"previous"`
	PercentageChange string       `json:"percentageChange"`
}

type Dashboard struct {
	Overview     *Overview           `json:"overview"`
	OrderSummary *OrderSummary       `json:"orderSummary"`
	ResponseTime *ResponseTimeReport `json:"responseTime,omitempty"`
}

type Seller struct {
	Id        string    `json:"id"`
	UserId    string    `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func ConvertEntityOverview(o *entity.Overview) *Overview {
	if o == nil {
		return nil
	}
	return &Overview{
		SellerId:              o.Scope.SellerId,
		Period:                periodToDto(o.Period),
		TotalOrders:           comparisonToDto(o.Orders),
		Revenue:               comparisonToDto(o.Revenue),
		AverageOrderValue:     comparisonToDto(o.AverageOrderValue),
		Requests:              comparisonToDto(o.Requests),
		RequestsRevenue:       comparisonToDto(o.RequestsRevenue),
		Demand:                comparisonToDto(o.Demand),
		PendingOrders:         comparisonToDto(o.PendingOrders),
		PackedOrders:          comparisonToDto(o.PackedOrders),
		ReturnedOrders:        comparisonToDto(o.ReturnedOrders),
		ReturnedProductsWorth: comparisonToDto(o.ReturnedWorth),
		Messages:              comparisonToDto(o.Messages),
	}
}

func ConvertEntityOrderSummary(s *entity.OrderSummary) *OrderSummary {
	if s == nil {
		return nil
	}
	return &OrderSummary{
		SellerId:       s.Scope.SellerId,
		Period:         periodToDto(s.Period),
		TotalOrders:    comparisonToDto(s.Orders),
		Revenue:        comparisonToDto(s.Revenue),
		Requests:       comparisonToDto(s.Requests),
		NewBuyers:      comparisonToDto(s.Buyers.New),
		RepeatedBuyers: comparisonToDto(s.Buyers.Repeat),
		TotalBuyers:    comparisonToDto(s.Buyers.Total),
		BuyerDetails:   buyerDetailsToDto(s.Buyers.Details),
		SingleOrders:   comparisonToDto(s.OrderTypes.Single),
		BulkOrders:     comparisonToDto(s.OrderTypes.Bulk),
		ChartData:      chartToDto(s.Chart),
		TopProducts:    productsToDto(s.TopProducts),
		BottomProducts: productsToDto(s.BottomProducts),
		TopBuyers:      buyersToDto(s.TopBuyers),

		TopSellersByUnits:   sellerSalesToDto(s.TopSellersByUnits),
		TopSellersByRevenue: sellerSalesToDto(s.TopSellersByRevenue),
	}
}

func ConvertEntityResponseTimeReport(r *entity.ResponseTimeReport) *ResponseTimeReport {
	if r == nil {
		return nil
	}
	return &ResponseTimeReport{
		SellerId:         r.Scope.SellerId,
		Period:           periodToDto(r.Period),
		Current:          responseTimeToDto(r.Current),
		Previous:         responseTimeToDto(r.Previous),
		PercentageChange: r.PercentageChange,
	}
}

func ConvertEntityDashboard(d *entity.Dashboard) *Dashboard {
	if d == nil {
		return nil
	}
	return &Dashboard{
		Overview:     ConvertEntityOverview(d.Overview),
		OrderSummary: ConvertEntityOrderSummary(d.OrderSummary),
		ResponseTime: ConvertEntityResponseTimeReport(d.ResponseTime),
	}
}

func ConvertEntitySeller(s entity.Seller) Seller {
	return Seller{
		Id:        s.Id,
		UserId:    s.UserId,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}

func decimalToNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func comparisonToDto(c entity.Comparison) Comparison {
	return Comparison{
		Current:          decimalToNumber(c.Current),
		Past:             decimalToNumber(c.Past),
		PercentageChange: c.PercentageChange,
	}
}

func periodToDto(p entity.Period) Period {
	return Period{
		Period:        string(p.Token),
		CurrentStart:  p.CurrentStart,
		CurrentEnd:    p.CurrentEnd,
		PreviousStart: p.PreviousStart,
		PreviousEnd:   p.PreviousEnd,
	}
}

// buyerDetailsToDto never returns nil so empty lists render as [].
func buyerDetailsToDto(list []entity.CohortDetail) []BuyerDetail {
	out := make([]BuyerDetail, len(list))
	for i, d := range list {
		out[i] = BuyerDetail{
			Type:           d.Cohort.String(),
			BuyerId:        d.BuyerId,
			OrderId:        d.OrderId,
			OrderDate:      d.OrderDate,
			OrderAmount:    decimalToNumber(d.OrderAmount),
			FirstOrderDate: d.FirstOrderDate,
			TotalOrders:    d.TotalOrders,
		}
	}
	return out
}

func chartToDto(list []entity.BucketStat) []ChartPoint {
	out := make([]ChartPoint, len(list))
	for i, b := range list {
		out[i] = ChartPoint{
			Name:     b.Label,
			Start:    b.Start,
			End:      b.End,
			Orders:   b.Count,
			Revenue:  decimalToNumber(b.Sum),
			Requests: b.Requests,
			New:      b.NewCount,
			Repeated: b.RepeatCount,
		}
	}
	return out
}

func productsToDto(list []entity.ProductSales) []Product {
	out := make([]Product, len(list))
	for i, p := range list {
		out[i] = Product{
			ProductId:   p.ProductId,
			ProductName: p.ProductName,
			Quantity:    p.Quantity,
			Amount:      decimalToNumber(p.Amount),
		}
	}
	return out
}

func buyersToDto(list []entity.BuyerSales) []Buyer {
	out := make([]Buyer, len(list))
	for i, b := range list {
		out[i] = Buyer{
			BuyerId: b.BuyerId,
			Orders:  b.Orders,
			Amount:  decimalToNumber(b.Amount),
		}
	}
	return out
}

func sellerSalesToDto(list []entity.SellerSales) []SellerSales {
	out := make([]SellerSales, len(list))
	for i, s := range list {
		out[i] = SellerSales{
			SellerId:   s.SellerId,
			SellerName: s.SellerName,
			Units:      s.Units,
			Revenue:    decimalToNumber(s.Revenue),
		}
	}
	return out
}

func responseTimeToDto(rt entity.ResponseTime) ResponseTime {
	return ResponseTime{
		Minutes:   decimalToNumber(decimal.NewFromFloat(rt.Minutes).Round(2)),
		Display:   rt.String(),
		Kind:      rt.Kind.String(),
		Estimated: rt.Kind == entity.ResponseTimeEstimated,
		Samples:   rt.Samples,
	}
}
