package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusAccepted  RequestStatus = "ACCEPTED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCompleted RequestStatus = "COMPLETED"
)

// Request is a buyer's ask for a custom product with a target price.
type Request struct {
	Id          string
	SellerId    string
	BuyerId     string
	CreatedAt   time.Time
	Status      RequestStatus
	TargetPrice decimal.Decimal
}

// ProjectRequest is a buyer's ask for a bespoke project.
type ProjectRequest struct {
	Id        string
	SellerId  string
	BuyerId   string
	CreatedAt time.Time
	Status    RequestStatus
}
