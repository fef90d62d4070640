package gerr

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	InvalidPeriod       = status.Error(codes.InvalidArgument, "invalid time period specified")
	InvalidSellerId     = status.Error(codes.InvalidArgument, "invalid seller id")
	SellerNotFound      = status.Error(codes.NotFound, "seller not found")
	SellerScopeRequired = status.Error(codes.FailedPrecondition, "response time is only available for a seller")

	Unauthenticated  = status.Error(codes.Unauthenticated, "missing or invalid token")
	PermissionDenied = status.Error(codes.PermissionDenied, "admin role required")
	TooManyRequests  = status.Error(codes.ResourceExhausted, "too many requests")
)
