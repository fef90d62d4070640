// Package dashboard serves seller and platform reports as JSON.
package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/marketlane/sellermetrics/internal/auth/jwt"
	"github.com/marketlane/sellermetrics/internal/dto"
	"github.com/marketlane/sellermetrics/internal/entity"
	gerr "github.com/marketlane/sellermetrics/internal/errors"
	"github.com/marketlane/sellermetrics/internal/insights"
	"github.com/marketlane/sellermetrics/internal/middleware"
	"github.com/marketlane/sellermetrics/internal/period"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Insights is the report service behind the handlers.
type Insights interface {
	Overview(ctx context.Context, q insights.Query) (*entity.Overview, error)
	OrderSummary(ctx context.Context, q insights.Query) (*entity.OrderSummary, error)
	ResponseTime(ctx context.Context, q insights.Query) (*entity.ResponseTimeReport, error)
	Dashboard(ctx context.Context, q insights.Query) (*entity.Dashboard, error)
	ResolveSeller(ctx context.Context, sellerId string) (entity.Scope, error)
	ResolveSellerByUser(ctx context.Context, userId string) (entity.Scope, error)
	Sellers(ctx context.Context) ([]entity.Seller, error)
}

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type contextKey string

const scopeKey contextKey = "scope"

const sellerIdPattern = `^[A-Za-z0-9_-]{1,64}$`

// Server implements the report endpoints.
type Server struct {
	svc Insights
	db  Pinger
}

// New creates a new dashboard server.
func New(svc Insights, db Pinger) *Server {
	return &Server{
		svc: svc,
		db:  db,
	}
}

// SellerScope resolves the seller owned by the token subject.
func (s *Server) SellerScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.FromContext(r.Context())
		if err != nil || claims.Subject == "" {
			WriteError(w, r, gerr.Unauthenticated)
			return
		}
		scope, err := s.svc.ResolveSellerByUser(r.Context(), claims.Subject)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withScope(r.Context(), scope)))
	})
}

// RequireAdmin rejects tokens without the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.FromContext(r.Context())
		if err != nil {
			WriteError(w, r, gerr.Unauthenticated)
			return
		}
		if !claims.IsAdmin() {
			WriteError(w, r, gerr.PermissionDenied)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PlatformScope reports over every seller.
func PlatformScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(withScope(r.Context(), entity.PlatformScope())))
	})
}

// AdminSellerScope resolves the seller named by the sellerId URL parameter.
func (s *Server) AdminSellerScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sellerId := chi.URLParam(r, "sellerId")
		if !govalidator.Matches(sellerId, sellerIdPattern) {
			WriteError(w, r, gerr.InvalidSellerId)
			return
		}
		scope, err := s.svc.ResolveSeller(r.Context(), sellerId)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withScope(r.Context(), scope)))
	})
}

func (s *Server) Overview(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	o, err := s.svc.Overview(r.Context(), q)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, dto.ConvertEntityOverview(o))
}

// Summary defaults to the month period when none is given.
func (s *Server) Summary(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, entity.PeriodMonth)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	sum, err := s.svc.OrderSummary(r.Context(), q)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, dto.ConvertEntityOrderSummary(sum))
}

func (s *Server) ResponseTime(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	rt, err := s.svc.ResponseTime(r.Context(), q)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, dto.ConvertEntityResponseTimeReport(rt))
}

func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	q, err := query(r, "")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	d, err := s.svc.Dashboard(r.Context(), q)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, r, http.StatusOK, dto.ConvertEntityDashboard(d))
}

func (s *Server) Sellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := s.svc.Sellers(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	out := make([]dto.Seller, len(sellers))
	for i, seller := range sellers {
		out[i] = dto.ConvertEntitySeller(seller)
	}
	WriteJSON(w, r, http.StatusOK, out)
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		slog.Default().ErrorContext(r.Context(), "health check failed",
			slog.String("err", err.Error()),
		)
		WriteJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	WriteJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func withScope(ctx context.Context, scope entity.Scope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// scopeFrom returns the platform scope when no middleware set one.
func scopeFrom(ctx context.Context) entity.Scope {
	if scope, ok := ctx.Value(scopeKey).(entity.Scope); ok {
		return scope
	}
	return entity.PlatformScope()
}

func query(r *http.Request, fallback entity.PeriodToken) (insights.Query, error) {
	raw := r.URL.Query().Get("period")
	if raw == "" && fallback != "" {
		raw = string(fallback)
	}
	token, err := period.Parse(raw)
	if err != nil {
		return insights.Query{}, err
	}
	return insights.Query{
		Scope:  scopeFrom(r.Context()),
		Period: token,
	}, nil
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestId string `json:"requestId,omitempty"`
}

// WriteError maps err to an HTTP status through its gRPC code. Errors that
// carry no status are reported as internal and logged.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	st := status.Convert(err)
	code := runtime.HTTPStatusFromCode(st.Code())
	msg := st.Message()
	if st.Code() == codes.Unknown || code >= http.StatusInternalServerError {
		slog.Default().ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		msg = http.StatusText(http.StatusInternalServerError)
	}
	WriteJSON(w, r, code, errorResponse{
		Code:      st.Code().String(),
		Message:   msg,
		RequestId: middleware.GetRequestID(r.Context()),
	})
}

func WriteJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().ErrorContext(r.Context(), "can't write response",
			slog.String("err", err.Error()),
		)
	}
}
