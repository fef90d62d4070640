package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/marketlane/sellermetrics/internal/apisrv/dashboard"
	gerr "github.com/marketlane/sellermetrics/internal/errors"
	"github.com/marketlane/sellermetrics/internal/middleware"
	"github.com/marketlane/sellermetrics/internal/ratelimit"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Config is the configuration for the http server
type Config struct {
	Port           string           `mapstructure:"port"`
	Address        string           `mapstructure:"address"`
	AllowedOrigins []string         `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration    `mapstructure:"request_timeout"`
	RateLimit      ratelimit.Config `mapstructure:"rate_limit"`
	// TrustedProxies may set the client IP through forwarding headers.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// Server is the http server
type Server struct {
	hs      *http.Server
	c       *Config
	limiter *ratelimit.Limiter
	done    chan struct{}
}

// New creates a new server
func New(config *Config) *Server {
	return &Server{
		c:    config,
		done: make(chan struct{}),
	}
}

// Done returns a channel that is closed when the http server exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Router builds the API handler.
func (s *Server) Router(ds *dashboard.Server, ja *jwtauth.JWTAuth) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return isOriginAllowed(origin, s.c.AllowedOrigins)
		},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.TrustedProxy(s.c.TrustedProxies))
	r.Use(middleware.ClientIdentifier)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	if s.c.RequestTimeout > 0 {
		r.Use(chimw.Timeout(s.c.RequestTimeout))
	}
	if s.c.RateLimit.Enabled() {
		if s.limiter == nil {
			s.limiter = ratelimit.NewLimiter(s.c.RateLimit.RPS, s.c.RateLimit.Burst, 10*time.Minute)
		}
		r.Use(middleware.RateLimit(s.limiter, func(w http.ResponseWriter, r *http.Request) {
			dashboard.WriteError(w, r, gerr.TooManyRequests)
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", ds.Health)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(ja))

			r.Route("/seller", func(r chi.Router) {
				r.Use(ds.SellerScope)
				r.Get("/overview", ds.Overview)
				r.Get("/summary", ds.Summary)
				r.Get("/response-time", ds.ResponseTime)
				r.Get("/dashboard", ds.Dashboard)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(dashboard.RequireAdmin)

				r.Group(func(r chi.Router) {
					r.Use(dashboard.PlatformScope)
					r.Get("/overview", ds.Overview)
					r.Get("/summary", ds.Summary)
					r.Get("/dashboard", ds.Dashboard)
				})

				r.Get("/sellers", ds.Sellers)
				r.Route("/sellers/{sellerId}", func(r chi.Router) {
					r.Use(ds.AdminSellerScope)
					r.Get("/overview", ds.Overview)
					r.Get("/summary", ds.Summary)
					r.Get("/response-time", ds.ResponseTime)
					r.Get("/dashboard", ds.Dashboard)
				})
			})
		})
	})

	return r
}

// Start starts the server
func (s *Server) Start(ctx context.Context, ds *dashboard.Server, ja *jwtauth.JWTAuth) error {
	handler := s.Router(ds, ja)

	listenerAddr := fmt.Sprintf("%s:%s", s.c.Address, s.c.Port)
	s.hs = &http.Server{
		Addr:              listenerAddr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		defer close(s.done)
		slog.Default().InfoContext(ctx, "sellermetrics listener started",
			slog.String("addr", "http://"+listenerAddr),
		)
		err := s.hs.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			slog.Default().InfoContext(ctx, "http server returned")
			return
		}
		slog.Default().ErrorContext(ctx, "http server exited with an error",
			slog.String("err", err.Error()),
		)
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if s.hs == nil {
		return nil
	}
	return s.hs.Shutdown(ctx)
}

func isOriginAllowed(origin string, allowedOrigins []string) bool {
	// Always allow localhost origins
	if strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "https://localhost:") {
		return true
	}

	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" || origin == allowedOrigin {
			return true
		}
	}

	return false
}
