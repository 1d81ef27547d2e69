package server

import (
	"context"
	"net/http"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/asset"
	"github.com/gjermundgaraba/dexrouter/router"
	"github.com/gjermundgaraba/dexrouter/store"
)

// Chain is the live chain access the HTTP API needs.
type Chain interface {
	asset.Querier
	Balances(ctx context.Context, address string, infos []asset.Info) ([]sdkmath.Int, error)
}

// Config holds configuration for the HTTP server
type Config struct {
	Address               string
	AllowedOrigins        []string
	EnableMetrics         bool
	RatePerMinute         int
	MaxConcurrentRequests int

	ChainID        string
	Bech32Prefix   string
	RouterContract string
}

func DefaultConfig() Config {
	return Config{
		Address:               "localhost:8080",
		AllowedOrigins:        []string{"*"},
		EnableMetrics:         true,
		MaxConcurrentRequests: 200,
		Bech32Prefix:          "cosmos",
	}
}

// Server wraps the HTTP server and provides lifecycle management
type Server struct {
	config     Config
	logger     *zap.Logger
	chain      Chain
	router     *router.Router
	validate   asset.AddressValidator
	metrics    *metrics
	httpServer *http.Server
}

func NewServer(logger *zap.Logger, config Config, chain Chain) *Server {
	validate := router.NewBech32Validator(config.Bech32Prefix)
	s := &Server{
		config:   config,
		logger:   logger,
		chain:    chain,
		router:   router.NewRouter(logger, chain, validate, store.NewMemStore()),
		validate: validate,
	}

	registry := prometheus.NewRegistry()
	s.metrics = newMetrics(registry)

	mux := chi.NewMux()
	mux.Use(s.loggingMiddleware)
	mux.Use(s.recoverer)
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Timeout(60 * time.Second))

	if config.RatePerMinute > 0 {
		mux.Use(httprate.LimitByIP(config.RatePerMinute, time.Minute))
	}
	if config.MaxConcurrentRequests > 0 {
		mux.Use(middleware.Throttle(config.MaxConcurrentRequests))
	}

	if config.EnableMetrics {
		mux.Handle("/server/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	mux.Get("/server/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "dexrouter"})
	})

	mux.Route("/v1", func(r chi.Router) {
		r.Post("/routes/compile", s.handleCompile)
		r.Get("/balances/{address}", s.handleBalances)
	})

	s.httpServer = &http.Server{
		Addr:              config.Address,
		Handler:           newCORSHandler(config.AllowedOrigins, mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	s.logger.Info("HTTP server starting",
		zap.String("address", s.config.Address),
		zap.String("router_contract", s.config.RouterContract),
		zap.Bool("metrics", s.config.EnableMetrics),
	)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
