// Package http provides the HTTP server, router and middleware stack.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mysillydreams/catalog-core/internal/config"
	inventoryHTTP "github.com/mysillydreams/catalog-core/internal/inventory/http"
	"github.com/mysillydreams/catalog-core/internal/metrics"
	pricingHTTP "github.com/mysillydreams/catalog-core/internal/pricing/http"
)

// Server represents the HTTP API server.
type Server struct {
	server          *http.Server
	db              *sql.DB
	config          *config.Config
	logger          *slog.Logger
	stockHandler    *inventoryHTTP.StockHandler
	pricingHandler  *pricingHTTP.PricingHandler
	metricsProvider *metrics.Provider
}

// NewServer creates a new HTTP server. The metrics provider may be nil when
// metrics are disabled.
func NewServer(
	db *sql.DB,
	cfg *config.Config,
	logger *slog.Logger,
	stockHandler *inventoryHTTP.StockHandler,
	pricingHandler *pricingHTTP.PricingHandler,
	metricsProvider *metrics.Provider,
) *Server {
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		db:              db,
		config:          cfg,
		logger:          logger,
		stockHandler:    stockHandler,
		pricingHandler:  pricingHandler,
		metricsProvider: metricsProvider,
	}
}

// SetupRouter assembles the gin router with the middleware stack and all routes.
func (s *Server) SetupRouter() *gin.Engine {
	gin.SetMode(s.config.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(
		s.config.CORSEnabled,
		s.config.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if s.config.RateLimitEnabled {
		router.Use(RateLimitMiddleware(
			s.config.RateLimitRequestsPerSec,
			s.config.RateLimitBurst,
			s.logger,
		))
	}

	if s.metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			s.metricsProvider.MeterProvider(),
			s.config.MetricsNamespace,
		))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	{
		stock := v1.Group("/stock")
		{
			stock.GET("", s.stockHandler.ListHandler)
			stock.POST("/adjust", s.stockHandler.AdjustHandler)
			stock.GET("/reorder-alerts", s.stockHandler.ReorderAlertsHandler)
			stock.GET("/:itemID", s.stockHandler.GetHandler)
			stock.GET("/:itemID/transactions", s.stockHandler.ListTransactionsHandler)
			stock.POST("/:itemID/reserve", s.stockHandler.ReserveHandler)
			stock.POST("/:itemID/release", s.stockHandler.ReleaseHandler)
		}

		pricing := v1.Group("/pricing")
		{
			pricing.POST("/rules", s.pricingHandler.CreateRuleHandler)
			pricing.GET("/rules", s.pricingHandler.ListRulesHandler)
			pricing.GET("/rules/:ruleID", s.pricingHandler.GetRuleHandler)
			pricing.PUT("/rules/:ruleID", s.pricingHandler.UpdateRuleHandler)
			pricing.DELETE("/rules/:ruleID", s.pricingHandler.DeleteRuleHandler)

			pricing.POST("/overrides", s.pricingHandler.CreateOverrideHandler)
			pricing.GET("/overrides", s.pricingHandler.ListOverridesHandler)
			pricing.GET("/overrides/:overrideID", s.pricingHandler.GetOverrideHandler)
			pricing.PUT("/overrides/:overrideID", s.pricingHandler.UpdateOverrideHandler)
			pricing.DELETE("/overrides/:overrideID", s.pricingHandler.DeleteOverrideHandler)
		}
	}

	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic. The database
// connection is the only hard dependency; the broker is reached asynchronously
// by the outbox relay and does not gate readiness.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.SetupRouter()

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
