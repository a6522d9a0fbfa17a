package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/http/handlers"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/http/middleware"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/config"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/telemetry"
)

// DefaultRequestTimeout covers the slowest vendor create sequence.
const DefaultRequestTimeout = 80 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	Logger    *slog.Logger
	AppConfig *config.AppConfig

	// Provider is the configured vendor name, attached to request metrics.
	Provider string

	HealthHandler  *handlers.HealthHandler
	AccountHandler *handlers.AccountHandler

	// APIToken guards /api/v1. Empty disables the check.
	APIToken string

	// Timeout bounds each /api/v1 request. Zero disables the bound.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Global middleware runs in this order:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry
//  5. Logging (skips /-/)
//
// /-/ carries the unauthenticated probes. /api/v1 adds the bearer token check
// and the request deadline before the account routes.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.AppConfig.Name, cfg.Provider)...)
	engine.Use(middleware.Logging(cfg.Logger))

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	apiV1.Use(middleware.RequireToken(cfg.APIToken))

	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout, cfg.Logger))
	}

	if cfg.AccountHandler != nil {
		cfg.AccountHandler.RegisterAccountRoutes(apiV1)
	}
}

// NewRouterConfig builds a RouterConfig from the loaded configuration.
func NewRouterConfig(
	logger *slog.Logger,
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	accountHandler *handlers.AccountHandler,
) RouterConfig {
	timeout := cfg.Server.RequestTimeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}

	return RouterConfig{
		Logger:         logger,
		AppConfig:      &cfg.App,
		Provider:       cfg.Provider.Name,
		HealthHandler:  healthHandler,
		AccountHandler: accountHandler,
		APIToken:       cfg.Server.APIToken,
		Timeout:        timeout,
	}
}
