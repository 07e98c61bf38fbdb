package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/aman-zulfiqar/jupiter-solana/internal/flags"
)

// RegisterRoutes configures all API routes, middleware, and error handlers
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	// Set custom error handler for consistent JSON responses
	e.HTTPErrorHandler = NotFoundJSON()
	e.Validator = NewRequestValidator()

	// Apply global middleware
	e.Use(SetJSONContentType) // Ensure all responses are JSON
	e.Use(SetNoCacheHeaders)  // Prevent caching of API responses

	// Optional API key authentication
	if cfg.APIKey != "" {
		e.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup: "header:X-API-Key", // Look for API key in X-API-Key header
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/v1/health" // Health stays open for probes
			},
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == cfg.APIKey, nil // Simple string comparison
			},
		}))
	}

	// API v1 routes
	v1 := e.Group("/v1")
	v1.GET("/health", h.Health)                      // Health check endpoint
	v1.GET("/quote", h.Quote)                        // Jupiter quote proxy
	v1.GET("/orders/open", h.OpenOrders)             // Open limit orders
	v1.GET("/orders/history", h.OrderHistory)        // Closed limit orders
	v1.GET("/trades/history", h.TradeHistory)        // Limit order fills
	v1.GET("/executions/recent", h.RecentExecutions) // Journaled executions

	// Execution endpoints with rate limiting; each one can be switched off
	limiter := middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.executionRate()), // Sustained executions per second per client
		Burst:     cfg.executionBurst(),            // Allow short bursts
		ExpiresIn: 2 * time.Minute,                 // Rate limit window
	}))
	v1.POST("/swaps", h.Swap, h.RequireSigner, limiter, h.RequireSwitch(flags.OpSwap))
	v1.POST("/limit-orders", h.OpenLimitOrder, h.RequireSigner, limiter, h.RequireSwitch(flags.OpOpenOrder))
	v1.POST("/limit-orders/cancel", h.CancelLimitOrders, h.RequireSigner, limiter, h.RequireSwitch(flags.OpCancelOrders))

	// Execution switches CRUD endpoints, only with a switch store
	if h.Switches != nil {
		switchGroup := v1.Group("/switches")
		switchGroup.GET("", h.SwitchesList)          // List effective states
		switchGroup.GET("/:op", h.SwitchesGet)       // Get one operation
		switchGroup.PUT("/:op", h.SwitchesUpdate)    // Enable or disable
		switchGroup.DELETE("/:op", h.SwitchesDelete) // Reset to enabled
	}

	// Catch-all route for 404 responses
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: http.StatusNotFound})
	})
}

// RequireSigner short-circuits execution routes when no wallet is loaded
func (h *Handlers) RequireSigner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.Engine.CanSign() {
			return h.err(c, http.StatusServiceUnavailable, "execution is disabled: no wallet configured", nil)
		}
		return next(c)
	}
}
