package server

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// AdminKeyAuth guards operator routes with the X-Admin-Key header
func AdminKeyAuth(adminKey string) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup: "header:X-Admin-Key",
		Validator: func(key string, c echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) == 1, nil
		},
	})
}

// RegisterRoutes configures all API routes, middleware, and error handlers
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	// Set custom error handler for consistent JSON responses
	e.HTTPErrorHandler = NotFoundJSON()

	// Apply global middleware
	e.Use(SetNoCacheHeaders)

	// Optional API key authentication
	if cfg.APIKey != "" {
		e.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup: "header:X-API-Key",
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/v1/health"
			},
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == cfg.APIKey, nil
			},
		}))
	}

	v1 := e.Group("/v1")
	v1.GET("/health", h.Health)
	v1.GET("/swaps/recent", h.RecentSwaps)
	v1.GET("/accounts/:addr/sequence", h.Sequence)

	contracts := v1.Group("/contracts/:addr")
	contracts.POST("/query", h.Query)

	// execute and mint share one limiter
	var limit []echo.MiddlewareFunc
	if cfg.ExecuteRateLimit > 0 {
		limit = append(limit, middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.ExecuteRateLimit),
			Burst:     cfg.ExecuteRateBurst,
			ExpiresIn: 2 * time.Minute,
		})))
	}
	contracts.POST("/execute", h.Execute, limit...)

	bank := v1.Group("/bank")
	bank.GET("/balances/:addr/:denom", h.Balance)
	if cfg.AdminKey != "" {
		bank.POST("/mint", h.Mint, append(limit, AdminKeyAuth(cfg.AdminKey))...)
	} else {
		bank.POST("/mint", h.MintDisabled)
	}

	// Catch-all route for 404 responses
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: http.StatusNotFound})
	})
}
