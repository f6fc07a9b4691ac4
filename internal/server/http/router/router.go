package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/bookmart/orders/internal/config"
	"github.com/bookmart/orders/internal/server/http/handlers"
	"github.com/bookmart/orders/internal/server/http/middleware"
)

// HealthChecker reports storage connectivity for the health endpoint.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.OrdersFacade, parser middleware.TokenParser, health HealthChecker, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	engine.GET("/healthz", func(c *gin.Context) {
		if err := health.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	orderHandler := handlers.NewOrderHandler(facade)

	orders := engine.Group("/orders")
	orders.Use(middleware.AuthRequired(parser))
	orders.GET("", orderHandler.List)
	orders.GET("/price/:orderId", orderHandler.Price)
	orders.GET("/:orderId", orderHandler.Get)
	orders.POST("", orderHandler.Create)
	orders.PUT("/:orderId", orderHandler.Update)
	orders.PUT("/books/:bookId/cancelledRemove", orderHandler.RemoveBook)
	orders.PUT("/sellers/:sellerId/cancelled", orderHandler.CancelBySeller)
	orders.PUT("/users/:userId/cancelled", orderHandler.CancelByUser)
	orders.PUT("/user/:userId/deliveryAddress", orderHandler.UpdateAddress)
	orders.DELETE("/:orderId", orderHandler.Delete)

	return engine
}
