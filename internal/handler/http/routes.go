package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/order-service/internal/observability"
)

// NewRouter builds the orders API engine
func NewRouter(h *OrderHandler, metrics *observability.Metrics, requestTimeout time.Duration, logger zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		RequestID(),
		RequestLogger(logger.With().Str("component", "http_api").Logger()),
		Metrics(metrics),
		Tracing(),
		Recovery(logger),
		Timeout(requestTimeout),
	)

	orders := router.Group("/orders")
	{
		orders.POST("", h.SubmitOrder)
		orders.GET("/recent", h.GetRecentOrders)
		orders.GET("/afterdays/:days", h.GetOrdersAfterDays)
		orders.GET("/error", h.TestError)
	}
	router.GET("/error", h.HandleError)

	router.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, codeNotFound, msgRouteNotFound)
	})

	return router
}
