package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/order-service/internal/models"
	"github.com/cypherlabdev/order-service/internal/service"
)

// maxLookbackDays caps :days on GET /orders/afterdays; the cutoff walk is
// linear in the count.
const maxLookbackDays = 3650

// OrderHandler serves the orders HTTP API
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new orders HTTP handler
func NewOrderHandler(svc service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger.With().Str("component", "http_order_handler").Logger(),
	}
}

// SubmitOrder handles POST /orders
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	var req models.Order
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, codeInvalidRequest, msgInvalidBody)
		return
	}

	order, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		var vErr *models.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeValidationError(c, vErr.Fields)
		case errors.Is(err, models.ErrInvalidArgument):
			writeError(c, http.StatusBadRequest, codeInvalidRequest, msgInvalidBody)
		default:
			h.logger.Error().Err(err).Msg("submit order failed")
			writeError(c, http.StatusInternalServerError, codeInternalError, msgSubmitFailed)
		}
		return
	}

	c.Header("Location", fmt.Sprintf("/orders/recent?id=%d", order.ID))
	c.JSON(http.StatusCreated, order)
}

// GetRecentOrders handles GET /orders/recent
func (h *OrderHandler) GetRecentOrders(c *gin.Context) {
	orders, err := h.service.ListRecent(c.Request.Context())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(c, http.StatusNotFound, codeNotFound, msgNoRecentOrders)
			return
		}
		h.logger.Error().Err(err).Msg("list recent orders failed")
		writeError(c, http.StatusInternalServerError, codeInternalError, msgRecentFailed)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrdersAfterDays handles GET /orders/afterdays/:days
func (h *OrderHandler) GetOrdersAfterDays(c *gin.Context) {
	days, err := strconv.Atoi(c.Param("days"))
	if err != nil || days < 0 {
		writeError(c, http.StatusBadRequest, codeInvalidRequest, msgInvalidDays)
		return
	}
	if days > maxLookbackDays {
		writeError(c, http.StatusBadRequest, codeInvalidRequest, msgDaysTooLarge)
		return
	}

	orders, err := h.service.ListAfterBusinessDays(c.Request.Context(), days)
	if err != nil {
		if errors.Is(err, models.ErrInvalidArgument) {
			writeError(c, http.StatusBadRequest, codeInvalidRequest, msgInvalidDays)
			return
		}
		h.logger.Error().Err(err).Int("days", days).Msg("list orders after business days failed")
		writeError(c, http.StatusInternalServerError, codeInternalError, msgListFailed)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// TestError always panics; it exercises the recovery path
func (h *OrderHandler) TestError(c *gin.Context) {
	panic("This is a test exception.")
}

// HandleError handles GET /error
func (h *OrderHandler) HandleError(c *gin.Context) {
	writeProblem(c)
}
