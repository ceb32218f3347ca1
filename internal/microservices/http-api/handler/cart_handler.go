package handler

import (
	"net/http"
	"time"

	"coursehub/internal/logger"
	"coursehub/internal/microservices/http-api/dto"
	"coursehub/internal/microservices/http-api/middleware"
	"coursehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartService service.CartService
	log         *logger.Logger
	timeout     time.Duration
}

func NewCartHandler(cartService service.CartService, log *logger.Logger, timeout time.Duration) *CartHandler {
	return &CartHandler{cartService: cartService, log: log, timeout: timeout}
}

// Quote prices a cart. Anonymous callers get a quote without the
// already-enrolled check.
func (h *CartHandler) Quote(c *gin.Context) {
	var req dto.CartQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	quote, err := h.cartService.Quote(ctx, c.GetString(middleware.ContextUserID), req.CourseIDs)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
