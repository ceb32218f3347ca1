package handler

import (
	"net/http"
	"time"

	"coursehub/internal/logger"
	"coursehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type WishlistHandler struct {
	wishlistService service.WishlistService
	log             *logger.Logger
	timeout         time.Duration
}

func NewWishlistHandler(wishlistService service.WishlistService, log *logger.Logger, timeout time.Duration) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService, log: log, timeout: timeout}
}

// Toggle flips a course on or off the caller's wishlist.
func (h *WishlistHandler) Toggle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	resp, err := h.wishlistService.Toggle(ctx, userID, c.Param("courseId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WishlistHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	resp, err := h.wishlistService.List(ctx, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
