package handler

import (
	"net/http"
	"time"

	"coursehub/internal/logger"
	"coursehub/internal/microservices/http-api/dto"
	"coursehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	log         *logger.Logger
	timeout     time.Duration
}

func NewAuthHandler(authService service.AuthService, log *logger.Logger, timeout time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, log: log, timeout: timeout}
}

// RegisterRoutes registers the public auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/revoke", h.Revoke)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	user, err := h.authService.Register(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.RegisterResponse{
		UserID:   user.ID,
		Username: user.Username,
		Message:  "account created",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	pair, user, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, authResponse(pair, user.ID, user.Username, user.Role))
}

// Refresh always returns a new refresh token along with the access token;
// the presented one stops working.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	pair, user, err := h.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, authResponse(pair, user.ID, user.Username, user.Role))
}

func (h *AuthHandler) Revoke(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.authService.Revoke(ctx, req.RefreshToken); err != nil {
		h.log.Warn("revoke_failed", "error", err.Error())
	}

	// always return success response to avoid token fishing
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	user, err := h.authService.Me(ctx, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToUserResponse(user))
}

func authResponse(pair *service.TokenPair, userID, username, role string) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserID:       userID,
		Username:     username,
		Role:         role,
		ExpiresIn:    int64(pair.ExpiresIn / time.Second),
	}
}
