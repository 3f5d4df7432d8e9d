package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kmarfadi/munasaba-backend/internal/dto"
	"github.com/kmarfadi/munasaba-backend/internal/service"
	"github.com/kmarfadi/munasaba-backend/pkg/logger"
	"github.com/kmarfadi/munasaba-backend/pkg/response"
)

// AuthHandler handles registration, login and token HTTP requests
type AuthHandler struct {
	authService service.AuthService
	log         *logger.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// Login handles credential exchange
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Refresh re-issues a token for the caller
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Profile returns the caller's user record
// GET /api/v1/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.authService.Profile(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}
