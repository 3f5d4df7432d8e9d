package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kmarfadi/munasaba-backend/internal/dto"
	"github.com/kmarfadi/munasaba-backend/internal/service"
	"github.com/kmarfadi/munasaba-backend/pkg/logger"
	"github.com/kmarfadi/munasaba-backend/pkg/response"
)

// GuestHandler handles guest HTTP requests
type GuestHandler struct {
	guestService service.GuestService
	log          *logger.Logger
}

// NewGuestHandler creates a new GuestHandler
func NewGuestHandler(guestService service.GuestService, log *logger.Logger) *GuestHandler {
	return &GuestHandler{guestService: guestService, log: log}
}

// Create registers a guest
// POST /api/v1/guests
func (h *GuestHandler) Create(c *gin.Context) {
	var req dto.CreateGuestRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.guestService.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// List pages guests, optionally by ?eventId
// GET /api/v1/guests
func (h *GuestHandler) List(c *gin.Context) {
	var query dto.ListGuestsQuery
	if !bindQuery(c, &query) {
		return
	}

	result, err := h.guestService.List(c.Request.Context(), &query)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Get returns one guest
// GET /api/v1/guests/:id
func (h *GuestHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.guestService.GetByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Update patches guest contact details
// PUT /api/v1/guests/:id
func (h *GuestHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateGuestRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.guestService.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Delete removes a guest
// DELETE /api/v1/guests/:id
func (h *GuestHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.guestService.Delete(c.Request.Context(), id); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Guest deleted"}))
}

// CheckIn records arrival
// PATCH /api/v1/guests/:id/check-in
func (h *GuestHandler) CheckIn(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.guestService.CheckIn(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// CheckOut records departure
// PATCH /api/v1/guests/:id/check-out
func (h *GuestHandler) CheckOut(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.guestService.CheckOut(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}
