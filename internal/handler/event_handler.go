package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kmarfadi/munasaba-backend/internal/dto"
	"github.com/kmarfadi/munasaba-backend/internal/service"
	"github.com/kmarfadi/munasaba-backend/pkg/logger"
	"github.com/kmarfadi/munasaba-backend/pkg/response"
)

// EventHandler handles event HTTP requests
type EventHandler struct {
	eventService service.EventService
	log          *logger.Logger
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService, log *logger.Logger) *EventHandler {
	return &EventHandler{eventService: eventService, log: log}
}

// Create handles event creation; the caller becomes the organizer
// POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.eventService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// List handles the paginated event listing, optionally filtered by ?userId
// GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	var query dto.ListEventsQuery
	if !bindQuery(c, &query) {
		return
	}

	result, err := h.eventService.ListEvents(c.Request.Context(), &query)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Get handles retrieving a single event
// GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.eventService.GetEvent(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Update handles event update by its organizer
// PUT /api/v1/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	userID, ok := principal(c)
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.eventService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Publish moves a draft event to published
// POST /api/v1/events/:id/publish
func (h *EventHandler) Publish(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	userID, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.eventService.Publish(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Delete soft-deletes an event
// DELETE /api/v1/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	userID, ok := principal(c)
	if !ok {
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), userID, id); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Event deleted"}))
}

// Guests returns every guest of the event
// GET /api/v1/events/:id/guests
func (h *EventHandler) Guests(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.eventService.GetEventGuests(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}
