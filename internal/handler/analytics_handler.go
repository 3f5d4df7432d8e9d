package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kmarfadi/munasaba-backend/internal/dto"
	"github.com/kmarfadi/munasaba-backend/internal/service"
	"github.com/kmarfadi/munasaba-backend/pkg/logger"
	"github.com/kmarfadi/munasaba-backend/pkg/response"
)

// AnalyticsHandler handles analytics HTTP requests
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	log              *logger.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService service.AnalyticsService, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, log: log}
}

// scopeUser returns ?userId, defaulting to the caller
func scopeUser(c *gin.Context) (string, bool) {
	var query dto.ScopeQuery
	if !bindQuery(c, &query) {
		return "", false
	}
	if query.UserID != "" {
		return query.UserID, true
	}
	return principal(c)
}

// Dashboard returns the organizer summary
// GET /api/v1/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	userID, ok := scopeUser(c)
	if !ok {
		return
	}

	result, err := h.analyticsService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Event returns one event's guest breakdown
// GET /api/v1/analytics/events/:id
func (h *AnalyticsHandler) Event(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.analyticsService.GetEventAnalytics(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// AttendanceTrends returns check-ins per day
// GET /api/v1/analytics/attendance-trends
func (h *AnalyticsHandler) AttendanceTrends(c *gin.Context) {
	var query dto.TrendsQuery
	if !bindQuery(c, &query) {
		return
	}
	userID := query.OrganizerID
	if userID == "" {
		var ok bool
		if userID, ok = principal(c); !ok {
			return
		}
	}

	result, err := h.analyticsService.GetAttendanceTrends(c.Request.Context(), userID, query.Period)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// EventStats counts upcoming and past events
// GET /api/v1/analytics/event-stats
func (h *AnalyticsHandler) EventStats(c *gin.Context) {
	userID, ok := scopeUser(c)
	if !ok {
		return
	}

	result, err := h.analyticsService.GetEventStats(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// GuestStats counts guests by status
// GET /api/v1/analytics/guest-stats
func (h *AnalyticsHandler) GuestStats(c *gin.Context) {
	userID, ok := scopeUser(c)
	if !ok {
		return
	}

	result, err := h.analyticsService.GetGuestStats(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}
