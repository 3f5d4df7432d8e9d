package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
	"github.com/kmarfadi/munasaba-backend/pkg/logger"
	"github.com/kmarfadi/munasaba-backend/pkg/response"
)

// errorResponse maps an error category to its status and envelope
func errorResponse(err error) (int, *response.Response) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, response.NotFound(err.Error())
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, response.Conflict(err.Error())
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return http.StatusBadRequest, response.InvalidStateTransition(err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, response.Unauthorized(err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, response.Forbidden(err.Error())
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, response.Error(response.ErrCodeValidationFailed, err.Error())
	default:
		return http.StatusInternalServerError, response.InternalError("")
	}
}

// handleError writes the mapped envelope; unexpected errors are logged and hidden from the client
func handleError(c *gin.Context, log *logger.Logger, err error) {
	status, resp := errorResponse(err)
	if status == http.StatusInternalServerError {
		log.ErrorContext(c.Request.Context(), "request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, resp)
}
