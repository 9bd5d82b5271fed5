package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appointmentRepo "saludagenda/database/repository/appointment"
	blockedRepo "saludagenda/database/repository/blocked"
	"saludagenda/services/schedule"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// RespondSchedulingError maps the scheduling error kinds onto HTTP statuses:
// malformed ranges and illegal transitions are unprocessable, conflicts are
// 409, missing records 404. Anything else is a 500.
func RespondSchedulingError(c *gin.Context, err error) {
	var rangeErr *schedule.InvalidRangeError
	var conflictErr *schedule.ConflictError
	var transErr *schedule.InvalidTransitionError

	switch {
	case errors.As(err, &rangeErr):
		JSONError(c, http.StatusUnprocessableEntity, "Rango de horario inválido", rangeErr.Error())
	case errors.As(err, &conflictErr):
		JSONError(c, http.StatusConflict, "El rango se solapa con un horario ocupado", conflictErr.Error())
	case errors.As(err, &transErr):
		JSONError(c, http.StatusUnprocessableEntity, "Cambio de estado no permitido", transErr.Error())
	case errors.Is(err, appointmentRepo.ErrNotFound), errors.Is(err, blockedRepo.ErrNotFound):
		JSONError(c, http.StatusNotFound, "Registro no encontrado", err.Error())
	default:
		JSONError(c, http.StatusInternalServerError, "Error interno", err.Error())
	}
}
