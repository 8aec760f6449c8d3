package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/gin-gonic/gin"
)

// statusFor maps a domain error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": ...}. Internal failures are recorded
// on the context for the request logger and hidden from the client.
func writeError(c *gin.Context, err error, internalMessage string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": internalMessage})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
