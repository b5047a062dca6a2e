package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-authgate/authfront/internal/services"
)

// TokenAuth is the fixed name of both the session cookie and the bearer
// header carrying the auth token.
const TokenAuth = "X-Auth-Token"

// writeServiceError maps a tagged service error onto the external
// contract: validation and communication failures are client errors,
// collaborator unavailability is a request-timeout-class error. The
// specific violated rule is logged, never returned to the caller.
func writeServiceError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		log.Printf("[HTTP] %s %s rejected: rule %s", c.Request.Method, c.FullPath(), vErr.Violation)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, services.ErrBackendUnavailable):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "identity backend unavailable"})
	case errors.Is(err, services.ErrCommunication):
		c.JSON(http.StatusBadRequest, gin.H{"error": "communication error"})
	case errors.Is(err, services.ErrRoleDefaultsNotConfigured):
		c.JSON(http.StatusBadRequest, gin.H{"error": "default project/role not configured"})
	default:
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
