package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"traininglog/api/internal/middleware"
	"traininglog/api/internal/service"
)

// fail writes the response for a service error. notFound is the message used
// for ErrNotFound so each resource can name itself.
func (h HandlerSet) fail(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, service.ErrMissingField):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Missing required field"})
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "User already exists"})
	case errors.Is(err, service.ErrDuplicateValue):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Session type value already exists"})
	case errors.Is(err, service.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Bad credentials"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": notFound})
	case errors.Is(err, service.ErrExportDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"msg": "Export is not configured"})
	default:
		_ = c.Error(err)
		email, _ := middleware.CurrentEmail(c)
		h.log.Error().Err(err).Str("email", email).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
	}
}

func badBody(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"msg": msg})
}

// identity returns the acting email set by middleware.Auth.
func identity(c *gin.Context) (string, bool) {
	email, ok := middleware.CurrentEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
	}
	return email, ok
}
