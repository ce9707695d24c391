package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type exportResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Export uploads a snapshot of the caller's data and returns a time-limited
// download link.
func (h HandlerSet) Export(c *gin.Context) {
	email, ok := identity(c)
	if !ok {
		return
	}

	result, err := h.export.Export(c.Request.Context(), email)
	if err != nil {
		h.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, exportResponse{
		Key:       result.Key,
		URL:       result.URL,
		ExpiresAt: result.ExpiresAt,
	})
}
