package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const sessionTypeNotFound = "Session type not found"

type sessionTypeRequest struct {
	Value string `json:"value" binding:"required"`
	Label string `json:"label" binding:"required"`
}

func (h HandlerSet) ListSessionTypes(c *gin.Context) {
	email, ok := identity(c)
	if !ok {
		return
	}

	types, err := h.types.List(c.Request.Context(), email)
	if err != nil {
		h.fail(c, err, sessionTypeNotFound)
		return
	}
	c.JSON(http.StatusOK, types)
}

func (h HandlerSet) CreateSessionType(c *gin.Context) {
	email, ok := identity(c)
	if !ok {
		return
	}
	var req sessionTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, "Missing value or label")
		return
	}

	view, err := h.types.Create(c.Request.Context(), email, req.Value, req.Label)
	if err != nil {
		h.fail(c, err, sessionTypeNotFound)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h HandlerSet) UpdateSessionType(c *gin.Context) {
	email, ok := identity(c)
	if !ok {
		return
	}
	var req sessionTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, "Missing value or label")
		return
	}

	view, err := h.types.Update(c.Request.Context(), email, c.Param("id"), req.Value, req.Label)
	if err != nil {
		h.fail(c, err, sessionTypeNotFound)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h HandlerSet) DeleteSessionType(c *gin.Context) {
	email, ok := identity(c)
	if !ok {
		return
	}

	if err := h.types.Delete(c.Request.Context(), email, c.Param("id")); err != nil {
		h.fail(c, err, sessionTypeNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Session type deleted"})
}
