package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"traininglog/api/internal/service"
)

const sessionNotFound = "Session not found"

type sessionRequest struct {
	Type       string `json:"type"`
	Exercises  []any  `json:"exercises"`
	Commentary string `json:"commentary"`
}

func (r sessionRequest) input() service.SessionInput {
	return service.SessionInput{
		Type:       r.Type,
		Exercises:  r.Exercises,
		Commentary: r.Commentary,
	}
}

// bindSession accepts an empty body as an empty session.
func bindSession(c *gin.Context) (sessionRequest, bool) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badBody(c, "Invalid request body")
		return req, false
	}
	return req, true
}

// sessionIndex parses the :idx segment. A non-integer addresses no session.
func sessionIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": sessionNotFound})
		return 0, false
	}
	return idx, true
}

func (h HandlerSet) ListCalendar(c *gin.Context) {
	email, ok := identity(c)
	if !ok {
		return
	}

	days, err := h.calendar.ListAll(c.Request.Context(), email)
	if err != nil {
		h.fail(c, err, sessionNotFound)
		return
	}
	c.JSON(http.StatusOK, days)
}

func (h HandlerSet) ListDay(c *gin.Context) {
	email, ok := identity(c)
	if !ok {
		return
	}

	entries, err := h.calendar.ListDay(c.Request.Context(), email, c.Param("date"))
	if err != nil {
		h.fail(c, err, sessionNotFound)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h HandlerSet) AddSession(c *gin.Context) {
	email, ok := identity(c)
	if !ok {
		return
	}
	req, ok := bindSession(c)
	if !ok {
		return
	}

	if err := h.calendar.Add(c.Request.Context(), email, c.Param("date"), req.input()); err != nil {
		h.fail(c, err, sessionNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Session added"})
}

func (h HandlerSet) UpdateSession(c *gin.Context) {
	email, ok := identity(c)
	if !ok {
		return
	}
	idx, ok := sessionIndex(c)
	if !ok {
		return
	}
	req, ok := bindSession(c)
	if !ok {
		return
	}

	if err := h.calendar.Update(c.Request.Context(), email, c.Param("date"), idx, req.input()); err != nil {
		h.fail(c, err, sessionNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Session updated"})
}

func (h HandlerSet) DeleteSession(c *gin.Context) {
	email, ok := identity(c)
	if !ok {
		return
	}
	idx, ok := sessionIndex(c)
	if !ok {
		return
	}

	if err := h.calendar.Delete(c.Request.Context(), email, c.Param("date"), idx); err != nil {
		h.fail(c, err, sessionNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Session deleted"})
}
