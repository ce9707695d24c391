package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const exerciseNotFound = "Exercise not found"

type exerciseRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}

func (h HandlerSet) ListExercises(c *gin.Context) {
	email, ok := identity(c)
	if !ok {
		return
	}

	exercises, err := h.exercises.List(c.Request.Context(), email)
	if err != nil {
		h.fail(c, err, exerciseNotFound)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

func (h HandlerSet) CreateExercise(c *gin.Context) {
	email, ok := identity(c)
	if !ok {
		return
	}
	var req exerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, "Missing name or type")
		return
	}

	view, err := h.exercises.Create(c.Request.Context(), email, req.Name, req.Type)
	if err != nil {
		h.fail(c, err, exerciseNotFound)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h HandlerSet) UpdateExercise(c *gin.Context) {
	email, ok := identity(c)
	if !ok {
		return
	}
	var req exerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, "Missing name or type")
		return
	}

	view, err := h.exercises.Update(c.Request.Context(), email, c.Param("id"), req.Name, req.Type)
	if err != nil {
		h.fail(c, err, exerciseNotFound)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h HandlerSet) DeleteExercise(c *gin.Context) {
	email, ok := identity(c)
	if !ok {
		return
	}

	if err := h.exercises.Delete(c.Request.Context(), email, c.Param("id")); err != nil {
		h.fail(c, err, exerciseNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Exercise deleted"})
}
