package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"traininglog/api/internal/middleware"
	"traininglog/api/internal/service"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, "Missing email or password")
		return
	}

	if err := h.auth.Register(c.Request.Context(), req.Email, req.Password); err != nil {
		h.fail(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Registration successful"})
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, service.ErrBadCredentials, "")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	c.JSON(http.StatusOK, loginResponse{AccessToken: result.AccessToken, Email: result.Email})
}

func (h HandlerSet) Protected(c *gin.Context) {
	email, ok := identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": fmt.Sprintf("Hello, %s!", email)})
}

// Logout revokes the presented token until it would have expired anyway.
// Without a configured cache the call succeeds and the token stays valid.
func (h HandlerSet) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}

	if h.denylist.Enabled() && claims.ExpiresAt != nil {
		if err := h.denylist.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			h.fail(c, err, "")
			return
		}
	}

	h.log.Info().Str("email", claims.Email).Bool("revoked", h.denylist.Enabled()).Msg("user logged out")
	c.JSON(http.StatusOK, gin.H{"msg": "Logged out"})
}
