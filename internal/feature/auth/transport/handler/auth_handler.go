// Package handler provides HTTP handlers for the auth feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crypto_backend/internal/feature/auth/transport/http/dto"
	"crypto_backend/internal/feature/auth/usecase"
)

// AuthUsecase defines the session operations the handler needs.
// Following Go convention: interfaces are defined by the consumer (handler),
// not the provider (usecase).
type AuthUsecase interface {
	// Login starts a session for a login name, creating the user on first
	// login, and returns the session token.
	Login(ctx context.Context, login string) (string, error)
	// Logout ends the session for the given token.
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles HTTP requests for login-name sessions.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles the login API endpoint.
// - Binds the request JSON to LoginRequest; 400 on validation failure
// - 400 on an invalid login name
// - 200 with the session token on success
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Login)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidLogin) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login name"})
			return
		}
		slog.Error("login failed", "error", err, "login", req.Login, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// Logout handles the logout API endpoint. It ends the session named by the
// bearer token; requests without a token get 401.
func (h *AuthHandler) Logout(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	token := strings.TrimPrefix(auth, "Bearer ")

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		slog.Error("logout failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
