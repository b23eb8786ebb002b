package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/job-leads/api/internal/dto"
	"github.com/octobees/job-leads/api/internal/service"
)

// Authenticator issues operator sessions. *service.AuthService implements it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	SessionTTL() time.Duration
}

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	authService Authenticator
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService Authenticator) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return Error(c, http.StatusBadRequest, "email and password are required")
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		return Error(c, http.StatusInternalServerError, "unable to authenticate")
	}

	return Success(c, http.StatusOK, "login successful", dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(h.authService.SessionTTL().Seconds()),
	})
}
