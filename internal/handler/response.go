package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/job-leads/api/internal/middleware"
)

// APIResponse is the envelope shared by every endpoint except the pipeline run.
type APIResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Success sends a successful response in the shared envelope.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, APIResponse{
		Status:    "success",
		Message:   message,
		Data:      data,
		RequestID: middleware.RequestIDFromContext(c),
	})
}

// Error sends an error response in the shared envelope.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, APIResponse{
		Status:    "error",
		Message:   message,
		RequestID: middleware.RequestIDFromContext(c),
	})
}
