package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/job-leads/api/internal/dto"
	"github.com/octobees/job-leads/api/internal/service"
)

// MessageGenerator writes and sends outreach. *service.OutreachService implements it.
type MessageGenerator interface {
	GenerateDM(ctx context.Context, jobDescription string) string
	GenerateFollowUp(ctx context.Context, jobDescription string) service.EmailTemplate
	SendApplication(ctx context.Context, jobDescription string, emails []string, jobLink string) ([]dto.EmailResult, error)
}

// MessageHandler exposes outreach generation endpoints.
type MessageHandler struct {
	generator MessageGenerator
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(generator MessageGenerator) *MessageHandler {
	return &MessageHandler{generator: generator}
}

// DM handles POST /messages/dm requests.
func (h *MessageHandler) DM(c echo.Context) error {
	jobDescription, ok := bindJobDescription(c)
	if !ok {
		return Error(c, http.StatusBadRequest, "jobDescription is required")
	}

	message := h.generator.GenerateDM(c.Request().Context(), jobDescription)
	return Success(c, http.StatusOK, "message generated", dto.DMResponse{Message: message})
}

// FollowUp handles POST /messages/follow-up requests.
func (h *MessageHandler) FollowUp(c echo.Context) error {
	jobDescription, ok := bindJobDescription(c)
	if !ok {
		return Error(c, http.StatusBadRequest, "jobDescription is required")
	}

	tpl := h.generator.GenerateFollowUp(c.Request().Context(), jobDescription)
	if tpl.Blank() {
		return Error(c, http.StatusBadGateway, "unable to generate follow-up email")
	}
	return Success(c, http.StatusOK, "follow-up generated", dto.EmailTemplateResponse{Subject: tpl.Subject, Body: tpl.Body})
}

// SendApplication handles POST /messages/send-application requests.
func (h *MessageHandler) SendApplication(c echo.Context) error {
	var req dto.SendApplicationRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	results, err := h.generator.SendApplication(c.Request().Context(), req.JobDescription, req.Emails, req.JobLink)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return Error(c, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, service.ErrBlankTemplate):
			return Error(c, http.StatusBadGateway, "unable to generate application email")
		default:
			return Error(c, http.StatusInternalServerError, "Error sending applications")
		}
	}
	return Success(c, http.StatusOK, "applications processed", dto.SendApplicationResponse{Results: results})
}

func bindJobDescription(c echo.Context) (string, bool) {
	var req dto.MessageRequest
	if err := c.Bind(&req); err != nil {
		return "", false
	}
	req.JobDescription = strings.TrimSpace(req.JobDescription)
	return req.JobDescription, req.JobDescription != ""
}
