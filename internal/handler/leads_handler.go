package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/job-leads/api/internal/dto"
	"github.com/octobees/job-leads/api/internal/entity"
	"github.com/octobees/job-leads/api/internal/repository"
	"github.com/octobees/job-leads/api/internal/service"
)

// LeadManager is the lead editing surface. *service.LeadService implements it.
type LeadManager interface {
	ListLeads(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, error)
	DeleteLead(ctx context.Context, id string) error
	DeleteLeads(ctx context.Context, ids []string) (int64, error)
	AddTag(ctx context.Context, id, tag string) ([]string, error)
	RemoveTag(ctx context.Context, id, tag string) ([]string, error)
	UpdateEmail(ctx context.Context, id string, req dto.UpdateEmailRequest) ([]string, error)
	DeleteEmail(ctx context.Context, id, email string) ([]string, error)
	GenerateKeywords(ctx context.Context, id string) ([]string, error)
}

// LeadsHandler exposes the stored lead endpoints.
type LeadsHandler struct {
	service LeadManager
}

// NewLeadsHandler creates a new handler instance.
func NewLeadsHandler(service LeadManager) *LeadsHandler {
	return &LeadsHandler{service: service}
}

// List handles GET /leads requests.
func (h *LeadsHandler) List(c echo.Context) error {
	filter := dto.LeadFilter{
		Q:       strings.TrimSpace(c.QueryParam("q")),
		Tag:     strings.TrimSpace(c.QueryParam("tag")),
		Page:    parseIntDefault(c.QueryParam("page"), 1),
		PerPage: parseIntDefault(c.QueryParam("per_page"), 20),
	}

	leads, err := h.service.ListLeads(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list leads")
	}
	return Success(c, http.StatusOK, "leads retrieved", leads)
}

// Delete handles DELETE /leads/:id requests.
func (h *LeadsHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteLead(c.Request().Context(), c.Param("id")); err != nil {
		return leadError(c, err, "failed to delete lead")
	}
	return Success(c, http.StatusOK, "Lead deleted", nil)
}

// DeleteMany handles POST /leads/delete-many requests.
func (h *LeadsHandler) DeleteMany(c echo.Context) error {
	var req dto.DeleteManyRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	removed, err := h.service.DeleteLeads(c.Request().Context(), req.IDs)
	if err != nil {
		return leadError(c, err, "failed to delete leads")
	}
	return Success(c, http.StatusOK, "Leads deleted successfully", map[string]int64{"deleted": removed})
}

// AddTag handles PUT /leads/:id/tags requests.
func (h *LeadsHandler) AddTag(c echo.Context) error {
	var req dto.TagRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	tags, err := h.service.AddTag(c.Request().Context(), c.Param("id"), req.Tag)
	if err != nil {
		return leadError(c, err, "failed to add tag")
	}
	return Success(c, http.StatusOK, "Tag added", map[string][]string{"tags": tags})
}

// RemoveTag handles DELETE /leads/:id/tags/:tag requests.
func (h *LeadsHandler) RemoveTag(c echo.Context) error {
	tags, err := h.service.RemoveTag(c.Request().Context(), c.Param("id"), c.Param("tag"))
	if err != nil {
		return leadError(c, err, "failed to remove tag")
	}
	return Success(c, http.StatusOK, "Tag removed", map[string][]string{"tags": tags})
}

// UpdateEmail handles PUT /leads/:id/emails requests.
func (h *LeadsHandler) UpdateEmail(c echo.Context) error {
	var req dto.UpdateEmailRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.OldEmail) == "" || strings.TrimSpace(req.NewEmail) == "" {
		return Error(c, http.StatusBadRequest, "oldEmail and newEmail are required")
	}

	emails, err := h.service.UpdateEmail(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return leadError(c, err, "failed to update email")
	}
	return Success(c, http.StatusOK, "Email updated", map[string][]string{"emails": emails})
}

// DeleteEmail handles DELETE /leads/:id/emails?email= requests.
func (h *LeadsHandler) DeleteEmail(c echo.Context) error {
	emails, err := h.service.DeleteEmail(c.Request().Context(), c.Param("id"), c.QueryParam("email"))
	if err != nil {
		return leadError(c, err, "failed to delete email")
	}
	return Success(c, http.StatusOK, "Email deleted", map[string][]string{"emails": emails})
}

// GenerateKeywords handles POST /leads/:id/keywords requests.
func (h *LeadsHandler) GenerateKeywords(c echo.Context) error {
	keywords, err := h.service.GenerateKeywords(c.Request().Context(), c.Param("id"))
	if err != nil {
		return leadError(c, err, "failed to generate keywords")
	}
	return Success(c, http.StatusOK, "Keywords generated", map[string][]string{"keywords": keywords})
}

func leadError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrInvalidLeadID):
		return Error(c, http.StatusBadRequest, "invalid lead id")
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidEmail):
		return Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrLeadNotFound):
		return Error(c, http.StatusNotFound, "lead not found")
	case errors.Is(err, service.ErrEmailNotFound):
		return Error(c, http.StatusNotFound, "email not found")
	default:
		return Error(c, http.StatusInternalServerError, fallback)
	}
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
