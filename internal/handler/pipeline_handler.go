package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/octobees/job-leads/api/internal/dto"
	"github.com/octobees/job-leads/api/internal/service"
)

const tooManyRequests = "Too many requests. Try again later."

// PipelineRunner executes one pass over the job feed. *service.LeadPipeline implements it.
type PipelineRunner interface {
	Run(ctx context.Context, opts service.RunOptions) (service.RunResult, error)
}

// PipelineHandler triggers feed runs. Its responses use the fixed run shape, not the envelope.
type PipelineHandler struct {
	runner PipelineRunner
	log    *logrus.Entry
}

// NewPipelineHandler constructs a PipelineHandler.
func NewPipelineHandler(runner PipelineRunner, log *logrus.Entry) *PipelineHandler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &PipelineHandler{runner: runner, log: log}
}

// Run handles POST /pipeline/run requests.
func (h *PipelineHandler) Run(c echo.Context) error {
	var req dto.RunRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.RunResponse{Message: "invalid payload"})
	}

	result, err := h.runner.Run(c.Request().Context(), service.RunOptions{StoreMailsOnly: req.StoreMailsOnly})
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			return c.JSON(http.StatusTooManyRequests, dto.RunResponse{Message: tooManyRequests})
		}
		h.log.WithError(err).Error("Error in pipeline run")
		return c.JSON(http.StatusInternalServerError, dto.RunResponse{Message: fmt.Sprintf("Internal server error > %v", err)})
	}

	return c.JSON(http.StatusOK, dto.RunResponse{
		Message:      "Leads filtered and stored",
		LogArray:     result.LogLines,
		EmailResults: result.EmailResults,
	})
}

// MethodNotAllowed answers non-POST requests to the run endpoint.
func (h *PipelineHandler) MethodNotAllowed(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderAllow, http.MethodPost)
	return c.JSON(http.StatusMethodNotAllowed, dto.RunResponse{
		Message: fmt.Sprintf("Method %s Not Allowed", c.Request().Method),
	})
}
