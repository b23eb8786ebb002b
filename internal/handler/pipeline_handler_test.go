package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/job-leads/api/internal/dto"
	"github.com/octobees/job-leads/api/internal/service"
)

type stubRunner struct {
	opts   service.RunOptions
	result service.RunResult
	err    error
	calls  int
}

func (s *stubRunner) Run(_ context.Context, opts service.RunOptions) (service.RunResult, error) {
	s.calls++
	s.opts = opts
	return s.result, s.err
}

func TestPipelineHandler_Run(t *testing.T) {
	e := echo.New()
	runner := &stubRunner{result: service.RunResult{
		LogLines:     []string{"--- START --- 03:04 PM", "--- END --- 03:05 PM"},
		EmailResults: []dto.EmailResult{{Email: "hr@acme.io", Sent: true}},
	}}
	h := NewPipelineHandler(runner, nil)

	req := httptest.NewRequest(http.MethodPost, "/pipeline/run", bytes.NewBufferString(`{"storeMailsOnly":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Run(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !runner.opts.StoreMailsOnly {
		t.Fatalf("expected storeMailsOnly to be forwarded")
	}

	var payload dto.RunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Message != "Leads filtered and stored" || len(payload.LogArray) != 2 || len(payload.EmailResults) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestPipelineHandler_RunWithoutBody(t *testing.T) {
	e := echo.New()
	runner := &stubRunner{}
	h := NewPipelineHandler(runner, nil)

	rec := httptest.NewRecorder()
	if err := h.Run(e.NewContext(httptest.NewRequest(http.MethodPost, "/pipeline/run", nil), rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK || runner.opts.StoreMailsOnly {
		t.Fatalf("expected default run, got %d %+v", rec.Code, runner.opts)
	}
}

func TestPipelineHandler_Errors(t *testing.T) {
	e := echo.New()
	tests := map[string]struct {
		err        error
		expectCode int
		message    string
	}{
		"feed failure": {
			err:        errors.New("fetch feed: status 503"),
			expectCode: http.StatusInternalServerError,
			message:    "Internal server error > fetch feed: status 503",
		},
		"overlapping run": {
			err:        service.ErrRunInProgress,
			expectCode: http.StatusTooManyRequests,
			message:    "Too many requests. Try again later.",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			h := NewPipelineHandler(&stubRunner{err: tc.err}, nil)
			rec := httptest.NewRecorder()
			if err := h.Run(e.NewContext(httptest.NewRequest(http.MethodPost, "/pipeline/run", nil), rec)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tc.expectCode {
				t.Fatalf("expected %d, got %d", tc.expectCode, rec.Code)
			}
			var payload dto.RunResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if payload.Message != tc.message {
				t.Fatalf("unexpected message %q", payload.Message)
			}
		})
	}
}

func TestPipelineHandler_MethodNotAllowed(t *testing.T) {
	e := echo.New()
	h := NewPipelineHandler(&stubRunner{}, nil)

	rec := httptest.NewRecorder()
	if err := h.MethodNotAllowed(e.NewContext(httptest.NewRequest(http.MethodGet, "/pipeline/run", nil), rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderAllow) != http.MethodPost {
		t.Fatalf("expected Allow header")
	}
	if !strings.Contains(rec.Body.String(), "Method GET Not Allowed") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
