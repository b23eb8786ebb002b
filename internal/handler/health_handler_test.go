package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Check(t *testing.T) {
	e := echo.New()
	tests := map[string]struct {
		db         Pinger
		expectCode int
	}{
		"no database": {expectCode: http.StatusOK},
		"database up": {db: pingerFunc(func(context.Context) error { return nil }), expectCode: http.StatusOK},
		"database down": {
			db:         pingerFunc(func(context.Context) error { return errors.New("refused") }),
			expectCode: http.StatusServiceUnavailable,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := NewHealthHandler(tc.db).Check(e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz", nil), rec)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tc.expectCode {
				t.Fatalf("expected %d, got %d", tc.expectCode, rec.Code)
			}
		})
	}
}
