package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ankit723/Dream-Definers/internal/api/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func healthDeps(check func(ctx context.Context) error) *handler.Dependencies {
	return &handler.Dependencies{
		Logger:      slog.New(slog.DiscardHandler),
		HealthCheck: check,
	}
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		check      func(ctx context.Context) error
		wantStatus int
	}{
		{
			name:       "healthy database",
			check:      func(ctx context.Context) error { return nil },
			wantStatus: http.StatusOK,
		},
		{
			name:       "unreachable database",
			check:      func(ctx context.Context) error { return errors.New("connection refused") },
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "no check configured",
			check:      nil,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := SetupRouter(healthDeps(tt.check))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r := SetupRouter(healthDeps(nil))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/contact", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
