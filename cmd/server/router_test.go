package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/scribe-api/internal/api/shared"
	"github.com/phrazzld/scribe-api/internal/config"
	"github.com/phrazzld/scribe-api/internal/mocks"
	"github.com/phrazzld/scribe-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication(taskStore *mocks.MockTaskStore) *application {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &application{
		config:      &config.Config{Server: config.ServerConfig{Port: 8080, Mode: config.ModeAPI}},
		logger:      logger,
		taskStore:   taskStore,
		taskService: service.NewTaskService(taskStore, logger),
	}
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	taskStore := mocks.NewMockTaskStore()
	router := newTestApplication(taskStore).setupRouter()

	submit := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"topic":"Go generics"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	rr := submit("/tasks")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	rr = submit("/webhook/start-blogpost")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, 2, taskStore.Count())

	tests := []struct {
		path           string
		expectedStatus int
	}{
		{"/health", http.StatusOK},
		{"/tasks", http.StatusOK},
		{"/tasks/latest", http.StatusOK},
		{"/tasks/1", http.StatusOK},
		{"/tasks/99", http.StatusNotFound},
		{"/tasks/abc", http.StatusBadRequest},
		{"/webhook/results", http.StatusOK},
		{"/webhook/results/latest", http.StatusOK},
		{"/webhook/results/2", http.StatusOK},
		{"/webhook/results/99", http.StatusNotFound},
		{"/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestRouter_ErrorResponsesCarryTraceID(t *testing.T) {
	t.Parallel()

	router := newTestApplication(mocks.NewMockTaskStore()).setupRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tasks/404", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `"error":"not found"`)
	assert.Regexp(t, fmt.Sprintf(`"trace_id":"[0-9a-f]{%d}"`, shared.TraceIDLength), rr.Body.String())
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := newTestApplication(mocks.NewMockTaskStore()).setupRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/tasks/1", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
