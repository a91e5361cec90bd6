package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dvloznov/finance-dashboard/internal/advisor"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/jobs"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/store/inmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &domain.ValidationError{Entity: "budget", Field: "limit", Reason: "must be positive"}, http.StatusBadRequest},
		{"configuration", fmt.Errorf("convert: %w", &domain.ConfigurationError{Key: "currency", Reason: "unsupported"}), http.StatusBadRequest},
		{"store not found", fmt.Errorf("DeleteSIP: %w", inmemory.ErrNotFound), http.StatusNotFound},
		{"job not found", jobs.ErrJobNotFound, http.StatusNotFound},
		{"advisor disabled", advisor.ErrDisabled, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("configuration error is reported as unsupported", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteServiceError(w, r, &domain.ConfigurationError{Key: "currency", Reason: `unsupported code "XYZ"`}, "convert")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "unsupported", body["error"])
		assert.Contains(t, body["detail"], "XYZ")
	})

	t.Run("internal error hides detail", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteServiceError(w, r, errors.New("connection refused"), "list transactions")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
		assert.Contains(t, w.Body.String(), "Failed to list transactions")
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "abc-123", seen)
}

func TestLoggerAndRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf)

	var ctxLogged bool
	h := RequestID(Logger(log)(Recovery(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := logger.FromContext(r.Context())
		l.Info().Msg("inside handler")
		ctxLogged = true
		panic("kaboom")
	}))))

	r := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	r.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.True(t, ctxLogged)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	out := buf.String()
	assert.Contains(t, out, "Panic recovered")
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"status":500`)
	assert.Contains(t, out, "inside handler")
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	r := httptest.NewRequest(http.MethodOptions, "/api/budgets", nil)
	r.Header.Set("Origin", "http://localhost:5173")
	r.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.NotEqual(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
