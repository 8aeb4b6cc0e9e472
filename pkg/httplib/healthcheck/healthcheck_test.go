package healthcheck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_Handler(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	testCases := []struct {
		name     string
		probes   map[string]Probe
		method   string
		path     string
		assertFn func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:   "no probes is ok",
			method: http.MethodGet,
			path:   "/health",
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
			},
		},
		{
			name: "failing probe is unavailable",
			probes: map[string]Probe{
				"questdb": func(context.Context) error { return nil },
				"redis":   func(context.Context) error { return errors.New("connection refused") },
			},
			method: http.MethodGet,
			path:   "/health",
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

				var report Report
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
				assert.Equal(t, StatusUnavailable, report.Status)
				assert.Equal(t, map[string]string{"questdb": "ok", "redis": "connection refused"}, report.Checks)
			},
		},
		{
			name:   "other paths pass through",
			method: http.MethodGet,
			path:   "/history",
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusTeapot, rec.Code)
			},
		},
		{
			name:   "post to health passes through",
			method: http.MethodPost,
			path:   "/health",
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusTeapot, rec.Code)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			New(0, tc.probes).Handler(next).ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			tc.assertFn(t, rec)
		})
	}
}
