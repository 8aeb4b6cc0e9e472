package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/muhammadchandra19/chart-datafeed/pkg/config"
	"github.com/muhammadchandra19/chart-datafeed/pkg/httplib/healthcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func testConfig(directory string) config.Config {
	return config.Config{
		App: config.AppConfig{
			Name:           "chart-datafeed",
			Environment:    "test",
			LogLevel:       "error",
			AllowedOrigins: []string{"*"},
		},
		Datafeed: config.DatafeedConfig{
			HistorySource: config.HistorySourceParquet,
			PriceStream:   config.PriceStreamWebsocket,
			ExchangeName:  "TEST",
			Symbols:       []string{"BTCUSDT"},
		},
		WSUpstream: config.WSUpstreamConfig{URL: "ws://127.0.0.1:1/ws"},
		Parquet:    config.ParquetConfig{Directory: directory},
	}
}

func TestServer_HealthAndRoutes(t *testing.T) {
	testCases := []struct {
		name       string
		directory  func(t *testing.T) string
		wantStatus int
		wantReport string
	}{
		{
			name:       "parquet directory present",
			directory:  func(t *testing.T) string { return t.TempDir() },
			wantStatus: http.StatusOK,
			wantReport: healthcheck.StatusOK,
		},
		{
			name:       "parquet directory missing",
			directory:  func(t *testing.T) string { return t.TempDir() + "/missing" },
			wantStatus: http.StatusServiceUnavailable,
			wantReport: healthcheck.StatusUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewServer(context.Background(), testConfig(tc.directory(t)))
			require.NoError(t, err)
			t.Cleanup(func() { s.Stop(context.Background()) })

			rec := httptest.NewRecorder()
			s.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tc.wantStatus, rec.Code)

			var report healthcheck.Report
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
			assert.Equal(t, tc.wantReport, report.Status)

			rec = httptest.NewRecorder()
			s.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/time", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestServer_StartAndStop(t *testing.T) {
	s, err := NewServer(context.Background(), testConfig(t.TempDir()))
	require.NoError(t, err)

	errCh, err := s.Start(context.Background())
	require.NoError(t, err)

	status, err := s.health.Check(context.Background(), "chart-datafeed")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status)

	s.Stop(context.Background())

	select {
	case err := <-errCh:
		t.Fatalf("unexpected serve error: %v", err)
	default:
	}
}

func TestNewServer_RejectsUnknownPriceStream(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Datafeed.PriceStream = "nats"

	_, err := NewServer(context.Background(), cfg)
	assert.EqualError(t, err, "unsupported price stream: nats")
}
