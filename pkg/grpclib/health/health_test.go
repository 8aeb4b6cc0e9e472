package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestServer_SetServing(t *testing.T) {
	h := NewServer()
	ctx := context.Background()

	_, err := h.Check(ctx, "datafeed")
	assert.Error(t, err)

	h.InitService("datafeed")
	status, err := h.Check(ctx, "datafeed")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status)

	h.Shutdown()
	status, err = h.Check(ctx, "datafeed")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status)
}

func TestServer_Monitor(t *testing.T) {
	h := NewServer()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var healthy atomic.Bool
	healthy.Store(true)
	go h.Monitor(ctx, "datafeed", 10*time.Millisecond, func(context.Context) error {
		if healthy.Load() {
			return nil
		}
		return errors.New("questdb down")
	})

	assert.Eventually(t, func() bool {
		status, err := h.Check(ctx, "datafeed")
		return err == nil && status == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	healthy.Store(false)
	assert.Eventually(t, func() bool {
		status, err := h.Check(ctx, "datafeed")
		return err == nil && status == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 5*time.Millisecond)
}
