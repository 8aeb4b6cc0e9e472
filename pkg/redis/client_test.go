package redis

import (
	"context"
	"testing"
	"time"

	"github.com/muhammadchandra19/chart-datafeed/pkg/errors"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestClient_ConnectRejectsInvalidConfig(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config) *Config
		message string
	}{
		{
			name:    "nil config",
			mutate:  func(c *Config) *Config { return nil },
			message: "Redis config is nil",
		},
		{
			name: "no addresses",
			mutate: func(c *Config) *Config {
				c.Addrs = nil
				return c
			},
			message: "Redis addresses are empty",
		},
		{
			name: "unknown mode",
			mutate: func(c *Config) *Config {
				c.Mode = "sentinel"
				return c
			},
			message: "Invalid Redis mode",
		},
		{
			name: "zero connect timeout",
			mutate: func(c *Config) *Config {
				c.ConnectTimeout = 0
				return c
			},
			message: "Invalid Redis connect timeout",
		},
		{
			name: "zero pool size",
			mutate: func(c *Config) *Config {
				c.PoolSize = 0
				return c
			},
			message: "Invalid Redis pool size",
		},
		{
			name: "negative backoff",
			mutate: func(c *Config) *Config {
				c.MinRetryBackoff = -time.Second
				return c
			},
			message: "Invalid Redis retry backoff",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClient(logger.NewNop(), tc.mutate(DefaultConfig()))

			err := c.Connect(context.Background())
			assert.EqualError(t, err, tc.message)
			assert.True(t, errors.ErrorCodeEquals(err, string(errors.RedisConfigError)))
		})
	}
}

func TestClient_NotConnected(t *testing.T) {
	c := NewClient(logger.NewNop(), DefaultConfig())
	ctx := context.Background()

	assert.True(t, errors.ErrorCodeEquals(c.Ping(ctx), string(errors.RedisPingError)))

	_, err := c.Subscribe(ctx, "ticks:EURUSD")
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.RedisSubscribeError)))

	_, err = c.Publish(ctx, "ticks:EURUSD", "{}")
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.RedisPublishError)))

	assert.NoError(t, c.Disconnect(ctx))
}

func TestClient_ReconnectGivesUp(t *testing.T) {
	config := DefaultConfig()
	config.ReconnectMaxRetries = 0

	c := NewClient(logger.NewNop(), config)
	assert.False(t, c.Reconnect(context.Background()))
}

func TestClient_ReconnectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(logger.NewNop(), DefaultConfig())
	assert.False(t, c.Reconnect(ctx))
}

func TestConfig_TickChannel(t *testing.T) {
	assert.Equal(t, "ticks:BTCUSDT", DefaultConfig().TickChannel("BTCUSDT"))
}
