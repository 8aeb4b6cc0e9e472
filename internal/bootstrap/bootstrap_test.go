package bootstrap

import (
	"testing"
	"time"

	parquetOhlc "github.com/muhammadchandra19/chart-datafeed/internal/infrastructure/parquet/ohlc"
	kafkaStream "github.com/muhammadchandra19/chart-datafeed/internal/infrastructure/pricestream/kafka"
	redisStream "github.com/muhammadchandra19/chart-datafeed/internal/infrastructure/pricestream/redis"
	wsStream "github.com/muhammadchandra19/chart-datafeed/internal/infrastructure/pricestream/websocket"
	questdbOhlc "github.com/muhammadchandra19/chart-datafeed/internal/infrastructure/questdb/ohlc"
	datafeedUc "github.com/muhammadchandra19/chart-datafeed/internal/usecase/datafeed"
	"github.com/muhammadchandra19/chart-datafeed/pkg/config"
	"github.com/muhammadchandra19/chart-datafeed/pkg/errors"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
	questdbMock "github.com/muhammadchandra19/chart-datafeed/pkg/questdb/mock"
	redisMock "github.com/muhammadchandra19/chart-datafeed/pkg/redis/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testConfig(historySource, priceStream string) config.Config {
	return config.Config{
		App: config.AppConfig{Name: "chart-datafeed", AllowedOrigins: []string{"*"}},
		Datafeed: config.DatafeedConfig{
			HistorySource: historySource,
			PriceStream:   priceStream,
			ExchangeName:  "TEST",
			Symbols:       []string{"BTCUSDT", "EURUSD"},
		},
		Kafka:      config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "ticks"},
		WSUpstream: config.WSUpstreamConfig{URL: "ws://localhost:9001/ws"},
	}
}

func TestBootstrap_Init(t *testing.T) {
	type deps struct {
		config BootstrapConfig
	}

	testCases := []struct {
		name     string
		mockFn   func(ctrl *gomock.Controller) deps
		assertFn func(t *testing.T, b Bootstrap, err error)
	}{
		{
			name: "parquet history with websocket feed",
			mockFn: func(ctrl *gomock.Controller) deps {
				return deps{config: BootstrapConfig{Config: testConfig(config.HistorySourceParquet, config.PriceStreamWebsocket)}}
			},
			assertFn: func(t *testing.T, b Bootstrap, err error) {
				require.NoError(t, err)
				assert.IsType(t, &parquetOhlc.Repository{}, b.Repository.HistoryRepository)
				assert.IsType(t, &wsStream.PriceStream{}, b.Stream.PriceStream)
				assert.NotNil(t, b.Usecase.DatafeedUsecase)
				assert.NotNil(t, b.Handler.API)
			},
		},
		{
			name: "questdb history with kafka feed",
			mockFn: func(ctrl *gomock.Controller) deps {
				return deps{config: BootstrapConfig{
					Config:  testConfig(config.HistorySourceQuestDB, config.PriceStreamKafka),
					QuestDB: questdbMock.NewMockQuestDBClient(ctrl),
				}}
			},
			assertFn: func(t *testing.T, b Bootstrap, err error) {
				require.NoError(t, err)
				assert.IsType(t, &questdbOhlc.Repository{}, b.Repository.HistoryRepository)
				assert.IsType(t, &kafkaStream.PriceStream{}, b.Stream.PriceStream)
			},
		},
		{
			name: "redis feed",
			mockFn: func(ctrl *gomock.Controller) deps {
				return deps{config: BootstrapConfig{
					Config: testConfig(config.HistorySourceParquet, config.PriceStreamRedis),
					Redis:  redisMock.NewMockClient(ctrl),
				}}
			},
			assertFn: func(t *testing.T, b Bootstrap, err error) {
				require.NoError(t, err)
				assert.IsType(t, &redisStream.PriceStream{}, b.Stream.PriceStream)
			},
		},
		{
			name: "questdb history without client",
			mockFn: func(ctrl *gomock.Controller) deps {
				return deps{config: BootstrapConfig{Config: testConfig(config.HistorySourceQuestDB, config.PriceStreamKafka)}}
			},
			assertFn: func(t *testing.T, b Bootstrap, err error) {
				assert.EqualError(t, err, "questdb history source requires a questdb client")
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.HistorySourceError)))
			},
		},
		{
			name: "redis feed without client",
			mockFn: func(ctrl *gomock.Controller) deps {
				return deps{config: BootstrapConfig{Config: testConfig(config.HistorySourceParquet, config.PriceStreamRedis)}}
			},
			assertFn: func(t *testing.T, b Bootstrap, err error) {
				assert.EqualError(t, err, "redis price stream requires a redis client")
			},
		},
		{
			name: "unknown price stream",
			mockFn: func(ctrl *gomock.Controller) deps {
				return deps{config: BootstrapConfig{Config: testConfig(config.HistorySourceParquet, "nats")}}
			},
			assertFn: func(t *testing.T, b Bootstrap, err error) {
				assert.EqualError(t, err, "unsupported price stream: nats")
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.PriceStreamConfigError)))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			d := tc.mockFn(ctrl)
			d.config.Logger = logger.NewNop()

			b, err := (&Bootstrap{}).Init(d.config)
			if b.Usecase.DatafeedUsecase != nil {
				t.Cleanup(func() { _ = b.Usecase.DatafeedUsecase.Close() })
			}

			tc.assertFn(t, b, err)
		})
	}
}

func TestRetryConfig(t *testing.T) {
	got := retryConfig(config.DatafeedConfig{
		ConnectRetryBase:     500 * time.Millisecond,
		ConnectRetryMax:      30 * time.Second,
		ConnectRetryAttempts: 10,
		ConnectTimeout:       10 * time.Second,
		ConnectRetryJitter:   time.Second,
	})

	assert.Equal(t, datafeedUc.RetryConfig{
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    30 * time.Second,
		MaxAttempts: 10,
		Timeout:     10 * time.Second,
		MaxJitter:   time.Second,
	}, got)
}
