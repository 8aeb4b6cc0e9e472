package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/chart-datafeed/pkg/questdb"
	"github.com/muhammadchandra19/chart-datafeed/pkg/redis"
)

// History sources.
const (
	HistorySourceQuestDB = "questdb"
	HistorySourceParquet = "parquet"
)

// Price stream sources.
const (
	PriceStreamKafka     = "kafka"
	PriceStreamRedis     = "redis"
	PriceStreamWebsocket = "websocket"
)

// Config represents the application configuration.
type Config struct {
	App        AppConfig        `envPrefix:"APP_"`
	Datafeed   DatafeedConfig   `envPrefix:"DATAFEED_"`
	QuestDB    questdb.Config   `envPrefix:"QUESTDB_"`
	Redis      redis.Config     `envPrefix:"REDIS_"`
	Kafka      KafkaConfig      `envPrefix:"KAFKA_"`
	WSUpstream WSUpstreamConfig `envPrefix:"WS_UPSTREAM_"`
	Parquet    ParquetConfig    `envPrefix:"PARQUET_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name            string        `env:"NAME" envDefault:"chart-datafeed"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	Port            int           `env:"PORT" envDefault:"8080"`
	GRPCPort        int           `env:"GRPC_PORT" envDefault:"8880"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// DatafeedConfig configures the chart datafeed adapter.
type DatafeedConfig struct {
	// HistoryEpoch is the earliest timestamp claimed by a full-history request.
	HistoryEpoch  int64    `env:"HISTORY_EPOCH" envDefault:"1262304000"`
	HistorySource string   `env:"HISTORY_SOURCE" envDefault:"questdb"`
	PriceStream   string   `env:"PRICE_STREAM" envDefault:"kafka"`
	ExchangeName  string   `env:"EXCHANGE_NAME" envDefault:"EXCHANGE"`
	Symbols       []string `env:"SYMBOLS" envSeparator:"," envDefault:"BTCUSDT,ETHUSDT,SOLUSDT,EURUSD,GBPUSD,USDJPY,XAUUSD"`
	PriceScale    int      `env:"PRICE_SCALE" envDefault:"100000"`

	ConnectRetryBase     time.Duration `env:"CONNECT_RETRY_BASE" envDefault:"500ms"`
	ConnectRetryMax      time.Duration `env:"CONNECT_RETRY_MAX" envDefault:"30s"`
	ConnectRetryAttempts int           `env:"CONNECT_RETRY_ATTEMPTS" envDefault:"10"`
	ConnectTimeout       time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
	ConnectRetryJitter   time.Duration `env:"CONNECT_RETRY_JITTER" envDefault:"1s"`

	StreamSendBuffer int           `env:"STREAM_SEND_BUFFER" envDefault:"256"`
	StreamPingPeriod time.Duration `env:"STREAM_PING_PERIOD" envDefault:"30s"`
}

// KafkaConfig represents the Kafka tick topic configuration.
type KafkaConfig struct {
	Brokers       []string      `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic         string        `env:"TOPIC" envDefault:"ticks"`
	ConsumerGroup string        `env:"CONSUMER_GROUP" envDefault:"chart-datafeed"`
	MinBytes      int           `env:"MIN_BYTES" envDefault:"1"`
	MaxBytes      int           `env:"MAX_BYTES" envDefault:"10485760"`
	MaxWait       time.Duration `env:"MAX_WAIT" envDefault:"500ms"`
}

// WSUpstreamConfig configures a websocket tick feed.
type WSUpstreamConfig struct {
	URL              string        `env:"URL" envDefault:"ws://localhost:9001/ws"`
	HandshakeTimeout time.Duration `env:"HANDSHAKE_TIMEOUT" envDefault:"10s"`
	PingPeriod       time.Duration `env:"PING_PERIOD" envDefault:"20s"`
	PongWait         time.Duration `env:"PONG_WAIT" envDefault:"60s"`
	ReconnectMax     time.Duration `env:"RECONNECT_MAX" envDefault:"30s"`
}

// ParquetConfig configures the parquet history source.
type ParquetConfig struct {
	Directory string `env:"DIRECTORY" envDefault:"./data/bars"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Datafeed.HistorySource {
	case HistorySourceQuestDB, HistorySourceParquet:
	default:
		return fmt.Errorf("unsupported history source: %s", c.Datafeed.HistorySource)
	}

	switch c.Datafeed.PriceStream {
	case PriceStreamKafka, PriceStreamRedis, PriceStreamWebsocket:
	default:
		return fmt.Errorf("unsupported price stream: %s", c.Datafeed.PriceStream)
	}

	return nil
}
