package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/muhammadchandra19/chart-datafeed/pkg/config"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
	pkgRedis "github.com/muhammadchandra19/chart-datafeed/pkg/redis"
	"github.com/segmentio/kafka-go"
)

// Tick is the payload published for every price update.
type Tick struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}

type sink interface {
	Send(ctx context.Context, tick Tick, payload []byte) error
	Close() error
}

type kafkaSink struct {
	writer *kafka.Writer
}

func (s *kafkaSink) Send(ctx context.Context, tick Tick, payload []byte) error {
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(tick.Symbol),
		Value: payload,
		Time:  time.UnixMilli(tick.Timestamp),
	})
}

func (s *kafkaSink) Close() error {
	return s.writer.Close()
}

type redisSink struct {
	client pkgRedis.Client
	config *pkgRedis.Config
}

func (s *redisSink) Send(ctx context.Context, tick Tick, payload []byte) error {
	_, err := s.client.Publish(ctx, s.config.TickChannel(tick.Symbol), payload)
	return err
}

func (s *redisSink) Close() error {
	return s.client.Disconnect(context.Background())
}

// startPrice picks a plausible opening price for the random walk.
func startPrice(symbol string) float64 {
	switch {
	case strings.HasPrefix(symbol, "BTC"):
		return 60000
	case strings.HasPrefix(symbol, "ETH"):
		return 3000
	case strings.HasPrefix(symbol, "XAU"):
		return 2300
	case strings.HasSuffix(symbol, "JPY"):
		return 150
	case len(symbol) == 6:
		return 1.1
	default:
		return 100
	}
}

// walk moves price by a random step of at most volatility (relative).
func walk(rng *rand.Rand, price, volatility float64) float64 {
	next := price * (1 + (rng.Float64()*2-1)*volatility)
	if next <= 0 {
		return price
	}
	return next
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var (
		target     = flag.String("sink", cfg.Datafeed.PriceStream, "Tick sink: kafka or redis")
		symbols    = flag.String("symbols", strings.Join(cfg.Datafeed.Symbols, ","), "Symbols to publish (comma-separated)")
		delay      = flag.Duration("delay", 250*time.Millisecond, "Delay between rounds of ticks")
		count      = flag.Int("count", 1000, "Number of rounds to publish (0 runs forever)")
		volatility = flag.Float64("volatility", 0.0005, "Maximum relative price move per tick")
	)
	flag.Parse()

	appLogger, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	ctx := context.Background()

	var out sink
	switch *target {
	case config.PriceStreamKafka:
		out = &kafkaSink{writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Kafka.Brokers...),
			Topic:        cfg.Kafka.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		}}
	case config.PriceStreamRedis:
		client := pkgRedis.NewClient(appLogger, &cfg.Redis)
		if err := client.Connect(ctx); err != nil {
			log.Fatalf("Failed to connect redis: %v", err)
		}
		out = &redisSink{client: client, config: &cfg.Redis}
	default:
		log.Fatalf("Unsupported sink: %s", *target)
	}
	defer out.Close()

	names := strings.Split(*symbols, ",")
	prices := make(map[string]float64, len(names))
	for i, name := range names {
		names[i] = strings.ToUpper(strings.TrimSpace(name))
		prices[names[i]] = startPrice(names[i])
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	appLogger.Info("publishing ticks",
		logger.NewField("sink", *target),
		logger.NewField("symbols", names),
		logger.NewField("delay", delay.String()))

	sent := 0
	for round := 0; *count == 0 || round < *count; round++ {
		for _, symbol := range names {
			prices[symbol] = walk(rng, prices[symbol], *volatility)
			tick := Tick{Symbol: symbol, Price: prices[symbol], Timestamp: time.Now().UnixMilli()}

			payload, err := json.Marshal(tick)
			if err != nil {
				appLogger.Warn("failed to marshal tick", logger.NewField("symbol", symbol), logger.NewField("error", err.Error()))
				continue
			}

			if err := out.Send(ctx, tick, payload); err != nil {
				appLogger.Warn("failed to publish tick", logger.NewField("symbol", symbol), logger.NewField("error", err.Error()))
				continue
			}
			sent++
		}

		if (round+1)%100 == 0 {
			appLogger.Info("published ticks", logger.NewField("rounds", round+1), logger.NewField("ticks", sent))
		}

		time.Sleep(*delay)
	}

	appLogger.Info("done", logger.NewField("ticks", sent))
}
