package bootstrap

import (
	"fmt"

	"github.com/muhammadchandra19/chart-datafeed/internal/domain/pricestream"
	kafkaStream "github.com/muhammadchandra19/chart-datafeed/internal/infrastructure/pricestream/kafka"
	redisStream "github.com/muhammadchandra19/chart-datafeed/internal/infrastructure/pricestream/redis"
	wsStream "github.com/muhammadchandra19/chart-datafeed/internal/infrastructure/pricestream/websocket"
	"github.com/muhammadchandra19/chart-datafeed/pkg/config"
	"github.com/muhammadchandra19/chart-datafeed/pkg/errors"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
)

// Stream holds the upstream price stream.
type Stream struct {
	PriceStream pricestream.PriceStream
}

// registerStream registers the price stream of the configured source.
func (b *Bootstrap) registerStream() error {
	log := b.Logger.WithFields(logger.NewField("price_stream", b.Config.Datafeed.PriceStream))

	switch b.Config.Datafeed.PriceStream {
	case config.PriceStreamKafka:
		b.Stream.PriceStream = kafkaStream.NewPriceStream(b.Config.Kafka, log)
	case config.PriceStreamRedis:
		if b.Redis == nil {
			return errors.NewErrorDetails("redis price stream requires a redis client", string(errors.PriceStreamConfigError), "redis")
		}
		b.Stream.PriceStream = redisStream.NewPriceStream(b.Redis, &b.Config.Redis, log)
	case config.PriceStreamWebsocket:
		b.Stream.PriceStream = wsStream.NewPriceStream(b.Config.WSUpstream, log)
	default:
		return errors.NewErrorDetails(fmt.Sprintf("unsupported price stream: %s", b.Config.Datafeed.PriceStream), string(errors.PriceStreamConfigError), "price_stream")
	}
	return nil
}
