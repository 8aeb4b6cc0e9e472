// Package redis reads ticks from per-symbol Redis pub/sub channels.
package redis

import (
	"context"
	"strings"
	"sync"
	"time"

	domain "github.com/muhammadchandra19/chart-datafeed/internal/domain/pricestream"
	"github.com/muhammadchandra19/chart-datafeed/internal/infrastructure/pricestream"
	"github.com/muhammadchandra19/chart-datafeed/pkg/errors"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
	pkgRedis "github.com/muhammadchandra19/chart-datafeed/pkg/redis"
	v9 "github.com/redis/go-redis/v9"
)

const receiveDrainTimeout = 5 * time.Second

// subscription is the part of *v9.PubSub the stream uses.
type subscription interface {
	Subscribe(ctx context.Context, channels ...string) error
	Unsubscribe(ctx context.Context, channels ...string) error
	Channel(opts ...v9.ChannelOption) <-chan *v9.Message
	Close() error
}

// PriceStream subscribes one channel per symbol, named by the configured prefix.
type PriceStream struct {
	client pkgRedis.Client
	config *pkgRedis.Config
	logger logger.Interface

	open func(ctx context.Context, channels ...string) (subscription, error)

	symbols    *pricestream.SymbolSet
	dispatcher pricestream.Dispatcher

	mu        sync.Mutex
	connected bool
	sub       subscription
	done      chan struct{}
}

var _ domain.PriceStream = (*PriceStream)(nil)

// NewPriceStream creates a Redis price stream over client.
func NewPriceStream(client pkgRedis.Client, cfg *pkgRedis.Config, log logger.Interface) *PriceStream {
	return &PriceStream{
		client: client,
		config: cfg,
		logger: log,
		open: func(ctx context.Context, channels ...string) (subscription, error) {
			pubSub, err := client.Subscribe(ctx, channels...)
			if err != nil {
				return nil, err
			}
			return pubSub, nil
		},
		symbols: pricestream.NewSymbolSet(),
	}
}

// Connect connects the client once. Later calls check the connection and
// reconnect when it is gone.
func (s *PriceStream) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		if err := s.client.Connect(ctx); err != nil {
			return errors.TracerWithCode(errors.PriceStreamConnectError, "failed to connect redis", err)
		}
		s.connected = true
		return nil
	}

	if err := s.client.Ping(ctx); err == nil {
		return nil
	}

	if !s.client.Reconnect(ctx) {
		return errors.TracerWithCode(errors.PriceStreamConnectError, "failed to reconnect redis", errors.NewTracer("redis unreachable"))
	}
	return nil
}

// Subscribe adds the tick channels of symbols to the pub/sub connection.
func (s *PriceStream) Subscribe(ctx context.Context, symbols ...string) error {
	added := s.symbols.Add(symbols...)
	if len(added) == 0 {
		return nil
	}
	channels := s.channels(added)

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.sub == nil {
		var sub subscription
		if sub, err = s.open(ctx, channels...); err == nil {
			s.sub = sub
			s.done = make(chan struct{})
			go s.receive(sub.Channel(), s.done)
		}
	} else {
		err = s.sub.Subscribe(ctx, channels...)
	}

	if err != nil {
		s.symbols.Remove(added...)
		return errors.TracerWithCode(errors.PriceStreamSubscribeError, "failed to subscribe tick channels", err)
	}

	s.logger.Debug("redis tick channels subscribed", logger.NewField("channels", channels))
	return nil
}

// Unsubscribe drops the tick channels of symbols.
func (s *PriceStream) Unsubscribe(ctx context.Context, symbols ...string) error {
	removed := s.symbols.Remove(symbols...)
	if len(removed) == 0 {
		return nil
	}

	s.mu.Lock()
	sub := s.sub
	s.mu.Unlock()

	if sub == nil {
		return nil
	}

	if err := sub.Unsubscribe(ctx, s.channels(removed)...); err != nil {
		return errors.TracerWithCode(errors.PriceStreamSubscribeError, "failed to unsubscribe tick channels", err)
	}
	return nil
}

func (s *PriceStream) channels(symbols []string) []string {
	channels := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		channels = append(channels, s.config.TickChannel(symbol))
	}
	return channels
}

func (s *PriceStream) receive(messages <-chan *v9.Message, done chan struct{}) {
	defer close(done)

	for msg := range messages {
		payload, symbol, ok := pricestream.Decode([]byte(msg.Payload), strings.TrimPrefix(msg.Channel, s.config.ChannelPrefix))
		if !ok {
			s.logger.Debug("dropping undecodable tick", logger.NewField("channel", msg.Channel))
			continue
		}

		if !s.symbols.Contains(symbol) {
			continue
		}

		s.dispatcher.Dispatch(payload)
	}
}

// OnPriceUpdate registers the tick handler.
func (s *PriceStream) OnPriceUpdate(handler domain.Handler) {
	s.dispatcher.Set(handler)
}

// Close closes the pub/sub connection and disconnects the client.
func (s *PriceStream) Close() error {
	s.mu.Lock()
	sub, done, connected := s.sub, s.done, s.connected
	s.sub, s.done, s.connected = nil, nil, false
	s.mu.Unlock()

	if sub != nil {
		if err := sub.Close(); err != nil {
			s.logger.Error(errors.TracerFromError(err), logger.NewField("action", "close_pubsub"))
		}
		select {
		case <-done:
		case <-time.After(receiveDrainTimeout):
			s.logger.Warn("redis receive loop did not stop")
		}
	}

	if !connected {
		return nil
	}
	return s.client.Disconnect(context.Background())
}
