// Package kafka reads ticks from a Kafka topic.
package kafka

import (
	"context"
	stdErrors "errors"
	"io"
	"sync"
	"time"

	domain "github.com/muhammadchandra19/chart-datafeed/internal/domain/pricestream"
	"github.com/muhammadchandra19/chart-datafeed/internal/infrastructure/pricestream"
	"github.com/muhammadchandra19/chart-datafeed/pkg/config"
	"github.com/muhammadchandra19/chart-datafeed/pkg/errors"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of kafka.Reader the stream consumes.
//
//go:generate mockgen -source stream.go -destination=mock/reader_mock.go -package=kafka_mock
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

const readErrorBackoff = 500 * time.Millisecond

// PriceStream consumes the tick topic and forwards ticks of subscribed
// symbols. The message key names the symbol when the payload does not.
type PriceStream struct {
	config config.KafkaConfig
	logger logger.Interface

	newReader func() MessageReader
	probe     func(ctx context.Context) error

	symbols    *pricestream.SymbolSet
	dispatcher pricestream.Dispatcher

	mu     sync.Mutex
	reader MessageReader
	cancel context.CancelFunc
	done   chan struct{}
}

var _ domain.PriceStream = (*PriceStream)(nil)

// NewPriceStream creates a Kafka price stream. Nothing is dialled until Connect.
func NewPriceStream(cfg config.KafkaConfig, log logger.Interface) *PriceStream {
	s := newPriceStream(cfg, log, func() MessageReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:     cfg.Brokers,
			Topic:       cfg.Topic,
			GroupID:     cfg.ConsumerGroup,
			MinBytes:    cfg.MinBytes,
			MaxBytes:    cfg.MaxBytes,
			MaxWait:     cfg.MaxWait,
			StartOffset: kafka.LastOffset,
		})
	})
	s.probe = s.dialBroker
	return s
}

func newPriceStream(cfg config.KafkaConfig, log logger.Interface, newReader func() MessageReader) *PriceStream {
	return &PriceStream{
		config:    cfg,
		logger:    log,
		newReader: newReader,
		probe:     func(context.Context) error { return nil },
		symbols:   pricestream.NewSymbolSet(),
	}
}

// dialBroker checks that at least one broker accepts connections.
func (s *PriceStream) dialBroker(ctx context.Context) error {
	var lastErr error
	for _, broker := range s.config.Brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			return conn.Close()
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = stdErrors.New("no kafka brokers configured")
	}
	return lastErr
}

// Connect starts consuming the topic. Calling it again while connected is a no-op.
func (s *PriceStream) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reader != nil {
		return nil
	}

	if err := s.probe(ctx); err != nil {
		return errors.TracerWithCode(errors.PriceStreamConnectError, "failed to reach kafka", err)
	}

	consumeCtx, cancel := context.WithCancel(context.Background())
	s.reader = s.newReader()
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.consume(consumeCtx, s.reader, s.done)

	s.logger.Info("kafka price stream connected",
		logger.NewField("topic", s.config.Topic),
		logger.NewField("group", s.config.ConsumerGroup))

	return nil
}

func (s *PriceStream) consume(ctx context.Context, reader MessageReader, done chan struct{}) {
	defer close(done)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || stdErrors.Is(err, io.EOF) {
				return
			}

			s.logger.Error(errors.TracerFromError(err), logger.NewField("action", "read_tick"))
			select {
			case <-ctx.Done():
				return
			case <-time.After(readErrorBackoff):
			}
			continue
		}

		payload, symbol, ok := pricestream.Decode(msg.Value, string(msg.Key))
		if !ok {
			s.logger.Debug("dropping undecodable tick",
				logger.NewField("partition", msg.Partition),
				logger.NewField("offset", msg.Offset))
			continue
		}

		if !s.symbols.Contains(symbol) {
			continue
		}

		s.dispatcher.Dispatch(payload)
	}
}

// Subscribe starts forwarding ticks of symbols.
func (s *PriceStream) Subscribe(_ context.Context, symbols ...string) error {
	if added := s.symbols.Add(symbols...); len(added) > 0 {
		s.logger.Debug("kafka symbols subscribed", logger.NewField("symbols", added))
	}
	return nil
}

// Unsubscribe stops forwarding ticks of symbols.
func (s *PriceStream) Unsubscribe(_ context.Context, symbols ...string) error {
	if removed := s.symbols.Remove(symbols...); len(removed) > 0 {
		s.logger.Debug("kafka symbols unsubscribed", logger.NewField("symbols", removed))
	}
	return nil
}

// OnPriceUpdate registers the tick handler.
func (s *PriceStream) OnPriceUpdate(handler domain.Handler) {
	s.dispatcher.Set(handler)
}

// Close stops consuming and closes the reader.
func (s *PriceStream) Close() error {
	s.mu.Lock()
	reader, cancel, done := s.reader, s.cancel, s.done
	s.reader, s.cancel, s.done = nil, nil, nil
	s.mu.Unlock()

	if reader == nil {
		return nil
	}

	cancel()
	err := reader.Close()
	<-done

	return err
}
