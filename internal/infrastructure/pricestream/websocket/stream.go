// Package websocket reads ticks from a JSON websocket feed.
package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	domain "github.com/muhammadchandra19/chart-datafeed/internal/domain/pricestream"
	"github.com/muhammadchandra19/chart-datafeed/internal/infrastructure/pricestream"
	"github.com/muhammadchandra19/chart-datafeed/pkg/config"
	"github.com/muhammadchandra19/chart-datafeed/pkg/errors"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
)

// Operations sent to the feed.
const (
	OpSubscribe   = "subscribe"
	OpUnsubscribe = "unsubscribe"
)

const (
	writeWait      = 5 * time.Second
	reconnectStart = time.Second
)

// Command asks the feed to start or stop sending ticks of symbols.
type Command struct {
	Op      string   `json:"op"`
	Symbols []string `json:"symbols"`
}

// PriceStream keeps one websocket to the feed and redials it with backoff
// when it drops. Symbols are subscribed again after every redial.
type PriceStream struct {
	config config.WSUpstreamConfig
	logger logger.Interface
	dialer *websocket.Dialer

	symbols    *pricestream.SymbolSet
	dispatcher pricestream.Dispatcher

	mu      sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
}

var _ domain.PriceStream = (*PriceStream)(nil)

// NewPriceStream creates a websocket price stream. Nothing is dialled until Connect.
func NewPriceStream(cfg config.WSUpstreamConfig, log logger.Interface) *PriceStream {
	if cfg.PongWait <= 0 {
		cfg.PongWait = 60 * time.Second
	}
	if cfg.PingPeriod <= 0 || cfg.PingPeriod >= cfg.PongWait {
		cfg.PingPeriod = cfg.PongWait * 9 / 10
	}
	if cfg.ReconnectMax <= 0 {
		cfg.ReconnectMax = 30 * time.Second
	}

	return &PriceStream{
		config:  cfg,
		logger:  log,
		dialer:  &websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout},
		symbols: pricestream.NewSymbolSet(),
	}
}

// Connect dials the feed and keeps it connected until Close. Calling it
// again while running is a no-op.
func (s *PriceStream) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return nil
	}

	conn, err := s.dial(ctx)
	if err != nil {
		return errors.TracerWithCode(errors.PriceStreamConnectError, "failed to dial price feed", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.conn = conn
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(runCtx, conn, s.done)

	s.logger.Info("websocket price stream connected", logger.NewField("url", s.config.URL))
	return nil
}

func (s *PriceStream) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := s.dialer.DialContext(ctx, s.config.URL, nil)
	if err != nil {
		if resp != nil {
			s.logger.Warn("websocket dial failed", logger.NewField("status", resp.StatusCode))
		}
		return nil, err
	}

	_ = conn.SetReadDeadline(time.Now().Add(s.config.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.config.PongWait))
	})
	return conn, nil
}

// run serves conn and every connection redialled after it.
func (s *PriceStream) run(ctx context.Context, conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		s.serve(ctx, conn)
		_ = conn.Close()

		s.mu.Lock()
		if s.conn == conn {
			s.conn = nil
		}
		s.mu.Unlock()

		if ctx.Err() != nil {
			return
		}

		s.logger.Warn("websocket price feed disconnected, redialling", logger.NewField("url", s.config.URL))

		next, ok := s.redial(ctx)
		if !ok {
			return
		}
		conn = next
	}
}

// serve reads conn until it fails, pinging it meanwhile.
func (s *PriceStream) serve(ctx context.Context, conn *websocket.Conn) {
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		s.readLoop(conn)
	}()

	ticker := time.NewTicker(s.config.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.writeControl(conn, websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client shutdown"))
			_ = conn.Close()
			<-readDone
			return
		case <-readDone:
			return
		case <-ticker.C:
			if err := s.writeControl(conn, websocket.PingMessage, nil); err != nil {
				s.logger.Error(errors.TracerFromError(err), logger.NewField("action", "ping_price_feed"))
				_ = conn.Close()
				<-readDone
				return
			}
		}
	}
}

func (s *PriceStream) redial(ctx context.Context) (*websocket.Conn, bool) {
	for attempt := 0; ; attempt++ {
		delay := min(reconnectStart*time.Duration(math.Pow(2, float64(attempt))), s.config.ReconnectMax)

		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(delay):
		}

		dialCtx, cancel := context.WithTimeout(ctx, s.config.HandshakeTimeout+writeWait)
		conn, err := s.dial(dialCtx)
		cancel()
		if err != nil {
			s.logger.Error(errors.TracerWithCode(errors.PriceStreamConnectError, "failed to redial price feed", err),
				logger.NewField("attempt", attempt+1))
			continue
		}

		s.mu.Lock()
		s.conn = conn
		s.mu.Unlock()

		if symbols := s.symbols.List(); len(symbols) > 0 {
			if err := s.send(conn, Command{Op: OpSubscribe, Symbols: symbols}); err != nil {
				s.logger.Error(errors.TracerWithCode(errors.PriceStreamSubscribeError, "failed to resubscribe symbols", err))
				_ = conn.Close()
				continue
			}
		}

		s.logger.Info("websocket price feed reconnected", logger.NewField("attempt", attempt+1))
		return conn, true
	}
}

func (s *PriceStream) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket price feed read failed", logger.NewField("error", err.Error()))
			}
			return
		}

		s.handle(raw)
	}
}

// handle accepts a single tick object or an array of them.
func (s *PriceStream) handle(raw []byte) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			s.logger.Debug("dropping undecodable tick batch")
			return
		}
		for _, item := range items {
			s.handle(item)
		}
		return
	}

	payload, symbol, ok := pricestream.Decode(raw, "")
	if !ok || !s.symbols.Contains(symbol) {
		return
	}
	s.dispatcher.Dispatch(payload)
}

func (s *PriceStream) writeControl(conn *websocket.Conn, messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteControl(messageType, data, time.Now().Add(writeWait))
}

func (s *PriceStream) send(conn *websocket.Conn, cmd Command) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(cmd)
}

// Subscribe asks the feed for ticks of symbols.
func (s *PriceStream) Subscribe(_ context.Context, symbols ...string) error {
	added := s.symbols.Add(symbols...)
	if len(added) == 0 {
		return nil
	}

	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		// Sent on the next redial.
		return nil
	}

	if err := s.send(conn, Command{Op: OpSubscribe, Symbols: added}); err != nil {
		s.symbols.Remove(added...)
		return errors.TracerWithCode(errors.PriceStreamSubscribeError, "failed to send subscribe", err)
	}
	return nil
}

// Unsubscribe tells the feed to stop sending ticks of symbols.
func (s *PriceStream) Unsubscribe(_ context.Context, symbols ...string) error {
	removed := s.symbols.Remove(symbols...)
	if len(removed) == 0 {
		return nil
	}

	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return nil
	}

	if err := s.send(conn, Command{Op: OpUnsubscribe, Symbols: removed}); err != nil {
		return errors.TracerWithCode(errors.PriceStreamSubscribeError, "failed to send unsubscribe", err)
	}
	return nil
}

// OnPriceUpdate registers the tick handler.
func (s *PriceStream) OnPriceUpdate(handler domain.Handler) {
	s.dispatcher.Set(handler)
}

// Close closes the connection and stops redialling.
func (s *PriceStream) Close() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if done == nil {
		return nil
	}

	cancel()
	<-done
	return nil
}
