package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muhammadchandra19/chart-datafeed/pkg/config"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedServer struct {
	*httptest.Server
	commands    chan Command
	connections atomic.Int32
	onCommand   func(conn *websocket.Conn, connection int32, cmd Command)
}

func newFeedServer(t *testing.T, onCommand func(conn *websocket.Conn, connection int32, cmd Command)) *feedServer {
	t.Helper()

	f := &feedServer{commands: make(chan Command, 16), onCommand: onCommand}
	upgrader := websocket.Upgrader{}

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		connection := f.connections.Add(1)
		for {
			var cmd Command
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			f.commands <- cmd
			if f.onCommand != nil {
				f.onCommand(conn, connection, cmd)
			}
		}
	}))
	t.Cleanup(f.Close)

	return f
}

func (f *feedServer) url() string {
	return "ws" + strings.TrimPrefix(f.URL, "http")
}

func (f *feedServer) nextCommand(t *testing.T) Command {
	t.Helper()
	select {
	case cmd := <-f.commands:
		return cmd
	case <-time.After(5 * time.Second):
		t.Fatal("no command received")
		return Command{}
	}
}

type collector struct {
	mu       sync.Mutex
	payloads []map[string]any
}

func (c *collector) handle(payload map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payloads = append(c.payloads, payload)
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

func testConfig(url string) config.WSUpstreamConfig {
	return config.WSUpstreamConfig{
		URL:              url,
		HandshakeTimeout: time.Second,
		PingPeriod:       100 * time.Millisecond,
		PongWait:         2 * time.Second,
		ReconnectMax:     2 * time.Second,
	}
}

func TestPriceStream_SubscribeAndReceive(t *testing.T) {
	server := newFeedServer(t, func(conn *websocket.Conn, _ int32, cmd Command) {
		if cmd.Op != OpSubscribe {
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"symbol":"EURUSD","price":1.1}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`[{"symbol":"EURUSD","price":1.2},{"symbol":"GBPUSD","price":1.3}]`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"heartbeat"}`))
	})

	s := NewPriceStream(testConfig(server.url()), logger.NewNop())
	got := &collector{}
	s.OnPriceUpdate(got.handle)

	ctx := context.Background()
	require.NoError(t, s.Connect(ctx))
	require.NoError(t, s.Connect(ctx))
	require.NoError(t, s.Subscribe(ctx, "eurusd"))

	assert.Equal(t, Command{Op: OpSubscribe, Symbols: []string{"EURUSD"}}, server.nextCommand(t))
	assert.Eventually(t, func() bool { return got.len() == 2 }, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Unsubscribe(ctx, "EURUSD", "BTCUSDT"))
	assert.Equal(t, Command{Op: OpUnsubscribe, Symbols: []string{"EURUSD"}}, server.nextCommand(t))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, int32(1), server.connections.Load())
}

func TestPriceStream_ResubscribesAfterRedial(t *testing.T) {
	server := newFeedServer(t, func(conn *websocket.Conn, connection int32, cmd Command) {
		if connection == 1 {
			_ = conn.Close()
		}
	})

	s := NewPriceStream(testConfig(server.url()), logger.NewNop())
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Connect(ctx))
	require.NoError(t, s.Subscribe(ctx, "BTCUSDT"))

	assert.Equal(t, Command{Op: OpSubscribe, Symbols: []string{"BTCUSDT"}}, server.nextCommand(t))
	assert.Equal(t, Command{Op: OpSubscribe, Symbols: []string{"BTCUSDT"}}, server.nextCommand(t))
	assert.Equal(t, int32(2), server.connections.Load())
}

func TestPriceStream_ConnectFails(t *testing.T) {
	s := NewPriceStream(testConfig("ws://127.0.0.1:1/ws"), logger.NewNop())

	err := s.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to dial price feed"))
	assert.NoError(t, s.Close())
}

func TestNewPriceStream_Defaults(t *testing.T) {
	s := NewPriceStream(config.WSUpstreamConfig{PingPeriod: time.Minute, PongWait: 10 * time.Second}, logger.NewNop())

	assert.Equal(t, 9*time.Second, s.config.PingPeriod)
	assert.Equal(t, 30*time.Second, s.config.ReconnectMax)
}
