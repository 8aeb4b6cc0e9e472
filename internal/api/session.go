package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	bar "github.com/muhammadchandra19/chart-datafeed/internal/domain/bar/v1"
	"github.com/muhammadchandra19/chart-datafeed/pkg/errors"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
	"github.com/muhammadchandra19/chart-datafeed/pkg/util"
)

// Client actions.
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

// Server message types.
const (
	MessageBar          = "bar"
	MessageReset        = "reset"
	MessageSubscribed   = "subscribed"
	MessageUnsubscribed = "unsubscribed"
	MessageError        = "error"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

// ClientMessage is a request sent by a chart over /stream.
type ClientMessage struct {
	Action        string `json:"action"`
	SubscriberUID string `json:"subscriberUID"`
	Symbol        string `json:"symbol,omitempty"`
	Resolution    string `json:"resolution,omitempty"`
}

// ServerMessage is pushed to a chart over /stream.
type ServerMessage struct {
	Type          string   `json:"type"`
	SubscriberUID string   `json:"subscriberUID,omitempty"`
	Key           string   `json:"key,omitempty"`
	Bar           *bar.Bar `json:"bar,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// session is one chart websocket. Subscriber ids are scoped to the session
// so two charts may reuse the same id.
type session struct {
	id      string
	handler *Handler
	conn    *websocket.Conn
	logger  logger.Interface

	send chan ServerMessage
	done chan struct{}

	mu   sync.Mutex
	uids map[string]struct{}
}

// Stream upgrades the request to a chart session websocket.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", logger.NewField("error", err.Error()))
		return
	}

	id := util.NewRequestID()
	ctx := util.WithSessionID(r.Context(), id)

	s := &session{
		id:      id,
		handler: h,
		conn:    conn,
		logger:  h.logger.WithFields(logger.NewField("session_id", id)),
		send:    make(chan ServerMessage, h.config.SendBuffer),
		done:    make(chan struct{}),
		uids:    make(map[string]struct{}),
	}

	h.logger.InfoContext(ctx, "chart session opened", logger.NewField("remote", r.RemoteAddr))

	go s.writeLoop()
	s.readLoop()
	s.close()

	h.logger.InfoContext(ctx, "chart session closed")
}

func (s *session) externalID(uid string) string {
	return s.id + ":" + uid
}

func (s *session) readLoop() {
	s.conn.SetReadLimit(maxMessageSize)
	pongWait := s.handler.config.PingPeriod * 10 / 9
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("chart session read failed", logger.NewField("error", err.Error()))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.push(ServerMessage{Type: MessageError, Error: "malformed message"})
			continue
		}

		s.handle(msg)
	}
}

func (s *session) handle(msg ClientMessage) {
	if msg.SubscriberUID == "" {
		s.push(ServerMessage{Type: MessageError, Error: "subscriberUID is required"})
		return
	}

	switch msg.Action {
	case ActionSubscribe:
		if msg.Symbol == "" || msg.Resolution == "" {
			s.push(ServerMessage{Type: MessageError, SubscriberUID: msg.SubscriberUID, Error: "symbol and resolution are required"})
			return
		}
		s.subscribe(msg)
	case ActionUnsubscribe:
		s.unsubscribe(msg.SubscriberUID)
		s.push(ServerMessage{Type: MessageUnsubscribed, SubscriberUID: msg.SubscriberUID})
	default:
		s.push(ServerMessage{Type: MessageError, SubscriberUID: msg.SubscriberUID, Error: "unknown action"})
	}
}

func (s *session) subscribe(msg ClientMessage) {
	uid := msg.SubscriberUID
	symbolInfo := s.handler.usecase.ResolveSymbol(msg.Symbol)

	key := s.handler.usecase.SubscribeBars(symbolInfo, msg.Resolution,
		func(b bar.Bar) {
			s.push(ServerMessage{Type: MessageBar, SubscriberUID: uid, Bar: &b})
		},
		s.externalID(uid),
		func() {
			s.push(ServerMessage{Type: MessageReset, SubscriberUID: uid})
		},
	)

	s.mu.Lock()
	s.uids[uid] = struct{}{}
	s.mu.Unlock()

	s.push(ServerMessage{Type: MessageSubscribed, SubscriberUID: uid, Key: key})
}

func (s *session) unsubscribe(uid string) {
	s.mu.Lock()
	delete(s.uids, uid)
	s.mu.Unlock()

	s.handler.usecase.UnsubscribeBars(s.externalID(uid))
}

// push queues msg without blocking. Bars are dropped for slow charts so the
// dispatch loop never waits on a socket.
func (s *session) push(msg ServerMessage) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.send <- msg:
	case <-s.done:
	default:
		s.logger.Warn("chart session send buffer full, dropping message",
			logger.NewField("type", msg.Type),
			logger.NewField("subscriber_uid", msg.SubscriberUID))
	}
}

func (s *session) writeLoop() {
	ticker := time.NewTicker(s.handler.config.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case <-s.done:
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.logger.Error(errors.TracerFromError(err), logger.NewField("action", "write_chart_message"))
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// close unsubscribes everything the session registered.
func (s *session) close() {
	close(s.done)

	s.mu.Lock()
	uids := make([]string, 0, len(s.uids))
	for uid := range s.uids {
		uids = append(uids, uid)
	}
	s.uids = nil
	s.mu.Unlock()

	for _, uid := range uids {
		s.handler.usecase.UnsubscribeBars(s.externalID(uid))
	}

	_ = s.conn.Close()
}
