package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/seenimoa/agripulse/internal/dashboard"
	"github.com/seenimoa/agripulse/internal/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced on the REST routes only
	},
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	// Upper bound on building one snapshot for a selection.
	buildTimeout = 5 * time.Second
)

// Stream message types.
const (
	MsgSelect    = "select"
	MsgPing      = "ping"
	MsgWelcome   = "welcome"
	MsgSnapshot  = "snapshot"
	MsgStale     = "stale"
	MsgThrottled = "throttled"
	MsgError     = "error"
	MsgPong      = "pong"
)

// ClientMessage is a message received from a stream client.
//
//	{"type":"select","seq":3,"data":{"commodity":"wheat","market":"Koyambedu"}}
type ClientMessage struct {
	Type string            `json:"type"`
	Seq  int64             `json:"seq,omitempty"`
	Data dashboard.Request `json:"data"`
}

// StreamMessage is a message sent to a stream client.
type StreamMessage struct {
	Type    string `json:"type"`
	Seq     int64  `json:"seq,omitempty"`
	Session string `json:"session,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Hub tracks open selection stream connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[*streamClient]struct{}
	metrics *metrics.Registry
}

// streamClient is one WebSocket connection. Selections are answered in
// arrival order; lastSeq is only touched by the connection's read loop.
type streamClient struct {
	id      string
	send    chan StreamMessage
	limiter *rate.Limiter
	lastSeq int64
}

// NewHub creates an empty hub. reg may be nil.
func NewHub(reg *metrics.Registry) *Hub {
	return &Hub{
		clients: make(map[*streamClient]struct{}),
		metrics: reg,
	}
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *streamClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.StreamSessions.Inc()
	}
}

// unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) unregister(c *streamClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if ok && h.metrics != nil {
		h.metrics.StreamSessions.Dec()
	}
}

// deliver queues msg for c. Messages for a slow or closed client are dropped.
func (h *Hub) deliver(c *streamClient, msg StreamMessage) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	clients := make([]*streamClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		h.unregister(c)
	}
}

func (s *Server) newLimiter() *rate.Limiter {
	perSec := rate.Inf
	if s.cfg.Stream.SelectionsPerSec > 0 {
		perSec = rate.Limit(s.cfg.Stream.SelectionsPerSec)
	}
	burst := s.cfg.Stream.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(perSec, burst)
}

// handleStream upgrades the connection and serves selections until the
// client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &streamClient{
		id:      uuid.NewString(),
		send:    make(chan StreamMessage, 64),
		limiter: s.newLimiter(),
	}
	logger := s.logger.Named("stream").With(zap.String("session", client.id))

	s.hub.register(client)
	s.hub.deliver(client, StreamMessage{
		Type:    MsgWelcome,
		Session: client.id,
		Data: map[string]any{
			"current_month": s.svc.CurrentMonth(),
		},
	})
	logger.Debug("stream opened")

	go s.writePump(conn, client, logger)
	s.readPump(conn, client, logger)
	logger.Debug("stream closed")
}

// readPump reads selections from the connection and answers each one.
func (s *Server) readPump(conn *websocket.Conn, client *streamClient, logger *zap.Logger) {
	defer func() {
		s.hub.unregister(client)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("stream read failed", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.hub.deliver(client, StreamMessage{Type: MsgError, Error: "malformed message"})
			continue
		}

		switch msg.Type {
		case MsgSelect:
			s.hub.deliver(client, s.answer(client, msg))
		case MsgPing:
			s.hub.deliver(client, StreamMessage{Type: MsgPong, Seq: msg.Seq})
		default:
			s.hub.deliver(client, StreamMessage{Type: MsgError, Seq: msg.Seq, Error: "unknown message type " + msg.Type})
		}
	}
}

// answer resolves one selection. seq must be positive. A selection whose seq
// is not newer than the last answered one is stale and never rebuilt.
func (s *Server) answer(client *streamClient, msg ClientMessage) StreamMessage {
	if msg.Seq <= 0 {
		return StreamMessage{Type: MsgError, Seq: msg.Seq, Error: "seq must be a positive integer"}
	}
	if msg.Seq <= client.lastSeq {
		if s.metrics != nil {
			s.metrics.StaleSelections.Inc()
		}
		return StreamMessage{Type: MsgStale, Seq: msg.Seq}
	}
	if !client.limiter.Allow() {
		if s.metrics != nil {
			s.metrics.Throttled.Inc()
		}
		return StreamMessage{Type: MsgThrottled, Seq: msg.Seq}
	}
	client.lastSeq = msg.Seq

	ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
	defer cancel()
	snap, err := s.svc.Build(ctx, msg.Data)
	if err != nil {
		return StreamMessage{Type: MsgError, Seq: msg.Seq, Error: err.Error()}
	}
	return StreamMessage{Type: MsgSnapshot, Seq: msg.Seq, Data: snap}
}

// writePump writes queued messages and keepalive pings to the connection.
func (s *Server) writePump(conn *websocket.Conn, client *streamClient, logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				logger.Debug("stream write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
