package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/sodafoundation/delfin-sub001/pkg/logger"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

const (
	wsWriteTimeout   = 5 * time.Second
	wsClientBacklog  = 64
	wsReadBufferSize = 1024
)

// WebsocketSink broadcasts alert batches to every connected dashboard
// client. Each client has a bounded send queue; a client that cannot keep
// up is disconnected rather than allowed to stall the trap loop.
type WebsocketSink struct {
	mu       sync.RWMutex
	clients  map[*wsClient]struct{}
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewWebsocketSink() *WebsocketSink {
	return &WebsocketSink{
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  wsReadBufferSize,
			WriteBufferSize: wsReadBufferSize,
			// The control-plane API fronts this endpoint; origin policy
			// is enforced there.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: logger.Component("ws-sink"),
	}
}

func (*WebsocketSink) Name() string { return "websocket" }

// ServeHTTP upgrades a dashboard connection and starts its writer.
func (s *WebsocketSink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, wsClientBacklog),
	}

	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	s.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("alert stream client connected")

	go s.writeLoop(client)
	go s.readLoop(client)
}

// Dispatch queues the batch for every connected client.
func (s *WebsocketSink) Dispatch(_ context.Context, batch []models.CanonicalAlert) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal alert batch: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for client := range s.clients {
		select {
		case client.send <- payload:
		default:
			// Queue full: the client is too slow, drop it instead of
			// stalling the trap loop.
			s.log.Warn().Str("remote", client.conn.RemoteAddr().String()).
				Msg("alert stream client lagging, closing")

			go s.removeClient(client)
		}
	}

	return nil
}

// CloseAll disconnects every client; used on shutdown.
func (s *WebsocketSink) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for client := range s.clients {
		_ = client.conn.Close()
		delete(s.clients, client)
	}
}

func (s *WebsocketSink) writeLoop(client *wsClient) {
	defer func() {
		_ = client.conn.Close()
	}()

	for payload := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))

		if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.removeClient(client)
			return
		}
	}
}

// readLoop drains and discards client frames so pings are answered and
// closes are noticed.
func (s *WebsocketSink) readLoop(client *wsClient) {
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			s.removeClient(client)
			return
		}
	}
}

func (s *WebsocketSink) removeClient(client *wsClient) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		close(client.send)
		_ = client.conn.Close()
	}
}
