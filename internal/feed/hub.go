package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/todolist/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024

	// Send buffer size per subscriber
	sendBufferSize = 64
)

// subscriber is one websocket connection on the hub
type subscriber struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans change events out to every connected websocket subscriber
type Hub struct {
	upgrader websocket.Upgrader

	register   chan *subscriber
	unregister chan *subscriber
	broadcast  chan []byte
	done       chan struct{}

	mu          sync.RWMutex
	subscribers map[*subscriber]bool
	sent        uint64
	dropped     uint64
}

// NewHub creates a hub. Call Run to start it.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The feed is read-only and unauthenticated like the collection itself
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		// Unbuffered so a registration can only land while Run is receiving
		register:    make(chan *subscriber),
		unregister:  make(chan *subscriber, 16),
		broadcast:   make(chan []byte, 256),
		done:        make(chan struct{}),
		subscribers: make(map[*subscriber]bool),
	}
}

// Run processes registrations and broadcasts until ctx is done,
// then closes every subscriber.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case s := <-h.register:
			h.mu.Lock()
			h.subscribers[s] = true
			n := len(h.subscribers)
			h.mu.Unlock()
			logging.Info("Feed subscriber registered",
				zap.String("subscriber_id", s.id),
				zap.Int("subscribers", n),
			)

		case s := <-h.unregister:
			h.remove(s)

		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

// Publish queues an event for every subscriber. It never blocks; when the
// broadcast queue is full the event is dropped.
func (h *Hub) Publish(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		logging.Error("Failed to encode feed event", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.mu.Lock()
		h.dropped++
		h.mu.Unlock()
		logging.Warn("Feed broadcast queue full, event dropped", zap.String("event", e.String()))
	}
}

// Subscribers returns the number of connected subscribers
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Stats returns how many frames were queued to subscribers and how many were dropped
func (h *Hub) Stats() (sent uint64, dropped uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sent, h.dropped
}

// ServeHTTP upgrades the request to a websocket and registers it
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("Failed to upgrade feed connection",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	s := &subscriber{
		id:   uuid.New().String(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	logging.LogConnection(r.RemoteAddr, "feed_connected")

	select {
	case h.register <- s:
	case <-h.done:
		_ = conn.Close()
		return
	}
	go s.writePump()
	go s.readPump()
}

func (h *Hub) fanOut(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subscribers {
		select {
		case s.send <- message:
			h.sent++
		default:
			// Slow subscriber: drop it rather than stall the hub
			h.dropped++
			delete(h.subscribers, s)
			close(s.send)
			logging.Warn("Dropping slow feed subscriber", zap.String("subscriber_id", s.id))
		}
	}
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[s]; ok {
		delete(h.subscribers, s)
		close(s.send)
		logging.Info("Feed subscriber unregistered",
			zap.String("subscriber_id", s.id),
			zap.Int("subscribers", len(h.subscribers)),
		)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subscribers {
		delete(h.subscribers, s)
		close(s.send)
	}
}

// readPump discards client frames and keeps the read deadline fresh.
// It unregisters the subscriber when the connection ends.
func (s *subscriber) readPump() {
	defer func() {
		select {
		case s.hub.unregister <- s:
		case <-s.hub.done:
		}
		_ = s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug("Feed read error", zap.String("subscriber_id", s.id), zap.Error(err))
			}
			return
		}
	}
}

// writePump writes queued frames and periodic pings
func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				_ = s.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logging.Debug("Feed write failed", zap.String("subscriber_id", s.id), zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
