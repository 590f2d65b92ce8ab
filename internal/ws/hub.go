package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/domain"
)

const (
	HandshakeTimeout = 5 * time.Second
	WriteTimeout     = 10 * time.Second
	PongTimeout      = 60 * time.Second
	PingInterval     = 30 * time.Second

	// EventInitialSnapshot is sent once right after a client connects.
	EventInitialSnapshot = "initial_snapshot"
	// EventTokenUpdate carries every subsequently refreshed generation.
	EventTokenUpdate = "token_update"

	clientSendBuffer = 8
)

// SnapshotFeed is the aggregator-side boundary the hub consumes: a
// subscription to refreshed generations plus the current one for late
// joiners.
type SnapshotFeed interface {
	Subscribe() (<-chan []domain.TokenRecord, func())
	Snapshot() []domain.TokenRecord
}

type message struct {
	Event string               `json:"event"`
	Data  []domain.TokenRecord `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan message
}

// Hub delivers the full refreshed generation to every connected websocket
// client. A client too slow to drain its buffer is disconnected rather than
// allowed to block the broadcast; delivery is at most once.
type Hub struct {
	feed     SnapshotFeed
	logger   *logrus.Entry
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub(feed SnapshotFeed, logger *logrus.Entry) *Hub {
	return &Hub{
		feed:   feed,
		logger: logger,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: HandshakeTimeout,
			CheckOrigin:      func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Run drains the snapshot feed and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	snapshots, cancel := h.feed.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case snapshot := <-snapshots:
			h.broadcast(message{Event: EventTokenUpdate, Data: snapshot})
		}
	}
}

// Serve upgrades an HTTP request and attaches the client to the feed.
func (h *Hub) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	cl := &client{
		conn: conn,
		send: make(chan message, clientSendBuffer),
	}
	cl.send <- message{Event: EventInitialSnapshot, Data: h.feed.Snapshot()}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	h.logger.WithField("remote", conn.RemoteAddr().String()).Info("Client connected")

	go h.writePump(cl)
	go h.readPump(cl)
}

func (h *Hub) broadcast(msg message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for cl := range h.clients {
		select {
		case cl.send <- msg:
		default:
			// Slow client: drop it instead of stalling everyone else.
			delete(h.clients, cl)
			close(cl.send)
		}
	}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
	h.mu.Unlock()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(PingInterval)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			if !ok {
				cl.conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			cl.conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
			if err := cl.conn.WriteJSON(msg); err != nil {
				h.remove(cl)
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(cl)
				return
			}
		}
	}
}

// readPump discards inbound frames; it exists to notice closed connections
// and to keep the pong deadline fresh.
func (h *Hub) readPump(cl *client) {
	cl.conn.SetReadDeadline(time.Now().Add(PongTimeout))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(PongTimeout))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			h.remove(cl)
			return
		}
	}
}
