package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
	"github.com/AliCapone21/nonkabob-guliston/pkg/metrics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans feed events out to connected dashboard sockets. Each event
// is a refetch notice; the dashboard reloads the full order list on
// receipt, so duplicate notices are harmless.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	logg  *logger.Logger
	stats *metrics.OrderMetrics
}

// NewHub builds an empty hub.
func NewHub(logg *logger.Logger, stats *metrics.OrderMetrics) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		logg:    logg,
		stats:   stats,
	}
}

// Run pumps feed events to clients until the context is cancelled.
func (h *Hub) Run(ctx context.Context, feed Feed) error {
	events, err := feed.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for event := range events {
			h.Broadcast(event)
		}
	}()
	return nil
}

// ServeHTTP upgrades the connection and holds it open until the client
// goes away. Inbound frames are drained and ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logg != nil {
			h.logg.Warn(r.Context(), "websocket upgrade failed")
		}
		return
	}
	defer conn.Close()

	h.register(conn)
	defer h.unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast writes the event to every connected client, dropping the
// ones whose sockets fail.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(h.clients, conn)
			conn.Close()
			h.stats.WSClientDisconnected()
		}
	}
}

// ClientCount reports the number of live sockets.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	h.stats.WSClientConnected()
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		h.stats.WSClientDisconnected()
	}
}
