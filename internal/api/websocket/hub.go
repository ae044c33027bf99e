package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jplsports/player-auction-backend/internal/metrics"
	svcauction "github.com/jplsports/player-auction-backend/internal/service/auction"
)

// SnapshotProvider supplies the current auction state for late joiners
type SnapshotProvider func() svcauction.Snapshot

// Hub fans auction events out to every connected observer. It implements the
// coordinator's Broadcaster: Publish enqueues and never blocks, so a slow
// observer can only lose its own connection, never stall the auction.
type Hub struct {
	logger    *zap.Logger
	snapshot  SnapshotProvider
	registry  *metrics.Registry
	clients   map[uuid.UUID]*Client
	clientsMu sync.RWMutex

	broadcast  chan svcauction.Event
	register   chan *Client
	unregister chan *Client
}

// NewHub creates the broadcast hub. The snapshot provider may be nil; then
// new observers receive no catch-up message.
func NewHub(logger *zap.Logger, snapshot SnapshotProvider, registry *metrics.Registry) *Hub {
	return &Hub{
		logger:     logger,
		snapshot:   snapshot,
		registry:   registry,
		clients:    make(map[uuid.UUID]*Client),
		broadcast:  make(chan svcauction.Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Publish enqueues one event for delivery to all observers. Never blocks;
// when the queue is full the event is dropped and the next snapshot message
// catches observers back up.
func (h *Hub) Publish(event svcauction.Event) {
	select {
	case h.broadcast <- event:
		if h.registry != nil {
			h.registry.EventsPublished.WithLabelValues(string(event.Type)).Inc()
		}
	default:
		h.logger.Warn("broadcast queue full, dropping event",
			zap.String("type", string(event.Type)))
	}
}

// Run drives the hub until the context is cancelled
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case event := <-h.broadcast:
			h.broadcastEvent(event)
		case <-ticker.C:
			h.pingClients()
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMu.Lock()
	h.clients[client.ID] = client
	count := len(h.clients)
	h.clientsMu.Unlock()

	if h.registry != nil {
		h.registry.ObserversConnected.Set(float64(count))
	}
	h.logger.Info("observer connected",
		zap.String("client_id", client.ID.String()),
		zap.Int("observers", count))

	// Catch the late joiner up with the live state.
	if h.snapshot != nil {
		snap := h.snapshot()
		select {
		case client.send <- svcauction.Event{Type: "auction_update", At: time.Now(), Payload: snap}:
		default:
		}
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, exists := h.clients[client.ID]; !exists {
		return
	}
	delete(h.clients, client.ID)
	close(client.send)

	if h.registry != nil {
		h.registry.ObserversConnected.Set(float64(len(h.clients)))
	}
	h.logger.Info("observer disconnected",
		zap.String("client_id", client.ID.String()))
}

func (h *Hub) broadcastEvent(event svcauction.Event) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- event:
		default:
			h.logger.Warn("observer send queue full, closing connection",
				zap.String("client_id", client.ID.String()))
			go func(c *Client) {
				h.unregister <- c
			}(client)
		}
	}
}

func (h *Hub) pingClients() {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for _, client := range h.clients {
		if err := client.conn.WriteControl(
			ws.PingMessage,
			nil,
			time.Now().Add(10*time.Second),
		); err != nil {
			go func(c *Client) {
				h.unregister <- c
			}(client)
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for _, client := range h.clients {
		close(client.send)
		client.conn.Close()
	}
	h.clients = make(map[uuid.UUID]*Client)
	if h.registry != nil {
		h.registry.ObserversConnected.Set(0)
	}
}
