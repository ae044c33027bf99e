package websocket

import (
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	svcauction "github.com/jplsports/player-auction-backend/internal/service/auction"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
)

// Client is one connected observer
type Client struct {
	ID   uuid.UUID
	conn *ws.Conn
	send chan svcauction.Event
	hub  *Hub
}

// NewClient wraps an upgraded connection
func NewClient(conn *ws.Conn, hub *Hub) *Client {
	return &Client{
		ID:   uuid.New(),
		conn: conn,
		send: make(chan svcauction.Event, 32),
		hub:  hub,
	}
}

// ReadPump consumes inbound frames. Observers send nothing meaningful; the
// pump exists to process pongs and detect closure.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseAbnormalClosure) {
				c.hub.logger.Debug("observer read error",
					zap.String("client_id", c.ID.String()),
					zap.Error(err))
			}
			return
		}
	}
}

// WritePump delivers queued events and keepalive pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(ws.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(ws.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
