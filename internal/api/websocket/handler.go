package websocket

import (
	"net/http"

	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The auction stream is public read-only; any origin may observe.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests and attaches observers to the hub
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := NewClient(conn, hub)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
