package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	svcauction "github.com/jplsports/player-auction-backend/internal/service/auction"
)

type wireEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dialTestHub(t *testing.T, hub *Hub) *ws.Conn {
	t.Helper()

	srv := httptest.NewServer(Handler(hub))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func TestHubDeliversEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshot := func() svcauction.Snapshot {
		return svcauction.Snapshot{State: "active", RemainingSeconds: 300}
	}
	hub := NewHub(zap.NewNop(), snapshot, nil)
	go hub.Run(ctx)

	conn := dialTestHub(t, hub)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	// First frame is the catch-up snapshot.
	var catchUp wireEvent
	require.NoError(t, conn.ReadJSON(&catchUp))
	assert.Equal(t, "auction_update", catchUp.Type)

	var snap svcauction.Snapshot
	require.NoError(t, json.Unmarshal(catchUp.Payload, &snap))
	assert.Equal(t, "active", snap.State)
	assert.Equal(t, 300, snap.RemainingSeconds)

	hub.Publish(svcauction.Event{
		Type:    svcauction.EventTimerUpdate,
		At:      time.Now(),
		Payload: svcauction.TimerPayload{RemainingSeconds: 299},
	})

	var evt wireEvent
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, "timer_update", evt.Type)
}

func TestHubPublishNeverBlocks(t *testing.T) {
	// No Run loop: the queue fills and further publishes must drop, not hang.
	hub := NewHub(zap.NewNop(), nil, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			hub.Publish(svcauction.Event{Type: svcauction.EventTimerUpdate})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

func TestHubFansOutToAllObservers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zap.NewNop(), nil, nil)
	go hub.Run(ctx)

	first := dialTestHub(t, hub)
	second := dialTestHub(t, hub)

	// Give registration a moment to land before broadcasting.
	require.Eventually(t, func() bool {
		hub.clientsMu.RLock()
		defer hub.clientsMu.RUnlock()
		return len(hub.clients) == 2
	}, 2*time.Second, 10*time.Millisecond)

	hub.Publish(svcauction.Event{Type: svcauction.EventAuctionPaused, At: time.Now()})

	for _, conn := range []*ws.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var evt wireEvent
		require.NoError(t, conn.ReadJSON(&evt))
		assert.Equal(t, "auction_paused", evt.Type)
	}
}
