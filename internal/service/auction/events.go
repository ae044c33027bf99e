package auction

import (
	"time"

	"github.com/google/uuid"

	"github.com/jplsports/player-auction-backend/internal/domain/auction"
	"github.com/jplsports/player-auction-backend/internal/domain/bid"
	"github.com/jplsports/player-auction-backend/internal/domain/player"
	"github.com/jplsports/player-auction-backend/internal/domain/values"
)

// EventType names the broadcast contract. Observers key off these strings.
type EventType string

const (
	EventAuctionStarted   EventType = "auction_started"
	EventAuctionUpdate    EventType = "auction_update"
	EventTimerUpdate      EventType = "timer_update"
	EventAuctionPaused    EventType = "auction_paused"
	EventAuctionResumed   EventType = "auction_resumed"
	EventAuctionCancelled EventType = "auction_cancelled"
	EventAuctionEnded     EventType = "auction_ended"
	EventBidPlaced        EventType = "bid_placed"
)

// Event is one structured broadcast record
type Event struct {
	Type    EventType   `json:"type"`
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload"`
}

// StartedPayload announces a newly armed cycle
type StartedPayload struct {
	PlayerID   uuid.UUID             `json:"player_id"`
	PlayerName string                `json:"player_name"`
	Mode       auction.SelectionMode `json:"mode"`
	Duration   int                   `json:"duration_seconds"`
}

// UpdatePayload carries the lot and the current highest bid
type UpdatePayload struct {
	Player     *player.Player `json:"player"`
	HighestBid *bid.Bid       `json:"highest_bid,omitempty"`
	BidCount   int            `json:"bid_count"`
}

// TimerPayload carries the seconds left on the clock
type TimerPayload struct {
	RemainingSeconds int `json:"remaining_seconds"`
}

// BidPlacedPayload announces an accepted bid
type BidPlacedPayload struct {
	TeamID   uuid.UUID    `json:"team_id"`
	TeamName string       `json:"team_name"`
	Amount   values.Money `json:"amount"`
}

// CancelledPayload announces an administrator abort
type CancelledPayload struct {
	PlayerID uuid.UUID `json:"player_id"`
}

// EndedPayload announces a settled cycle
type EndedPayload struct {
	PlayerID uuid.UUID       `json:"player_id"`
	Outcome  auction.Outcome `json:"outcome"`
	TeamID   *uuid.UUID      `json:"team_id,omitempty"`
	TeamName string          `json:"team_name,omitempty"`
	Price    *values.Money   `json:"price,omitempty"`
}
