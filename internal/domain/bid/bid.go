package bid

import (
	"time"

	"github.com/google/uuid"

	"github.com/jplsports/player-auction-backend/internal/domain/values"
)

// Bid is one team's standing offer for the player currently under the hammer.
// A team holds at most one retained bid per cycle; a later bid from the same
// team replaces the earlier one.
type Bid struct {
	ID       uuid.UUID    `json:"id"`
	PlayerID uuid.UUID    `json:"player_id"`
	TeamID   uuid.UUID    `json:"team_id"`
	TeamName string       `json:"team_name"`
	Amount   values.Money `json:"amount"`
	PlacedAt time.Time    `json:"placed_at"`
}

// NewBid creates a bid stamped at the given instant
func NewBid(playerID, teamID uuid.UUID, teamName string, amount values.Money, placedAt time.Time) *Bid {
	return &Bid{
		ID:       uuid.New(),
		PlayerID: playerID,
		TeamID:   teamID,
		TeamName: teamName,
		Amount:   amount,
		PlacedAt: placedAt,
	}
}
