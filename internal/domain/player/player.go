package player

import (
	"time"

	"github.com/google/uuid"

	"github.com/jplsports/player-auction-backend/internal/domain/values"
)

// Player is the lot put under the hammer. Owned by the catalog store;
// the auction core reads it and never mutates it mid-cycle.
type Player struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Nickname  string       `json:"nickname,omitempty"`
	Category  Category     `json:"category"`
	BasePrice values.Money `json:"base_price"`
	ImagePath string       `json:"image_path,omitempty"`
	Jersey    int          `json:"jersey,omitempty"`
	Sold      bool         `json:"sold"`
	CreatedAt time.Time    `json:"created_at"`
}

// Category classifies a player for filtered selection modes
type Category string

const (
	CategoryBatsman    Category = "Batsman"
	CategoryBowler     Category = "Bowler"
	CategoryAllRounder Category = "All-Rounder"
	CategoryKeeper     Category = "Wicket-Keeper"
)

// Valid reports whether the category is one of the known classifications
func (c Category) Valid() bool {
	switch c {
	case CategoryBatsman, CategoryBowler, CategoryAllRounder, CategoryKeeper:
		return true
	}
	return false
}
