package auction

import (
	"time"

	"github.com/google/uuid"

	"github.com/jplsports/player-auction-backend/internal/domain/player"
)

// State is the lifecycle of the single active-auction slot
type State int

const (
	StateIdle State = iota
	StateActive
	StatePaused
	StateSettling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// SelectionMode determines how start picks the next lot
type SelectionMode string

const (
	// ModeManual auctions an explicitly chosen player
	ModeManual SelectionMode = "manual"
	// ModeRandom picks uniformly among players never sold
	ModeRandom SelectionMode = "random"
	// ModeUnsold picks uniformly among players previously passed in
	ModeUnsold SelectionMode = "unsold"
	// ModeCategory picks uniformly among unsold players of one category
	ModeCategory SelectionMode = "category"
)

// Valid reports whether the mode is one of the supported selections
func (m SelectionMode) Valid() bool {
	switch m {
	case ModeManual, ModeRandom, ModeUnsold, ModeCategory:
		return true
	}
	return false
}

// Selection is the start command's lot choice
type Selection struct {
	Mode     SelectionMode   `json:"mode"`
	PlayerID uuid.UUID       `json:"player_id,omitempty"`
	Category player.Category `json:"category,omitempty"`
}

// ActiveAuction is the one mutable slot describing what is under the hammer.
// At most one instance exists process-wide; the coordinator is its sole owner
// and every mutation happens inside the coordinator's critical section.
type ActiveAuction struct {
	CycleID   uuid.UUID
	Player    *player.Player
	Mode      SelectionMode
	State     State
	StartedAt time.Time
	Deadline  time.Time
	Duration  time.Duration

	// frozen holds the remaining time captured at pause; meaningful only
	// while State == StatePaused.
	frozen time.Duration
}

// NewActiveAuction arms a fresh cycle for the given lot
func NewActiveAuction(p *player.Player, mode SelectionMode, now time.Time, duration time.Duration) *ActiveAuction {
	return &ActiveAuction{
		CycleID:   uuid.New(),
		Player:    p,
		Mode:      mode,
		State:     StateActive,
		StartedAt: now,
		Deadline:  now.Add(duration),
		Duration:  duration,
	}
}

// Remaining returns the time left on the clock. While paused the value is
// pinned to the duration frozen at pause time.
func (a *ActiveAuction) Remaining(now time.Time) time.Duration {
	if a.State == StatePaused {
		return a.frozen
	}
	remaining := a.Deadline.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the clock has run out while the auction is live
func (a *ActiveAuction) Expired(now time.Time) bool {
	return a.State == StateActive && !now.Before(a.Deadline)
}

// Pause freezes the remaining duration and moves to Paused
func (a *ActiveAuction) Pause(now time.Time) {
	a.frozen = a.Remaining(now)
	a.State = StatePaused
}

// Resume re-anchors the deadline from the frozen remainder and moves to Active
func (a *ActiveAuction) Resume(now time.Time) {
	a.Deadline = now.Add(a.frozen)
	a.frozen = 0
	a.State = StateActive
}
