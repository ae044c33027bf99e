package auction

import (
	"time"

	"github.com/google/uuid"

	"github.com/jplsports/player-auction-backend/internal/domain/bid"
	"github.com/jplsports/player-auction-backend/internal/domain/values"
)

// Outcome is the final disposition of one auction cycle
type Outcome string

const (
	OutcomeSold         Outcome = "sold"
	OutcomeUnsold       Outcome = "unsold"
	OutcomeForceCleared Outcome = "force_cleared"
)

// DirectSale is the administrator override at end(): an authoritative sale
// that bypasses the bid ledger.
type DirectSale struct {
	TeamID uuid.UUID    `json:"team_id"`
	Price  values.Money `json:"price"`
}

// Result is the settlement decision for one cycle
type Result struct {
	Outcome  Outcome
	WinnerID uuid.UUID
	WinName  string
	Price    values.Money
}

// Decide produces the settlement outcome from the ledger's highest bid and
// an optional admin override. Pure: application of the result (debit, history
// write, slot clearing) is the coordinator's job.
func Decide(highest *bid.Bid, override *DirectSale) Result {
	if override != nil {
		return Result{
			Outcome:  OutcomeSold,
			WinnerID: override.TeamID,
			Price:    override.Price,
		}
	}

	if highest == nil {
		return Result{Outcome: OutcomeUnsold}
	}

	return Result{
		Outcome:  OutcomeSold,
		WinnerID: highest.TeamID,
		WinName:  highest.TeamName,
		Price:    highest.Amount,
	}
}

// HistoryRecord is the immutable, append-only outcome of one cycle.
// Written exactly once per settlement, never mutated or deleted.
type HistoryRecord struct {
	ID       uuid.UUID    `json:"id"`
	PlayerID uuid.UUID    `json:"player_id"`
	Outcome  Outcome      `json:"outcome"`
	TeamID   *uuid.UUID   `json:"team_id,omitempty"`
	Price    values.Money `json:"price,omitempty"`
	EndedAt  time.Time    `json:"ended_at"`
}

// NewHistoryRecord builds the record for a settled cycle
func NewHistoryRecord(playerID uuid.UUID, r Result, endedAt time.Time) HistoryRecord {
	rec := HistoryRecord{
		ID:       uuid.New(),
		PlayerID: playerID,
		Outcome:  r.Outcome,
		EndedAt:  endedAt,
	}

	if r.Outcome == OutcomeSold {
		winnerID := r.WinnerID
		rec.TeamID = &winnerID
		rec.Price = r.Price
	}

	return rec
}
