package bid

import (
	"github.com/google/uuid"

	"github.com/jplsports/player-auction-backend/internal/domain/errors"
	"github.com/jplsports/player-auction-backend/internal/domain/values"
)

// Ledger holds the retained bids for one auction cycle, keyed by team.
// It is not safe for concurrent use; the auction coordinator serializes
// all access through its own critical section.
type Ledger struct {
	playerID  uuid.UUID
	basePrice values.Money
	increment values.Money
	byTeam    map[uuid.UUID]*Bid
}

// NewLedger creates an empty ledger bound to one lot's pricing rules
func NewLedger(playerID uuid.UUID, basePrice, increment values.Money) *Ledger {
	return &Ledger{
		playerID:  playerID,
		basePrice: basePrice,
		increment: increment,
		byTeam:    make(map[uuid.UUID]*Bid),
	}
}

// PlayerID returns the lot this ledger is bound to
func (l *Ledger) PlayerID() uuid.UUID {
	return l.playerID
}

// Len returns the number of retained bids (one per team)
func (l *Ledger) Len() int {
	return len(l.byTeam)
}

// MinRequired computes the smallest acceptable next bid:
// max(base price, highest + increment).
func (l *Ledger) MinRequired() values.Money {
	highest := l.Highest()
	if highest == nil {
		return l.basePrice
	}

	next, err := highest.Amount.Add(l.increment)
	if err != nil {
		// Ledger amounts share one currency; Accept rejects anything else.
		return l.basePrice
	}
	return l.basePrice.Max(next)
}

// Highest returns the retained bid with the greatest amount, ties broken by
// earliest placement. Nil when the ledger is empty.
func (l *Ledger) Highest() *Bid {
	var top *Bid
	for _, b := range l.byTeam {
		if top == nil {
			top = b
			continue
		}
		switch b.Amount.Compare(top.Amount) {
		case 1:
			top = b
		case 0:
			if b.PlacedAt.Before(top.PlacedAt) {
				top = b
			}
		}
	}
	return top
}

// Accept validates the bid against the ordering invariant and retains it,
// replacing any earlier bid from the same team.
func (l *Ledger) Accept(b *Bid) error {
	if b.PlayerID != l.playerID {
		return errors.NewValidationError("WRONG_LOT", "bid is not for the player under auction")
	}
	if b.Amount.Currency() != l.basePrice.Currency() {
		return errors.NewValidationError("CURRENCY_MISMATCH", "bid currency does not match lot currency")
	}

	min := l.MinRequired()
	if b.Amount.LessThan(min) {
		return errors.NewBidTooLowError(min.String())
	}

	l.byTeam[b.TeamID] = b
	return nil
}

// Bids returns the retained bids in no particular order
func (l *Ledger) Bids() []*Bid {
	out := make([]*Bid, 0, len(l.byTeam))
	for _, b := range l.byTeam {
		out = append(out, b)
	}
	return out
}

// Purge empties the ledger. Called only by the coordinator during
// settlement or reset, never implicitly.
func (l *Ledger) Purge() {
	l.byTeam = make(map[uuid.UUID]*Bid)
}
