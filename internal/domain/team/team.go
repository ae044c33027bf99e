package team

import (
	"time"

	"github.com/google/uuid"

	"github.com/jplsports/player-auction-backend/internal/domain/errors"
	"github.com/jplsports/player-auction-backend/internal/domain/values"
)

// Team is a bidding party. The auction core reads Budget for validation and
// issues exactly one debit per sale; every other attribute belongs to the
// catalog CRUD surface.
type Team struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Owner     string       `json:"owner,omitempty"`
	Budget    values.Money `json:"budget"`
	ImagePath string       `json:"image_path,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// CanAfford reports whether the remaining purse covers the amount
func (t *Team) CanAfford(amount values.Money) bool {
	return t.Budget.Compare(amount) >= 0
}

// Debit reduces the purse by amount. Lenient settlement allows the purse to
// go negative (the balance may have changed between bid and settlement);
// strict callers must check CanAfford first.
func (t *Team) Debit(amount values.Money) error {
	if amount.IsNegative() {
		return errors.NewValidationError("INVALID_DEBIT", "debit amount cannot be negative")
	}

	remaining, err := t.Budget.Sub(amount)
	if err != nil {
		return errors.NewValidationError("CURRENCY_MISMATCH", err.Error())
	}

	t.Budget = remaining
	t.UpdatedAt = time.Now()
	return nil
}
