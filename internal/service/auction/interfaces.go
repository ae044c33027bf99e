package auction

import (
	"context"

	"github.com/google/uuid"

	"github.com/jplsports/player-auction-backend/internal/domain/auction"
	"github.com/jplsports/player-auction-backend/internal/domain/player"
	"github.com/jplsports/player-auction-backend/internal/domain/team"
)

// CatalogStore is the durable catalog the coordinator validates against and
// settles into. Implementations must make RecordSettlement atomic: the
// history append, the winner's debit and the player's sold flag commit or
// fail as one unit.
type CatalogStore interface {
	// GetPlayer retrieves a lot by id
	GetPlayer(ctx context.Context, id uuid.UUID) (*player.Player, error)
	// PickPlayer selects a lot per the selection mode; returns
	// NO_ELIGIBLE_LOT when the criteria match nothing
	PickPlayer(ctx context.Context, sel auction.Selection) (*player.Player, error)
	// GetTeam retrieves a bidding party with its current purse
	GetTeam(ctx context.Context, id uuid.UUID) (*team.Team, error)
	// RecordSettlement applies one cycle's outcome as a single transaction
	RecordSettlement(ctx context.Context, rec auction.HistoryRecord) error
}

// Broadcaster receives structured events after each accepted transition.
// Publish must never block: the coordinator has already applied the
// transition and a slow or failed delivery must not roll it back.
type Broadcaster interface {
	Publish(event Event)
}

// SnapshotSink receives the authoritative snapshot after each transition so
// read paths never enter the coordinator's critical section.
type SnapshotSink interface {
	Store(ctx context.Context, snap Snapshot)
}
